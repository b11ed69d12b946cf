package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// UsageUnit labels the counter an equipment accumulates usage in.
type UsageUnit string

const (
	UnitHours    UsageUnit = "horas"
	UnitDistance UsageUnit = "km"
)

// Equipment represents a fleet machine. Records are owned by the external
// fleet administration; this service only reads them.
type Equipment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Ficha         string             `bson:"ficha" json:"ficha"` // unique asset tag
	Marca         string             `bson:"marca" json:"marca"`
	Modelo        string             `bson:"modelo" json:"modelo"`
	Categoria     string             `bson:"categoria" json:"categoria"` // "Excavadora", "Grúa", ...
	HorasActuales float64            `bson:"horas_actuales" json:"horas_actuales"`
	UnidadUso     UsageUnit          `bson:"unidad_uso" json:"unidad_uso"`
	Status        string             `bson:"status" json:"status"` // "active" or "inactive"
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// AlertLevel classifies how close a service is to being due.
type AlertLevel string

const (
	AlertNormal  AlertLevel = "normal"
	AlertProximo AlertLevel = "proximo"
	AlertUrgente AlertLevel = "urgente"
	AlertVencido AlertLevel = "vencido"
)

// PlanningRecord is one persisted entry of a projected maintenance route.
// Each record is independent: persisting a route issues one write per entry
// with no transactional grouping.
type PlanningRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecordID      string             `bson:"record_id" json:"record_id"`
	FichaEquipo   string             `bson:"ficha_equipo" json:"ficha_equipo"`
	PlanID        string             `bson:"plan_id,omitempty" json:"plan_id,omitempty"`
	Secuencia     int                `bson:"secuencia" json:"secuencia"`
	Codigo        string             `bson:"codigo" json:"codigo"`
	Nombre        string             `bson:"nombre" json:"nombre"`
	HorasObjetivo float64            `bson:"horas_objetivo" json:"horas_objetivo"`
	HorasRestante float64            `bson:"horas_restante" json:"horas_restante"`
	Ciclo         int                `bson:"ciclo" json:"ciclo"`
	KitID         string             `bson:"kit_id,omitempty" json:"kit_id,omitempty"`
	KitNombre     string             `bson:"kit_nombre,omitempty" json:"kit_nombre,omitempty"`
	Tareas        []string           `bson:"tareas,omitempty" json:"tareas,omitempty"`
	Responsable   string             `bson:"responsable,omitempty" json:"responsable,omitempty"`
	UmbralAlerta  float64            `bson:"umbral_alerta,omitempty" json:"umbral_alerta,omitempty"`
	EsOverride    bool               `bson:"es_override" json:"es_override"`
	Status        string             `bson:"status" json:"status"` // "scheduled", "completed", "cancelled"
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// KitLink associates one maintenance interval with a parts kit.
type KitLink struct {
	KitID   string `bson:"kit_id" json:"kit_id"`
	KitName string `bson:"kit_name" json:"kit_name"`
}

// Interval is one service tier inside a maintenance plan. HorasIntervalo is
// the usage threshold measured from the start of the cycle; Orden is the plan
// author's declared visitation order, which may differ from threshold order.
type Interval struct {
	Codigo         string    `bson:"codigo" json:"codigo"` // "PM1".."PM4"
	Nombre         string    `bson:"nombre" json:"nombre"`
	HorasIntervalo float64   `bson:"horas_intervalo" json:"horas_intervalo"`
	Orden          int       `bson:"orden" json:"orden"`
	Descripcion    string    `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Tareas         []string  `bson:"tareas,omitempty" json:"tareas,omitempty"`
	Kits           []KitLink `bson:"kits,omitempty" json:"kits,omitempty"`
}

// MaintenancePlan groups the recurring service intervals for a brand/model/
// category. A plan with zero intervals is treated as absent by resolution.
type MaintenancePlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID     string             `bson:"plan_id" json:"plan_id"`
	Marca      string             `bson:"marca" json:"marca"`
	Modelo     string             `bson:"modelo,omitempty" json:"modelo,omitempty"`
	Categoria  string             `bson:"categoria" json:"categoria"`
	Activo     bool               `bson:"activo" json:"activo"`
	Intervalos []Interval         `bson:"intervalos" json:"intervalos"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// CycleLength returns the size of one full service cycle: the largest
// interval threshold. Zero when the plan has no intervals.
func (p *MaintenancePlan) CycleLength() float64 {
	var max float64
	for _, iv := range p.Intervalos {
		if iv.HorasIntervalo > max {
			max = iv.HorasIntervalo
		}
	}
	return max
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Override pins one equipment to a plan chosen by hand, superseding automatic
// scoring. At most one active override per ficha is authoritative; inactive
// ones remain as an audit trail and are never deleted.
type Override struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OverrideID     string             `bson:"override_id" json:"override_id"`
	FichaEquipo    string             `bson:"ficha_equipo" json:"ficha_equipo"`
	PlanOriginalID string             `bson:"plan_original_id,omitempty" json:"plan_original_id,omitempty"`
	PlanForzadoID  string             `bson:"plan_forzado_id" json:"plan_forzado_id"`
	Motivo         string             `bson:"motivo" json:"motivo"`
	Autor          string             `bson:"autor" json:"autor"`
	Activo         bool               `bson:"activo" json:"activo"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

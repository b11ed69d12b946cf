package db

import (
	"context"

	"github.com/flotasur/fleet-maintenance/internal/models"
)

// EquipmentCollection defines the read-only snapshot operations for
// equipment records. Equipment is owned by the external fleet
// administration.
type EquipmentCollection interface {
	FindEquipmentByFicha(ctx context.Context, ficha string) (*models.Equipment, error)
	FindEquipment(ctx context.Context) ([]models.Equipment, error)
}

// PlanCollection defines the read-only snapshot operations for maintenance
// plan definitions.
type PlanCollection interface {
	FindActivePlans(ctx context.Context) ([]models.MaintenancePlan, error)
	FindPlanByID(ctx context.Context, planID string) (*models.MaintenancePlan, error)
}

// OverrideCollection defines the operations on manual plan overrides.
// Overrides are deactivated, never deleted, when reverting to automatic
// suggestion; DeleteOverride exists only to roll back a failed apply.
type OverrideCollection interface {
	InsertOverride(ctx context.Context, override models.Override) error
	FindOverridesByFicha(ctx context.Context, ficha string) ([]models.Override, error)
	FindActiveOverrides(ctx context.Context) ([]models.Override, error)
	DeactivateOverrides(ctx context.Context, ficha string) (int64, error)
	ReactivateOverride(ctx context.Context, overrideID string) error
	DeleteOverride(ctx context.Context, overrideID string) error
}

// PlanningCollection defines the write operations for persisted schedule
// entries. Each record is an independent write; there is no transactional
// grouping across a route.
type PlanningCollection interface {
	InsertPlanningRecord(ctx context.Context, record models.PlanningRecord) error
	FindPlanningByFicha(ctx context.Context, ficha string) ([]models.PlanningRecord, error)
}

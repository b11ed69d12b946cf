// Package planner persists projected maintenance routes. Entries are
// independent records: one write each, at-least-once, non-atomic. A partial
// failure leaves the succeeded prefix in place and reports the failed subset
// so callers can retry just that.
package planner

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/flotasur/fleet-maintenance/internal/db"
	"github.com/flotasur/fleet-maintenance/internal/models"
	"github.com/flotasur/fleet-maintenance/internal/predictive"
)

// Meta carries the operator-supplied fields stamped on every persisted
// entry of one route.
type Meta struct {
	Responsable  string  `json:"responsable"`
	UmbralAlerta float64 `json:"umbral_alerta"`
	EsOverride   bool    `json:"es_override"`
}

// FailedEntry pairs a record that could not be written with the error it
// failed on, ready for retry.
type FailedEntry struct {
	Record models.PlanningRecord `json:"record"`
	Error  string                `json:"error"`
}

// Result reports the per-entry outcomes of one batch. Succeeded+len(Failed)
// always equals Total; there is no rollback.
type Result struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    []FailedEntry `json:"failed,omitempty"`
}

// buildRecord copies one projected entry into a standalone planning record.
func buildRecord(ficha, planID string, entry predictive.RouteEntry, meta Meta) models.PlanningRecord {
	return models.PlanningRecord{
		RecordID:      uuid.NewString(),
		FichaEquipo:   ficha,
		PlanID:        planID,
		Secuencia:     entry.Secuencia,
		Codigo:        entry.Codigo,
		Nombre:        entry.Nombre,
		HorasObjetivo: entry.HorasObjetivo,
		HorasRestante: entry.HorasRestante,
		Ciclo:         entry.Ciclo,
		KitID:         entry.KitID,
		KitNombre:     entry.KitNombre,
		Tareas:        entry.Tareas,
		Responsable:   meta.Responsable,
		UmbralAlerta:  meta.UmbralAlerta,
		EsOverride:    meta.EsOverride,
		Status:        "scheduled",
	}
}

// PersistRoute writes one planning record per projected entry. A failed
// write never aborts the remaining ones.
func PersistRoute(ctx context.Context, coll db.PlanningCollection, ficha, planID string, entries []predictive.RouteEntry, meta Meta) Result {
	result := Result{Total: len(entries)}
	for _, entry := range entries {
		record := buildRecord(ficha, planID, entry, meta)
		if err := coll.InsertPlanningRecord(ctx, record); err != nil {
			result.Failed = append(result.Failed, FailedEntry{Record: record, Error: err.Error()})
			log.WithFields(log.Fields{
				"ficha":     ficha,
				"secuencia": record.Secuencia,
			}).WithError(err).Warn("Failed to persist planning record")
			continue
		}
		result.Succeeded++
	}
	log.WithFields(log.Fields{
		"ficha":     ficha,
		"total":     result.Total,
		"succeeded": result.Succeeded,
		"failed":    len(result.Failed),
	}).Info("Persisted predictive route")
	return result
}

// RetryFailed re-attempts only the failed subset of a previous batch,
// keeping the original record ids so retries stay idempotent for readers
// that key on record_id.
func RetryFailed(ctx context.Context, coll db.PlanningCollection, prior Result) Result {
	result := Result{Total: len(prior.Failed)}
	for _, failed := range prior.Failed {
		if err := coll.InsertPlanningRecord(ctx, failed.Record); err != nil {
			result.Failed = append(result.Failed, FailedEntry{Record: failed.Record, Error: err.Error()})
			continue
		}
		result.Succeeded++
	}
	return result
}

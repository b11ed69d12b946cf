// Package overrides mutates the manual plan assignments for equipments.
// Every mutation runs an explicit two-phase protocol: apply, then confirm or
// roll back to the last known-good snapshot. Overrides are deactivated, never
// deleted, when reverting; history stays as an audit trail.
package overrides

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	log "github.com/sirupsen/logrus"

	"github.com/flotasur/fleet-maintenance/internal/db"
	"github.com/flotasur/fleet-maintenance/internal/models"
)

var (
	ErrPlanNotFound     = errors.New("forced plan not found")
	ErrNoActiveOverride = errors.New("no active override for equipment")
)

// Mutation states and events of the two-phase apply protocol.
const (
	StatePending    = "pending"
	StateConfirmed  = "confirmed"
	StateRolledBack = "rolled_back"

	EventConfirm  = "event_confirm"
	EventRollback = "event_rollback"
)

// SuggestionCache is the slice of the predictive memo cache the override
// service needs: dropping stale suggestions after a confirmed mutation.
type SuggestionCache interface {
	Invalidate(ficha string)
}

// Service owns override mutations. Reads for plan resolution go straight to
// the collection; only writes pass through here.
type Service struct {
	overrides db.OverrideCollection
	plans     db.PlanCollection
	cache     SuggestionCache
}

// NewService creates an override service. cache may be nil.
func NewService(overrides db.OverrideCollection, plans db.PlanCollection, cache SuggestionCache) *Service {
	return &Service{overrides: overrides, plans: plans, cache: cache}
}

// newMutationFSM builds the per-mutation state machine. Side effects hang on
// the state-entry callbacks, mirroring how the transition outcome is the only
// thing that decides whether the rollback runs.
func newMutationFSM(onConfirm, onRollback func(ctx context.Context) error) *fsm.FSM {
	return fsm.NewFSM(
		StatePending,
		fsm.Events{
			{Name: EventConfirm, Src: []string{StatePending}, Dst: StateConfirmed},
			{Name: EventRollback, Src: []string{StatePending}, Dst: StateRolledBack},
		},
		fsm.Callbacks{
			"enter_" + StateConfirmed: func(ctx context.Context, e *fsm.Event) {
				if err := onConfirm(ctx); err != nil {
					e.Err = err
				}
			},
			"enter_" + StateRolledBack: func(ctx context.Context, e *fsm.Event) {
				if err := onRollback(ctx); err != nil {
					e.Err = err
				}
			},
		},
	)
}

// Create pins an equipment to a plan by hand. The forced plan must exist;
// prior active overrides are deactivated and restored if the insert fails.
func (s *Service) Create(ctx context.Context, ficha, planForzadoID, planOriginalID, motivo, autor string) (*models.Override, error) {
	if _, err := s.plans.FindPlanByID(ctx, planForzadoID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planForzadoID)
	}

	// Snapshot the last known-good state before touching anything.
	prior, err := s.overrides.FindOverridesByFicha(ctx, ficha)
	if err != nil {
		return nil, fmt.Errorf("failed to read override history: %w", err)
	}
	var priorActive []string
	for _, ov := range prior {
		if ov.Activo {
			priorActive = append(priorActive, ov.OverrideID)
		}
	}

	override := models.Override{
		OverrideID:     uuid.NewString(),
		FichaEquipo:    ficha,
		PlanOriginalID: planOriginalID,
		PlanForzadoID:  planForzadoID,
		Motivo:         motivo,
		Autor:          autor,
		Activo:         true,
	}

	machine := newMutationFSM(
		func(ctx context.Context) error {
			if s.cache != nil {
				s.cache.Invalidate(ficha)
			}
			log.WithFields(log.Fields{
				"ficha":        ficha,
				"plan_forzado": planForzadoID,
				"autor":        autor,
			}).Info("Override confirmed")
			return nil
		},
		func(ctx context.Context) error {
			var restoreErr error
			for _, id := range priorActive {
				if err := s.overrides.ReactivateOverride(ctx, id); err != nil {
					restoreErr = err
				}
			}
			log.WithFields(log.Fields{
				"ficha":    ficha,
				"restored": len(priorActive),
			}).Warn("Override rolled back")
			return restoreErr
		},
	)

	// Pending phase: deactivate the prior actives, then insert the new one.
	applyErr := func() error {
		if _, err := s.overrides.DeactivateOverrides(ctx, ficha); err != nil {
			return fmt.Errorf("failed to deactivate prior overrides: %w", err)
		}
		if err := s.overrides.InsertOverride(ctx, override); err != nil {
			return fmt.Errorf("failed to insert override: %w", err)
		}
		return nil
	}()

	if applyErr != nil {
		if rbErr := machine.Event(ctx, EventRollback); rbErr != nil {
			log.WithField("ficha", ficha).WithError(rbErr).Error("Override rollback failed")
		}
		return nil, applyErr
	}

	if err := machine.Event(ctx, EventConfirm); err != nil {
		return nil, fmt.Errorf("failed to confirm override: %w", err)
	}
	override.CreatedAt = time.Now()
	return &override, nil
}

// Revert returns an equipment to automatic suggestion by deactivating its
// active override. The record stays in the collection as history.
func (s *Service) Revert(ctx context.Context, ficha string) error {
	n, err := s.overrides.DeactivateOverrides(ctx, ficha)
	if err != nil {
		return fmt.Errorf("failed to deactivate override: %w", err)
	}
	if n == 0 {
		return ErrNoActiveOverride
	}
	if s.cache != nil {
		s.cache.Invalidate(ficha)
	}
	log.WithFields(log.Fields{"ficha": ficha, "deactivated": n}).Info("Override reverted")
	return nil
}

// History returns every override recorded for an equipment, newest first.
func (s *Service) History(ctx context.Context, ficha string) ([]models.Override, error) {
	return s.overrides.FindOverridesByFicha(ctx, ficha)
}

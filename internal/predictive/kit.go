package predictive

import (
	"github.com/flotasur/fleet-maintenance/internal/catalog"
	"github.com/flotasur/fleet-maintenance/internal/models"
)

// RecommendKit resolves the parts kit for the next due interval. Plan-level
// kit links win; when the plan carries none, the brand catalog's kit for the
// same interval code is used, with catalog tasks supplementing (never
// overwriting) the plan-defined task list. Returns nil when no kit can be
// resolved at any level.
func RecommendKit(state CycleState, plan *models.MaintenancePlan, catalogs *catalog.Registry) *models.Kit {
	code := state.IntervaloSiguiente.Codigo
	if code == "" {
		return nil
	}

	var planInterval *models.Interval
	if plan != nil {
		for i := range plan.Intervalos {
			if plan.Intervalos[i].Codigo == code {
				planInterval = &plan.Intervalos[i]
				break
			}
		}
	}

	if planInterval != nil && len(planInterval.Kits) > 0 {
		link := planInterval.Kits[0]
		return &models.Kit{
			KitID:  link.KitID,
			Codigo: code,
			Nombre: link.KitName,
			Marca:  plan.Marca,
			Modelo: plan.Modelo,
			Tareas: append([]string(nil), planInterval.Tareas...),
		}
	}

	if catalogs == nil || plan == nil {
		return nil
	}
	kit := catalogs.Kit(plan.Marca, plan.Modelo, code)
	if kit == nil {
		return nil
	}

	var planTasks []string
	if planInterval != nil {
		planTasks = planInterval.Tareas
	}
	_, catalogIntervals := catalogs.Lookup(plan.Marca, plan.Modelo)
	var catalogTasks []string
	for _, iv := range catalogIntervals {
		if iv.Codigo == code {
			catalogTasks = iv.Tareas
			break
		}
	}
	kit.Tareas = mergeTasks(planTasks, kit.Tareas, catalogTasks)
	return kit
}

// mergeTasks concatenates task lists preserving order, dropping duplicates.
// Earlier lists take precedence.
func mergeTasks(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, task := range list {
			if task == "" || seen[task] {
				continue
			}
			seen[task] = true
			out = append(out, task)
		}
	}
	return out
}

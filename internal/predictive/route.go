package predictive

import (
	"sort"

	"github.com/flotasur/fleet-maintenance/internal/catalog"
	"github.com/flotasur/fleet-maintenance/internal/models"
)

// DefaultRouteLength is the number of upcoming services projected when the
// caller supplies no count.
const DefaultRouteLength = 8

// RouteEntry is one projected upcoming service. Targets are cumulative on
// top of the previous entry, so the sequence is strictly increasing.
type RouteEntry struct {
	Secuencia     int      `json:"secuencia"`
	Codigo        string   `json:"codigo"`
	Nombre        string   `json:"nombre"`
	HorasObjetivo float64  `json:"horas_objetivo"`
	HorasRestante float64  `json:"horas_restante"`
	Ciclo         int      `json:"ciclo"`
	KitID         string   `json:"kit_id,omitempty"`
	KitNombre     string   `json:"kit_nombre,omitempty"`
	Tareas        []string `json:"tareas,omitempty"`
}

// RouteCycle groups projected entries into one traversal of the plan's
// interval list. Completo is true only when the chunk holds the full list.
type RouteCycle struct {
	Ciclo    int          `json:"ciclo"`
	Entradas []RouteEntry `json:"entradas"`
	Completo bool         `json:"completo"`
}

// ProjectRoute produces the next count services for a plan, visiting the
// plan's intervals cyclically in their declared orden (not threshold order).
// Returns nil when the plan has no intervals or count is not positive.
func ProjectRoute(plan *models.MaintenancePlan, currentUsage float64, count int, catalogs *catalog.Registry) []RouteEntry {
	if plan == nil || len(plan.Intervalos) == 0 || count <= 0 {
		return nil
	}
	if currentUsage < 0 {
		currentUsage = 0
	}

	intervals := append([]models.Interval(nil), plan.Intervalos...)
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Orden < intervals[j].Orden
	})

	entries := make([]RouteEntry, 0, count)
	target := currentUsage
	for i := 0; i < count; i++ {
		iv := intervals[i%len(intervals)]
		target += iv.HorasIntervalo

		entry := RouteEntry{
			Secuencia:     i + 1,
			Codigo:        iv.Codigo,
			Nombre:        iv.Nombre,
			HorasObjetivo: target,
			HorasRestante: target - currentUsage,
			Ciclo:         i/len(intervals) + 1,
			Tareas:        append([]string(nil), iv.Tareas...),
		}
		if len(iv.Kits) > 0 {
			entry.KitID = iv.Kits[0].KitID
			entry.KitNombre = iv.Kits[0].KitName
		} else if catalogs != nil {
			if kit := catalogs.Kit(plan.Marca, plan.Modelo, iv.Codigo); kit != nil {
				entry.KitID = kit.KitID
				entry.KitNombre = kit.Nombre
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// GroupCycles partitions a projected route into chunks of one cycle each,
// matching the size of the plan's interval list.
func GroupCycles(entries []RouteEntry, intervalsPerCycle int) []RouteCycle {
	if intervalsPerCycle <= 0 || len(entries) == 0 {
		return nil
	}
	var cycles []RouteCycle
	for start := 0; start < len(entries); start += intervalsPerCycle {
		end := start + intervalsPerCycle
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[start:end]
		cycles = append(cycles, RouteCycle{
			Ciclo:    start/intervalsPerCycle + 1,
			Entradas: chunk,
			Completo: len(chunk) == intervalsPerCycle,
		})
	}
	return cycles
}

package predictive

import (
	"math"
	"sort"

	"github.com/flotasur/fleet-maintenance/internal/models"
)

// DefaultAlertThreshold is the usage-remaining margin below which a service
// is flagged, when the caller supplies none.
const DefaultAlertThreshold = 50

// CycleState describes where an equipment currently sits inside its
// recurring service cycle. Derived on demand, never persisted.
type CycleState struct {
	HorasActuales      float64            `json:"horas_actuales"`
	CicloActual        int                `json:"ciclo_actual"`
	LargoCiclo         float64            `json:"largo_ciclo"`
	PosicionCiclo      float64            `json:"posicion_ciclo"`
	IntervaloActual    *models.Interval   `json:"intervalo_actual,omitempty"`
	IntervaloSiguiente models.Interval    `json:"intervalo_siguiente"`
	HorasObjetivo      float64            `json:"horas_objetivo"`
	HorasRestante      float64            `json:"horas_restante"`
	HorasDesdeUltimo   float64            `json:"horas_desde_ultimo"`
	Historial          []models.Interval  `json:"historial"`
	PorcentajeCiclo    float64            `json:"porcentaje_ciclo"`
	Alerta             models.AlertLevel  `json:"alerta"`
}

// StandardIntervals returns the generic PM1..PM4 service tiers used whenever
// no plan or brand catalog applies to an equipment.
func StandardIntervals() []models.Interval {
	return []models.Interval{
		{
			Codigo: "PM1", Nombre: "Servicio PM1", HorasIntervalo: 250, Orden: 1,
			Tareas: []string{
				"Cambio de aceite de motor y filtro",
				"Inspección de niveles de fluidos",
				"Engrase de puntos de lubricación",
			},
		},
		{
			Codigo: "PM2", Nombre: "Servicio PM2", HorasIntervalo: 500, Orden: 2,
			Tareas: []string{
				"Tareas de PM1",
				"Cambio de filtro de combustible",
				"Cambio de filtro de aire primario",
				"Inspección de correas y mangueras",
			},
		},
		{
			Codigo: "PM3", Nombre: "Servicio PM3", HorasIntervalo: 1000, Orden: 3,
			Tareas: []string{
				"Tareas de PM2",
				"Cambio de aceite hidráulico y filtro",
				"Muestreo de aceite para análisis",
				"Calibración de válvulas",
			},
		},
		{
			Codigo: "PM4", Nombre: "Servicio PM4", HorasIntervalo: 2000, Orden: 4,
			Tareas: []string{
				"Tareas de PM3",
				"Cambio de refrigerante",
				"Cambio de aceite de mandos finales",
				"Inspección general de tren de rodaje",
			},
		},
	}
}

// AlertForRemaining is the single authoritative classification of how close
// a service is to being due. It applies both to the simulator's own
// forward-looking remaining values (always positive) and to externally
// supplied scheduled-maintenance records, whose remaining can go negative
// between refreshes.
func AlertForRemaining(remaining, threshold float64) models.AlertLevel {
	switch {
	case remaining <= 0:
		return models.AlertVencido
	case remaining <= threshold/2:
		return models.AlertUrgente
	case remaining <= threshold:
		return models.AlertProximo
	default:
		return models.AlertNormal
	}
}

// ComputeCycleState simulates the position of currentUsage inside the
// recurring cycle defined by intervals. An empty or invalid interval set
// degrades to StandardIntervals rather than failing.
func ComputeCycleState(currentUsage float64, intervals []models.Interval, alertThreshold float64) CycleState {
	if currentUsage < 0 {
		currentUsage = 0
	}
	if alertThreshold <= 0 {
		alertThreshold = DefaultAlertThreshold
	}

	sorted := sortedByThreshold(intervals)
	if len(sorted) == 0 {
		sorted = sortedByThreshold(StandardIntervals())
	}

	cycleLength := sorted[len(sorted)-1].HorasIntervalo
	position := math.Mod(currentUsage, cycleLength)
	cycle := int(math.Floor(currentUsage/cycleLength)) + 1

	// First interval strictly past the current position.
	nextIdx := -1
	for i, iv := range sorted {
		if iv.HorasIntervalo > position {
			nextIdx = i
			break
		}
	}

	var next models.Interval
	var target float64
	var current *models.Interval
	if nextIdx == -1 {
		// Past the last threshold: wrap to the first interval of the next
		// cycle. Unreachable while cycleLength equals the largest threshold,
		// kept for interval sets that violate that.
		next = sorted[0]
		target = cycleLength + next.HorasIntervalo
		last := sorted[len(sorted)-1]
		current = &last
	} else {
		next = sorted[nextIdx]
		target = next.HorasIntervalo
		if nextIdx > 0 {
			prev := sorted[nextIdx-1]
			current = &prev
		}
	}

	remaining := target - position
	sinceLast := position
	if current != nil {
		sinceLast = position - current.HorasIntervalo
	}

	history := make([]models.Interval, 0, len(sorted))
	for _, iv := range sorted {
		if iv.HorasIntervalo <= position {
			history = append(history, iv)
		}
	}

	return CycleState{
		HorasActuales:      currentUsage,
		CicloActual:        cycle,
		LargoCiclo:         cycleLength,
		PosicionCiclo:      position,
		IntervaloActual:    current,
		IntervaloSiguiente: next,
		HorasObjetivo:      currentUsage + remaining,
		HorasRestante:      remaining,
		HorasDesdeUltimo:   sinceLast,
		Historial:          history,
		PorcentajeCiclo:    position / cycleLength * 100,
		Alerta:             AlertForRemaining(remaining, alertThreshold),
	}
}

// sortedByThreshold returns a copy of intervals sorted ascending by
// threshold, dropping entries with non-positive thresholds.
func sortedByThreshold(intervals []models.Interval) []models.Interval {
	out := make([]models.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.HorasIntervalo > 0 {
			out = append(out, iv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HorasIntervalo < out[j].HorasIntervalo
	})
	return out
}

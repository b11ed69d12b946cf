package predictive

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/flotasur/fleet-maintenance/internal/catalog"
	"github.com/flotasur/fleet-maintenance/internal/models"
)

// Suggestion source tiers, in strict priority order.
const (
	SourceOverride = "override"
	SourcePlan     = "plan"
	SourceCatalogo = "catalogo"
	SourceEstandar = "estandar"
)

// Suggestion is the combined answer for one equipment: the next due
// interval, the plan it came from (nil when the generic cycle is in use),
// the recommended kit (nil when no parts guidance exists) and the full
// cycle state.
type Suggestion struct {
	Intervalo    models.Interval         `json:"intervalo"`
	Plan         *models.MaintenancePlan `json:"plan,omitempty"`
	Kit          *models.Kit             `json:"kit,omitempty"`
	Ciclo        CycleState              `json:"ciclo"`
	Fuente       string                  `json:"fuente"`
	IsOverride   bool                    `json:"is_override"`
	MatchScore   int                     `json:"match_score"`
	Rationale    string                  `json:"rationale"`
	Alternatives []ScoredPlan            `json:"alternatives,omitempty"`
}

// Engine composes the resolver, simulator, kit recommender and route
// projector over a catalog registry, memoizing suggestions per
// (ficha, plan, usage). All computation is pure; the engine only adds the
// cache and the fallback ordering:
// override > database plan > brand catalog > standard intervals.
type Engine struct {
	catalogs       *catalog.Registry
	alertThreshold float64
	cache          *Cache
}

// NewEngine builds an engine over the given catalog providers. A
// non-positive alertThreshold falls back to DefaultAlertThreshold.
func NewEngine(catalogs *catalog.Registry, alertThreshold float64) *Engine {
	if alertThreshold <= 0 {
		alertThreshold = DefaultAlertThreshold
	}
	if catalogs == nil {
		catalogs = catalog.NewRegistry()
	}
	return &Engine{
		catalogs:       catalogs,
		alertThreshold: alertThreshold,
		cache:          NewCache(),
	}
}

// Cache exposes the memo cache so override mutations can invalidate it.
func (e *Engine) Cache() *Cache { return e.cache }

// resolveTier picks the plan tier for an equipment: database resolution
// first (which itself honors overrides), then the brand catalogs as a
// synthetic plan, then nil for the generic standard cycle.
func (e *Engine) resolveTier(eq models.Equipment, plans []models.MaintenancePlan, overrides []models.Override) (Resolution, string) {
	res := ResolvePlan(eq, plans, overrides)
	if res.Plan != nil {
		if res.IsOverride {
			return res, SourceOverride
		}
		return res, SourcePlan
	}

	brand, intervals := e.catalogs.Lookup(eq.Marca, eq.Modelo)
	if len(intervals) > 0 {
		synthetic := models.MaintenancePlan{
			PlanID:     fmt.Sprintf("catalogo-%s", brand),
			Marca:      brand,
			Modelo:     eq.Modelo,
			Categoria:  eq.Categoria,
			Activo:     true,
			Intervalos: intervals,
		}
		return Resolution{
			Plan:      &synthetic,
			Rationale: fmt.Sprintf("catálogo de fábrica %s para modelo %s", brand, eq.Modelo),
		}, SourceCatalogo
	}

	return res, SourceEstandar
}

// SuggestNextService answers the next due interval, plan and kit for one
// equipment. Absence of a plan or kit is surfaced as data, never as an
// error.
func (e *Engine) SuggestNextService(eq models.Equipment, plans []models.MaintenancePlan, overrides []models.Override) Suggestion {
	res, source := e.resolveTier(eq, plans, overrides)

	planID := ""
	if res.Plan != nil {
		planID = res.Plan.PlanID
	}
	key := cacheKey{Ficha: eq.Ficha, PlanID: planID, Usage: eq.HorasActuales}
	if s, ok := e.cache.get(key); ok {
		return s
	}

	intervals := StandardIntervals()
	rationale := res.Rationale
	if res.Plan != nil {
		intervals = res.Plan.Intervalos
	} else if rationale != "" {
		rationale += "; ciclo genérico en uso"
	} else {
		rationale = "ciclo genérico en uso"
	}

	state := ComputeCycleState(eq.HorasActuales, intervals, e.alertThreshold)
	kit := RecommendKit(state, res.Plan, e.catalogs)

	s := Suggestion{
		Intervalo:    state.IntervaloSiguiente,
		Plan:         res.Plan,
		Kit:          kit,
		Ciclo:        state,
		Fuente:       source,
		IsOverride:   res.IsOverride,
		MatchScore:   res.MatchScore,
		Rationale:    rationale,
		Alternatives: res.Alternatives,
	}
	e.cache.put(key, s)

	log.WithFields(log.Fields{
		"ficha":  eq.Ficha,
		"fuente": source,
		"plan":   planID,
		"codigo": s.Intervalo.Codigo,
	}).Debug("Computed maintenance suggestion")
	return s
}

// CycleStateFor computes the cycle state for an equipment against its
// resolved plan tier.
func (e *Engine) CycleStateFor(eq models.Equipment, plans []models.MaintenancePlan, overrides []models.Override) CycleState {
	res, _ := e.resolveTier(eq, plans, overrides)
	intervals := StandardIntervals()
	if res.Plan != nil {
		intervals = res.Plan.Intervalos
	}
	return ComputeCycleState(eq.HorasActuales, intervals, e.alertThreshold)
}

// RouteFor projects the upcoming services for an equipment against its
// resolved plan tier, grouped into cycles. The resolved plan is returned
// alongside so callers can stamp persisted entries with its id.
func (e *Engine) RouteFor(eq models.Equipment, plans []models.MaintenancePlan, overrides []models.Override, count int) ([]RouteEntry, []RouteCycle, *models.MaintenancePlan) {
	if count <= 0 {
		count = DefaultRouteLength
	}
	res, _ := e.resolveTier(eq, plans, overrides)
	plan := res.Plan
	if plan == nil {
		plan = &models.MaintenancePlan{
			PlanID:     "estandar",
			Marca:      eq.Marca,
			Modelo:     eq.Modelo,
			Categoria:  eq.Categoria,
			Activo:     true,
			Intervalos: StandardIntervals(),
		}
	}
	entries := ProjectRoute(plan, eq.HorasActuales, count, e.catalogs)
	cycles := GroupCycles(entries, len(plan.Intervalos))
	return entries, cycles, plan
}

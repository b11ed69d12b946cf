package predictive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flotasur/fleet-maintenance/internal/models"
)

// Scoring weights. Model exact and model partial are mutually exclusive;
// the maximum total of 100 requires model, brand and category all matching.
const (
	scoreModelExact   = 50
	scoreModelPartial = 30
	scoreBrand        = 30
	scoreCategory     = 20
	scoreOverride     = 100
)

const maxAlternatives = 4

// Resolution is the outcome of matching an equipment against the active
// plan catalog. Plan is nil when nothing matched; callers then fall back to
// the standard interval set.
type Resolution struct {
	Plan         *models.MaintenancePlan  `json:"plan,omitempty"`
	IsOverride   bool                     `json:"is_override"`
	MatchScore   int                      `json:"match_score"`
	Rationale    string                   `json:"rationale"`
	Alternatives []ScoredPlan             `json:"alternatives,omitempty"`
}

// ScoredPlan pairs a candidate plan with its similarity score, for user
// review of the runner-ups.
type ScoredPlan struct {
	Plan  models.MaintenancePlan `json:"plan"`
	Score int                    `json:"score"`
}

// normalize lower-cases a string and strips everything but letters and
// digits, so "320-D" and "320d" compare equal.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// scorePlan computes the similarity between one equipment and one plan over
// normalized strings. Pure; identical inputs always yield identical scores.
func scorePlan(eq models.Equipment, plan models.MaintenancePlan) int {
	score := 0

	eqModelo := normalize(eq.Modelo)
	planModelo := normalize(plan.Modelo)
	if eqModelo != "" && planModelo != "" {
		if eqModelo == planModelo {
			score += scoreModelExact
		} else if strings.Contains(eqModelo, planModelo) || strings.Contains(planModelo, eqModelo) {
			score += scoreModelPartial
		}
	}

	eqMarca := normalize(eq.Marca)
	planMarca := normalize(plan.Marca)
	if eqMarca != "" && planMarca != "" {
		if eqMarca == planMarca || strings.Contains(eqMarca, planMarca) || strings.Contains(planMarca, eqMarca) {
			score += scoreBrand
		}
	}

	eqCat := normalize(eq.Categoria)
	planCat := normalize(plan.Categoria)
	if eqCat != "" && planCat != "" {
		if eqCat == planCat || strings.Contains(eqCat, planCat) || strings.Contains(planCat, eqCat) {
			score += scoreCategory
		}
	}

	return score
}

// usable reports whether a plan can be "found" at all: active with at least
// one interval.
func usable(plan models.MaintenancePlan) bool {
	return plan.Activo && len(plan.Intervalos) > 0
}

// ResolvePlan selects the maintenance plan for an equipment. An active
// override whose forced plan exists among plans wins unconditionally with
// score 100. Otherwise active plans are scored and the best is returned
// with up to four ranked alternatives. Ties keep input order (stable sort);
// that is a documented contract, not an accident.
func ResolvePlan(eq models.Equipment, plans []models.MaintenancePlan, overrides []models.Override) Resolution {
	for _, ov := range overrides {
		if !ov.Activo || ov.FichaEquipo != eq.Ficha {
			continue
		}
		for i := range plans {
			if plans[i].PlanID == ov.PlanForzadoID && usable(plans[i]) {
				return Resolution{
					Plan:       &plans[i],
					IsOverride: true,
					MatchScore: scoreOverride,
					Rationale:  fmt.Sprintf("plan asignado manualmente: %s", ov.Motivo),
				}
			}
		}
		// Forced plan missing or unusable: ignore the override and fall
		// through to scoring.
		break
	}

	scored := make([]ScoredPlan, 0, len(plans))
	for _, plan := range plans {
		if !usable(plan) {
			continue
		}
		if s := scorePlan(eq, plan); s > 0 {
			scored = append(scored, ScoredPlan{Plan: plan, Score: s})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) == 0 {
		return Resolution{
			Rationale: fmt.Sprintf("sin plan para marca %q modelo %q", eq.Marca, eq.Modelo),
		}
	}

	best := scored[0]
	alts := scored[1:]
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return Resolution{
		Plan:         &best.Plan,
		MatchScore:   best.Score,
		Rationale:    fmt.Sprintf("plan %s seleccionado con puntaje %d", best.Plan.PlanID, best.Score),
		Alternatives: alts,
	}
}

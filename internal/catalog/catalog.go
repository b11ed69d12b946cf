// Package catalog holds the static, built-in maintenance tables for brands
// whose factory service schedules are known even when no plan exists in the
// database. Providers form an ordered fallback tier between database plan
// matching and the generic standard intervals.
package catalog

import (
	"strings"

	"github.com/flotasur/fleet-maintenance/internal/models"
)

// Provider answers interval and kit lookups for one equipment brand. Lookup
// returns nil when the model is not in the table; callers treat that as
// "no catalog guidance", never as an error.
type Provider interface {
	Brand() string
	Lookup(modelo string) []models.Interval
	Kit(codigo, modelo string) *models.Kit
}

// Registry is an ordered list of providers. Order matters: the first
// provider whose brand matches answers the query.
type Registry struct {
	providers []Provider
}

// NewRegistry builds a registry over the given providers, in order.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// DefaultRegistry returns the registry with the built-in brand tables.
func DefaultRegistry() *Registry {
	return NewRegistry(NewCaterpillarProvider(), NewKomatsuProvider())
}

// Lookup finds the interval table for a brand/model pair. Returns the
// matched provider's brand name alongside, for rationale strings.
func (r *Registry) Lookup(marca, modelo string) (string, []models.Interval) {
	for _, p := range r.providers {
		if !brandMatches(p.Brand(), marca) {
			continue
		}
		if intervals := p.Lookup(modelo); len(intervals) > 0 {
			return p.Brand(), intervals
		}
	}
	return "", nil
}

// Kit finds the parts kit a brand table associates with one interval code.
func (r *Registry) Kit(marca, modelo, codigo string) *models.Kit {
	for _, p := range r.providers {
		if !brandMatches(p.Brand(), marca) {
			continue
		}
		if kit := p.Kit(codigo, modelo); kit != nil {
			return kit
		}
	}
	return nil
}

// modelKey lower-cases and strips non-alphanumerics so "PC200-8" and
// "pc2008" key the same table row.
func modelKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func brandMatches(brand, marca string) bool {
	b, m := modelKey(brand), modelKey(marca)
	if b == "" || m == "" {
		return false
	}
	return b == m || strings.Contains(b, m) || strings.Contains(m, b)
}

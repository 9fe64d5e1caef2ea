// Package merge combines catalog payloads into unified records under fixed,
// per-field source precedence.
package merge

import (
	"strings"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// Rule fills one output field. Sources are tried in Order; the first payload
// for which Take reports a value wins.
type Rule[R any] struct {
	Field string
	Order []models.Source
	Take  func(p *catalog.Payload, dst *R) bool
}

// Provenance maps output field names to the source that supplied them.
type Provenance map[string]models.Source

func apply[R any](rules []Rule[R], payloads map[models.Source]*catalog.Payload, dst *R) Provenance {
	prov := make(Provenance)
	for _, rule := range rules {
		for _, src := range rule.Order {
			p, ok := payloads[src]
			if !ok || p == nil {
				continue
			}
			if rule.Take(p, dst) {
				prov[rule.Field] = src
				break
			}
		}
	}
	return prov
}

// ids lists the primary id first, then every other contributing source in
// declaration order.
func ids(primary models.SourceID, payloads map[models.Source]*catalog.Payload) []models.SourceID {
	out := []models.SourceID{primary}
	for _, src := range models.AllSources {
		if src == primary.Source {
			continue
		}
		if p, ok := payloads[src]; ok && p != nil {
			out = append(out, p.SourceID())
		}
	}
	return out
}

// Common precedence orders.
var (
	malFirst     = []models.Source{models.SourceMAL, models.SourceAniList, models.SourceKitsu}
	anilistFirst = []models.Source{models.SourceAniList, models.SourceMAL, models.SourceKitsu}
	kitsuFirst   = []models.Source{models.SourceKitsu, models.SourceAniList, models.SourceMAL}
)

func setString(dst **string, v *string) bool {
	if v == nil || strings.TrimSpace(*v) == "" {
		return false
	}
	s := *v
	*dst = &s
	return true
}

func setInt(dst **int, v *int) bool {
	if v == nil {
		return false
	}
	n := *v
	*dst = &n
	return true
}

func setFloat(dst **float64, v *float64) bool {
	if v == nil {
		return false
	}
	f := *v
	*dst = &f
	return true
}

func setDate(dst **models.FuzzyDate, v *models.FuzzyDate) bool {
	if v.IsZero() {
		return false
	}
	d := *v
	*dst = &d
	return true
}

func setSlice[T any](dst *[]T, v []T) bool {
	if len(v) == 0 {
		return false
	}
	*dst = append([]T(nil), v...)
	return true
}

package merge

import "animehub/pkg/models"

// scale describes how one catalog reports a score.
type scale struct {
	max     float64
	divisor float64
}

// Unified scores are 0-10. Every conversion from a catalog's native scale
// happens through these tables.
var (
	scoreScales = map[models.Source]scale{
		models.SourceMAL:     {max: 10, divisor: 1},
		models.SourceAniList: {max: 100, divisor: 10},
		models.SourceKitsu:   {max: 100, divisor: 10},
	}
	// Only AniList carries reviews on the media payload.
	reviewScales = map[models.Source]scale{
		models.SourceAniList: {max: 100, divisor: 10},
	}
)

// normalize converts raw from source's scale. Values outside the scale, or
// from a source with no declared scale, are treated as absent.
func normalize(table map[models.Source]scale, source models.Source, raw *float64) *float64 {
	if raw == nil {
		return nil
	}
	sc, ok := table[source]
	if !ok || *raw < 0 || *raw > sc.max {
		return nil
	}
	v := *raw / sc.divisor
	return &v
}

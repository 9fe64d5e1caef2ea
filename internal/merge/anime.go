package merge

import (
	"animehub/internal/catalog"
	"animehub/pkg/models"
)

func animeRule(field string, order []models.Source, take func(src models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool) Rule[models.AnimeRecord] {
	return Rule[models.AnimeRecord]{
		Field: field,
		Order: order,
		Take: func(p *catalog.Payload, r *models.AnimeRecord) bool {
			return p.Anime != nil && take(p.Source, p.Anime, r)
		},
	}
}

var animeRules = []Rule[models.AnimeRecord]{
	animeRule("titles.romaji", anilistFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setString(&r.Titles.Romaji, a.Titles.Romaji)
	}),
	animeRule("titles.english", anilistFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setString(&r.Titles.English, a.Titles.English)
	}),
	animeRule("titles.native", anilistFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setString(&r.Titles.Native, a.Titles.Native)
	}),
	animeRule("synopsis", malFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setString(&r.Synopsis, a.Synopsis)
	}),
	animeRule("score", malFirst, func(src models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setFloat(&r.Score, normalize(scoreScales, src, a.Score))
	}),
	animeRule("episodes", malFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setInt(&r.Episodes, a.Episodes)
	}),
	animeRule("type", malFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setString(&r.Format, a.Format)
	}),
	animeRule("status", malFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setString(&r.Status, a.Status)
	}),
	animeRule("genres", anilistFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setSlice(&r.Genres, a.Genres)
	}),
	animeRule("studios", []models.Source{models.SourceMAL, models.SourceAniList}, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setSlice(&r.Studios, a.Studios)
	}),
	animeRule("dates.start", anilistFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setDate(&r.Dates.Start, a.Start)
	}),
	animeRule("dates.end", anilistFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setDate(&r.Dates.End, a.End)
	}),
	animeRule("images.poster", kitsuFirst, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setString(&r.Images.Poster, a.Poster)
	}),
	animeRule("images.banner", []models.Source{models.SourceAniList, models.SourceKitsu}, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setString(&r.Images.Banner, a.Banner)
	}),
	animeRule("tags", []models.Source{models.SourceAniList, models.SourceMAL}, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		return setSlice(&r.Tags, a.Tags)
	}),
	animeRule("next_episode", []models.Source{models.SourceAniList}, func(_ models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		if a.NextEpisode == nil {
			return false
		}
		ne := *a.NextEpisode
		r.NextEpisode = &ne
		return true
	}),
	animeRule("reviews", []models.Source{models.SourceAniList}, func(src models.Source, a *catalog.AnimeFields, r *models.AnimeRecord) bool {
		if len(a.Reviews) == 0 {
			return false
		}
		r.Reviews = make([]models.Review, 0, len(a.Reviews))
		for _, raw := range a.Reviews {
			r.Reviews = append(r.Reviews, models.Review{
				Author:  raw.Author,
				Summary: raw.Summary,
				URL:     raw.URL,
				Score:   normalize(reviewScales, src, raw.Score),
			})
		}
		return true
	}),
}

// MergeAnime builds the unified anime record from the primary and whatever
// secondaries were fetched. It does not mutate the payloads.
func MergeAnime(primary models.SourceID, payloads map[models.Source]*catalog.Payload) (*models.AnimeRecord, Provenance) {
	rec := &models.AnimeRecord{IDs: ids(primary, payloads)}
	prov := apply(animeRules, payloads, rec)
	return rec, prov
}

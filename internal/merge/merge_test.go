package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// --- HELPER FUNCTIONS FOR POINTERS ---
func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func anime(src models.Source, id string, fields catalog.AnimeFields) *catalog.Payload {
	return &catalog.Payload{Source: src, Entity: models.EntityAnime, ID: id, Anime: &fields}
}

func TestScoreNormalizationIsExact(t *testing.T) {
	for v := 0; v <= 100; v++ {
		for _, src := range []models.Source{models.SourceAniList, models.SourceKitsu} {
			payloads := map[models.Source]*catalog.Payload{
				src: anime(src, "1", catalog.AnimeFields{Score: floatPtr(float64(v))}),
			}
			rec, _ := MergeAnime(models.SourceID{Source: src, Value: "1"}, payloads)
			require.NotNil(t, rec.Score, "v=%d src=%s", v, src)
			assert.Equal(t, float64(v)/10, *rec.Score, "v=%d src=%s", v, src)
		}
	}

	payloads := map[models.Source]*catalog.Payload{
		models.SourceAniList: anime(models.SourceAniList, "1", catalog.AnimeFields{Score: floatPtr(85)}),
	}
	rec, prov := MergeAnime(models.SourceID{Source: models.SourceAniList, Value: "1"}, payloads)
	assert.Equal(t, 8.5, *rec.Score)
	assert.Equal(t, models.SourceAniList, prov["score"])
}

func TestOutOfRangeScoreFallsThrough(t *testing.T) {
	payloads := map[models.Source]*catalog.Payload{
		models.SourceMAL:   anime(models.SourceMAL, "1", catalog.AnimeFields{Score: floatPtr(86)}),
		models.SourceKitsu: anime(models.SourceKitsu, "2", catalog.AnimeFields{Score: floatPtr(82.5)}),
	}
	rec, prov := MergeAnime(models.SourceID{Source: models.SourceMAL, Value: "1"}, payloads)
	require.NotNil(t, rec.Score)
	assert.Equal(t, 8.25, *rec.Score)
	assert.Equal(t, models.SourceKitsu, prov["score"])

	assert.Nil(t, normalize(scoreScales, models.SourceAniList, floatPtr(-1)))
	assert.Nil(t, normalize(scoreScales, models.Source("unknown"), floatPtr(5)))
}

func TestAnimePrecedence(t *testing.T) {
	airing := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)
	payloads := map[models.Source]*catalog.Payload{
		models.SourceMAL: anime(models.SourceMAL, "5114", catalog.AnimeFields{
			Titles:   models.Titles{Romaji: strPtr("Fullmetal Alchemist: Brotherhood")},
			Synopsis: strPtr("MAL synopsis"),
			Score:    floatPtr(9.1),
			Episodes: intPtr(64),
			Genres:   []string{"Action"},
			Studios:  []string{"Bones"},
			Poster:   strPtr("https://mal/poster.jpg"),
		}),
		models.SourceAniList: anime(models.SourceAniList, "5114", catalog.AnimeFields{
			Titles:      models.Titles{Romaji: strPtr("Hagane no Renkinjutsushi"), Native: strPtr("鋼の錬金術師")},
			Synopsis:    strPtr("AniList synopsis"),
			Score:       floatPtr(90),
			Genres:      []string{"Action", "Adventure"},
			Banner:      strPtr("https://anilist/banner.jpg"),
			Poster:      strPtr("https://anilist/poster.jpg"),
			NextEpisode: &models.NextEpisode{Episode: 3, AiringAt: airing},
			Reviews:     []catalog.RawReview{{Author: "a", Score: floatPtr(85)}},
		}),
		models.SourceKitsu: anime(models.SourceKitsu, "3936", catalog.AnimeFields{
			Poster: strPtr("https://kitsu/poster.jpg"),
		}),
	}

	rec, prov := MergeAnime(models.SourceID{Source: models.SourceMAL, Value: "5114"}, payloads)

	assert.Equal(t, []models.SourceID{
		{Source: models.SourceMAL, Value: "5114"},
		{Source: models.SourceAniList, Value: "5114"},
		{Source: models.SourceKitsu, Value: "3936"},
	}, rec.IDs)
	assert.Equal(t, "Hagane no Renkinjutsushi", *rec.Titles.Romaji)
	assert.Equal(t, "鋼の錬金術師", *rec.Titles.Native)
	assert.Nil(t, rec.Titles.English)
	assert.Equal(t, "MAL synopsis", *rec.Synopsis)
	assert.Equal(t, 9.1, *rec.Score)
	assert.Equal(t, []string{"Action", "Adventure"}, rec.Genres)
	assert.Equal(t, []string{"Bones"}, rec.Studios)
	assert.Equal(t, "https://kitsu/poster.jpg", *rec.Images.Poster)
	assert.Equal(t, "https://anilist/banner.jpg", *rec.Images.Banner)
	assert.Equal(t, 3, rec.NextEpisode.Episode)
	require.Len(t, rec.Reviews, 1)
	assert.Equal(t, 8.5, *rec.Reviews[0].Score)

	assert.Equal(t, models.SourceKitsu, prov["images.poster"])
	assert.Equal(t, models.SourceMAL, prov["synopsis"])
	_, hasEnglish := prov["titles.english"]
	assert.False(t, hasEnglish)
}

func TestReviewsComeFromAniListOnly(t *testing.T) {
	payloads := map[models.Source]*catalog.Payload{
		models.SourceMAL: anime(models.SourceMAL, "1", catalog.AnimeFields{
			Reviews: []catalog.RawReview{{Author: "mal", Score: floatPtr(9)}},
		}),
	}
	rec, prov := MergeAnime(models.SourceID{Source: models.SourceMAL, Value: "1"}, payloads)
	assert.Empty(t, rec.Reviews)
	_, ok := prov["reviews"]
	assert.False(t, ok)

	payloads[models.SourceAniList] = anime(models.SourceAniList, "1", catalog.AnimeFields{
		Reviews: []catalog.RawReview{{Author: "al", Score: floatPtr(70)}},
	})
	rec, prov = MergeAnime(models.SourceID{Source: models.SourceMAL, Value: "1"}, payloads)
	require.Len(t, rec.Reviews, 1)
	assert.Equal(t, "al", rec.Reviews[0].Author)
	assert.Equal(t, 7.0, *rec.Reviews[0].Score)
	assert.Equal(t, models.SourceAniList, prov["reviews"])
}

func TestAbsentFieldsStayNil(t *testing.T) {
	payloads := map[models.Source]*catalog.Payload{
		models.SourceMAL: anime(models.SourceMAL, "1", catalog.AnimeFields{Synopsis: strPtr("   ")}),
	}
	rec, prov := MergeAnime(models.SourceID{Source: models.SourceMAL, Value: "1"}, payloads)
	assert.Equal(t, []models.SourceID{{Source: models.SourceMAL, Value: "1"}}, rec.IDs)
	assert.Nil(t, rec.Synopsis)
	assert.Nil(t, rec.Score)
	assert.Nil(t, rec.Episodes)
	assert.Nil(t, rec.Genres)
	assert.Nil(t, rec.Dates.Start)
	assert.Nil(t, rec.NextEpisode)
	assert.Empty(t, prov)
}

func TestMergeDoesNotAliasPayloads(t *testing.T) {
	genres := []string{"Action"}
	payloads := map[models.Source]*catalog.Payload{
		models.SourceAniList: anime(models.SourceAniList, "1", catalog.AnimeFields{Genres: genres}),
	}
	rec, _ := MergeAnime(models.SourceID{Source: models.SourceAniList, Value: "1"}, payloads)
	rec.Genres[0] = "Changed"
	assert.Equal(t, "Action", genres[0])
}

func TestMergeCharacter(t *testing.T) {
	payloads := map[models.Source]*catalog.Payload{
		models.SourceMAL: {Source: models.SourceMAL, Entity: models.EntityCharacter, ID: "11", Character: &catalog.CharacterFields{
			Name:       models.PersonName{Full: strPtr("Edward Elric"), Native: strPtr("エドワード・エルリック")},
			Favourites: intPtr(80000),
		}},
		models.SourceAniList: {Source: models.SourceAniList, Entity: models.EntityCharacter, ID: "11", Character: &catalog.CharacterFields{
			Name:   models.PersonName{Full: strPtr("Edward Elric"), Native: strPtr("エドワード・エルリック")},
			Gender: strPtr("Male"),
			Image:  strPtr("https://anilist/ed.png"),
		}},
	}
	rec, prov := MergeCharacter(models.SourceID{Source: models.SourceMAL, Value: "11"}, payloads)
	assert.Equal(t, "Edward Elric", *rec.Name.Full)
	assert.Equal(t, "Male", *rec.Gender)
	assert.Equal(t, 80000, *rec.Favourites)
	assert.Equal(t, models.SourceMAL, prov["favourites"])
	assert.Equal(t, models.SourceAniList, prov["image"])
	assert.Nil(t, rec.DateOfBirth)
}

func TestMergePerson(t *testing.T) {
	year := 1972
	payloads := map[models.Source]*catalog.Payload{
		models.SourceKitsu: {Source: models.SourceKitsu, Entity: models.EntityPerson, ID: "9", Person: &catalog.PersonFields{
			Name:     models.PersonName{Full: strPtr("Romi Park")},
			Birthday: &models.FuzzyDate{Year: &year},
		}},
		models.SourceMAL: {Source: models.SourceMAL, Entity: models.EntityPerson, ID: "118", Person: &catalog.PersonFields{
			VoiceRoles: []models.VoiceRole{{Role: "Main"}},
		}},
	}
	rec, _ := MergePerson(models.SourceID{Source: models.SourceKitsu, Value: "9"}, payloads)
	assert.Equal(t, "kitsu:9", rec.IDs[0].String())
	assert.Equal(t, "mal:118", rec.IDs[1].String())
	assert.Equal(t, "1972", rec.Birthday.String())
	assert.Len(t, rec.VoiceRoles, 1)
}

package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// fakeCatalogs serves a MAL catalog and points AniList and Kitsu at a server
// that always answers 503.
func fakeCatalogs(t *testing.T) {
	t.Helper()
	mal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/anime/1/full":
			_, _ = w.Write([]byte(`{"data":{"mal_id":1,"title":"Cowboy Bebop","title_japanese":"カウボーイビバップ","type":"TV","episodes":26,"score":8.75}}`))
		case r.URL.Path == "/anime":
			_, _ = w.Write([]byte(`{"data":[{"mal_id":1,"title":"Cowboy Bebop"},{"mal_id":5,"title":"Cowboy Bebop: Tengoku no Tobira"}],"pagination":{"has_next_page":false}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(mal.Close)
	t.Cleanup(down.Close)

	t.Setenv("JIKAN_API_URL", mal.URL)
	t.Setenv("ANILIST_API_URL", down.URL)
	t.Setenv("KITSU_API_URL", down.URL)
	t.Setenv("JIKAN_RATE_PER_SEC", "100")
	t.Setenv("ANILIST_RATE_PER_SEC", "100")
	t.Setenv("KITSU_RATE_PER_SEC", "100")
	t.Setenv("IDENTITY_ASSUME_ANIME", "false")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		jsonOutput, verbose, cfgFile, sessionURL = false, false, "", ""
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAnimeCommandPrintsJSONWhenPiped(t *testing.T) {
	fakeCatalogs(t)

	output, err := run(t, "anime", "myanimelist", "1")
	require.NoError(t, err)

	var res models.AggregateResult[models.AnimeRecord]
	require.NoError(t, json.Unmarshal([]byte(output), &res))
	require.NotNil(t, res.Data)
	assert.Equal(t, "Cowboy Bebop", *res.Data.Titles.Romaji)
	assert.Equal(t, 8.75, *res.Data.Score)
	assert.ElementsMatch(t, []models.Source{models.SourceAniList, models.SourceKitsu}, res.MissingSources)
	for _, e := range res.Errors {
		assert.Equal(t, models.KindUnavailable, e.Kind)
	}
}

func TestAnimeCommandPrimaryNotFound(t *testing.T) {
	fakeCatalogs(t)

	_, err := run(t, "anime", "mal", "404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
}

func TestAggregateCommandRejectsUnknownSource(t *testing.T) {
	fakeCatalogs(t)

	_, err := run(t, "person", "tvdb", "1")
	assert.ErrorContains(t, err, "unknown source")
}

func TestSearchCommand(t *testing.T) {
	fakeCatalogs(t)

	output, err := run(t, "search", "anime", "mal", "cowboy", "bebop", "--json")
	require.NoError(t, err)
	assert.Contains(t, output, `"name": "Cowboy Bebop"`)
	assert.Contains(t, output, `"id": "5"`)
}

func TestRenderAnime(t *testing.T) {
	color.NoColor = true
	title, score := "Cowboy Bebop", 8.75
	res := &models.AggregateResult[models.AnimeRecord]{
		Data: &models.AnimeRecord{
			IDs:    []models.SourceID{{Source: models.SourceMAL, Value: "1"}},
			Titles: models.Titles{Romaji: &title},
			Score:  &score,
			Genres: []string{"Action", "Sci-Fi"},
		},
		Sources: []models.SourceReport{
			{Source: models.SourceMAL, ID: "1", Primary: true, Confidence: models.ConfidenceExact, Strategy: "primary", State: models.StateDone},
			{Source: models.SourceKitsu, Confidence: models.ConfidenceUnresolved, State: models.StateFailed},
		},
		Errors: []models.SourceError{{Source: models.SourceKitsu, Kind: models.KindTimeout, Message: "deadline exceeded"}},
	}

	var buf bytes.Buffer
	renderAnime(&buf, res)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Cowboy Bebop\n"))
	assert.Contains(t, out, "8.75 / 10")
	assert.Contains(t, out, "Action, Sci-Fi")
	assert.Contains(t, out, "mal:1")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "! kitsu timeout: deadline exceeded")
	assert.NotContains(t, out, "Episodes")
}

func TestRenderSearch(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	renderSearch(&buf, nil)
	assert.Equal(t, "No results.\n", buf.String())

	buf.Reset()
	renderSearch(&buf, []catalog.Payload{{
		ID:    "1",
		Names: []string{"Cowboy Bebop", "カウボーイビバップ"},
		Links: map[models.Source]string{models.SourceAniList: "1", models.SourceMAL: "1"},
	}})
	assert.Contains(t, buf.String(), "カウボーイビバップ")
	assert.Contains(t, buf.String(), "mal:1 anilist:1")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("  short ", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

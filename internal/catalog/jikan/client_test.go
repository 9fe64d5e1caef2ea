package jikan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

const animeFull = `{
  "data": {
    "mal_id": 5114,
    "url": "https://myanimelist.net/anime/5114",
    "images": {"jpg": {"image_url": "https://cdn.myanimelist.net/images/anime/1223/96541.jpg", "large_image_url": "https://cdn.myanimelist.net/images/anime/1223/96541l.jpg"}},
    "title": "Fullmetal Alchemist: Brotherhood",
    "title_english": "Fullmetal Alchemist: Brotherhood",
    "title_japanese": "鋼の錬金術師 FULLMETAL ALCHEMIST",
    "title_synonyms": ["Hagane no Renkinjutsushi: Fullmetal Alchemist"],
    "type": "TV",
    "episodes": 64,
    "status": "Finished Airing",
    "aired": {"from": "2009-04-05T00:00:00+00:00", "to": "2010-07-04T00:00:00+00:00",
      "prop": {"from": {"day": 5, "month": 4, "year": 2009}, "to": {"day": 4, "month": 7, "year": 2010}}},
    "score": 9.1,
    "synopsis": "After a horrific alchemy experiment goes wrong...\n\n[Written by MAL Rewrite]",
    "genres": [{"mal_id": 1, "name": "Action"}, {"mal_id": 2, "name": "Adventure"}],
    "themes": [{"mal_id": 38, "name": "Military"}],
    "demographics": [{"mal_id": 27, "name": "Shounen"}],
    "studios": [{"mal_id": 4, "name": "Bones"}],
    "external": [
      {"name": "AniDB", "url": "https://anidb.net/perl-bin/animedb.pl?show=anime&aid=6107"},
      {"name": "AniList", "url": "https://anilist.co/anime/5114/"}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *JikanClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(catalog.Options{BaseURL: srv.URL, RatePerSec: 1000, Burst: 10})
}

func TestFetchAnimeByID(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(animeFull))
	})

	p, err := client.FetchByID(context.Background(), models.EntityAnime, "5114")
	require.NoError(t, err)
	assert.Equal(t, "/anime/5114/full", gotPath)

	assert.Equal(t, models.SourceMAL, p.Source)
	assert.Equal(t, "5114", p.ID)
	assert.Equal(t, "Fullmetal Alchemist: Brotherhood", p.Key())
	link, ok := p.Link(models.SourceAniList)
	assert.True(t, ok)
	assert.Equal(t, "5114", link)

	require.NotNil(t, p.Anime)
	assert.Equal(t, 9.1, *p.Anime.Score)
	assert.Equal(t, 64, *p.Anime.Episodes)
	assert.Equal(t, "TV", *p.Anime.Format)
	assert.Equal(t, "After a horrific alchemy experiment goes wrong...", *p.Anime.Synopsis)
	assert.Equal(t, []string{"Action", "Adventure", "Shounen"}, p.Anime.Genres)
	assert.Equal(t, []string{"Military"}, p.Anime.Tags)
	assert.Equal(t, []string{"Bones"}, p.Anime.Studios)
	assert.Equal(t, "2009-04-05", p.Anime.Start.String())
	assert.Equal(t, "https://cdn.myanimelist.net/images/anime/1223/96541l.jpg", *p.Anime.Poster)
}

func TestFetchByIDOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{"status":404,"type":"BadResponseException","message":"Resource does not exist"}`, models.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, `{"status":429}`, models.ErrRateLimited},
		{"server error", http.StatusInternalServerError, ``, models.ErrUnavailable},
		{"empty body", http.StatusOK, ``, models.ErrNotFound},
		{"garbage", http.StatusOK, `<html>maintenance</html>`, models.ErrMalformed},
		{"null data", http.StatusOK, `{"data": null}`, models.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			p, err := client.FetchByID(context.Background(), models.EntityAnime, "1")
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFetchByIDRejectsNonNumericID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := client.FetchByID(context.Background(), models.EntityAnime, "cowboy-bebop")
	assert.True(t, errors.Is(err, models.ErrInvalidRequest))
}

func TestSearchCharacters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/characters", r.URL.Path)
		assert.Equal(t, "Edward Elric", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"data":[{"mal_id":11,"name":"Edward Elric","name_kanji":"エドワード・エルリック","nicknames":["Fullmetal Alchemist"],"favorites":80000,"images":{"jpg":{"image_url":"https://cdn/ed.jpg"}}}],
			"pagination":{"last_visible_page":1,"has_next_page":false}}`))
	})

	results, err := client.Search(context.Background(), models.EntityCharacter, "Edward Elric", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "11", results[0].ID)
	assert.Equal(t, []string{"Edward Elric", "Fullmetal Alchemist", "エドワード・エルリック"}, results[0].Names)
	assert.Equal(t, 80000, *results[0].Character.Favourites)
}

func TestFetchPersonVoiceRoles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"mal_id":118,"name":"Romi Park","given_name":"朴","family_name":"ロミ",
			"birthday":"1972-01-22T00:00:00+00:00","favorites":9000,
			"voices":[{"role":"Main","anime":{"mal_id":5114,"title":"Fullmetal Alchemist: Brotherhood"},"character":{"mal_id":11,"name":"Elric, Edward"}}],
			"anime":[{"position":"Theme Song Performance","anime":{"mal_id":121,"title":"Fullmetal Alchemist"}}]}}`))
	})

	p, err := client.FetchByID(context.Background(), models.EntityPerson, "118")
	require.NoError(t, err)
	require.NotNil(t, p.Person)
	assert.Equal(t, "1972-01-22", p.Person.Birthday.String())
	require.Len(t, p.Person.VoiceRoles, 1)
	assert.Equal(t, "mal:11", p.Person.VoiceRoles[0].Character.ID.String())
	assert.Equal(t, "mal:5114", p.Person.VoiceRoles[0].Media.ID.String())
	require.Len(t, p.Person.Credits, 1)
	assert.Equal(t, "Theme Song Performance", p.Person.Credits[0].Position)
	assert.Equal(t, "ロミ朴", *p.Person.Name.Native)
}

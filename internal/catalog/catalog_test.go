package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  A bounty hunter story. ", "A bounty hunter story."},
		{"html", "Spike &amp; Jet<br><br>hunt <i>bounties</i>.", "Spike & Jet\n\nhunt bounties."},
		{"attribution", "Two brothers search for a stone.\n\n[Written by MAL Rewrite]", "Two brothers search for a stone."},
		{"source note", "Alchemy goes wrong. (Source: ANN)", "Alchemy goes wrong."},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDescription(tt.in))
		})
	}
}

func TestPayloadLinksAndNames(t *testing.T) {
	p := &Payload{Source: models.SourceKitsu, ID: "1376"}
	p.AddLink(models.SourceMAL, "5114")
	p.AddLink(models.SourceMAL, "9999") // first link wins
	p.AddLink(models.SourceKitsu, "1")  // self links are ignored
	p.AddLink(models.SourceAniList, "0")
	p.AddName("", "Fullmetal Alchemist: Brotherhood", "fullmetal alchemist: brotherhood", "Hagane no Renkinjutsushi")

	id, ok := p.Link(models.SourceMAL)
	assert.True(t, ok)
	assert.Equal(t, "5114", id)
	_, ok = p.Link(models.SourceAniList)
	assert.False(t, ok)
	assert.Len(t, p.Links, 1)
	assert.Equal(t, []string{"Fullmetal Alchemist: Brotherhood", "Hagane no Renkinjutsushi"}, p.Names)
	assert.Equal(t, "Fullmetal Alchemist: Brotherhood", p.Key())
}

func TestTransportStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		kind   models.ErrorKind
	}{
		{http.StatusNotFound, models.KindNotFound},
		{http.StatusTooManyRequests, models.KindRateLimited},
		{http.StatusBadGateway, models.KindUnavailable},
		{http.StatusTeapot, models.KindUnavailable},
	}
	for _, tt := range tests {
		se := StatusError(models.SourceMAL, &Response{Status: tt.status, Header: http.Header{}})
		require.NotNil(t, se)
		assert.Equal(t, tt.kind, se.Kind, "status %d", tt.status)
	}
	assert.Nil(t, StatusError(models.SourceMAL, &Response{Status: http.StatusOK}))
}

func TestTransportTimeoutIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	tr := NewTransport(models.SourceKitsu, Options{BaseURL: srv.URL, RatePerSec: 100}, "", 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tr.Get(ctx, "/anime/1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTimeout))
}

func TestTransportUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tr := NewTransport(models.SourceMAL, Options{BaseURL: url, RatePerSec: 100}, "", 1)
	_, err := tr.Get(context.Background(), "/anime/1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnavailable))
}

func TestTransportThrottleOverrunIsRateLimited(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := NewTransport(models.SourceMAL, Options{BaseURL: srv.URL, RatePerSec: 0.1, Burst: 1}, "", 1)
	resp, err := tr.Get(context.Background(), "/anime/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	// The next token is ten seconds away, well past this deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = tr.Get(ctx, "/anime/2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrRateLimited))
	assert.Contains(t, err.Error(), "client throttle")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDecodeJSONMalformed(t *testing.T) {
	var v struct{ Data any }
	err := DecodeJSON(models.SourceAniList, []byte("{not json"), &v)
	assert.True(t, errors.Is(err, models.ErrMalformed))
	assert.True(t, IsEmptyBody([]byte(" \n")))
}

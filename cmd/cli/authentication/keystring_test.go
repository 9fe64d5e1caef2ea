package authentication

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

const testAPI = "http://localhost:3000"

func TestSessionRoundTrip(t *testing.T) {
	keyring.MockInit()

	_, err := GetSession(testAPI)
	assert.ErrorIs(t, err, ErrNoSession)

	sess := &StoredSession{
		Username: "spike",
		Cookies: FromHTTP([]*http.Cookie{
			{Name: "_animehub_session", Value: "abc", Path: "/", HttpOnly: true},
			{Name: "stale", Value: "x", Expires: time.Now().Add(-time.Hour)},
		}),
	}
	require.NoError(t, StoreSession(testAPI, sess))

	got, err := GetSession(testAPI)
	require.NoError(t, err)
	assert.Equal(t, "spike", got.Username)
	assert.NotZero(t, got.SavedAt)

	cookies := got.HTTPCookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "_animehub_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	require.NoError(t, DeleteSession(testAPI))
	require.NoError(t, DeleteSession(testAPI))
	_, err = GetSession(testAPI)
	assert.ErrorIs(t, err, ErrNoSession)
}

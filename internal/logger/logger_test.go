package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"source", "mal", "session_cookie", "abc", "Password", "hunter2", "dangling"})
	assert.Equal(t, []interface{}{"source", "mal", "session_cookie", "[REDACTED]", "Password", "[REDACTED]", "dangling"}, out)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("development", "text", "loud")
	assert.Error(t, err)

	l, err := New("production", "json", "warn")
	require.NoError(t, err)
	assert.NotNil(t, l.With("component", "test"))
}

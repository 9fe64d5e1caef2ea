package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.jikan.moe/v4", cfg.JikanAPIURL)
	assert.Equal(t, 10*time.Second, cfg.PrimaryTimeout)
	assert.Equal(t, 8*time.Second, cfg.SourceTimeout)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.False(t, cfg.AssumeAnimeIdentity)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOURCE_TIMEOUT", "750ms")
	t.Setenv("IDENTITY_ASSUME_ANIME", "true")
	t.Setenv("AGGREGATE_MAX_CONCURRENCY", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.SourceTimeout)
	assert.True(t, cfg.AssumeAnimeIdentity)
	assert.Equal(t, 3, cfg.MaxConcurrency)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SOURCE_TIMEOUT", "soon")
	_, err := Load("")
	assert.ErrorContains(t, err, "SOURCE_TIMEOUT")
}

func TestTOMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animehub.toml")
	content := `
log_level = "debug"

[sources]
kitsu_url = "http://127.0.0.1:9999/api/edge"
source_timeout = "2s"

[aggregate]
max_concurrency = 1
assume_anime_identity = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://127.0.0.1:9999/api/edge", cfg.KitsuAPIURL)
	assert.Equal(t, 2*time.Second, cfg.SourceTimeout)
	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.True(t, cfg.AssumeAnimeIdentity)
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsEnvKeys(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.MaxConcurrency = 0
	cfg.LogLevel = "chatty"

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGGREGATE_MAX_CONCURRENCY")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development" validate:"oneof=development production test"`

	// Service Ports
	HTTPPort int `env:"HTTP_PORT" default:"8080" validate:"min=1,max=65535"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	// External catalogs
	JikanAPIURL   string `env:"JIKAN_API_URL" default:"https://api.jikan.moe/v4" validate:"required,url"`
	AniListAPIURL string `env:"ANILIST_API_URL" default:"https://graphql.anilist.co" validate:"required,url"`
	KitsuAPIURL   string `env:"KITSU_API_URL" default:"https://kitsu.io/api/edge" validate:"required,url"`
	UserAgent     string `env:"USER_AGENT" default:"animehub/1.0" validate:"required"`

	// Per-catalog throttling (requests per second)
	JikanRatePerSec   float64 `env:"JIKAN_RATE_PER_SEC" default:"3" validate:"gt=0"`
	AniListRatePerSec float64 `env:"ANILIST_RATE_PER_SEC" default:"1.5" validate:"gt=0"`
	KitsuRatePerSec   float64 `env:"KITSU_RATE_PER_SEC" default:"5" validate:"gt=0"`

	// Aggregation
	PrimaryTimeout time.Duration `env:"PRIMARY_TIMEOUT" default:"10s" validate:"gt=0"`
	SourceTimeout  time.Duration `env:"SOURCE_TIMEOUT" default:"8s" validate:"gt=0"`
	MaxConcurrency int           `env:"AGGREGATE_MAX_CONCURRENCY" default:"2" validate:"min=1,max=16"`

	// Identity resolution
	AssumeAnimeIdentity bool    `env:"IDENTITY_ASSUME_ANIME" default:"false"`
	MinSimilarity       float64 `env:"IDENTITY_MIN_SIMILARITY" default:"0.6" validate:"gt=0,lte=1"`
	SearchLimit         int     `env:"IDENTITY_SEARCH_LIMIT" default:"10" validate:"min=1,max=25"`

	// Session API (cookie based)
	SessionAPIURL string `env:"SESSION_API_URL" default:"http://localhost:3000" validate:"required,url"`
}

// fileConfig mirrors Config for the optional TOML overlay. Pointers keep
// "not set in the file" apart from zero values.
type fileConfig struct {
	GoEnv     *string `toml:"go_env"`
	HTTPPort  *int    `toml:"http_port"`
	LogLevel  *string `toml:"log_level"`
	LogFormat *string `toml:"log_format"`

	Sources struct {
		JikanURL     *string  `toml:"jikan_url"`
		AniListURL   *string  `toml:"anilist_url"`
		KitsuURL     *string  `toml:"kitsu_url"`
		UserAgent    *string  `toml:"user_agent"`
		JikanRate    *float64 `toml:"jikan_rate_per_sec"`
		AniListRate  *float64 `toml:"anilist_rate_per_sec"`
		KitsuRate    *float64 `toml:"kitsu_rate_per_sec"`
		SessionURL   *string  `toml:"session_url"`
		PrimaryLimit *string  `toml:"primary_timeout"`
		SourceLimit  *string  `toml:"source_timeout"`
	} `toml:"sources"`

	Aggregate struct {
		MaxConcurrency      *int     `toml:"max_concurrency"`
		AssumeAnimeIdentity *bool    `toml:"assume_anime_identity"`
		MinSimilarity       *float64 `toml:"min_similarity"`
		SearchLimit         *int     `toml:"search_limit"`
	} `toml:"aggregate"`
}

// LoadConfig loads configuration from the environment (and .env if present).
// If ANIMEHUB_CONFIG names a TOML file it is applied on top.
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("ANIMEHUB_CONFIG"))
}

// Load is LoadConfig with an explicit overlay path; an empty path skips the overlay.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}

	// External catalogs
	if err := loadEnvString(&config.JikanAPIURL, "JIKAN_API_URL", "https://api.jikan.moe/v4"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.AniListAPIURL, "ANILIST_API_URL", "https://graphql.anilist.co"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.KitsuAPIURL, "KITSU_API_URL", "https://kitsu.io/api/edge"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.UserAgent, "USER_AGENT", "animehub/1.0"); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.JikanRatePerSec, "JIKAN_RATE_PER_SEC", 3); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.AniListRatePerSec, "ANILIST_RATE_PER_SEC", 1.5); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.KitsuRatePerSec, "KITSU_RATE_PER_SEC", 5); err != nil {
		return nil, err
	}

	// Aggregation
	if err := loadEnvDuration(&config.PrimaryTimeout, "PRIMARY_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.SourceTimeout, "SOURCE_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.MaxConcurrency, "AGGREGATE_MAX_CONCURRENCY", 2); err != nil {
		return nil, err
	}

	// Identity resolution
	if err := loadEnvBool(&config.AssumeAnimeIdentity, "IDENTITY_ASSUME_ANIME", false); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.MinSimilarity, "IDENTITY_MIN_SIMILARITY", 0.6); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SearchLimit, "IDENTITY_SEARCH_LIMIT", 10); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.SessionAPIURL, "SESSION_API_URL", "http://localhost:3000"); err != nil {
		return nil, err
	}

	if path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, err
		}
	}
	return config, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.GoEnv, fc.GoEnv)
	setInt(&c.HTTPPort, fc.HTTPPort)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)

	setString(&c.JikanAPIURL, fc.Sources.JikanURL)
	setString(&c.AniListAPIURL, fc.Sources.AniListURL)
	setString(&c.KitsuAPIURL, fc.Sources.KitsuURL)
	setString(&c.UserAgent, fc.Sources.UserAgent)
	setString(&c.SessionAPIURL, fc.Sources.SessionURL)
	setFloat(&c.JikanRatePerSec, fc.Sources.JikanRate)
	setFloat(&c.AniListRatePerSec, fc.Sources.AniListRate)
	setFloat(&c.KitsuRatePerSec, fc.Sources.KitsuRate)
	if err := setDuration(&c.PrimaryTimeout, fc.Sources.PrimaryLimit); err != nil {
		return fmt.Errorf("config file %s: primary_timeout: %w", path, err)
	}
	if err := setDuration(&c.SourceTimeout, fc.Sources.SourceLimit); err != nil {
		return fmt.Errorf("config file %s: source_timeout: %w", path, err)
	}

	setInt(&c.MaxConcurrency, fc.Aggregate.MaxConcurrency)
	setFloat(&c.MinSimilarity, fc.Aggregate.MinSimilarity)
	setInt(&c.SearchLimit, fc.Aggregate.SearchLimit)
	if fc.Aggregate.AssumeAnimeIdentity != nil {
		c.AssumeAnimeIdentity = *fc.Aggregate.AssumeAnimeIdentity
	}
	return nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func setString(target *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*target = strings.TrimSpace(*v)
	}
}

func setInt(target *int, v *int) {
	if v != nil {
		*target = *v
	}
}

func setFloat(target *float64, v *float64) {
	if v != nil {
		*target = *v
	}
}

func setDuration(target *time.Duration, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(*v))
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", envKey(fe.StructField()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(msgs, "; "))
}

// envKey maps a struct field back to its environment variable for error messages.
func envKey(field string) string {
	keys := map[string]string{
		"GoEnv":               "GO_ENV",
		"HTTPPort":            "HTTP_PORT",
		"LogLevel":            "LOG_LEVEL",
		"LogFormat":           "LOG_FORMAT",
		"JikanAPIURL":         "JIKAN_API_URL",
		"AniListAPIURL":       "ANILIST_API_URL",
		"KitsuAPIURL":         "KITSU_API_URL",
		"UserAgent":           "USER_AGENT",
		"JikanRatePerSec":     "JIKAN_RATE_PER_SEC",
		"AniListRatePerSec":   "ANILIST_RATE_PER_SEC",
		"KitsuRatePerSec":     "KITSU_RATE_PER_SEC",
		"PrimaryTimeout":      "PRIMARY_TIMEOUT",
		"SourceTimeout":       "SOURCE_TIMEOUT",
		"MaxConcurrency":      "AGGREGATE_MAX_CONCURRENCY",
		"AssumeAnimeIdentity": "IDENTITY_ASSUME_ANIME",
		"MinSimilarity":       "IDENTITY_MIN_SIMILARITY",
		"SearchLimit":         "IDENTITY_SEARCH_LIMIT",
		"SessionAPIURL":       "SESSION_API_URL",
	}
	if k, ok := keys[field]; ok {
		return k
	}
	return field
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Package app assembles the catalog clients, resolver and aggregator from
// configuration. The API server and the CLI share it.
package app

import (
	"animehub/internal/aggregator"
	"animehub/internal/catalog"
	"animehub/internal/catalog/anilist"
	"animehub/internal/catalog/jikan"
	"animehub/internal/catalog/kitsu"
	"animehub/internal/config"
	"animehub/internal/identity"
	"animehub/internal/logger"
)

// Clients builds one client per catalog, in source declaration order.
func Clients(cfg *config.Config) []catalog.Client {
	return []catalog.Client{
		jikan.NewClient(catalog.Options{
			BaseURL:    cfg.JikanAPIURL,
			UserAgent:  cfg.UserAgent,
			RatePerSec: cfg.JikanRatePerSec,
		}),
		anilist.NewClient(catalog.Options{
			BaseURL:    cfg.AniListAPIURL,
			UserAgent:  cfg.UserAgent,
			RatePerSec: cfg.AniListRatePerSec,
		}),
		kitsu.NewClient(catalog.Options{
			BaseURL:    cfg.KitsuAPIURL,
			UserAgent:  cfg.UserAgent,
			RatePerSec: cfg.KitsuRatePerSec,
		}),
	}
}

func NewAggregator(cfg *config.Config, log *logger.Logger) *aggregator.Aggregator {
	clients := Clients(cfg)
	resolver := identity.NewResolver(clients, identity.Options{
		MinSimilarity: cfg.MinSimilarity,
		SearchLimit:   cfg.SearchLimit,
	}, log.With("component", "identity"))

	return aggregator.New(clients, resolver, aggregator.Options{
		PrimaryTimeout: cfg.PrimaryTimeout,
		SourceTimeout:  cfg.SourceTimeout,
		MaxConcurrency: cfg.MaxConcurrency,
		AssumeAnime:    cfg.AssumeAnimeIdentity,
	}, log.With("component", "aggregator"))
}

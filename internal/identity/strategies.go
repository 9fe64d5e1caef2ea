package identity

import (
	"context"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// Strategy names reported on resolutions and source manifests.
const (
	strategyLink    = "link"
	strategyMapping = "mapping"
	strategySearch  = "search"
	strategyAssumed = "assumed"
)

type strategy struct {
	name       string
	confidence models.Confidence
	run        func(ctx context.Context, client catalog.Client, req Request) (string, error)
}

// chain returns the strategies in trust order. Assumed identity is appended
// only when enabled and permitted, so it is always last.
func (r *Resolver) chain(req Request) []strategy {
	chain := []strategy{
		{name: strategyLink, confidence: models.ConfidenceExact, run: embeddedLink},
		{name: strategyMapping, confidence: models.ConfidenceExact, run: foreignMapping},
		{name: strategySearch, confidence: models.ConfidenceSearched, run: r.searchByName},
	}
	if req.AllowAssumed && AssumedPermitted(req.Entity) {
		chain = append(chain, strategy{name: strategyAssumed, confidence: models.ConfidenceAssumed, run: r.assumeSameID})
	}
	return chain
}

func embeddedLink(_ context.Context, _ catalog.Client, req Request) (string, error) {
	id, _ := req.From.Link(req.Target)
	return id, nil
}

// foreignMapping asks the target to translate any id the source payload knows:
// its own, then its embedded links to third catalogs.
func foreignMapping(ctx context.Context, client catalog.Client, req Request) (string, error) {
	lookup, ok := client.(catalog.ForeignLookup)
	if !ok {
		return "", nil
	}
	known := []models.SourceID{req.From.SourceID()}
	for _, s := range models.AllSources {
		if s == req.Target || s == req.From.Source {
			continue
		}
		if id, ok := req.From.Link(s); ok {
			known = append(known, models.SourceID{Source: s, Value: id})
		}
	}

	var firstErr error
	for _, foreign := range known {
		id, err := lookup.LookupForeign(ctx, req.Entity, foreign)
		if err == nil && id != "" {
			return id, nil
		}
		if err != nil && firstErr == nil && failureCause(req.Target, err) != nil {
			firstErr = err
		}
	}
	return "", firstErr
}

func (r *Resolver) searchByName(ctx context.Context, client catalog.Client, req Request) (string, error) {
	key := req.From.Key()
	if key == "" {
		return "", nil
	}
	candidates, err := client.Search(ctx, req.Entity, key, 1)
	if err != nil {
		return "", err
	}
	if len(candidates) > r.opts.SearchLimit {
		candidates = candidates[:r.opts.SearchLimit]
	}
	m := bestMatch(req.From.Names, candidates, r.opts.MinSimilarity)
	if m.index < 0 {
		return "", nil
	}
	r.log.Debug("search candidate accepted",
		"target", req.Target,
		"query", key,
		"candidate", candidates[m.index].Key(),
		"similarity", m.score,
		"exact_name", m.exact)
	return candidates[m.index].ID, nil
}

func (r *Resolver) assumeSameID(_ context.Context, _ catalog.Client, req Request) (string, error) {
	r.log.Warn("assuming identical id across catalogs",
		"entity", req.Entity,
		"from", req.From.SourceID().String(),
		"target", req.Target,
		"id", req.From.ID)
	return req.From.ID, nil
}

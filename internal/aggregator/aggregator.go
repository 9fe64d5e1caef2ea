// Package aggregator fetches one entity from its primary catalog, enriches it
// from the other catalogs concurrently and merges the result.
package aggregator

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"animehub/internal/catalog"
	"animehub/internal/identity"
	"animehub/internal/logger"
	"animehub/internal/merge"
	"animehub/pkg/models"
)

const (
	defaultPrimaryTimeout = 10 * time.Second
	defaultSourceTimeout  = 8 * time.Second
	defaultConcurrency    = 3
)

type Options struct {
	PrimaryTimeout time.Duration
	SourceTimeout  time.Duration
	MaxConcurrency int
	// AssumeAnime enables the assumed-identity fallback for anime.
	AssumeAnime bool
}

type Aggregator struct {
	clients  map[models.Source]catalog.Client
	resolver *identity.Resolver
	opts     Options
	log      *logger.Logger
}

func New(clients []catalog.Client, resolver *identity.Resolver, opts Options, log *logger.Logger) *Aggregator {
	if opts.PrimaryTimeout <= 0 {
		opts.PrimaryTimeout = defaultPrimaryTimeout
	}
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = defaultSourceTimeout
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = defaultConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}
	byID := make(map[models.Source]catalog.Client, len(clients))
	for _, c := range clients {
		byID[c.Source()] = c
	}
	if resolver == nil {
		resolver = identity.NewResolver(clients, identity.Options{}, log)
	}
	return &Aggregator{clients: byID, resolver: resolver, opts: opts, log: log}
}

// collection is everything gathered for one call before merging.
type collection struct {
	entity  models.EntityType
	primary models.SourceID
	payload *catalog.Payload
	tasks   []*task
}

func (a *Aggregator) Anime(ctx context.Context, primary models.SourceID) (*models.AggregateResult[models.AnimeRecord], error) {
	c, err := a.collect(ctx, models.EntityAnime, primary)
	if err != nil {
		return nil, err
	}
	return buildResult(c, merge.MergeAnime), nil
}

func (a *Aggregator) Character(ctx context.Context, primary models.SourceID) (*models.AggregateResult[models.CharacterRecord], error) {
	c, err := a.collect(ctx, models.EntityCharacter, primary)
	if err != nil {
		return nil, err
	}
	return buildResult(c, merge.MergeCharacter), nil
}

func (a *Aggregator) Person(ctx context.Context, primary models.SourceID) (*models.AggregateResult[models.PersonRecord], error) {
	c, err := a.collect(ctx, models.EntityPerson, primary)
	if err != nil {
		return nil, err
	}
	return buildResult(c, merge.MergePerson), nil
}

// Aggregate dispatches on entity and returns the typed *models.AggregateResult.
func (a *Aggregator) Aggregate(ctx context.Context, entity models.EntityType, primary models.SourceID) (any, error) {
	switch entity {
	case models.EntityAnime:
		return untyped(a.Anime(ctx, primary))
	case models.EntityCharacter:
		return untyped(a.Character(ctx, primary))
	case models.EntityPerson:
		return untyped(a.Person(ctx, primary))
	default:
		return nil, invalid(entity, primary, "unknown entity type %q", entity)
	}
}

// Search passes a text search through to one catalog.
func (a *Aggregator) Search(ctx context.Context, entity models.EntityType, source models.Source, text string, page int) ([]catalog.Payload, error) {
	client, ok := a.clients[source]
	if !ok || !client.Supports(entity) {
		return nil, models.NewSourceError(source, models.KindInvalidRequest, "%s search is not available for %s", entity, source)
	}
	ctx, cancel := context.WithTimeout(ctx, a.opts.PrimaryTimeout)
	defer cancel()
	return client.Search(ctx, entity, text, page)
}

func (a *Aggregator) collect(ctx context.Context, entity models.EntityType, primary models.SourceID) (*collection, error) {
	primary.Value = strings.TrimSpace(primary.Value)
	if primary.Value == "" {
		return nil, invalid(entity, primary, "empty id")
	}
	client, ok := a.clients[primary.Source]
	if !ok {
		return nil, invalid(entity, primary, "unknown source %q", primary.Source)
	}
	if !client.Supports(entity) {
		return nil, invalid(entity, primary, "%s does not serve %s", primary.Source, entity)
	}

	started := time.Now()
	log := a.log.With("aggregate_id", uuid.NewString(), "entity", entity, "primary", primary.String())

	pctx, cancel := context.WithTimeout(ctx, a.opts.PrimaryTimeout)
	payload, err := client.FetchByID(pctx, entity, primary.Value)
	cancel()
	if err == nil && payload == nil {
		err = models.NewSourceError(primary.Source, models.KindNotFound, "%s %s not found", entity, primary.Value)
	}
	if err != nil {
		se := models.AsSourceError(primary.Source, err)
		log.Warn("primary fetch failed", "kind", se.Kind, "error", se.Message)
		return nil, newAggregateError(entity, primary, se)
	}
	if payload.ID != "" {
		primary.Value = payload.ID
	}

	c := &collection{entity: entity, primary: primary, payload: payload}
	for _, src := range models.AllSources {
		if src == primary.Source {
			continue
		}
		if sc, ok := a.clients[src]; ok && sc.Supports(entity) {
			c.tasks = append(c.tasks, newTask(sc))
		}
	}

	allowAssumed := entity == models.EntityAnime && a.opts.AssumeAnime
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.MaxConcurrency)
	for _, t := range c.tasks {
		t := t
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(gctx, a.opts.SourceTimeout)
			defer cancel()
			t.run(tctx, a.resolver, identity.Request{
				Entity:       entity,
				From:         payload,
				Target:       t.source,
				AllowAssumed: allowAssumed,
			}, log)
			return nil
		})
	}
	_ = g.Wait()

	// The primary is in hand, so a caller deadline only costs the secondaries
	// still in flight; each of those has already failed with its own kind.
	if err := ctx.Err(); err != nil {
		log.Warn("caller context ended during enrichment", "error", err)
	}

	var missing []string
	for _, t := range c.tasks {
		t := t
		if t.state != models.StateDone {
			missing = append(missing, string(t.source))
		}
	}
	log.Info("aggregate complete",
		"secondaries", len(c.tasks),
		"missing", missing,
		"took", time.Since(started).Round(time.Millisecond).String())
	return c, nil
}

func buildResult[T any](c *collection, mergeFn func(models.SourceID, map[models.Source]*catalog.Payload) (*T, merge.Provenance)) *models.AggregateResult[T] {
	payloads := map[models.Source]*catalog.Payload{c.primary.Source: c.payload}
	res := &models.AggregateResult[T]{
		MissingSources: []models.Source{},
		Errors:         []models.SourceError{},
		Sources: []models.SourceReport{{
			Source:     c.primary.Source,
			ID:         c.primary.Value,
			Primary:    true,
			Confidence: models.ConfidenceExact,
			Strategy:   "primary",
			State:      models.StateDone,
		}},
	}
	for _, t := range c.tasks {
		t := t
		res.Sources = append(res.Sources, t.report())
		if t.state == models.StateDone && t.payload != nil {
			payloads[t.source] = t.payload
			continue
		}
		res.MissingSources = append(res.MissingSources, t.source)
		if t.err != nil {
			res.Errors = append(res.Errors, *t.err)
		}
	}
	sort.SliceStable(res.Sources, func(i, j int) bool {
		return res.Sources[i].Source.Rank() < res.Sources[j].Source.Rank()
	})
	data, prov := mergeFn(c.primary, payloads)
	res.Data = data
	res.FieldSources = map[string]models.Source(prov)
	return res
}

// untyped keeps a failed call from yielding a non-nil interface around a nil result.
func untyped[T any](res *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return res, nil
}

func invalid(entity models.EntityType, primary models.SourceID, format string, args ...any) *AggregateError {
	return newAggregateError(entity, primary, models.NewSourceError(primary.Source, models.KindInvalidRequest, format, args...))
}

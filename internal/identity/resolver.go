// Package identity maps an entity known in one catalog to its id in another.
package identity

import (
	"context"
	"errors"

	"animehub/internal/catalog"
	"animehub/internal/logger"
	"animehub/pkg/models"
)

const (
	defaultMinSimilarity = 0.6
	defaultSearchLimit   = 10
)

// Options tunes the search strategy.
type Options struct {
	// MinSimilarity is the lowest token similarity accepted when no name
	// matches exactly.
	MinSimilarity float64
	// SearchLimit caps how many search results are compared.
	SearchLimit int
}

// Request asks for From's counterpart in Target.
type Request struct {
	Entity models.EntityType
	From   *catalog.Payload
	Target models.Source
	// AllowAssumed enables the assumed-identity fallback. It is honored for
	// anime only.
	AllowAssumed bool
}

// Resolution is the outcome of one resolve call. An unresolved resolution
// carries the reason in Err.
type Resolution struct {
	Target     models.Source
	ID         string
	Confidence models.Confidence
	Strategy   string
	Err        *models.SourceError
}

func (r Resolution) Resolved() bool {
	return r.ID != "" && r.Confidence != models.ConfidenceUnresolved
}

// Resolver runs the ordered strategy chain against injected catalog clients.
type Resolver struct {
	clients map[models.Source]catalog.Client
	opts    Options
	log     *logger.Logger
}

func NewResolver(clients []catalog.Client, opts Options, log *logger.Logger) *Resolver {
	if opts.MinSimilarity <= 0 || opts.MinSimilarity > 1 {
		opts.MinSimilarity = defaultMinSimilarity
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = defaultSearchLimit
	}
	if log == nil {
		log = logger.NewNop()
	}
	byID := make(map[models.Source]catalog.Client, len(clients))
	for _, c := range clients {
		byID[c.Source()] = c
	}
	return &Resolver{clients: byID, opts: opts, log: log}
}

// AssumedPermitted reports whether assumed identity may ever apply to entity.
// Character and person ids overlap across unrelated catalogs, so they never do.
func AssumedPermitted(entity models.EntityType) bool {
	return entity == models.EntityAnime
}

// Resolve walks the chain and stops at the first strategy yielding an id. It
// never returns a Go error; failures are reported on the Resolution.
func (r *Resolver) Resolve(ctx context.Context, req Request) Resolution {
	unresolved := Resolution{Target: req.Target, Confidence: models.ConfidenceUnresolved}

	if req.From == nil {
		unresolved.Err = models.NewSourceError(req.Target, models.KindInvalidRequest, "nothing to resolve from")
		return unresolved
	}
	client, ok := r.clients[req.Target]
	if !ok || !client.Supports(req.Entity) {
		unresolved.Err = models.NewSourceError(req.Target, models.KindUnresolvable, "%s does not serve %s", req.Target, req.Entity)
		return unresolved
	}
	if req.Target == req.From.Source {
		return Resolution{Target: req.Target, ID: req.From.ID, Confidence: models.ConfidenceExact, Strategy: strategyLink}
	}

	var cause *models.SourceError
	for _, s := range r.chain(req) {
		if err := ctx.Err(); err != nil {
			cause = contextCause(req.Target, err)
			break
		}
		id, err := s.run(ctx, client, req)
		if id != "" {
			res := Resolution{Target: req.Target, ID: id, Confidence: s.confidence, Strategy: s.name}
			r.log.Debug("identity resolved",
				"entity", req.Entity,
				"from", req.From.SourceID().String(),
				"target", req.Target,
				"id", id,
				"strategy", s.name,
				"confidence", s.confidence)
			return res
		}
		if se := failureCause(req.Target, err); se != nil && cause == nil {
			cause = se
		}
	}

	if cause == nil {
		cause = models.NewSourceError(req.Target, models.KindUnresolvable, "no %s match for %s %q", req.Target, req.Entity, req.From.Key())
	}
	unresolved.Err = cause
	r.log.Debug("identity unresolved",
		"entity", req.Entity,
		"from", req.From.SourceID().String(),
		"target", req.Target,
		"kind", cause.Kind)
	return unresolved
}

// failureCause keeps only errors that say something about the target catalog
// itself. Not-found and not-applicable outcomes just move the chain along.
func failureCause(target models.Source, err error) *models.SourceError {
	if err == nil {
		return nil
	}
	se := models.AsSourceError(target, err)
	switch se.Kind {
	case models.KindUnavailable, models.KindRateLimited, models.KindTimeout, models.KindMalformed:
		return se
	default:
		return nil
	}
}

func contextCause(target models.Source, err error) *models.SourceError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &models.SourceError{Source: target, Kind: models.KindTimeout, Message: "deadline exceeded while resolving", Err: err}
	}
	return &models.SourceError{Source: target, Kind: models.KindUnavailable, Message: "resolution cancelled", Err: err}
}

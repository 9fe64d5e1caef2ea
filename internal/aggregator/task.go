package aggregator

import (
	"context"
	"errors"

	"animehub/internal/catalog"
	"animehub/internal/identity"
	"animehub/internal/logger"
	"animehub/pkg/models"
)

var transitions = map[models.TaskState][]models.TaskState{
	models.StateIdle:      {models.StateResolving, models.StateFailed},
	models.StateResolving: {models.StateFetching, models.StateFailed},
	models.StateFetching:  {models.StateDone, models.StateFailed},
}

// task is one secondary source's resolve-then-fetch sequence. Each task is
// owned by a single goroutine until the group is waited on.
type task struct {
	source     models.Source
	client     catalog.Client
	state      models.TaskState
	resolution identity.Resolution
	payload    *catalog.Payload
	err        *models.SourceError
}

func newTask(client catalog.Client) *task {
	return &task{source: client.Source(), client: client, state: models.StateIdle}
}

// advance moves to next if the transition is legal and reports whether it did.
// Done and failed are terminal.
func (t *task) advance(next models.TaskState) bool {
	for _, allowed := range transitions[t.state] {
		if allowed == next {
			t.state = next
			return true
		}
	}
	return false
}

func (t *task) fail(err *models.SourceError) {
	if t.advance(models.StateFailed) {
		t.err = err
	}
}

// run resolves the task's id from the primary payload and fetches it, all
// under the per-source timeout.
func (t *task) run(ctx context.Context, resolver *identity.Resolver, req identity.Request, log *logger.Logger) {
	if err := ctx.Err(); err != nil {
		t.fail(contextFailure(t.source, "not started", err))
		return
	}

	t.advance(models.StateResolving)
	t.resolution = resolver.Resolve(ctx, req)
	if !t.resolution.Resolved() {
		cause := t.resolution.Err
		if cause == nil {
			cause = models.NewSourceError(t.source, models.KindUnresolvable, "no id for %s", req.From.SourceID())
		}
		t.fail(cause)
		log.Debug("secondary unresolved", "source", t.source, "kind", t.err.Kind, "error", t.err.Message)
		return
	}

	t.advance(models.StateFetching)
	p, err := t.client.FetchByID(ctx, req.Entity, t.resolution.ID)
	if err == nil && p == nil {
		err = models.NewSourceError(t.source, models.KindNotFound, "%s %s not found", req.Entity, t.resolution.ID)
	}
	if err != nil {
		var se *models.SourceError
		if !errors.As(err, &se) && ctx.Err() != nil {
			se = contextFailure(t.source, "fetch", ctx.Err())
		} else {
			se = models.AsSourceError(t.source, err)
		}
		t.fail(se)
		log.Warn("secondary fetch failed",
			"source", t.source,
			"id", t.resolution.ID,
			"confidence", t.resolution.Confidence,
			"kind", t.err.Kind,
			"error", t.err.Message)
		return
	}
	t.payload = p
	t.advance(models.StateDone)
}

func (t *task) report() models.SourceReport {
	return models.SourceReport{
		Source:     t.source,
		ID:         t.resolution.ID,
		Confidence: t.resolution.Confidence,
		Strategy:   t.resolution.Strategy,
		State:      t.state,
	}
}

// contextFailure types a context error: a passed deadline is a timeout,
// anything else means the caller went away.
func contextFailure(source models.Source, stage string, err error) *models.SourceError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &models.SourceError{Source: source, Kind: models.KindTimeout, Message: stage + ": deadline exceeded", Err: err}
	}
	return &models.SourceError{Source: source, Kind: models.KindUnavailable, Message: stage + ": " + err.Error(), Err: err}
}

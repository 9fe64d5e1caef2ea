package aggregator

import (
	"fmt"

	"animehub/pkg/models"
)

// AggregateError is the fatal outcome of an aggregate call: the primary
// source failed, or the request itself was invalid. It wraps the underlying
// *models.SourceError, so errors.Is(err, models.ErrNotFound) works.
type AggregateError struct {
	Entity  models.EntityType `json:"entity"`
	Primary models.SourceID   `json:"primary"`
	Kind    models.ErrorKind  `json:"kind"`
	Message string            `json:"message"`
	Err     error             `json:"-"`
}

func newAggregateError(entity models.EntityType, primary models.SourceID, se *models.SourceError) *AggregateError {
	return &AggregateError{
		Entity:  entity,
		Primary: primary,
		Kind:    se.Kind,
		Message: se.Message,
		Err:     se,
	}
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("aggregate %s %s: %s: %s", e.Entity, e.Primary, e.Kind, e.Message)
}

func (e *AggregateError) Unwrap() error { return e.Err }

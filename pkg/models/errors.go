package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a catalog call did not produce data.
type ErrorKind string

const (
	KindUnavailable    ErrorKind = "unavailable"
	KindNotFound       ErrorKind = "not_found"
	KindRateLimited    ErrorKind = "rate_limited"
	KindUnresolvable   ErrorKind = "unresolvable"
	KindMalformed      ErrorKind = "malformed"
	KindTimeout        ErrorKind = "timeout"
	KindInvalidRequest ErrorKind = "invalid_request"
)

// Sentinels for errors.Is checks against a SourceError.
var (
	ErrUnavailable    = errors.New("source unavailable")
	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnresolvable   = errors.New("identity unresolvable")
	ErrMalformed      = errors.New("malformed response")
	ErrTimeout        = errors.New("timeout")
	ErrInvalidRequest = errors.New("invalid request")
)

var kindSentinels = map[ErrorKind]error{
	KindUnavailable:    ErrUnavailable,
	KindNotFound:       ErrNotFound,
	KindRateLimited:    ErrRateLimited,
	KindUnresolvable:   ErrUnresolvable,
	KindMalformed:      ErrMalformed,
	KindTimeout:        ErrTimeout,
	KindInvalidRequest: ErrInvalidRequest,
}

// SourceError is the typed outcome of a failed catalog interaction.
type SourceError struct {
	Source  Source    `json:"source"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewSourceError(source Source, kind ErrorKind, format string, args ...any) *SourceError {
	return &SourceError{Source: source, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *SourceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Kind, e.Message)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is matches the kind sentinel, so errors.Is(err, ErrNotFound) works through wrapping.
func (e *SourceError) Is(target error) bool {
	if e == nil {
		return false
	}
	return kindSentinels[e.Kind] == target
}

// AsSourceError extracts a SourceError from err. Anything that is not one is
// reported as unavailable for the given source.
func AsSourceError(source Source, err error) *SourceError {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return se
	}
	return &SourceError{Source: source, Kind: KindUnavailable, Message: err.Error(), Err: err}
}

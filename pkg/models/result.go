package models

// TaskState is the lifecycle of one secondary source inside an aggregate call.
type TaskState string

const (
	StateIdle      TaskState = "idle"
	StateResolving TaskState = "resolving"
	StateFetching  TaskState = "fetching"
	StateDone      TaskState = "done"
	StateFailed    TaskState = "failed"
)

// SourceReport describes what happened with one catalog during a call.
type SourceReport struct {
	Source     Source     `json:"source"`
	ID         string     `json:"id,omitempty"`
	Primary    bool       `json:"primary,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
	Strategy   string     `json:"strategy,omitempty"`
	State      TaskState  `json:"state"`
}

// AggregateResult is the unified, possibly partial, output of one aggregate call.
type AggregateResult[T any] struct {
	Data           *T                `json:"data"`
	MissingSources []Source          `json:"missing_sources"`
	Errors         []SourceError     `json:"errors"`
	Sources        []SourceReport    `json:"sources"`
	FieldSources   map[string]Source `json:"field_sources,omitempty"`
}

// Partial reports whether any secondary catalog failed to contribute.
func (r *AggregateResult[T]) Partial() bool {
	return r != nil && len(r.MissingSources) > 0
}

package export

import (
	"errors"
	"time"
)

// ErrAllocationExhausted is wrapped into the error returned when a collision
// suffix itself collides, which leaves no name for the record.
var ErrAllocationExhausted = errors.New("filename allocation exhausted")

// ErrorKind classifies a per-record failure.
type ErrorKind string

// The per-record failure kinds. Each skips the failing conversation only;
// none aborts a run.
const (
	KindMalformedRecord     ErrorKind = "malformed_record"
	KindAllocationExhausted ErrorKind = "allocation_exhausted"
	KindWriteFailure        ErrorKind = "write_failure"
)

// ErrorEvent records one conversation's failure. Events are immutable once
// created: the pipeline appends them to its result and the log sink persists
// them unchanged.
type ErrorEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
}

// newEvent stamps an error event with the wall clock so the log preserves
// failure order.
func newEvent(kind ErrorKind, title string, err error) ErrorEvent {
	return ErrorEvent{
		Timestamp: time.Now(),
		Title:     title,
		Kind:      kind,
		Message:   err.Error(),
	}
}

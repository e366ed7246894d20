package event

import (
	"errors"
	"fmt"
)

// Predefined errors for the event package.
var (
	// ErrProcessorStopped indicates an offer after Stop; the event was not
	// accepted.
	ErrProcessorStopped = errors.New("event processor is stopped")

	// ErrFlushTimeout indicates Stop's deadline elapsed with batches still
	// in flight; those batches were abandoned to the dispatcher layer.
	ErrFlushTimeout = errors.New("event flush timed out")

	// ErrDispatcherNil indicates the processor was built without a
	// dispatcher.
	ErrDispatcherNil = errors.New("event dispatcher is nil")
)

// InterruptedError reports a producer canceled while blocked on batch
// admission. Pending holds the events that were not enqueued; the caller
// decides whether to retry or drop them, but the loss is never silent.
type InterruptedError struct {
	Pending []UserEvent
	Cause   error
}

// Error implements the error interface.
func (e *InterruptedError) Error() string {
	return fmt.Sprintf("event buffering interrupted with %d undelivered event(s): %v", len(e.Pending), e.Cause)
}

// Unwrap exposes the cancellation cause for errors.Is checks.
func (e *InterruptedError) Unwrap() error {
	return e.Cause
}

package event

import (
	"context"
	"log/slog"
)

// Dispatcher receives finalized batches from the processor's drain
// goroutines. Implementations own transport, retry and backoff; a returned
// error is logged by the processor but the batch is not re-queued here.
// DispatchBatch may be called concurrently up to the processor's in-flight
// limit.
type Dispatcher interface {
	DispatchBatch(ctx context.Context, batch Batch) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, batch Batch) error

// DispatchBatch implements Dispatcher.
func (f DispatcherFunc) DispatchBatch(ctx context.Context, batch Batch) error {
	return f(ctx, batch)
}

// LogDispatcher writes batches to a logger instead of a network endpoint.
// Useful for local development and as a safe default in examples.
type LogDispatcher struct {
	Log *slog.Logger
}

// DispatchBatch implements Dispatcher.
func (d LogDispatcher) DispatchBatch(ctx context.Context, batch Batch) error {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("dispatching event batch", slog.Int("events", len(batch.Events)))
	return nil
}

// Package event buffers decision and conversion events and ships them to a
// dispatcher in batches, off the caller's critical path.
//
// # Architecture
//
// The Processor owns at most one open batch buffer at a time. The first
// event offered after the previous buffer closed opens a new one and stamps
// its age deadline; the buffer closes when it reaches the configured size,
// when the deadline elapses, or when it is flushed explicitly. Each buffer
// is drained by exactly one goroutine that hands the finalized batch to the
// Dispatcher.
//
// A buffer moves through three states: open (accepting), closing (full or
// signaled, awaiting drain), closed (drained). Offers against a closing or
// closed buffer fail and the processor opens a fresh buffer instead, so no
// event is ever appended to a batch already on its way out.
//
// In-flight batches are bounded by a counting semaphore: opening a new
// buffer acquires a permit, blocking producers when the limit is reached.
// Events are never dropped; producers wait. A producer canceled while waiting receives an InterruptedError
// carrying the events that were not enqueued, so data loss is always
// explicit.
//
// Flush closes the open buffer and waits for every in-flight batch to drain
// by acquiring and releasing the full permit set. Stop is a flush with a
// bounded wait; batches still in flight past the deadline are abandoned to
// the dispatcher's own retry policy and logged.
//
// The dispatcher is an interface; transport, retry and backoff live outside
// this package.
package event

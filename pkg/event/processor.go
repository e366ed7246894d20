package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type bufferState int8

const (
	stateOpen bufferState = iota
	stateClosing
	stateClosed
)

// batchBuffer is one accumulation window. All state transitions happen under
// the processor mutex; closeCh is closed exactly once, on the open→closing
// transition, to wake the drain goroutine.
type batchBuffer struct {
	events   []UserEvent
	state    bufferState
	closeCh  chan struct{}
	deadline time.Time
}

func newBatchBuffer(deadline time.Time) *batchBuffer {
	return &batchBuffer{closeCh: make(chan struct{}), deadline: deadline}
}

// offer appends an event while the buffer is open, closing it when the size
// bound is met. Returns false when the buffer no longer accepts inserts.
// Must be called with the processor mutex held.
func (b *batchBuffer) offer(ev UserEvent, sizeBound int) bool {
	if b.state != stateOpen {
		return false
	}
	b.events = append(b.events, ev)
	if len(b.events) >= sizeBound {
		b.close()
	}
	return true
}

// close transitions open→closing and signals the drain goroutine. Idempotent.
// Must be called with the processor mutex held.
func (b *batchBuffer) close() {
	if b.state == stateOpen {
		b.state = stateClosing
		close(b.closeCh)
	}
}

// isOpen reports whether the buffer still accepts inserts. Must be called
// with the processor mutex held.
func (b *batchBuffer) isOpen() bool {
	return b.state == stateOpen
}

// Processor batches events and hands them to the dispatcher. Producers may
// call Process concurrently; buffer mutation is serialized by one mutex and
// in-flight drains are bounded by a counting semaphore.
type Processor struct {
	cfg        Config
	dispatcher Dispatcher
	log        *slog.Logger
	now        func() time.Time

	mu      sync.Mutex
	current *batchBuffer

	// sem holds one token per in-flight buffer; sending acquires a permit,
	// receiving releases it.
	sem     chan struct{}
	wg      sync.WaitGroup
	stopped atomic.Bool

	// flushMu admits one flusher at a time. Two concurrent flushers would
	// each collect part of the permit set and starve each other.
	flushMu sync.Mutex
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithConfig overrides the default batching configuration.
func WithConfig(cfg Config) ProcessorOption {
	return func(p *Processor) { p.cfg = cfg.normalize() }
}

// WithLogger sets the processor logger.
func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock replaces the time source used for age deadlines, for
// deterministic tests.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProcessor creates a batching processor around a dispatcher.
func NewProcessor(dispatcher Dispatcher, opts ...ProcessorOption) (*Processor, error) {
	if dispatcher == nil {
		return nil, ErrDispatcherNil
	}
	p := &Processor{
		cfg:        DefaultConfig(),
		dispatcher: dispatcher,
		log:        slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sem = make(chan struct{}, p.cfg.MaxInFlight)
	return p, nil
}

// Process queues one event. It blocks when the in-flight batch limit is
// reached (backpressure, never dropping); cancelling ctx while blocked
// returns an InterruptedError carrying the event that was not enqueued.
func (p *Processor) Process(ctx context.Context, ev UserEvent) error {
	if p.stopped.Load() {
		return ErrProcessorStopped
	}

	p.mu.Lock()
	if p.offerToCurrent(ev) {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	// No open buffer: admission for a new one may block on the in-flight
	// bound until a drain completes.
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return &InterruptedError{Pending: []UserEvent{ev}, Cause: ctx.Err()}
	}

	p.mu.Lock()
	if p.stopped.Load() {
		p.mu.Unlock()
		<-p.sem
		return ErrProcessorStopped
	}
	// Another producer may have opened a buffer while we waited.
	if p.offerToCurrent(ev) {
		p.mu.Unlock()
		<-p.sem
		return nil
	}

	buf := newBatchBuffer(p.now().Add(p.cfg.FlushInterval))
	buf.offer(ev, p.cfg.BatchSize)
	p.current = buf
	if !buf.isOpen() {
		p.current = nil
	}
	p.wg.Add(1)
	// The permit acquired above transfers to the drain goroutine.
	go p.consume(buf)
	p.mu.Unlock()
	return nil
}

// offerToCurrent tries the open buffer, clearing it when the insert closed
// it. Must be called with the mutex held.
func (p *Processor) offerToCurrent(ev UserEvent) bool {
	if p.current == nil {
		return false
	}
	if !p.current.offer(ev, p.cfg.BatchSize) {
		p.current = nil
		return false
	}
	if !p.current.isOpen() {
		p.current = nil
	}
	return true
}

// consume waits for the buffer to close (by size, flush, or age deadline),
// then drains it to the dispatcher exactly once and releases the in-flight
// permit.
func (p *Processor) consume(buf *batchBuffer) {
	defer p.wg.Done()
	defer func() { <-p.sem }()

	var timerC <-chan time.Time
	if p.cfg.FlushInterval > 0 {
		wait := buf.deadline.Sub(p.now())
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		defer timer.Stop()
		timerC = timer.C
	}

	select {
	case <-buf.closeCh:
	case <-timerC:
	}

	p.mu.Lock()
	buf.close()
	buf.state = stateClosed
	if p.current == buf {
		p.current = nil
	}
	events := buf.events
	p.mu.Unlock()

	if len(events) == 0 {
		return
	}
	if err := p.dispatcher.DispatchBatch(context.Background(), Batch{Events: events}); err != nil {
		p.log.Error("event batch dispatch failed",
			slog.Int("events", len(events)), slog.Any("error", err))
	}
}

// Flush closes the open buffer and waits until every in-flight batch has
// drained, by acquiring and immediately releasing the full permit set.
func (p *Processor) Flush(ctx context.Context) error {
	p.flushMu.Lock()
	defer p.flushMu.Unlock()

	p.mu.Lock()
	if p.current != nil {
		p.current.close()
		p.current = nil
	}
	p.mu.Unlock()

	acquired := 0
	for acquired < p.cfg.MaxInFlight {
		select {
		case p.sem <- struct{}{}:
			acquired++
		case <-ctx.Done():
			for i := 0; i < acquired; i++ {
				<-p.sem
			}
			return errors.Join(ErrFlushTimeout, ctx.Err())
		}
	}
	for i := 0; i < acquired; i++ {
		<-p.sem
	}
	return nil
}

// Stop rejects further events and flushes with ctx as the bound. Batches
// still in flight past the deadline are abandoned to the dispatcher layer.
func (p *Processor) Stop(ctx context.Context) error {
	if p.stopped.Swap(true) {
		return nil
	}
	if err := p.Flush(ctx); err != nil {
		p.log.Warn("event processor stopped with batches still in flight", slog.Any("error", err))
		return err
	}
	return nil
}

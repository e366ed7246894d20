package notification

import (
	"log/slog"
	"sync"
)

// Decision is published after every top-level decision call.
type Decision struct {
	FlagKey      string
	VariationKey string
	RuleKey      string
	Enabled      bool
	UserID       string
	Attributes   map[string]any
	Reasons      []string
}

// Track is published after every conversion tracking call.
type Track struct {
	EventKey   string
	UserID     string
	Attributes map[string]any
	Tags       map[string]any
}

// handlerSet is an ordered registry of callbacks for one notification type.
type handlerSet[T any] struct {
	mu     sync.RWMutex
	nextID int
	order  []int
	byID   map[int]func(T)
}

func newHandlerSet[T any]() *handlerSet[T] {
	return &handlerSet[T]{byID: make(map[int]func(T))}
}

func (s *handlerSet[T]) add(h func(T)) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.byID[s.nextID] = h
	s.order = append(s.order, s.nextID)
	return s.nextID
}

func (s *handlerSet[T]) remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// send runs handlers in registration order on the caller's goroutine. A
// panicking handler is contained so the rest still receive the event.
func (s *handlerSet[T]) send(n T, log *slog.Logger) {
	s.mu.RLock()
	handlers := make([]func(T), 0, len(s.order))
	for _, id := range s.order {
		if h, ok := s.byID[id]; ok {
			handlers = append(handlers, h)
		}
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("notification handler panicked", slog.Any("panic", r))
				}
			}()
			h(n)
		}()
	}
}

// Center is the typed notification hub. Safe for concurrent use.
type Center struct {
	decisions *handlerSet[Decision]
	tracks    *handlerSet[Track]
	log       *slog.Logger
}

// Option configures a Center.
type Option func(*Center)

// WithLogger sets the logger used to report panicking handlers.
func WithLogger(l *slog.Logger) Option {
	return func(c *Center) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCenter creates an empty notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		decisions: newHandlerSet[Decision](),
		tracks:    newHandlerSet[Track](),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnDecision registers a decision handler and returns its removal ID.
func (c *Center) OnDecision(h func(Decision)) int {
	return c.decisions.add(h)
}

// RemoveDecision unregisters a decision handler.
func (c *Center) RemoveDecision(id int) bool {
	return c.decisions.remove(id)
}

// SendDecision delivers a decision notification to all handlers.
func (c *Center) SendDecision(n Decision) {
	c.decisions.send(n, c.log)
}

// OnTrack registers a track handler and returns its removal ID.
func (c *Center) OnTrack(h func(Track)) int {
	return c.tracks.add(h)
}

// RemoveTrack unregisters a track handler.
func (c *Center) RemoveTrack(id int) bool {
	return c.tracks.remove(id)
}

// SendTrack delivers a track notification to all handlers.
func (c *Center) SendTrack(n Track) {
	c.tracks.send(n, c.log)
}

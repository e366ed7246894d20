package profile

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Service implementation for tests and
// single-process hosts.
type MemoryStore struct {
	profiles map[string]Profile
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

// Lookup implements Service.
func (s *MemoryStore) Lookup(ctx context.Context, userID string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	// Copy the map so callers cannot mutate stored state.
	return Profile{UserID: p.UserID, Experiments: cloneExperiments(p.Experiments)}, nil
}

// Save implements Service.
func (s *MemoryStore) Save(ctx context.Context, p Profile) error {
	if p.UserID == "" {
		return ErrInvalidProfile
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = Profile{UserID: p.UserID, Experiments: cloneExperiments(p.Experiments)}
	return nil
}

// Len reports the number of stored profiles.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func cloneExperiments(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

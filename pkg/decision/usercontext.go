package decision

import (
	"sync"

	"github.com/dmitrymomot/flagkit/pkg/datafile"
)

// UserContext binds a user to the config snapshot a decision call runs
// against, plus any programmatic forced-variation overrides. Contexts are
// cheap and short-lived: create one per decision call series. The override
// map is the only mutable state and is guarded for hosts that share a
// context across goroutines.
type UserContext struct {
	User   datafile.User
	config datafile.ProjectConfig

	mu     sync.RWMutex
	forced map[string]string // experiment ID -> variation key
}

// NewUserContext creates a user context over a config snapshot.
func NewUserContext(cfg datafile.ProjectConfig, user datafile.User) *UserContext {
	return &UserContext{User: user, config: cfg}
}

// Config returns the snapshot this context decides against.
func (uc *UserContext) Config() datafile.ProjectConfig {
	return uc.config
}

// SetForcedVariation pins the user to a variation key for an experiment ID,
// overriding every other decision strategy. An empty variation key removes
// the override.
func (uc *UserContext) SetForcedVariation(experimentID, variationKey string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if variationKey == "" {
		delete(uc.forced, experimentID)
		return
	}
	if uc.forced == nil {
		uc.forced = make(map[string]string)
	}
	uc.forced[experimentID] = variationKey
}

// ForcedVariation returns the override for an experiment ID, if any.
func (uc *UserContext) ForcedVariation(experimentID string) (string, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	key, ok := uc.forced[experimentID]
	return key, ok
}

// RemoveForcedVariation drops the override for an experiment ID.
func (uc *UserContext) RemoveForcedVariation(experimentID string) {
	uc.SetForcedVariation(experimentID, "")
}

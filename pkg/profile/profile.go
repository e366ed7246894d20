package profile

import (
	"context"
	"errors"
)

// Predefined errors for the profile package.
var (
	// ErrNotFound indicates no profile is stored for the user.
	ErrNotFound = errors.New("user profile not found")

	// ErrInvalidProfile indicates a profile with an empty user ID.
	ErrInvalidProfile = errors.New("invalid user profile")
)

// Profile is a user's stored bucketing history.
type Profile struct {
	UserID string `json:"user_id"`
	// Experiments maps experiment IDs to the variation ID the user was
	// bucketed into.
	Experiments map[string]string `json:"experiment_bucket_map"`
}

// Variation returns the stored variation ID for an experiment, if any.
func (p Profile) Variation(experimentID string) (string, bool) {
	id, ok := p.Experiments[experimentID]
	return id, ok && id != ""
}

// With returns a copy of the profile with the experiment decision recorded.
func (p Profile) With(experimentID, variationID string) Profile {
	experiments := make(map[string]string, len(p.Experiments)+1)
	for k, v := range p.Experiments {
		experiments[k] = v
	}
	experiments[experimentID] = variationID
	return Profile{UserID: p.UserID, Experiments: experiments}
}

// Service is the sticky-bucketing store contract. Implementations must be
// safe for concurrent use. Errors from either method are recovered by the
// decision pipeline: a failed Lookup falls through to re-bucketing, a failed
// Save loses stickiness but not the decision.
type Service interface {
	Lookup(ctx context.Context, userID string) (Profile, error)
	Save(ctx context.Context, p Profile) error
}

package decision

import "errors"

// Predefined errors for the decision package.
var (
	// ErrInvalidUserID indicates an empty user ID; nothing deterministic
	// can be decided for it.
	ErrInvalidUserID = errors.New("user id must not be empty")

	// ErrExperimentNotFound indicates a decision was requested for an
	// experiment the project config does not contain, typically a failed
	// lookup passed through.
	ErrExperimentNotFound = errors.New("experiment not found in config")

	// ErrFeatureNotFound indicates a decision was requested for a feature
	// the project config does not contain.
	ErrFeatureNotFound = errors.New("feature not found in config")

	// ErrNoProjectConfig indicates a user context without a config snapshot.
	ErrNoProjectConfig = errors.New("no project config available")
)

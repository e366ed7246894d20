package flagkit

import "errors"

// Predefined errors for the flagkit client.
var (
	// ErrKeyNotFound indicates the key matches neither a feature flag nor
	// an experiment in the current config. The returned decision carries an
	// explanatory reason; the error is informational, not fatal.
	ErrKeyNotFound = errors.New("key not found in project config")

	// ErrNoConfig indicates the client was created without a project
	// config snapshot.
	ErrNoConfig = errors.New("project config is nil")

	// ErrClientClosed indicates a call after Close.
	ErrClientClosed = errors.New("client is closed")
)

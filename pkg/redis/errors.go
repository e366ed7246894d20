package redis

import "errors"

// Predefined errors for the redis package.
var (
	// ErrInvalidConnectionURL indicates the connection URL did not parse.
	ErrInvalidConnectionURL = errors.New("invalid redis connection url")

	// ErrEmptyConnectionURL indicates no connection URL was configured.
	ErrEmptyConnectionURL = errors.New("empty redis connection url")

	// ErrNotReady indicates the server did not answer a ping within the
	// configured attempts.
	ErrNotReady = errors.New("redis did not become ready in time")

	// ErrHealthcheckFailed indicates a liveness ping failed.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)

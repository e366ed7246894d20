package cmab

import "errors"

// Predefined errors for the cmab package.
var (
	// ErrFetchFailed indicates the remote decision fetch did not produce a
	// variation. It is recoverable: the decision pipeline skips the CMAB
	// strategy and reports the failure through its reasons.
	ErrFetchFailed = errors.New("cmab decision fetch failed")

	// ErrNoCmabConfig indicates the experiment is not configured for CMAB
	// decisions.
	ErrNoCmabConfig = errors.New("experiment has no cmab configuration")

	// ErrClientNil indicates the service was constructed without a client.
	ErrClientNil = errors.New("cmab client is nil")
)

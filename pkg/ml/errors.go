package ml

import "errors"

// Analysis errors surfaced to the orchestration boundary. The server
// layer translates these into caller-visible statuses; none of them is
// fatal to the process.
var (
	// ErrNotLoaded means the classifier never finished loading and the
	// process is serving in degraded mode.
	ErrNotLoaded = errors.New("model is not loaded")

	// ErrRateLimited means the caller exhausted its request window.
	ErrRateLimited = errors.New("too many requests")
)

package sources

import "errors"

var (
	// ErrAuth marks token acquisition or refresh failures. Fatal for the
	// current scan of the affected monitor.
	ErrAuth = errors.New("source authentication failed")

	// ErrFetch marks network or rate-limit failures during a content fetch.
	ErrFetch = errors.New("source fetch failed")
)

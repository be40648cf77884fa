package fm

import "errors"

// Errors returned by the fm package.
var (
	// ErrNoCurrentEvent is returned by operations that require an
	// in-flight event (processing flag set) when none is active.
	ErrNoCurrentEvent = errors.New("fm: no event currently being processed")
)

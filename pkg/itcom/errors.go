package itcom

import "errors"

// Errors returned by the itcom package.
var (
	// ErrUnknownConnection names a connection role the facade has no
	// state for. No function in this package returns it at present;
	// AllowTransmit admits a role it has no limiter for.
	ErrUnknownConnection = errors.New("itcom: unknown connection role")
	// ErrNoCurrentEvent reports that no event is persisted (the
	// processing flag is clear). No function in this package returns it
	// at present.
	ErrNoCurrentEvent = errors.New("itcom: no current event persisted")
)

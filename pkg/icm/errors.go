package icm

import "errors"

// Errors returned by the icm package.
var (
	// ErrWouldBlock is returned by Connection.ReadFrame when no frame is
	// currently available; the receive path treats this as "return,
	// nothing to do this tick" (spec §4.1 receive step 1).
	ErrWouldBlock = errors.New("icm: read would block")
	// ErrConnectionClosed is returned by Connection.ReadFrame when the
	// peer has closed its side of the stream.
	ErrConnectionClosed = errors.New("icm: connection closed by peer")
	// ErrNotConnected is returned by transmit/receive operations invoked
	// against a connection that is not in the Connected state.
	ErrNotConnected = errors.New("icm: connection not in Connected state")
	// ErrUnknownRole is returned when an operation names a connection
	// role the manager has no registration for.
	ErrUnknownRole = errors.New("icm: unknown connection role")
)

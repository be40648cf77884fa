package wireframe

import "errors"

// Errors returned by the wireframe package.
var (
	// ErrFrameTooShort is returned when decoding a buffer shorter than Size.
	ErrFrameTooShort = errors.New("wireframe: frame too short")
)

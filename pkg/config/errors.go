package config

import "errors"

var (
	ErrVAMAddrRequired     = errors.New("config: VAM address is required")
	ErrCMAddrRequired      = errors.New("config: CM address is required")
	ErrInvalidTickPeriod   = errors.New("config: tick period must be positive")
	ErrInvalidSelfTestSize = errors.New("config: self-test RAM word count must be positive")
)

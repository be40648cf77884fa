// Package config holds the flat process-level configuration for the
// interlock-core binary, mirroring the reference stack's matter.NodeConfig:
// a single struct with Validate() and applyDefaults() methods, constructed
// once at startup and passed down to every subsystem's own Config.
package config

import (
	"time"

	"github.com/vsi-core/interlock/pkg/itcom"
)

// DefaultTickPeriod is the nominal period of every periodic tick worker
// (spec §5 "Scheduling model": "25 ms period").
const DefaultTickPeriod = 25 * time.Millisecond

// Config is the top-level configuration for the interlock-core process.
// No environment variables govern core behavior (spec §6); every field
// here is set by a CLI flag or left at its default.
type Config struct {
	// VAMAddr / CMAddr are "host:port" dial targets for the
	// VAM-side and CM-side byte-stream connections this core consumes
	// (spec §1 "Socket setup... the core consumes an already-established
	// byte stream per connection" — interlock-core owns establishing it).
	VAMAddr string
	CMAddr  string

	// TickPeriod is the period shared by the ICM and FM tick workers.
	TickPeriod time.Duration

	// RollingCounterErrorLimit is the per-enum RC failure streak that
	// raises FAULT_ROLL_COUNT (spec §4.1 step 7).
	RollingCounterErrorLimit uint8

	// TrackerCapacity / QueueCapacity bound the ITCOM facade's tracker
	// ring buffers and the three action queues.
	TrackerCapacity int
	QueueCapacity   int

	// VAMAllowedMessages / VAMWindowMs and CMAllowedMessages / CMWindowMs
	// configure the transmit-side rate limiter per destination
	// connection (spec §4.1 transmit step 4).
	VAMAllowedMessages int
	VAMWindowMs        int
	CMAllowedMessages  int
	CMWindowMs         int

	// EventLogPath is the rotating event log file FM writes to (spec §6,
	// §4.2 Stage2).
	EventLogPath string
	// PersistPath is the event_data.bin crash-recovery record FM reads
	// at startup and rewrites after every stage (spec §3, §4.2).
	PersistPath string

	// SelfTestRAMWords sizes the buffer pkg/selftest exercises standing
	// in for RAM (spec §6 "Startup self-test").
	SelfTestRAMWords int
}

// Validate checks the configuration for errors a caller must fix before
// starting the process.
func (c *Config) Validate() error {
	if c.VAMAddr == "" {
		return ErrVAMAddrRequired
	}
	if c.CMAddr == "" {
		return ErrCMAddrRequired
	}
	if c.TickPeriod <= 0 {
		return ErrInvalidTickPeriod
	}
	if c.SelfTestRAMWords <= 0 {
		return ErrInvalidSelfTestSize
	}
	return nil
}

// applyDefaults fills in default values for unset fields, mirroring
// matter.NodeConfig.applyDefaults and itcom.Config.applyDefaults (which
// this struct's ITCOMConfig delegates to).
func (c *Config) applyDefaults() {
	if c.TickPeriod == 0 {
		c.TickPeriod = DefaultTickPeriod
	}
	if c.EventLogPath == "" {
		c.EventLogPath = "interlock_event.log"
	}
	if c.PersistPath == "" {
		c.PersistPath = "event_data.bin"
	}
	if c.SelfTestRAMWords == 0 {
		c.SelfTestRAMWords = 256
	}
}

// Normalize applies defaults then validates, returning the first
// validation error encountered.
func (c *Config) Normalize() error {
	c.applyDefaults()
	return c.Validate()
}

// ITCOMConfig builds the itcom.Config this process's facade should be
// constructed with. Fields left zero here fall through to
// itcom.Config.applyDefaults's own defaults.
func (c *Config) ITCOMConfig() itcom.Config {
	return itcom.Config{
		RollingCounterErrorLimit: c.RollingCounterErrorLimit,
		TrackerCapacity:          c.TrackerCapacity,
		QueueCapacity:            c.QueueCapacity,
		VAMAllowedMessages:       c.VAMAllowedMessages,
		VAMWindowMs:              c.VAMWindowMs,
		CMAllowedMessages:        c.CMAllowedMessages,
		CMWindowMs:               c.CMWindowMs,
	}
}

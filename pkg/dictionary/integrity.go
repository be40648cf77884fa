package dictionary

import "github.com/vsi-core/interlock/pkg/faultids"

// ClearCondition names the event that retires a MessageTracker keyed to
// this enum, per spec §3.
type ClearCondition uint8

const (
	ClearNone ClearCondition = iota
	ClearOnInit
	ClearOnAckVAM
	ClearOnAckCM
	ClearOnCalibReadback
)

func (c ClearCondition) String() string {
	switch c {
	case ClearOnInit:
		return "Init"
	case ClearOnAckVAM:
		return "AckVAM"
	case ClearOnAckCM:
		return "AckCM"
	case ClearOnCalibReadback:
		return "CalibReadback"
	default:
		return "None"
	}
}

// IntegrityConfig is the per-enum, read-only-after-startup configuration
// record described in spec §3.
type IntegrityConfig struct {
	TimeoutLimit          uint16
	CycleCountEnabled     bool
	ActionReqTimerEnabled bool
	TypeLengthEnabled     bool
	CRCEnabled            bool
	RCEnabled             bool
	RSNEnabled            bool
	CyclicEnabled         bool
	SeqAssigner           SeqAssigner
	TimeoutEventID        faultids.EventID

	// ClearCondition is a static per-enum setting. The transmit path
	// reads it only to add a ClearOnCalibReadback tracker; the condition
	// stamped on ordinary trackers is derived from the connection role
	// and enum in icm.
	ClearCondition ClearCondition

	// Class drives receive-path dispatch and transmit-path routing.
	Class MessageClass

	// Length is the dictionary-declared payload length for this
	// message, used by the type/length validation step.
	Length uint16
}

package itcom

import "github.com/vsi-core/interlock/pkg/dictionary"

// TrackerSeqInit is the sentinel sequence number assigned to a tracker
// reset for a cyclic message (spec §4.1 step 7, "seq_num = INIT").
const TrackerSeqInit = 0xFFFF

// MessageTracker is the cycle-count entry described in spec §3: a
// per-outstanding-message record used to detect timeouts and to retire on
// a matching acknowledgement or calibration readback.
type MessageTracker struct {
	MsgID              uint16
	SeqNum             uint16
	Type               uint16
	Enum               dictionary.MessageEnum
	ResponseCycleCount uint16
	ClearCondition     dictionary.ClearCondition
}

// TrackerBufferCapacity bounds each of the three typed tracker buffers
// (Action, CalibCopy, CalibReadback).
const TrackerBufferCapacity = 64

// matchesIDSeq reports whether this tracker corresponds to (id, seq),
// used to retire a tracker on a matching acknowledgement.
func (t MessageTracker) matchesIDSeq(id, seq uint16) bool {
	return t.MsgID == id && t.SeqNum == seq
}

// matchesClearCondition reports whether this tracker is retired by the
// given clear condition, used when an Ack or CalibReadback arrives.
func (t MessageTracker) matchesClearCondition(c dictionary.ClearCondition) bool {
	return t.ClearCondition == c
}

package itcom

import (
	"github.com/vsi-core/interlock/pkg/dataqueue"
	"github.com/vsi-core/interlock/pkg/dictionary"
)

// --- Action/cyclic tracker buffer (spec §4.1 steps 7; §4.1 cycle-count
// updater; spec calls this "the Action message buffer") ---

// AddTracker appends a new MessageTracker, evicting the oldest tracker if
// the buffer is full.
func (c *ITCOM) AddTracker(t MessageTracker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actionTrackers.Add(t)
}

// ResetCyclicTracker finds the tracker keyed by (msgID, enum) and resets
// it to response_cycle_count=0, seq_num=INIT, clear_condition=Init (spec
// §4.1 step 7, cyclic branch). If no matching tracker exists, one is
// created in the reset state.
func (c *ITCOM) ResetCyclicTracker(msgID uint16, enum dictionary.MessageEnum) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.actionTrackers.FindBy(func(t MessageTracker) bool {
		return t.MsgID == msgID && t.Enum == enum
	})
	reset := MessageTracker{
		MsgID:          msgID,
		Enum:           enum,
		SeqNum:         TrackerSeqInit,
		ClearCondition: dictionary.ClearOnInit,
	}
	if idx == -1 {
		c.actionTrackers.Add(reset)
		return
	}
	c.actionTrackers.Update(idx, reset)
}

// RemoveTrackerByClearCondition finds and removes the tracker matching
// (msgID, seq, clearCondition) — how acknowledgements and calibration
// readbacks retire their originating trackers (spec §4.1 step 7). Reports
// whether a tracker was removed.
func (c *ITCOM) RemoveTrackerByClearCondition(msgID, seq uint16, cond dictionary.ClearCondition) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cond == dictionary.ClearNone {
		return false
	}
	idx := c.actionTrackers.FindBy(func(t MessageTracker) bool {
		return t.matchesIDSeq(msgID, seq) && t.matchesClearCondition(cond)
	})
	if idx == -1 {
		return false
	}
	c.actionTrackers.Remove(idx)
	return true
}

// TrackerAction describes what the cycle-count updater should do with a
// tracker it has just timed out, chosen by the caller from the tracker's
// enum and clear condition (spec §4.1 cycle-count updater step 2).
type TrackerAction uint8

const (
	TrackerActionRemove TrackerAction = iota
	TrackerActionResetCyclic
)

// SweepTrackers visits every tracker in reverse index order (so in-place
// removals never shift an unvisited entry), incrementing
// response_cycle_count and invoking onTimeout when a tracker reaches
// limit. onTimeout returns the action to take; TrackerActionResetCyclic
// zeroes response_cycle_count and keeps the tracker (PRNDL/VehicleSpeed),
// TrackerActionRemove deletes it.
func (c *ITCOM) SweepTrackers(limitFor func(MessageTracker) uint16, onTimeout func(MessageTracker) TrackerAction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.actionTrackers.ForEachReverse(func(i int, t MessageTracker) bool {
		t.ResponseCycleCount++
		limit := limitFor(t)
		if limit == 0 || t.ResponseCycleCount < limit {
			c.actionTrackers.Update(i, t)
			return true
		}

		switch onTimeout(t) {
		case TrackerActionResetCyclic:
			t.ResponseCycleCount = 0
			c.actionTrackers.Update(i, t)
		default:
			c.actionTrackers.Remove(i)
		}
		return true
	})
}

// --- Calibration copy/readback buffers (spec §4.1 transmit step 6;
// cycle-count updater step 2) ---

// AddCalibCopy records a copy of a transmitted calibration payload.
func (c *ITCOM) AddCalibCopy(t MessageTracker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calibCopy.Add(t)
}

// AddCalibReadback records a received calibration readback.
func (c *ITCOM) AddCalibReadback(t MessageTracker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calibReadback.Add(t)
}

// RemoveCalibEntriesFor removes every calibration-copy and
// calibration-readback entry matching msgID, used when a calibration
// tracker times out (spec §4.1 cycle-count updater step 2).
func (c *ITCOM) RemoveCalibEntriesFor(msgID uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		idx := c.calibCopy.FindBy(func(t MessageTracker) bool { return t.MsgID == msgID })
		if idx == -1 {
			break
		}
		c.calibCopy.Remove(idx)
	}
	for {
		idx := c.calibReadback.FindBy(func(t MessageTracker) bool { return t.MsgID == msgID })
		if idx == -1 {
			break
		}
		c.calibReadback.Remove(idx)
	}
}

// --- Staging queues (spec §4.4, §4.1) ---

// EnqueueActionRequest stages a validated ActionRequest for the vehicle
// state machine to consume.
func (c *ITCOM) EnqueueActionRequest(p ProcessMsgData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actionRequestQueue.Enqueue(p.Encode())
}

// DequeueActionRequest removes the next staged ActionRequest, if any.
func (c *ITCOM) DequeueActionRequest() (ProcessMsgData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := c.actionRequestQueue.Dequeue()
	if err != nil {
		return ProcessMsgData{}, false
	}
	return DecodeProcessMsgData(raw), true
}

// EnqueueApprovedAction stages a state-machine-approved action for
// transmission to CM.
func (c *ITCOM) EnqueueApprovedAction(p ProcessMsgData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.approvedActionQueue.Enqueue(p.Encode())
}

// EnqueueSafeState stages a safe-state command for transmission to CM.
func (c *ITCOM) EnqueueSafeState(p ProcessMsgData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.safeStateQueue.Enqueue(p.Encode())
}

// DequeueForTransmit selects the source queue by the current SI state
// (spec §4.1 transmit step 1): NormalOp/StartupTest drain the
// Approved-Actions queue, SafeState drains the Safe-State queue, any
// other state yields nothing.
func (c *ITCOM) DequeueForTransmit(state SIState) (ProcessMsgData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var q *dataqueue.Queue
	switch state {
	case SIStateNormalOp, SIStateStartupTest:
		q = c.approvedActionQueue
	case SIStateSafeState:
		q = c.safeStateQueue
	default:
		return ProcessMsgData{}, false
	}
	raw, err := q.Dequeue()
	if err != nil {
		return ProcessMsgData{}, false
	}
	return DecodeProcessMsgData(raw), true
}

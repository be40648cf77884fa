package icm

import (
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/itcom"
)

// CycleCountTick runs one cycle-count-updater iteration (spec §4.1
// "Cycle-count updater"): it advances the global tick counter, emits a
// periodic status notification every CyclesPerStatusNotification ticks,
// and sweeps every tracked message for a timeout.
func (m *ICM) CycleCountTick() {
	m.globalCycle = (m.globalCycle + 1) % 0xFFFF
	if m.globalCycle%CyclesPerStatusNotification == 0 {
		m.emitStatusNotification()
	}

	m.state.SweepTrackers(m.timeoutLimitFor, m.handleTrackerTimeout)
}

// timeoutLimitFor returns the configured timeout_limit (in ticks) for a
// tracker's enum, or 0 (never times out) if the enum isn't tracked.
func (m *ICM) timeoutLimitFor(t itcom.MessageTracker) uint16 {
	cfg, ok := m.dict.Config(t.Enum)
	if !ok {
		return 0
	}
	return cfg.TimeoutLimit
}

// handleTrackerTimeout implements spec §4.1 cycle-count updater step 2's
// per-tracker timeout branches.
func (m *ICM) handleTrackerTimeout(t itcom.MessageTracker) itcom.TrackerAction {
	cfg, ok := m.dict.Config(t.Enum)
	if !ok {
		return itcom.TrackerActionRemove
	}

	if cfg.TimeoutEventID != 0 {
		m.raise(cfg.TimeoutEventID)
	}
	if cfg.Class == dictionary.ClassActionRequest {
		m.emitActionNotification(NotifyTimeoutLimit, t.MsgID, t.SeqNum)
	}
	if t.ClearCondition == dictionary.ClearOnCalibReadback {
		m.state.RemoveCalibEntriesFor(t.MsgID)
	}

	switch t.Enum {
	case dictionary.PRNDL:
		m.state.MarkGearOutdated()
		return itcom.TrackerActionResetCyclic
	case dictionary.VehicleSpeed:
		m.state.MarkSpeedOutdated()
		return itcom.TrackerActionResetCyclic
	default:
		return itcom.TrackerActionRemove
	}
}

// emitStatusNotification sends the periodic StatusNotificationASI frame
// carrying the interlock's current SI state (spec §4.1 cycle-count
// updater step 1).
func (m *ICM) emitStatusNotification() {
	cfg, ok := m.dict.Config(dictionary.StatusNotificationASI)
	if !ok {
		return
	}
	var payload [8]byte
	payload[0] = byte(m.state.SIState())
	pmd := itcom.ProcessMsgData{Type: 0x0401, ID: 0x0001, Length: cfg.Length, Payload: payload}
	if err := m.transmit(dictionary.StatusNotificationASI, pmd); err != nil {
		m.log.Debugf("icm: status notification send failed: %v", err)
	}
}

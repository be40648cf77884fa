package icm

import (
	"testing"

	"github.com/vsi-core/interlock/pkg/crc16"
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/faultids"
	"github.com/vsi-core/interlock/pkg/itcom"
	"github.com/vsi-core/interlock/pkg/wireframe"
)

type testRig struct {
	dict  *dictionary.Dictionary
	state *itcom.ITCOM
	conns *ConnectionManager
	cm    *fakeConn
	vam   *fakeConn
	icm   *ICM
}

func newTestRig(t *testing.T, cfg itcom.Config) *testRig {
	t.Helper()
	dict := dictionary.New()
	cfg.Dictionary = dict
	state := itcom.New(cfg)
	conns := NewConnectionManager()
	cm := &fakeConn{}
	vam := &fakeConn{}
	conns.Set(dictionary.RoleCM, NewConnection(dictionary.RoleCM, cm, nil))
	conns.Set(dictionary.RoleVAM, NewConnection(dictionary.RoleVAM, vam, nil))
	return &testRig{
		dict: dict, state: state, conns: conns, cm: cm, vam: vam,
		icm: New(dict, state, conns, nil),
	}
}

func mustFrame(t *testing.T, msgType, id, seq, rc uint16, length uint16, value [8]byte) []byte {
	t.Helper()
	f := wireframe.Frame{
		Type: msgType, ID: id, SequenceNumber: seq, RollingCounter: rc,
		Length: length, Value: value,
	}
	f.CRC = crc16.Checksum(f.CRCInput())
	return f.Encode()
}

func decodeFrame(t *testing.T, buf []byte) wireframe.Frame {
	t.Helper()
	var f wireframe.Frame
	if _, err := f.Decode(buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return f
}

// TestAckRetiresTracker reproduces literal scenario 2: an approved action
// transmitted to CM is tracked for ACK; a matching AckCM frame retires
// the tracker, so the tracked timeout never fires.
func TestAckRetiresTracker(t *testing.T) {
	rig := newTestRig(t, itcom.Config{})

	if err := rig.state.EnqueueApprovedAction(itcom.ProcessMsgData{Type: 0x0500, ID: 0x0010, Length: 8}); err != nil {
		t.Fatalf("EnqueueApprovedAction: %v", err)
	}
	if err := rig.icm.TransmitTick(); err != nil {
		t.Fatalf("TransmitTick: %v", err)
	}

	sent := decodeFrame(t, rig.cm.written()[:wireframe.Size])
	if sent.Type != 0x0500 || sent.ID != 0x0010 {
		t.Fatalf("unexpected transmitted frame: %+v", sent)
	}

	ackBuf := mustFrame(t, 0x0201, sent.ID, sent.SequenceNumber, 1, 1, [8]byte{AckSuccess})
	rig.cm.feed(ackBuf)
	if err := rig.icm.ReceiveTick(dictionary.RoleCM); err != nil {
		t.Fatalf("ReceiveTick: %v", err)
	}

	for i := 0; i < 41; i++ {
		rig.icm.CycleCountTick()
	}
	if n := rig.state.EventQueueLen(); n != 0 {
		t.Fatalf("expected no timeout fault after ACK retired the tracker, got %d queued events", n)
	}
}

// TestUnackedActionTimesOut is the control case for TestAckRetiresTracker:
// without a matching ACK, the tracker times out and raises
// FaultActionReqTimeout once its TimeoutLimit (40 ticks) elapses.
func TestUnackedActionTimesOut(t *testing.T) {
	rig := newTestRig(t, itcom.Config{})

	if err := rig.state.EnqueueApprovedAction(itcom.ProcessMsgData{Type: 0x0500, ID: 0x0010, Length: 8}); err != nil {
		t.Fatalf("EnqueueApprovedAction: %v", err)
	}
	if err := rig.icm.TransmitTick(); err != nil {
		t.Fatalf("TransmitTick: %v", err)
	}

	for i := 0; i < 41; i++ {
		rig.icm.CycleCountTick()
	}

	ev, ok := rig.state.DequeueHeadEvent()
	if !ok {
		t.Fatal("expected a timeout fault event to be queued")
	}
	if ev.EventID != faultids.FaultActionReqTimeout {
		t.Fatalf("got event %v, want FaultActionReqTimeout", ev.EventID)
	}
}

// TestCyclicPRNDLTimeoutResets reproduces literal scenario 3: a PRNDL
// status frame seeds a cyclic tracker; if no further update arrives
// within TimeoutLimit (40) ticks, FaultPRNDLTimeout fires and the
// tracker resets for another cycle rather than being removed.
func TestCyclicPRNDLTimeoutResets(t *testing.T) {
	rig := newTestRig(t, itcom.Config{})

	rig.cm.feed(mustFrame(t, 0x0200, 0x0001, 0, 1, 1, [8]byte{3}))
	if err := rig.icm.ReceiveTick(dictionary.RoleCM); err != nil {
		t.Fatalf("ReceiveTick: %v", err)
	}

	for i := 0; i < 39; i++ {
		rig.icm.CycleCountTick()
	}
	if n := rig.state.EventQueueLen(); n != 0 {
		t.Fatalf("expected no timeout before the 40th tick, got %d events", n)
	}

	rig.icm.CycleCountTick()
	ev, ok := rig.state.DequeueHeadEvent()
	if !ok {
		t.Fatal("expected FaultPRNDLTimeout at the 40th tick")
	}
	if ev.EventID != faultids.FaultPRNDLTimeout {
		t.Fatalf("got event %v, want FaultPRNDLTimeout", ev.EventID)
	}

	// Receiving a fresh PRNDL frame after the reset must still be
	// accepted (the tracker was reset, not removed). RC=2 continues the
	// delta-1 wrap-around window from the first frame's RC=1.
	rig.cm.feed(mustFrame(t, 0x0200, 0x0001, 1, 2, 1, [8]byte{4}))
	if err := rig.icm.ReceiveTick(dictionary.RoleCM); err != nil {
		t.Fatalf("ReceiveTick after reset: %v", err)
	}
}

// TestRateLimiterDropsExcessTransmit reproduces literal scenario 6: once
// the configured per-window message cap to CM is exhausted, further
// transmit attempts are dropped rather than queued or retried.
func TestRateLimiterDropsExcessTransmit(t *testing.T) {
	rig := newTestRig(t, itcom.Config{CMAllowedMessages: 1, CMWindowMs: 60_000})

	if err := rig.state.EnqueueApprovedAction(itcom.ProcessMsgData{Type: 0x0500, ID: 0x0010, Length: 8}); err != nil {
		t.Fatalf("EnqueueApprovedAction: %v", err)
	}
	if err := rig.icm.TransmitTick(); err != nil {
		t.Fatalf("TransmitTick 1: %v", err)
	}
	firstLen := len(rig.cm.written())
	if firstLen == 0 {
		t.Fatal("expected the first transmit to go through")
	}

	if err := rig.state.EnqueueApprovedAction(itcom.ProcessMsgData{Type: 0x0500, ID: 0x0010, Length: 8}); err != nil {
		t.Fatalf("EnqueueApprovedAction: %v", err)
	}
	if err := rig.icm.TransmitTick(); err != nil {
		t.Fatalf("TransmitTick 2: %v", err)
	}
	if len(rig.cm.written()) != firstLen {
		t.Fatal("expected the second transmit to be dropped by the rate limiter")
	}
	if len(rig.vam.written()) == 0 {
		t.Fatal("expected a rate-limiter-drop notification to VAM")
	}
}

// TestCRCFailureThresholdRaisesFault reproduces literal scenario 1: three
// consecutive CRC failures for the same enum raise FAULT_MSG_CRC_CHECK.
func TestCRCFailureThresholdRaisesFault(t *testing.T) {
	rig := newTestRig(t, itcom.Config{})

	corrupt := mustFrame(t, 0x0200, 0x0001, 0, 1, 1, [8]byte{3})
	corrupt[len(corrupt)-1] ^= 0xFF // flip a payload byte without recomputing CRC

	for i := 0; i < 3; i++ {
		rig.cm.feed(corrupt)
		if err := rig.icm.ReceiveTick(dictionary.RoleCM); err != nil {
			t.Fatalf("ReceiveTick %d: %v", i, err)
		}
	}

	ev, ok := rig.state.DequeueHeadEvent()
	if !ok {
		t.Fatal("expected FaultMsgCRCCheck after three consecutive CRC failures")
	}
	if ev.EventID != faultids.FaultMsgCRCCheck {
		t.Fatalf("got event %v, want FaultMsgCRCCheck", ev.EventID)
	}
}

func TestReceiveTickUnknownRole(t *testing.T) {
	rig := newTestRig(t, itcom.Config{})
	rig.conns.Remove(dictionary.RoleCM)
	if err := rig.icm.ReceiveTick(dictionary.RoleCM); err != ErrUnknownRole {
		t.Fatalf("got %v, want ErrUnknownRole", err)
	}
}

// TestNotifyVAMSendsActionNotification checks the FM-to-ICM notification
// wiring (spec §4.2 Stage1 "InvokeNotification" for NotifyExternalSystem
// events): NotifyVAM must reach VAM as a framed ActionNotification
// carrying the event id.
func TestNotifyVAMSendsActionNotification(t *testing.T) {
	rig := newTestRig(t, itcom.Config{})
	rig.icm.NotifyVAM(itcom.ErrorEvent{EventID: faultids.FaultECUCriticalFail})

	out := rig.vam.written()
	if len(out) == 0 {
		t.Fatal("expected a frame written to VAM")
	}
	f := decodeFrame(t, out)
	if f.Type != 0x0400 {
		t.Fatalf("frame type = %#x, want ActionNotification (0x0400)", f.Type)
	}
	if f.Value[0] != byte(NotifyFaultEvent) {
		t.Fatalf("payload code = %d, want NotifyFaultEvent (%d)", f.Value[0], NotifyFaultEvent)
	}
}

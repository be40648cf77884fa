package icm

import (
	"testing"

	"github.com/pion/transport/v3/test"
	"github.com/vsi-core/interlock/pkg/crc16"
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/wireframe"
)

// TestConnectionOverPionBridge exercises Connection against a real
// net.Conn pair (github.com/pion/transport/v3/test.Bridge) instead of
// the hand-rolled fakeConn used elsewhere in this package, the same
// in-memory "virtual network" pattern the reference stack's
// transport.Pipe wraps for deterministic, flaky-free connection tests.
// Delivery across the bridge only happens on an explicit Tick, so a
// zero-duration read deadline never races a synchronous rendezvous the
// way net.Pipe's would.
func TestConnectionOverPionBridge(t *testing.T) {
	bridge := test.NewBridge()

	sender := NewConnection(dictionary.RoleCM, bridge.GetConn0(), nil)
	receiver := NewConnection(dictionary.RoleCM, bridge.GetConn1(), nil)
	defer sender.Close()
	defer receiver.Close()

	frame := wireframe.Frame{Type: 0x0200, ID: 0x0001, SequenceNumber: 3, RollingCounter: 1, Length: 8}
	frame.CRC = crc16.Checksum(frame.CRCInput())
	if err := sender.WriteFrame(&frame); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	if n := bridge.Tick(); n == 0 {
		t.Fatal("expected the bridge to deliver the written bytes on Tick")
	}

	got, err := receiver.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.Type != frame.Type || got.ID != frame.ID || got.SequenceNumber != frame.SequenceNumber {
		t.Fatalf("got %+v, want %+v", got, frame)
	}
}

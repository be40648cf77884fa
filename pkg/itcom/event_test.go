package itcom

import (
	"testing"

	"github.com/vsi-core/interlock/pkg/faultids"
)

func TestEventQueueEvictsLeastSevere(t *testing.T) {
	c := newTestFacade(t)

	for i := 0; i < QueueMax; i++ {
		admitted, _ := c.RaiseEvent(faultids.FaultCalibTimeout) // SeverityNormal
		if !admitted {
			t.Fatalf("event %d should have been admitted while queue has room", i)
		}
	}
	if c.EventQueueLen() != QueueMax {
		t.Fatalf("queue len = %d, want %d", c.EventQueueLen(), QueueMax)
	}

	admitted, desc := c.RaiseEvent(faultids.FaultECUCriticalFail) // SeverityCritical
	if !admitted {
		t.Fatal("critical event must displace a lesser-severity event")
	}
	if desc.Severity != faultids.SeverityCritical {
		t.Fatalf("descriptor severity = %v, want Critical", desc.Severity)
	}
	if c.EventQueueLen() != QueueMax {
		t.Fatalf("queue len after eviction = %d, want %d", c.EventQueueLen(), QueueMax)
	}

	found := false
	for i := 0; i < QueueMax; i++ {
		ev, ok := c.DequeueHeadEvent()
		if !ok {
			t.Fatal("unexpected empty queue while scanning")
		}
		if ev.EventID == faultids.FaultECUCriticalFail {
			found = true
		}
	}
	if !found {
		t.Fatal("critical event missing from queue after eviction")
	}
}

func TestEventQueueDropsEqualSeverityWhenFull(t *testing.T) {
	c := newTestFacade(t)
	for i := 0; i < QueueMax; i++ {
		c.RaiseEvent(faultids.FaultCalibTimeout) // SeverityNormal
	}
	admitted, _ := c.RaiseEvent(faultids.FaultVehicleSpeedTimeout) // also SeverityNormal
	if admitted {
		t.Fatal("equal-severity event must be dropped when queue is full")
	}
	if c.EventQueueLen() != QueueMax {
		t.Fatalf("queue len = %d, want %d", c.EventQueueLen(), QueueMax)
	}
}

func TestEventCounterIsLifetimeAndUnaffectedByEviction(t *testing.T) {
	c := newTestFacade(t)
	for i := 0; i < QueueMax+5; i++ {
		c.RaiseEvent(faultids.FaultCalibTimeout)
	}
	if got := c.EventCounter(faultids.FaultCalibTimeout); got != QueueMax+5 {
		t.Fatalf("lifetime counter = %d, want %d", got, QueueMax+5)
	}
}

func TestCRCThresholdScenarioYieldsOneQueuedEvent(t *testing.T) {
	c := newTestFacade(t)
	var admittedCount int
	for i := 0; i < 3; i++ {
		if c.RegisterCRCFailure(0 /* enum unused by the counter map key equality */) {
			admitted, _ := c.RaiseEvent(faultids.FaultMsgCRCCheck)
			if admitted {
				admittedCount++
			}
		}
	}
	if admittedCount != 1 {
		t.Fatalf("admitted %d FAULT_MSG_CRC_CHECK events, want exactly 1", admittedCount)
	}
	if c.EventQueueLen() != 1 {
		t.Fatalf("queue len = %d, want 1", c.EventQueueLen())
	}
}

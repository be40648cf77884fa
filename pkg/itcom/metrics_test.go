package itcom

import (
	"testing"

	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/faultids"
)

func TestMetricsFrameCounters(t *testing.T) {
	c := New(Config{Dictionary: dictionary.New()})

	c.RecordFrameReceived()
	c.RecordFrameReceived()
	c.RecordFrameDropped()

	m := c.Metrics()
	if m.FramesReceived != 2 {
		t.Errorf("FramesReceived = %d, want 2", m.FramesReceived)
	}
	if m.FramesDropped != 1 {
		t.Errorf("FramesDropped = %d, want 1", m.FramesDropped)
	}
}

func TestMetricsEventsBySeverity(t *testing.T) {
	c := New(Config{Dictionary: dictionary.New()})

	c.RaiseEvent(faultids.FaultECUCriticalFail) // SeverityCritical
	c.RaiseEvent(faultids.InfoAckUnsuccess)      // SeverityMinor
	c.RaiseEvent(faultids.InfoAckUnsuccess)

	m := c.Metrics()
	if m.EventsBySeverity[faultids.SeverityCritical] != 1 {
		t.Errorf("critical count = %d, want 1", m.EventsBySeverity[faultids.SeverityCritical])
	}
	if m.EventsBySeverity[faultids.SeverityMinor] != 2 {
		t.Errorf("minor count = %d, want 2", m.EventsBySeverity[faultids.SeverityMinor])
	}
}

func TestMetricsActiveTrackerCounts(t *testing.T) {
	c := New(Config{Dictionary: dictionary.New()})
	c.AddTracker(MessageTracker{MsgID: 1, Enum: dictionary.ActionRequest})
	c.AddCalibCopy(MessageTracker{MsgID: 2, Enum: dictionary.TorqueVecMotorCalib})
	c.AddCalibReadback(MessageTracker{MsgID: 3, Enum: dictionary.CalibReadback})

	m := c.Metrics()
	if m.ActionTrackers != 1 {
		t.Errorf("ActionTrackers = %d, want 1", m.ActionTrackers)
	}
	if m.CalibCopies != 1 {
		t.Errorf("CalibCopies = %d, want 1", m.CalibCopies)
	}
	if m.CalibReadbacks != 1 {
		t.Errorf("CalibReadbacks = %d, want 1", m.CalibReadbacks)
	}
}

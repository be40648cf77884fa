package itcom

import "github.com/vsi-core/interlock/pkg/faultids"

// Metrics is a read-only snapshot of the facade's counters (spec §10
// "Supplemented Features"): frames received/dropped, events raised by
// severity, and the number of trackers currently live in each buffer.
// This is introspection only, not a new behavior — grounded on the
// reference stack's own convention of a doc comment naming what a
// struct field counts rather than pulling in an observability
// framework.
type Metrics struct {
	FramesReceived uint64
	FramesDropped  uint64

	EventsBySeverity map[faultids.Severity]uint64

	ActionTrackers int
	CalibCopies    int
	CalibReadbacks int
}

// RecordFrameReceived increments the received-frame counter. Call sites
// in the ICM receive path count every frame that reaches ReceiveTick,
// whether or not it turns out to be valid.
func (c *ITCOM) RecordFrameReceived() {
	c.mu.Lock()
	c.framesReceived++
	c.mu.Unlock()
}

// RecordFrameDropped increments the dropped-frame counter, for frames
// rejected on length/CRC/unknown-enum grounds (spec §4.1 receive steps
// 3-6). Rolling-counter rejections are not counted here.
func (c *ITCOM) RecordFrameDropped() {
	c.mu.Lock()
	c.framesDropped++
	c.mu.Unlock()
}

// Metrics returns a point-in-time snapshot of every counter, computed
// under the same lock that guards the state it observes.
func (c *ITCOM) Metrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	bySeverity := make(map[faultids.Severity]uint64, 3)
	for id, count := range c.eventCounters {
		if count == 0 {
			continue
		}
		desc, _ := faultids.Lookup(id)
		bySeverity[desc.Severity] += count
	}

	return Metrics{
		FramesReceived:   c.framesReceived,
		FramesDropped:    c.framesDropped,
		EventsBySeverity: bySeverity,
		ActionTrackers:   c.actionTrackers.Len(),
		CalibCopies:      c.calibCopy.Len(),
		CalibReadbacks:   c.calibReadback.Len(),
	}
}

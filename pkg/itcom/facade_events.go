package itcom

import "github.com/vsi-core/interlock/pkg/faultids"

// RaiseEvent is the enqueue policy of spec §4.2: it increments id's
// lifetime occurrence counter (unaffected by queue eviction), captures a
// snapshot, and admits the occurrence into the EventQueue per the
// severity-eviction rule. The returned Descriptor lets the caller decide
// whether to fire an external notification (NotifySM / NotifyExternalSystem).
func (c *ITCOM) RaiseEvent(id faultids.EventID) (admitted bool, desc faultids.Descriptor) {
	desc, _ = faultids.Lookup(id)

	c.mu.Lock()
	c.eventCounters[desc.ID]++
	counter := c.eventCounters[desc.ID]
	snapshot := Snapshot{
		VehicleSpeed:      c.vehicle.Speed,
		GearShiftPosition: c.vehicle.Gear,
		SIState:           uint8(c.vehicle.SIState),
		SystemTime:        stampSystemTime(c.now()),
	}
	ev := ErrorEvent{
		EventID:      desc.ID,
		Counter:      counter,
		Severity:     desc.Severity,
		Notification: desc.Notification,
		Snapshot:     snapshot,
	}
	admitted, _ = c.events.Enqueue(ev)
	c.mu.Unlock()

	return admitted, desc
}

// EventCounter returns the lifetime occurrence count for id.
func (c *ITCOM) EventCounter(id faultids.EventID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eventCounters[id]
}

// EventQueueLen returns the number of events currently queued.
func (c *ITCOM) EventQueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.Len()
}

// PeekHeadEvent returns the event at the front of the queue, without
// removing it.
func (c *ITCOM) PeekHeadEvent() (ErrorEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.Head()
}

// DequeueHeadEvent removes and returns the event at the front of the
// queue.
func (c *ITCOM) DequeueHeadEvent() (ErrorEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.DequeueHead()
}

// DrainEventQueue empties the queue, returning every event it held, in
// order (spec §4.2 shutdown behavior).
func (c *ITCOM) DrainEventQueue() []ErrorEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.DrainAll()
}

// --- FM processing-flag / current-event state (spec §4.2, §3) ---

// BeginProcessing marks the processing flag set and records ev as the
// current in-flight event.
func (c *ITCOM) BeginProcessing(ev ErrorEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processingFlag = true
	c.currentEvent = ev
}

// UpdateCurrentEvent overwrites the in-flight event's stored value
// (stages mutate the event's counter/snapshot fields in place).
func (c *ITCOM) UpdateCurrentEvent(ev ErrorEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentEvent = ev
}

// CurrentEvent returns the in-flight event and whether processing is
// active.
func (c *ITCOM) CurrentEvent() (ErrorEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentEvent, c.processingFlag
}

// FinishProcessing clears the processing flag and the in-flight event.
func (c *ITCOM) FinishProcessing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processingFlag = false
	c.currentEvent = ErrorEvent{}
}

// RestoreFromPersistence seeds the facade's processing state from a
// PersistenceRecord read at startup (spec §4.2 persistence: "if the flag
// is set, the queue is cleared, counters reset, and the persisted event
// is re-enqueued so Stage0 can start fresh for it").
func (c *ITCOM) RestoreFromPersistence(rec PersistenceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec.ProcessingFlag == 0 {
		return
	}
	c.events.DrainAll()
	for id := range c.eventCounters {
		c.eventCounters[id] = 0
	}
	c.processingFlag = false
	c.events.Enqueue(rec.CurrentEvent)
}

// PersistenceSnapshot builds the PersistenceRecord to write to disk,
// reflecting the current processing flag and in-flight event.
func (c *ITCOM) PersistenceSnapshot() PersistenceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.processingFlag {
		return PersistenceRecord{ProcessingFlag: 0}
	}
	return PersistenceRecord{ProcessingFlag: 1, CurrentEvent: c.currentEvent}
}

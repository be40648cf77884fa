package fm

import (
	"fmt"
	"time"

	"github.com/vsi-core/interlock/pkg/faultids"
	"github.com/vsi-core/interlock/pkg/itcom"
)

// logTimeLayout matches the layout used elsewhere in the facade's
// system-time stamping (itcom.Snapshot.SystemTime), so a log line's
// leading timestamp reads the same as the snapshot fields that follow
// an EVENT LOGGED record.
const logTimeLayout = "2006-01-02 15:04:05"

func stampLogTime(t time.Time) string {
	return t.Format(logTimeLayout)
}

// specialEventLine formats a "SPECIAL EVENT" marker line (spec §6), used
// for the START/FINISH PROCESSING EVENT markers.
func specialEventLine(ts time.Time, kind string) string {
	return fmt.Sprintf("[%s] SPECIAL EVENT: %s\n", stampLogTime(ts), kind)
}

// skippedEventLine formats a "SKIPPED EVENT" marker line (spec §6),
// used when shutdown drains unprocessed events from the queue.
func skippedEventLine(ts time.Time, ev itcom.ErrorEvent) string {
	desc, _ := faultids.Lookup(ev.EventID)
	return fmt.Sprintf("[%s]        SKIPPED EVENT: %s\n", stampLogTime(ts), desc.Name)
}

// eventLoggedLine formats a normal "EVENT LOGGED" record (spec §4.2
// Stage2, §6): event name, severity word, lifetime counter, and the
// snapshot's vehicle speed / gear position / SI state fields.
func eventLoggedLine(ts time.Time, ev itcom.ErrorEvent) string {
	desc, _ := faultids.Lookup(ev.EventID)
	return fmt.Sprintf(
		"[%s]    EVENT LOGGED:    %s Fault-Level = %s Error_Event_Counter = %d VehicleSpeed = %.2f GearShiftPosition = %d ASI_State = %d\n",
		stampLogTime(ts), desc.Name, ev.Severity, ev.Counter,
		ev.Snapshot.VehicleSpeed, ev.Snapshot.GearShiftPosition, ev.Snapshot.SIState,
	)
}

package icm

import (
	"encoding/binary"
	"time"

	"github.com/pion/logging"
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/faultids"
	"github.com/vsi-core/interlock/pkg/itcom"
)

// Acknowledgement payload values (spec §4.1 receive step 7, AckMessage
// branch). The wire format doesn't name exact values; ACK_SUCCESS (1) and
// ACK_UNSUCCESSFUL (0) follow the conventional boolean-success encoding.
const (
	AckSuccess      byte = 1
	AckUnsuccessful byte = 0
)

// Gear/PRNDL valid range (spec §4.1 receive step 7, PRNDL branch names
// no concrete bound beyond "gear ∈ valid range"; P/R/N/D plus four
// drive-gear positions gives 0..7).
const (
	GearMin uint8 = 0
	GearMax uint8 = 7
)

// CyclesPerStatusNotification is how many cycle-count-updater ticks
// elapse between periodic StatusNotificationASI emissions (spec §4.1
// cycle-count updater step 1: "every 20 ticks (~500ms at 25ms tick)").
const CyclesPerStatusNotification = 20

// NotificationCode tags the variant of ActionNotification being emitted
// to VAM; the dictionary only types one ActionNotification message, so
// the variant rides in its 4-byte payload (spec names these by behavior,
// not wire layout: InvalidActionReq, TimeoutLimit, RateLimiterDrop,
// TransmissionFailed, ApprovedRequest).
type NotificationCode uint8

const (
	NotifyInvalidActionReq NotificationCode = iota
	NotifyTimeoutLimit
	NotifyRateLimiterDrop
	NotifyTransmissionFailed
	NotifyApprovedRequest
	NotifyFaultEvent
)

// ICM is the Interface Communication Manager described in spec §4.1: the
// receive path, transmit path, and cycle-count updater, all operating
// against the shared ITCOM facade and a role-keyed set of connections.
type ICM struct {
	dict  *dictionary.Dictionary
	state *itcom.ITCOM
	conns *ConnectionManager
	log   logging.LeveledLogger

	globalCycle uint16
	now         func() time.Time

	// actionStarts is diagnostic-only bookkeeping (spec §4.1 receive
	// step 2); never read by fault-event or timeout logic.
	actionStarts map[[2]uint16]time.Time
}

// New constructs an ICM. log may be nil, in which case a default pion
// logger is used.
func New(dict *dictionary.Dictionary, state *itcom.ITCOM, conns *ConnectionManager, log logging.LeveledLogger) *ICM {
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("icm")
	}
	return &ICM{dict: dict, state: state, conns: conns, log: log, now: time.Now}
}

// notificationPayload packs a NotificationCode plus the (id, seq) pair it
// refers to into ActionNotification's 4-byte value.
func notificationPayload(code NotificationCode, id, seq uint16) [8]byte {
	var payload [8]byte
	payload[0] = byte(code)
	binary.LittleEndian.PutUint16(payload[1:3], id)
	binary.LittleEndian.PutUint16(payload[3:5], seq)
	return payload
}

// emitActionNotification sends an ActionNotification to VAM immediately,
// outside of the Approved-Actions/Safe-State queueing discipline, since
// spec §4.1 describes these as raised ad hoc by the receive path and the
// cycle-count updater rather than staged by the state machine.
func (m *ICM) emitActionNotification(code NotificationCode, id, seq uint16) {
	cfg, ok := m.dict.Config(dictionary.ActionNotification)
	if !ok {
		return
	}
	pmd := itcom.ProcessMsgData{
		Type:    0x0400,
		ID:      0x0001,
		Seq:     seq,
		Length:  cfg.Length,
		Payload: notificationPayload(code, id, seq),
	}
	if err := m.transmit(dictionary.ActionNotification, pmd); err != nil {
		m.log.Debugf("icm: ActionNotification %d send failed: %v", code, err)
	}
}

// NotifyVAM emits an ActionNotification carrying ev's event id as the
// Fault Manager's Stage1 "InvokeNotification" side effect for events
// tagged NotifyExternalSystem (spec §4.2 Stage1, §9). The caller (FM's
// NotifyFunc) already filtered to that tag; this just has the wire
// mechanics to reach VAM.
func (m *ICM) NotifyVAM(ev itcom.ErrorEvent) {
	m.emitActionNotification(NotifyFaultEvent, uint16(ev.EventID), 0)
}

// raise forwards id to the Fault Manager's enqueue policy via the shared
// facade. Delivering the resulting NotifySM/NotifyExternalSystem signal
// to the state machine or to VAM is the FM's concern once it processes
// the event (spec §4.2 Stage1 "InvokeNotification"); call sites that
// already know the offending (id, seq) also call emitActionNotification
// directly for the immediate, typed notification spec §4.1 describes.
func (m *ICM) raise(id faultids.EventID) {
	m.state.RaiseEvent(id)
}

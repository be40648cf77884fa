// Package itcom implements the shared inter-thread state facade (spec
// §3, §5): the single ownership boundary through which the Interface
// Communication Manager, the Fault Manager, and the vehicle state machine
// exchange rolling counters, trackers, queues, the event queue, and the
// vehicle-state snapshot. One mutex guards everything; ICM and FM hold
// only short-lived borrows during their operations.
package itcom

import (
	"sync"
	"time"

	"github.com/vsi-core/interlock/pkg/dataqueue"
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/faultids"
	"github.com/vsi-core/interlock/pkg/ringbuf"
)

// SIState is the high-level vehicle/interlock operating state that
// governs which transmit-side queue is drained (spec §4.1 transmit
// step 1).
type SIState uint8

const (
	SIStateInit SIState = iota
	SIStateStartupTest
	SIStateNormalOp
	SIStateSafeState
)

func (s SIState) String() string {
	switch s {
	case SIStateStartupTest:
		return "StartupTest"
	case SIStateNormalOp:
		return "NormalOp"
	case SIStateSafeState:
		return "SafeState"
	default:
		return "Init"
	}
}

// Freshness marks whether a vehicle-state field reflects a recently
// received frame or has aged out via a cycle-count timeout (spec §4.1
// cycle-count updater, PRNDL/VehicleSpeed branches).
type Freshness uint8

const (
	StatusUnset Freshness = iota
	StatusUpdated
	StatusOutdated
)

// VehicleState is the interlock's live view of the fields captured into
// a Snapshot, plus their freshness.
type VehicleState struct {
	Gear       uint8
	GearStatus Freshness
	Speed      float32
	SpeedStatus Freshness
	SIState    SIState
}

// CRCErrorMax is the threshold at which a per-enum CRC failure streak
// raises FAULT_MSG_CRC_CHECK (spec §4.1 step 4).
const CRCErrorMax = 3

// Config configures a new ITCOM facade.
type Config struct {
	Dictionary *dictionary.Dictionary

	// RollingCounterErrorLimit is the per-enum RC failure streak that
	// raises FAULT_ROLL_COUNT (spec §4.1 step 7, "configurable").
	RollingCounterErrorLimit uint8

	// TrackerCapacity bounds each of the three tracker buffers.
	TrackerCapacity int
	// QueueCapacity bounds the Action Request, Approved-Actions,
	// and Safe-State queues.
	QueueCapacity int

	// VAMAllowedMessages/VAMWindowMs and CMAllowedMessages/CMWindowMs
	// configure the transmit-side rate limiter per destination
	// connection (spec §4.1 transmit step 4).
	VAMAllowedMessages int
	VAMWindowMs        int
	CMAllowedMessages  int
	CMWindowMs         int

	// Now overrides the clock source; nil uses time.Now.
	Now func() time.Time
}

func (c *Config) applyDefaults() {
	if c.RollingCounterErrorLimit == 0 {
		c.RollingCounterErrorLimit = 3
	}
	if c.TrackerCapacity == 0 {
		c.TrackerCapacity = TrackerBufferCapacity
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = 32
	}
	if c.VAMAllowedMessages == 0 {
		c.VAMAllowedMessages = 10
	}
	if c.VAMWindowMs == 0 {
		c.VAMWindowMs = 100
	}
	if c.CMAllowedMessages == 0 {
		c.CMAllowedMessages = 10
	}
	if c.CMWindowMs == 0 {
		c.CMWindowMs = 100
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// ITCOM is the mutex-guarded shared facade described in spec §3, §5.
type ITCOM struct {
	mu sync.Mutex

	dict *dictionary.Dictionary
	now  func() time.Time

	rcErrorLimit uint8

	lastRxRC map[dictionary.MessageEnum]uint16
	txRC     map[dictionary.MessageEnum]uint16
	asiSeq   map[dictionary.MessageEnum]uint16

	crcErrorCount map[dictionary.MessageEnum]uint8
	rcErrorCount  map[dictionary.MessageEnum]uint8

	actionTrackers *ringbuf.Buffer[MessageTracker]
	calibCopy      *ringbuf.Buffer[MessageTracker]
	calibReadback  *ringbuf.Buffer[MessageTracker]

	actionRequestQueue  *dataqueue.Queue
	approvedActionQueue *dataqueue.Queue
	safeStateQueue      *dataqueue.Queue

	events        *EventQueue
	eventCounters map[faultids.EventID]uint64

	rateLimiters map[dictionary.Role]*RateLimiter

	framesReceived uint64
	framesDropped  uint64

	vehicle VehicleState

	processingFlag bool
	currentEvent   ErrorEvent
}

// New constructs an ITCOM facade. cfg.Dictionary must not be nil.
func New(cfg Config) *ITCOM {
	cfg.applyDefaults()

	actionQ, _ := dataqueue.New(cfg.QueueCapacity, ProcessMsgDataSize, dataqueue.RefuseOnFull)
	approvedQ, _ := dataqueue.New(cfg.QueueCapacity, ProcessMsgDataSize, dataqueue.RefuseOnFull)
	safeQ, _ := dataqueue.New(cfg.QueueCapacity, ProcessMsgDataSize, dataqueue.RefuseOnFull)

	eventCounters := make(map[faultids.EventID]uint64, len(faultids.All()))
	for _, d := range faultids.All() {
		eventCounters[d.ID] = 0
	}

	return &ITCOM{
		dict:          cfg.Dictionary,
		now:           cfg.Now,
		rcErrorLimit:  cfg.RollingCounterErrorLimit,
		lastRxRC:      make(map[dictionary.MessageEnum]uint16),
		txRC:          make(map[dictionary.MessageEnum]uint16),
		asiSeq:        make(map[dictionary.MessageEnum]uint16),
		crcErrorCount: make(map[dictionary.MessageEnum]uint8),
		rcErrorCount:  make(map[dictionary.MessageEnum]uint8),

		actionTrackers: ringbuf.New[MessageTracker](cfg.TrackerCapacity),
		calibCopy:      ringbuf.New[MessageTracker](cfg.TrackerCapacity),
		calibReadback:  ringbuf.New[MessageTracker](cfg.TrackerCapacity),

		actionRequestQueue:  actionQ,
		approvedActionQueue: approvedQ,
		safeStateQueue:      safeQ,

		events:        newEventQueue(),
		eventCounters: eventCounters,

		rateLimiters: map[dictionary.Role]*RateLimiter{
			dictionary.RoleVAM: NewRateLimiter(cfg.VAMAllowedMessages, cfg.VAMWindowMs),
			dictionary.RoleCM:  NewRateLimiter(cfg.CMAllowedMessages, cfg.CMWindowMs),
		},
	}
}

// Dictionary returns the static message registry the facade was built
// with.
func (c *ITCOM) Dictionary() *dictionary.Dictionary {
	return c.dict
}

// --- Rolling counters (spec §3 "RollingCounters", §4.1 step 7) ---

// CheckRollingCounter computes the wrap-around delta between rc and the
// last accepted rx rolling counter for enum (spec §9 open question 1:
// `(frame.rc - last_rx_rc) mod 0x10000`), and applies the [1,3] acceptance
// window. It updates the per-enum RC-error counter and reports whether
// the error count has just reached the configured limit. belowLimit
// reports whether the error count (after this update) is still below the
// configured limit — spec §4.1 step 7 gates payload dispatch on this,
// not on whether this particular frame's delta was itself accepted.
func (c *ITCOM) CheckRollingCounter(enum dictionary.MessageEnum, rc uint16) (delta uint16, accept bool, belowLimit bool, raiseFault bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	last := c.lastRxRC[enum]
	delta = rc - last // uint16 subtraction wraps mod 0x10000
	accept = delta >= 1 && delta <= 3

	if accept {
		c.rcErrorCount[enum] = 0
		return delta, true, true, false
	}
	c.rcErrorCount[enum]++
	belowLimit = c.rcErrorCount[enum] < c.rcErrorLimit
	if !belowLimit {
		c.rcErrorCount[enum] = 0
		raiseFault = true
	}
	return delta, false, belowLimit, raiseFault
}

// SetLastRxRC records rc as the last accepted rolling counter for enum.
func (c *ITCOM) SetLastRxRC(enum dictionary.MessageEnum, rc uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRxRC[enum] = rc
}

// LastRxRC returns the last accepted rx rolling counter for enum.
func (c *ITCOM) LastRxRC(enum dictionary.MessageEnum) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRxRC[enum]
}

// NextTxRC returns the rolling counter to stamp on the next transmitted
// frame for enum, without advancing it.
func (c *ITCOM) NextTxRC(enum dictionary.MessageEnum) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txRC[enum]
}

// AdvanceTxRC increments the tx rolling counter for enum (spec §4.1
// transmit step 7, mod UINT16_MAX).
func (c *ITCOM) AdvanceTxRC(enum dictionary.MessageEnum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txRC[enum] = (c.txRC[enum] + 1) % 0xFFFF
}

// NextASISeq returns the SI-assigned sequence number for enum without
// advancing it.
func (c *ITCOM) NextASISeq(enum dictionary.MessageEnum) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asiSeq[enum]
}

// AdvanceASISeq increments the SI-assigned sequence counter for enum.
func (c *ITCOM) AdvanceASISeq(enum dictionary.MessageEnum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.asiSeq[enum] = (c.asiSeq[enum] + 1) % 0xFFFF
}

// --- Frame-integrity counters (spec §4.1 step 4) ---

// RegisterCRCFailure increments enum's CRC-error streak and reports
// whether it has just reached CRCErrorMax (resetting the streak so the
// next raise requires a fresh run of failures).
func (c *ITCOM) RegisterCRCFailure(enum dictionary.MessageEnum) (raiseFault bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.crcErrorCount[enum]++
	if c.crcErrorCount[enum] >= CRCErrorMax {
		c.crcErrorCount[enum] = 0
		return true
	}
	return false
}

// --- Vehicle state snapshot (spec §3 "SystemSnapshot") ---

// UpdateGear sets the reported gear position and marks it Updated.
func (c *ITCOM) UpdateGear(gear uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicle.Gear = gear
	c.vehicle.GearStatus = StatusUpdated
}

// MarkGearOutdated marks the gear reading stale without changing its
// value (spec §4.1 cycle-count updater, PRNDL timeout branch).
func (c *ITCOM) MarkGearOutdated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicle.GearStatus = StatusOutdated
}

// UpdateSpeed sets the reported vehicle speed and marks it Updated.
func (c *ITCOM) UpdateSpeed(speed float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicle.Speed = speed
	c.vehicle.SpeedStatus = StatusUpdated
}

// MarkSpeedOutdated marks the speed reading stale without changing its
// value (spec §4.1 cycle-count updater, VehicleSpeed timeout branch).
func (c *ITCOM) MarkSpeedOutdated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicle.SpeedStatus = StatusOutdated
}

// SetSIState records the interlock's current high-level operating state.
func (c *ITCOM) SetSIState(s SIState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicle.SIState = s
}

// SIState returns the interlock's current high-level operating state.
func (c *ITCOM) SIState() SIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vehicle.SIState
}

// Snapshot captures the current vehicle state, bound with a formatted
// timestamp, for insertion into an ErrorEvent at enqueue time.
func (c *ITCOM) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		VehicleSpeed:      c.vehicle.Speed,
		GearShiftPosition: c.vehicle.Gear,
		SIState:           uint8(c.vehicle.SIState),
		SystemTime:        stampSystemTime(c.now()),
	}
}

// --- Rate limiting (spec §4.1 transmit step 4) ---

// AllowTransmit attempts to admit one outbound message to the connection
// of the given role, per the configured sliding-window cap.
func (c *ITCOM) AllowTransmit(role dictionary.Role) bool {
	c.mu.Lock()
	limiter := c.rateLimiters[role]
	c.mu.Unlock()
	if limiter == nil {
		return true
	}
	return limiter.Allow(role)
}

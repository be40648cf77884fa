package dictionary

import "github.com/vsi-core/interlock/pkg/faultids"

// Key identifies a wire message by its (type, id) header fields and the
// role of the connection it was seen on. The role is needed because the
// same (type, id) pair is resolved differently depending on which side
// originated it (e.g. type 0x0101 id 0x0010 is an ActionRequest on the VAM
// connection and has no entry on the CM connection).
type Key struct {
	Type uint16
	ID   uint16
	Role Role
}

// entry is one static dictionary row.
type entry struct {
	key    Key
	enum   MessageEnum
	config IntegrityConfig
}

// Dictionary is the read-only-after-construction message registry.
type Dictionary struct {
	byKey   map[Key]MessageEnum
	configs map[MessageEnum]IntegrityConfig
}

// New builds the static dictionary. There is exactly one dictionary per
// process; callers share the *Dictionary across goroutines without
// additional locking since it is never mutated after New returns.
func New() *Dictionary {
	d := &Dictionary{
		byKey:   make(map[Key]MessageEnum, len(staticEntries)),
		configs: make(map[MessageEnum]IntegrityConfig, len(staticEntries)),
	}
	for _, e := range staticEntries {
		d.byKey[e.key] = e.enum
		d.configs[e.enum] = e.config
	}
	return d
}

// echoIDWildcard is the dictionary id used for "echo" message classes
// (acknowledgements, calibration readback) whose wire id field carries
// the id of the message being acknowledged rather than a fixed,
// dictionary-distinguishing value. EnumOf falls back to this wildcard
// when no entry matches the frame's literal id.
const echoIDWildcard = 0

// EnumOf resolves the enum for a received (type, id) pair on a connection
// of the given role. It first tries an exact (type, id, role) match, then
// falls back to (type, echoIDWildcard, role) for echo-style classes
// (AckVAM, AckCM, CalibReadback) whose id field names the message they
// acknowledge rather than a fixed dictionary key. The second return is
// false when neither matches, which callers treat as a validation
// failure (spec §4.1 step 5).
func (d *Dictionary) EnumOf(msgType, id uint16, role Role) (MessageEnum, bool) {
	if enum, ok := d.byKey[Key{Type: msgType, ID: id, Role: role}]; ok {
		return enum, ok
	}
	enum, ok := d.byKey[Key{Type: msgType, ID: echoIDWildcard, Role: role}]
	return enum, ok
}

// Config returns the IntegrityConfig for enum. ok is false for an enum
// not present in the dictionary (should not happen for enums obtained via
// EnumOf, but kept explicit rather than panicking on a bad lookup).
func (d *Dictionary) Config(enum MessageEnum) (IntegrityConfig, bool) {
	c, ok := d.configs[enum]
	return c, ok
}

// Length returns the dictionary-declared payload length for a (type, id)
// seen on a connection of the given role, used by the length-validation
// step. ok is false if the message is unknown.
func (d *Dictionary) Length(msgType, id uint16, role Role) (uint16, bool) {
	enum, ok := d.EnumOf(msgType, id, role)
	if !ok {
		return 0, false
	}
	cfg, ok := d.Config(enum)
	if !ok {
		return 0, false
	}
	return cfg.Length, true
}

// staticEntries is the full message dictionary. Type values group
// messages by wire category; id values distinguish messages of the same
// category (e.g. individual action requests).
var staticEntries = []entry{
	// VAM -> SI action requests.
	{Key{0x0101, 0x0003, RoleVAM}, ActionRequest, IntegrityConfig{
		TimeoutLimit: 0, CycleCountEnabled: false, TypeLengthEnabled: true,
		CRCEnabled: true, RCEnabled: true, RSNEnabled: true,
		SeqAssigner: SeqAssignerVAM, Class: ClassActionRequest, Length: 8,
	}},
	{Key{0x0101, 0x0010, RoleVAM}, ActionRequest, IntegrityConfig{
		TimeoutLimit: 0, CycleCountEnabled: false, TypeLengthEnabled: true,
		CRCEnabled: true, RCEnabled: true, RSNEnabled: true,
		SeqAssigner: SeqAssignerVAM, Class: ClassActionRequest, Length: 8,
	}},

	// SI -> CM transmitted, approved action requests (tracked for ACK).
	{Key{0x0500, 0x0010, RoleCM}, ActionRequest, IntegrityConfig{
		TimeoutLimit: 40, CycleCountEnabled: true, ActionReqTimerEnabled: true,
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		SeqAssigner: SeqAssignerASI, Class: ClassActionRequest,
		TimeoutEventID: faultids.FaultActionReqTimeout, ClearCondition: ClearOnAckCM, Length: 8,
	}},

	// CM -> SI status messages.
	{Key{0x0200, 0x0001, RoleCM}, PRNDL, IntegrityConfig{
		CycleCountEnabled: true, CyclicEnabled: true, TypeLengthEnabled: true,
		CRCEnabled: true, RCEnabled: true, TimeoutLimit: 40,
		TimeoutEventID: faultids.FaultPRNDLTimeout, Class: ClassStatusMessageCM, Length: 1,
	}},
	{Key{0x0200, 0x0002, RoleCM}, VehicleSpeed, IntegrityConfig{
		CycleCountEnabled: true, CyclicEnabled: true, TypeLengthEnabled: true,
		CRCEnabled: true, RCEnabled: true, TimeoutLimit: 40,
		TimeoutEventID: faultids.FaultVehicleSpeedTimeout, Class: ClassStatusMessageCM, Length: 2,
	}},

	// Acknowledgement messages. Keyed on the echo-id wildcard: the frame's
	// id field carries the id of the message being acknowledged, not a
	// fixed dictionary-distinguishing value (see EnumOf).
	{Key{0x0300, echoIDWildcard, RoleVAM}, AckVAM, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassAckMessage, Length: 1,
	}},
	{Key{0x0201, echoIDWildcard, RoleCM}, AckCM, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassAckMessage, Length: 1,
	}},

	// Calibration readback, from CM. Echo-id wildcard, same reasoning.
	{Key{0x0202, echoIDWildcard, RoleCM}, CalibReadback, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassCalibReadbackMessage, Length: 8,
	}},

	// SI -> CM calibration transmit (single placeholder enum per spec §9 open question 2).
	{Key{0x0501, 0x0001, RoleCM}, TorqueVecMotorCalib, IntegrityConfig{
		TimeoutLimit: 80, CycleCountEnabled: true, TypeLengthEnabled: true,
		CRCEnabled: true, RCEnabled: true, SeqAssigner: SeqAssignerASI,
		Class: ClassOther, TimeoutEventID: faultids.FaultCalibTimeout,
		ClearCondition: ClearOnCalibReadback, Length: 8,
	}},
	{Key{0x0501, 0x0002, RoleCM}, CalibCopyRequest, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassOther, Length: 8,
	}},

	// Comfort-control messages (VAM-side request / CM-side ack).
	{Key{0x0301, 0x0001, RoleVAM}, ComfortControlRequest, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassOther, Length: 2,
	}},
	{Key{0x0302, 0x0001, RoleCM}, ComfortControlAck, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassAckMessage, Length: 1,
	}},

	// ECU fault reports from CM (special-dispatched, spec §4.1 step 6).
	{Key{0x0600, 0x0001, RoleCM}, CriticalFail, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, Class: ClassCriticalFail, Length: 1,
	}},
	{Key{0x0600, 0x0002, RoleCM}, NonCriticalFail, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, Class: ClassNonCriticalFail, Length: 1,
	}},

	// SI-originated notifications.
	{Key{0x0400, 0x0001, RoleVAM}, ActionNotification, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, Class: ClassNotification, Length: 4,
	}},
	{Key{0x0401, 0x0001, RoleCM}, StatusNotificationASI, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, Class: ClassNotification, Length: 1,
	}},
	{Key{0x0402, 0x0001, RoleVAM}, StatusNotificationVAM, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, Class: ClassNotification, Length: 1,
	}},

	// Heartbeats.
	{Key{0x0700, 0x0001, RoleCM}, HeartbeatCM, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, Class: ClassOther, Length: 0,
	}},
	{Key{0x0701, 0x0001, RoleVAM}, HeartbeatVAM, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, Class: ClassOther, Length: 0,
	}},

	// Diagnostics.
	{Key{0x0800, 0x0001, RoleCM}, DiagnosticRequest, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassOther, Length: 4,
	}},
	{Key{0x0801, 0x0001, RoleCM}, DiagnosticResponse, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassOther, Length: 8,
	}},

	// Mode requests.
	{Key{0x0900, 0x0001, RoleVAM}, ModeRequest, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassOther, Length: 1,
	}},
	{Key{0x0901, 0x0001, RoleCM}, ModeAck, IntegrityConfig{
		TypeLengthEnabled: true, CRCEnabled: true, RCEnabled: true,
		Class: ClassAckMessage, Length: 1,
	}},
}

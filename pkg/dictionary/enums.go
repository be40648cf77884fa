// Package dictionary holds the static message registry: the dense
// MessageEnum index, the (type, id, role) -> enum lookup table, and the
// per-enum IntegrityConfig. Everything here is built once at startup and
// never mutated afterwards — per spec, "the dictionary is static".
package dictionary

// Role identifies which external collaborator a connection talks to.
// Added because the wire dictionary alone (type, id) is not always enough
// to resolve an enum: the same (type, id) pair can mean different things
// depending on which side of the interlock received it.
type Role uint8

const (
	RoleVAM Role = iota
	RoleCM
)

func (r Role) String() string {
	if r == RoleCM {
		return "CM"
	}
	return "VAM"
}

// MessageEnum is a dense index over the union of VAM-side, CM-side, and
// SI-side messages.
type MessageEnum int

const (
	EnumUnknown MessageEnum = iota
	PRNDL
	VehicleSpeed
	CalibReadback
	AckVAM
	AckCM
	ActionNotification
	StatusNotificationASI
	ActionRequest
	TorqueVecMotorCalib
	ComfortControlRequest
	ComfortControlAck
	CriticalFail
	NonCriticalFail
	CalibCopyRequest
	StatusNotificationVAM
	HeartbeatCM
	HeartbeatVAM
	DiagnosticRequest
	DiagnosticResponse
	ModeRequest
	ModeAck
	enumCount // sentinel, keep last
)

var enumNames = map[MessageEnum]string{
	EnumUnknown:            "Unknown",
	PRNDL:                  "PRNDL",
	VehicleSpeed:           "VehicleSpeed",
	CalibReadback:          "CalibReadback",
	AckVAM:                 "AckVAM",
	AckCM:                  "AckCM",
	ActionNotification:     "ActionNotification",
	StatusNotificationASI:  "StatusNotificationASI",
	ActionRequest:          "ActionRequest",
	TorqueVecMotorCalib:    "TorqueVecMotorCalib",
	ComfortControlRequest:  "ComfortControlRequest",
	ComfortControlAck:      "ComfortControlAck",
	CriticalFail:           "CriticalFail",
	NonCriticalFail:        "NonCriticalFail",
	CalibCopyRequest:       "CalibCopyRequest",
	StatusNotificationVAM:  "StatusNotificationVAM",
	HeartbeatCM:            "HeartbeatCM",
	HeartbeatVAM:           "HeartbeatVAM",
	DiagnosticRequest:      "DiagnosticRequest",
	DiagnosticResponse:     "DiagnosticResponse",
	ModeRequest:            "ModeRequest",
	ModeAck:                "ModeAck",
}

// String returns a human-readable enum name, used in log records.
func (e MessageEnum) String() string {
	if name, ok := enumNames[e]; ok {
		return name
	}
	return "Unknown"
}

// IsValid reports whether e is a defined, non-sentinel enum value.
func (e MessageEnum) IsValid() bool {
	return e > EnumUnknown && e < enumCount
}

// MessageClass categorizes an enum for receive-path dispatch (spec §4.1
// step 7) and transmit-path connection routing (spec §4.1 transmit step 3).
type MessageClass uint8

const (
	ClassOther MessageClass = iota
	ClassActionRequest
	ClassStatusMessageCM
	ClassAckMessage
	ClassCalibReadbackMessage
	ClassNotification
	ClassCriticalFail
	ClassNonCriticalFail
)

func (c MessageClass) String() string {
	switch c {
	case ClassActionRequest:
		return "ActionRequest"
	case ClassStatusMessageCM:
		return "StatusMessageCM"
	case ClassAckMessage:
		return "AckMessage"
	case ClassCalibReadbackMessage:
		return "CalibReadbackMessage"
	case ClassNotification:
		return "Notification"
	case ClassCriticalFail:
		return "CriticalFail"
	case ClassNonCriticalFail:
		return "NonCriticalFail"
	default:
		return "Other"
	}
}

// SeqAssigner indicates which side assigns the sequence number used when
// this message is transmitted.
type SeqAssigner uint8

const (
	SeqAssignerASI SeqAssigner = iota
	SeqAssignerVAM
)

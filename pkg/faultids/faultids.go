// Package faultids is the static registry of fault/error event identifiers
// raised by the Interface Communication Manager and other subsystems, and
// consumed by the Fault Manager. The registry is built once at init and
// never mutated afterwards.
package faultids

// Severity orders events for queue-eviction purposes: Critical bumps
// Normal, Normal bumps Minor, Minor never bumps anything.
type Severity uint8

const (
	SeverityMinor Severity = iota
	SeverityNormal
	SeverityCritical
)

// String returns a human-readable severity word, used verbatim in log
// records ("Fault-Level = <severity>").
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityNormal:
		return "NORMAL"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// MoreSevere reports whether s outranks other for queue-eviction purposes.
func (s Severity) MoreSevere(other Severity) bool {
	return s > other
}

// Notification is a tagged variant selecting among a small, fixed set of
// notification handlers. Modeling it this way (rather than an arbitrary
// function pointer field on ErrorEvent) keeps ErrorEvent a plain value type.
type Notification uint8

const (
	// NotifyNone means no external notification is raised for this event.
	NotifyNone Notification = iota
	// NotifySM notifies the vehicle state machine (system-family events).
	NotifySM
	// NotifyExternalSystem notifies the external system (VAM) via an
	// Action Notification frame.
	NotifyExternalSystem
)

// EventID identifies one of the static fault/error events.
type EventID uint16

// The static event-id space. Values are stable across process restarts
// since the persistence record and the log both key off EventID.
const (
	FaultMsgCRCCheck EventID = iota + 1
	FaultRollCount
	FaultMsgTimeout
	FaultECUCriticalFail
	FaultECUNonCriticalFail
	InfoVehicleStatusInvalidInfoError
	InfoAckUnsuccess
	FaultStartupMemError
	UnknownEventID
	FaultSMTransitionError
	FaultOverrun
	FaultCalibTimeout
	FaultPRNDLTimeout
	FaultVehicleSpeedTimeout
	FaultActionReqTimeout
	FaultComfortControlTimeout
	InfoInvalidActionReq
	InfoRateLimiterDrop
	InfoTransmissionFailed
	FaultCalibReadbackMismatch
	FaultSeqNumError
	FaultFMQueueOverflow
	FaultFMProcessingTimeout
	FaultConnectionLostVAM
	FaultConnectionLostCM
	FaultWatchdogReset
)

// Descriptor is the static, read-only configuration for one event id.
type Descriptor struct {
	ID           EventID
	Name         string
	Severity     Severity
	Notification Notification
}

// registry maps every known EventID to its Descriptor. Built once at
// package init; never mutated.
var registry = map[EventID]Descriptor{
	FaultMsgCRCCheck:                   {FaultMsgCRCCheck, "FAULT_MSG_CRC_CHECK", SeverityNormal, NotifyNone},
	FaultRollCount:                     {FaultRollCount, "FAULT_ROLL_COUNT", SeverityNormal, NotifyNone},
	FaultMsgTimeout:                    {FaultMsgTimeout, "FAULT_MSG_TIMEOUT", SeverityNormal, NotifyNone},
	FaultECUCriticalFail:               {FaultECUCriticalFail, "FAULT_ECU_CRITICAL_FAIL", SeverityCritical, NotifySM},
	FaultECUNonCriticalFail:            {FaultECUNonCriticalFail, "FAULT_ECU_NON_CRITICAL_FAIL", SeverityNormal, NotifySM},
	InfoVehicleStatusInvalidInfoError:  {InfoVehicleStatusInvalidInfoError, "INFO_VEHICLE_STATUS_INVALID_INFO_ERROR", SeverityMinor, NotifyExternalSystem},
	InfoAckUnsuccess:                   {InfoAckUnsuccess, "INFO_ACK_UNSUCCESS", SeverityMinor, NotifyExternalSystem},
	FaultStartupMemError:               {FaultStartupMemError, "FAULT_STARTUP_MEM_ERROR", SeverityCritical, NotifySM},
	UnknownEventID:                     {UnknownEventID, "UNKNOWN_EVENT_ID", SeverityMinor, NotifyNone},
	FaultSMTransitionError:             {FaultSMTransitionError, "FAULT_SM_TRANSITION_ERROR", SeverityCritical, NotifySM},
	FaultOverrun:                       {FaultOverrun, "FAULT_OVERRUN", SeverityCritical, NotifySM},
	FaultCalibTimeout:                  {FaultCalibTimeout, "FAULT_CALIB_TIMEOUT", SeverityNormal, NotifyNone},
	FaultPRNDLTimeout:                  {FaultPRNDLTimeout, "FAULT_PRNDL_TIMEOUT", SeverityNormal, NotifyNone},
	FaultVehicleSpeedTimeout:           {FaultVehicleSpeedTimeout, "FAULT_VEHICLE_SPEED_TIMEOUT", SeverityNormal, NotifyNone},
	FaultActionReqTimeout:              {FaultActionReqTimeout, "FAULT_ACTION_REQ_TIMEOUT", SeverityNormal, NotifyExternalSystem},
	FaultComfortControlTimeout:         {FaultComfortControlTimeout, "FAULT_COMFORT_CONTROL_TIMEOUT", SeverityNormal, NotifyNone},
	InfoInvalidActionReq:               {InfoInvalidActionReq, "INFO_INVALID_ACTION_REQ", SeverityMinor, NotifyExternalSystem},
	InfoRateLimiterDrop:                {InfoRateLimiterDrop, "INFO_RATE_LIMITER_DROP", SeverityMinor, NotifyExternalSystem},
	InfoTransmissionFailed:             {InfoTransmissionFailed, "INFO_TRANSMISSION_FAILED", SeverityMinor, NotifyExternalSystem},
	FaultCalibReadbackMismatch:         {FaultCalibReadbackMismatch, "FAULT_CALIB_READBACK_MISMATCH", SeverityNormal, NotifyNone},
	FaultSeqNumError:                   {FaultSeqNumError, "FAULT_SEQ_NUM_ERROR", SeverityNormal, NotifyNone},
	FaultFMQueueOverflow:               {FaultFMQueueOverflow, "FAULT_FM_QUEUE_OVERFLOW", SeverityMinor, NotifyNone},
	FaultFMProcessingTimeout:           {FaultFMProcessingTimeout, "FAULT_FM_PROCESSING_TIMEOUT", SeverityNormal, NotifyNone},
	FaultConnectionLostVAM:             {FaultConnectionLostVAM, "FAULT_CONNECTION_LOST_VAM", SeverityCritical, NotifySM},
	FaultConnectionLostCM:              {FaultConnectionLostCM, "FAULT_CONNECTION_LOST_CM", SeverityCritical, NotifySM},
	FaultWatchdogReset:                 {FaultWatchdogReset, "FAULT_WATCHDOG_RESET", SeverityCritical, NotifySM},
}

// Lookup returns the Descriptor for id. If id is not in the static
// registry, it returns the UnknownEventID descriptor and false — callers
// still count the occurrence (per spec: "Unrecognized events are logged
// as UNKNOWN_EVENT_ID but still counted").
func Lookup(id EventID) (Descriptor, bool) {
	d, ok := registry[id]
	if !ok {
		return registry[UnknownEventID], false
	}
	return d, true
}

// All returns every registered Descriptor, for startup counter
// initialization and diagnostics dumps.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	return out
}

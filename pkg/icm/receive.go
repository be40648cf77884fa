package icm

import (
	"errors"
	"time"

	"github.com/vsi-core/interlock/pkg/crc16"
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/faultids"
	"github.com/vsi-core/interlock/pkg/itcom"
)

// clearConditionFor chooses which tracker clear condition a received
// message retires, from the receiving connection's role and the
// message's resolved enum (spec §4.1 step 7).
func clearConditionFor(role dictionary.Role, enum dictionary.MessageEnum) dictionary.ClearCondition {
	switch {
	case role == dictionary.RoleVAM && enum == dictionary.AckVAM:
		return dictionary.ClearOnAckVAM
	case role == dictionary.RoleCM && enum == dictionary.AckCM:
		return dictionary.ClearOnAckCM
	case role == dictionary.RoleCM && enum == dictionary.CalibReadback:
		return dictionary.ClearOnCalibReadback
	default:
		return dictionary.ClearNone
	}
}

// ReceiveTick runs one receive-path iteration for the connection
// registered under role (spec §4.1 "Receive path"). It is invoked once
// per tick per Connected connection by the ICM tick worker.
func (m *ICM) ReceiveTick(role dictionary.Role) error {
	conn, ok := m.conns.Get(role)
	if !ok {
		return ErrUnknownRole
	}

	frame, err := conn.ReadFrame()
	if err != nil {
		if errors.Is(err, ErrWouldBlock) || errors.Is(err, ErrConnectionClosed) || errors.Is(err, ErrNotConnected) {
			return nil
		}
		return err
	}
	m.state.RecordFrameReceived()

	enum, enumOK := m.dict.EnumOf(frame.Type, frame.ID, role)
	if enumOK && enum == dictionary.ActionRequest {
		m.recordActionStart(frame.ID, frame.SequenceNumber)
	}

	m.log.Tracef("icm: rx role=%s type=%#04x id=%#04x seq=%d rc=%d len=%d",
		role, frame.Type, frame.ID, frame.SequenceNumber, frame.RollingCounter, frame.Length)

	declaredLen, lenOK := m.dict.Length(frame.Type, frame.ID, role)
	crcOK := crc16.Checksum(frame.CRCInput()) == frame.CRC
	if !lenOK || declaredLen != frame.Length || !crcOK {
		m.state.RecordFrameDropped()
		if enumOK {
			if m.state.RegisterCRCFailure(enum) {
				m.raise(faultids.FaultMsgCRCCheck)
			}
		}
		if role == dictionary.RoleVAM {
			m.emitActionNotification(NotifyInvalidActionReq, frame.ID, frame.SequenceNumber)
		}
		return nil
	}

	if !enumOK {
		m.state.RecordFrameDropped()
		if role == dictionary.RoleVAM {
			m.emitActionNotification(NotifyInvalidActionReq, frame.ID, frame.SequenceNumber)
		}
		return nil
	}

	switch enum {
	case dictionary.CriticalFail:
		m.raise(faultids.FaultECUCriticalFail)
		return nil
	case dictionary.NonCriticalFail:
		m.raise(faultids.FaultECUNonCriticalFail)
		return nil
	}

	cfg, _ := m.dict.Config(enum)

	belowLimit := true
	if cfg.RCEnabled {
		_, _, bl, raiseFault := m.state.CheckRollingCounter(enum, frame.RollingCounter)
		belowLimit = bl
		if raiseFault {
			m.raise(faultids.FaultRollCount)
		}
	}

	if cfg.CyclicEnabled {
		m.state.ResetCyclicTracker(frame.ID, enum)
	} else if cond := clearConditionFor(role, enum); cond != dictionary.ClearNone {
		m.state.RemoveTrackerByClearCondition(frame.ID, frame.SequenceNumber, cond)
	}

	m.state.SetLastRxRC(enum, frame.RollingCounter)

	if !belowLimit {
		return nil
	}

	switch cfg.Class {
	case dictionary.ClassActionRequest:
		m.state.EnqueueActionRequest(itcom.ProcessMsgData{
			Type: frame.Type, ID: frame.ID, Seq: frame.SequenceNumber,
			Length: frame.Length, Payload: frame.Value,
		})
	case dictionary.ClassStatusMessageCM:
		m.handleStatusMessage(enum, frame.Value)
	case dictionary.ClassAckMessage:
		if frame.Value[0] == AckUnsuccessful {
			m.raise(faultids.InfoAckUnsuccess)
		}
	case dictionary.ClassCalibReadbackMessage:
		m.state.AddCalibReadback(itcom.MessageTracker{MsgID: frame.ID, Enum: enum})
	}

	return nil
}

// handleStatusMessage dispatches a CM status frame's payload by enum
// (spec §4.1 step 7, PRNDL/VehicleSpeed branches).
func (m *ICM) handleStatusMessage(enum dictionary.MessageEnum, value [8]byte) {
	switch enum {
	case dictionary.PRNDL:
		gear := value[0]
		if gear < GearMin || gear > GearMax {
			m.raise(faultids.InfoVehicleStatusInvalidInfoError)
			return
		}
		m.state.UpdateGear(gear)
	case dictionary.VehicleSpeed:
		raw := uint16(value[0]) | uint16(value[1])<<8
		speed, ok := itcom.DecodeVehicleSpeed(raw)
		if !ok {
			m.raise(faultids.InfoVehicleStatusInvalidInfoError)
			return
		}
		m.state.UpdateSpeed(speed)
	}
}

// recordActionStart notes when an Action Request frame was first seen
// for (id, seq); it isn't part of the shared cross-thread state
// invariants and is kept locally to the ICM's single tick worker.
func (m *ICM) recordActionStart(id, seq uint16) {
	if m.actionStarts == nil {
		m.actionStarts = make(map[[2]uint16]time.Time, 8)
	}
	m.actionStarts[[2]uint16{id, seq}] = m.now()
}

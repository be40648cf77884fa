package icm

import (
	"github.com/vsi-core/interlock/pkg/crc16"
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/itcom"
	"github.com/vsi-core/interlock/pkg/wireframe"
)

// resolveEnum looks up (msgType, id) against both connection roles,
// since the transmit path (spec §4.1 step 2) knows the message before it
// knows which connection it's bound for.
func (m *ICM) resolveEnum(msgType, id uint16) (dictionary.MessageEnum, dictionary.IntegrityConfig, bool) {
	for _, role := range []dictionary.Role{dictionary.RoleCM, dictionary.RoleVAM} {
		if enum, ok := m.dict.EnumOf(msgType, id, role); ok {
			cfg, _ := m.dict.Config(enum)
			return enum, cfg, true
		}
	}
	return dictionary.EnumUnknown, dictionary.IntegrityConfig{}, false
}

// connectionRoleFor chooses the destination connection by message class
// (spec §4.1 transmit step 3): notifications -> VAM, all others -> CM.
func connectionRoleFor(cfg dictionary.IntegrityConfig) dictionary.Role {
	if cfg.Class == dictionary.ClassNotification {
		return dictionary.RoleVAM
	}
	return dictionary.RoleCM
}

// transmit runs transmit-path steps 2-7 (spec §4.1) for one already
// resolved message. Both TransmitTick (queue-sourced) and ad hoc
// notification emission funnel through this.
func (m *ICM) transmit(enum dictionary.MessageEnum, pmd itcom.ProcessMsgData) error {
	cfg, ok := m.dict.Config(enum)
	if !ok {
		return nil
	}

	role := connectionRoleFor(cfg)
	conn, ok := m.conns.Get(role)
	if !ok || conn.State() != ConnectionConnected {
		return nil // abort, no retry (spec §4.1 transmit step 3)
	}

	seq := pmd.Seq
	if cfg.SeqAssigner == dictionary.SeqAssignerASI {
		seq = m.state.NextASISeq(enum)
	}

	frame := wireframe.Frame{
		Type:           pmd.Type,
		Length:         pmd.Length,
		RollingCounter: m.state.NextTxRC(enum),
		Timestamp:      uint32(m.now().Unix()),
		SequenceNumber: seq,
		ID:             pmd.ID,
		Value:          pmd.Payload,
	}
	frame.CRC = crc16.Checksum(frame.CRCInput())

	if !m.state.AllowTransmit(role) {
		if cfg.Class != dictionary.ClassNotification {
			m.emitActionNotification(NotifyRateLimiterDrop, pmd.ID, seq)
		}
		return nil
	}

	if err := conn.WriteFrame(&frame); err != nil {
		if role == dictionary.RoleCM {
			m.emitActionNotification(NotifyTransmissionFailed, pmd.ID, seq)
		}
		return err
	}

	m.log.Tracef("icm: tx role=%s type=%#04x id=%#04x seq=%d rc=%d",
		role, frame.Type, frame.ID, frame.SequenceNumber, frame.RollingCounter)

	if cfg.CycleCountEnabled {
		clearCond := dictionary.ClearOnAckCM
		if role == dictionary.RoleVAM {
			clearCond = dictionary.ClearOnAckVAM
		}
		m.state.AddTracker(itcom.MessageTracker{
			MsgID: pmd.ID, SeqNum: seq, Type: pmd.Type, Enum: enum,
			ClearCondition: clearCond,
		})
		if cfg.ClearCondition == dictionary.ClearOnCalibReadback {
			m.state.AddTracker(itcom.MessageTracker{
				MsgID: pmd.ID, SeqNum: seq, Type: pmd.Type, Enum: enum,
				ClearCondition: dictionary.ClearOnCalibReadback,
			})
			m.state.AddCalibCopy(itcom.MessageTracker{MsgID: pmd.ID, Type: pmd.Type, Enum: enum})
		}
	}

	m.state.AdvanceTxRC(enum)
	if cfg.SeqAssigner == dictionary.SeqAssignerASI {
		m.state.AdvanceASISeq(enum)
	}
	if role == dictionary.RoleCM && cfg.Class != dictionary.ClassNotification {
		m.emitActionNotification(NotifyApprovedRequest, pmd.ID, seq)
	}

	return nil
}

// TransmitTick runs one transmit-path iteration (spec §4.1 "Transmit
// path"), dequeuing from the Approved-Actions or Safe-State queue
// according to the interlock's current SI state.
func (m *ICM) TransmitTick() error {
	pmd, ok := m.state.DequeueForTransmit(m.state.SIState())
	if !ok {
		return nil
	}
	enum, _, ok := m.resolveEnum(pmd.Type, pmd.ID)
	if !ok {
		return nil
	}
	return m.transmit(enum, pmd)
}

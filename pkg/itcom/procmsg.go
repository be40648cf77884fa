package itcom

import "encoding/binary"

// ProcessMsgDataSize is the fixed encoded size of a ProcessMsgData record:
// type(2) + id(2) + seq(2) + length(2) + payload(8).
const ProcessMsgDataSize = 2 + 2 + 2 + 2 + 8

// ProcessMsgData is the staged outbound message record passed from the
// vehicle state machine to the ICM transmit path via the Approved-Actions
// and Safe-State queues (spec §4.1 transmit path step 1).
type ProcessMsgData struct {
	Type    uint16
	ID      uint16
	Seq     uint16
	Length  uint16
	Payload [8]byte
}

// Encode serializes p for storage in a dataqueue.Queue.
func (p ProcessMsgData) Encode() []byte {
	buf := make([]byte, ProcessMsgDataSize)
	binary.LittleEndian.PutUint16(buf[0:], p.Type)
	binary.LittleEndian.PutUint16(buf[2:], p.ID)
	binary.LittleEndian.PutUint16(buf[4:], p.Seq)
	binary.LittleEndian.PutUint16(buf[6:], p.Length)
	copy(buf[8:], p.Payload[:])
	return buf
}

// DecodeProcessMsgData deserializes a ProcessMsgData previously produced
// by Encode.
func DecodeProcessMsgData(buf []byte) ProcessMsgData {
	var p ProcessMsgData
	p.Type = binary.LittleEndian.Uint16(buf[0:])
	p.ID = binary.LittleEndian.Uint16(buf[2:])
	p.Seq = binary.LittleEndian.Uint16(buf[4:])
	p.Length = binary.LittleEndian.Uint16(buf[6:])
	copy(p.Payload[:], buf[8:16])
	return p
}

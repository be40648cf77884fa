// Package wireframe implements the fixed 26-byte TLV frame that is the
// wire unit between the interlock and its peers. All multi-byte fields
// are little-endian.
package wireframe

import "encoding/binary"

// ValueSize is the fixed payload width carried by every frame.
const ValueSize = 8

// Size is the total encoded size of a frame: type(2) + length(2) + crc(2) +
// rolling_counter(2) + timestamp(4) + sequence_number(2) + id(2) + value(8).
const Size = 2 + 2 + 2 + 2 + 4 + 2 + 2 + ValueSize

// Frame is the TLV wire unit described in spec §3 and §6.
type Frame struct {
	Type            uint16
	Length          uint16
	CRC             uint16
	RollingCounter  uint16
	Timestamp       uint32 // seconds since epoch
	SequenceNumber  uint16
	ID              uint16
	Value           [ValueSize]byte
}

// CRCInput returns the 12-byte slice the CRC is computed over:
// sequence_number ‖ id ‖ value, in wire byte order.
func (f *Frame) CRCInput() []byte {
	buf := make([]byte, 4+ValueSize)
	binary.LittleEndian.PutUint16(buf[0:], f.SequenceNumber)
	binary.LittleEndian.PutUint16(buf[2:], f.ID)
	copy(buf[4:], f.Value[:])
	return buf
}

// Encode serializes the frame to a new Size-byte buffer.
func (f *Frame) Encode() []byte {
	buf := make([]byte, Size)
	f.EncodeTo(buf)
	return buf
}

// EncodeTo serializes the frame into buf, which must be at least Size
// bytes long. Returns the number of bytes written.
func (f *Frame) EncodeTo(buf []byte) int {
	offset := 0
	binary.LittleEndian.PutUint16(buf[offset:], f.Type)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], f.Length)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], f.CRC)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], f.RollingCounter)
	offset += 2
	binary.LittleEndian.PutUint32(buf[offset:], f.Timestamp)
	offset += 4
	binary.LittleEndian.PutUint16(buf[offset:], f.SequenceNumber)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], f.ID)
	offset += 2
	copy(buf[offset:], f.Value[:])
	offset += ValueSize
	return offset
}

// Decode deserializes a frame from data, which must be at least Size
// bytes long. Returns the number of bytes consumed.
func (f *Frame) Decode(data []byte) (int, error) {
	if len(data) < Size {
		return 0, ErrFrameTooShort
	}
	offset := 0
	f.Type = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	f.Length = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	f.CRC = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	f.RollingCounter = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	f.Timestamp = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	f.SequenceNumber = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	f.ID = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	copy(f.Value[:], data[offset:offset+ValueSize])
	offset += ValueSize
	return offset, nil
}

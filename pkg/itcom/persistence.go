package itcom

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsi-core/interlock/pkg/faultids"
)

// systemTimeFieldSize is the fixed width of the snapshot's system-time
// string field in the persisted record (spec §3, "system_time: string[20]").
const systemTimeFieldSize = 20

// persistedEventSize is the encoded size of one ErrorEvent in the
// persistence record: event_id(2) + counter(8) + severity(1) +
// notification(1) + vehicle_speed(4) + gear_shift_position(1) +
// si_state(1) + system_time(20).
const persistedEventSize = 2 + 8 + 1 + 1 + 4 + 1 + 1 + systemTimeFieldSize

// PersistenceRecord mirrors event_data.bin (spec §3, §6): a processing
// flag and, when the flag is set, the in-flight current event.
type PersistenceRecord struct {
	ProcessingFlag int16
	CurrentEvent   ErrorEvent
}

// EncodeRecord serializes rec to the on-disk layout of event_data.bin.
func EncodeRecord(rec PersistenceRecord) []byte {
	if rec.ProcessingFlag == 0 {
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(rec.ProcessingFlag))
		return buf
	}

	buf := make([]byte, 2+persistedEventSize)
	binary.LittleEndian.PutUint16(buf[0:], uint16(rec.ProcessingFlag))
	encodeEvent(buf[2:], rec.CurrentEvent)
	return buf
}

// DecodeRecord deserializes a PersistenceRecord from the event_data.bin
// layout. It does not error on a short buffer when the flag is clear,
// since a cold-start file may contain only the flag.
func DecodeRecord(data []byte) (PersistenceRecord, error) {
	if len(data) < 2 {
		return PersistenceRecord{}, fmt.Errorf("itcom: persistence record too short: %d bytes", len(data))
	}
	flag := int16(binary.LittleEndian.Uint16(data[0:2]))
	rec := PersistenceRecord{ProcessingFlag: flag}
	if flag == 0 {
		return rec, nil
	}
	if len(data) < 2+persistedEventSize {
		return PersistenceRecord{}, fmt.Errorf("itcom: persisted event truncated: %d bytes", len(data))
	}
	rec.CurrentEvent = decodeEvent(data[2:])
	return rec, nil
}

func encodeEvent(buf []byte, ev ErrorEvent) {
	offset := 0
	binary.LittleEndian.PutUint16(buf[offset:], uint16(ev.EventID))
	offset += 2
	binary.LittleEndian.PutUint64(buf[offset:], ev.Counter)
	offset += 8
	buf[offset] = byte(ev.Severity)
	offset++
	buf[offset] = byte(ev.Notification)
	offset++
	binary.LittleEndian.PutUint32(buf[offset:], float32bits(ev.Snapshot.VehicleSpeed))
	offset += 4
	buf[offset] = ev.Snapshot.GearShiftPosition
	offset++
	buf[offset] = ev.Snapshot.SIState
	offset++
	copy(buf[offset:offset+systemTimeFieldSize], []byte(ev.Snapshot.SystemTime))
}

func decodeEvent(buf []byte) ErrorEvent {
	offset := 0
	var ev ErrorEvent
	ev.EventID = faultids.EventID(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	ev.Counter = binary.LittleEndian.Uint64(buf[offset:])
	offset += 8
	ev.Severity = faultids.Severity(buf[offset])
	offset++
	ev.Notification = faultids.Notification(buf[offset])
	offset++
	ev.Snapshot.VehicleSpeed = float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	ev.Snapshot.GearShiftPosition = buf[offset]
	offset++
	ev.Snapshot.SIState = buf[offset]
	offset++
	raw := buf[offset : offset+systemTimeFieldSize]
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	ev.Snapshot.SystemTime = string(raw[:end])
	return ev
}

// WriteRecordFile atomically writes rec to path: the record is written
// to a temporary file in the same directory, then renamed into place, so
// a crash never leaves a partially-written event_data.bin behind.
func WriteRecordFile(path string, rec PersistenceRecord) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".event_data-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(EncodeRecord(rec)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// ReadRecordFile reads and decodes the persistence record at path. A
// missing file is not an error: it reports a clear processing flag, per
// spec §4.2 ("Absence of the file is not an error").
func ReadRecordFile(path string) (PersistenceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PersistenceRecord{}, nil
		}
		return PersistenceRecord{}, err
	}
	return DecodeRecord(data)
}

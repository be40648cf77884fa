package wireframe

import (
	"bytes"
	"testing"

	"github.com/vsi-core/interlock/pkg/crc16"
)

func sampleFrame() Frame {
	f := Frame{
		Type:           0x0101,
		Length:         8,
		RollingCounter: 5,
		Timestamp:      1_700_000_000,
		SequenceNumber: 7,
		ID:             0x0010,
	}
	copy(f.Value[:], []byte{1, 2, 3, 4, 5, 6, 7, 8})
	f.CRC = crc16.Checksum(f.CRCInput())
	return f
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := sampleFrame()
	encoded := f.Encode()
	if len(encoded) != Size {
		t.Fatalf("encoded length = %d, want %d", len(encoded), Size)
	}

	var got Frame
	n, err := got.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != Size {
		t.Fatalf("Decode consumed %d bytes, want %d", n, Size)
	}
	if got != f {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, f)
	}
}

func TestDecodeTooShort(t *testing.T) {
	var f Frame
	if _, err := f.Decode(make([]byte, Size-1)); err != ErrFrameTooShort {
		t.Fatalf("got err %v, want ErrFrameTooShort", err)
	}
}

func TestCRCMatchesRecomputation(t *testing.T) {
	f := sampleFrame()
	encoded := f.Encode()

	var decoded Frame
	if _, err := decoded.Decode(encoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	recomputed := crc16.Checksum(decoded.CRCInput())
	if recomputed != decoded.CRC {
		t.Fatalf("recomputed CRC %#04x != encoded CRC %#04x", recomputed, decoded.CRC)
	}
}

func TestValuePadding(t *testing.T) {
	f := Frame{}
	copy(f.Value[:], []byte{0xAA, 0xBB})
	encoded := f.Encode()
	want := append([]byte{0xAA, 0xBB}, make([]byte, ValueSize-2)...)
	if !bytes.Equal(encoded[16:16+ValueSize], want) {
		t.Fatalf("value not zero padded: %x", encoded[16:16+ValueSize])
	}
}

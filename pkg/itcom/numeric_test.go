package itcom

import "testing"

func TestDecodeVehicleSpeedBounds(t *testing.T) {
	cases := []struct {
		raw     uint16
		wantOK  bool
		wantVal float32
	}{
		{0x000, true, 0},
		{0x190, true, 4.00},
		{0x191, false, 4.01},
	}
	for _, c := range cases {
		got, ok := DecodeVehicleSpeed(c.raw)
		if ok != c.wantOK {
			t.Fatalf("raw=%#x: ok=%v, want %v", c.raw, ok, c.wantOK)
		}
		diff := got - c.wantVal
		if diff < 0 {
			diff = -diff
		}
		if diff > 0.01 {
			t.Fatalf("raw=%#x: got %v, want ~%v", c.raw, got, c.wantVal)
		}
	}
}

package itcom

import "math"

// speedTolerance is the epsilon used for boundary comparisons against the
// vehicle-speed valid range (spec §4.1 step 7, §9).
const speedTolerance = 0.001

// MaxVehicleSpeed is the upper bound (inclusive, within speedTolerance)
// of a valid reconstructed vehicle speed. Pinned to the literal boundary
// scenario (raw 0x190 -> 4.00 accepts, raw 0x191 -> 4.01 rejects) rather
// than the "0 to 400" range description elsewhere, since the two
// disagree and the boundary scenario is the checkable oracle.
const MaxVehicleSpeed = 4.00

// DecodeVehicleSpeed reconstructs the little-endian fixed-point vehicle
// speed carried in a status frame's value field and scales it to km/h.
// ok is false if the result falls outside the valid range.
func DecodeVehicleSpeed(raw uint16) (speed float32, ok bool) {
	speed = float32(raw) / 100.0
	if speed < -speedTolerance || speed > MaxVehicleSpeed+speedTolerance {
		return speed, false
	}
	return speed, true
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}

func float32frombits(b uint32) float32 {
	return math.Float32frombits(b)
}

// Package selftest implements the startup RAM pattern/march test and
// CRC self-check spec §6 describes only in prose as an external
// collaborator. It operates over an injected []uint32 buffer standing
// in for physical RAM, so the check is real rather than mocked. A
// failing Result is the caller's cue to raise FAULT_STARTUP_MEM_ERROR
// through itcom.RaiseEvent (selftest itself stays free of the faultids
// dependency, matching its role as a standalone collaborator).
package selftest

import "github.com/vsi-core/interlock/pkg/crc16"

// patternSequence is written and verified in order across buf for the
// pattern test: alternating bit patterns that catch stuck-at and
// bridging faults between adjacent cells.
var patternSequence = []uint32{0xAAAAAAAA, 0x55555555, 0xAAAAAAAA}

// marchSequence is written and verified in order for the march test:
// all-zero and all-one sweeps that catch coupling faults a single
// alternating pattern can miss.
var marchSequence = []uint32{0x00000000, 0xFFFFFFFF, 0x00000000, 0xFFFFFFFF}

// Result reports which phase of the self-test failed, if any.
type Result struct {
	Passed      bool
	FailedPhase string
	FailedIndex int
}

// RunRAMTest writes and reads back patternSequence then marchSequence
// across every word of buf, restoring buf's original contents before
// returning regardless of outcome (the buffer stands in for live RAM
// that other code may still need after the test).
func RunRAMTest(buf []uint32) Result {
	if len(buf) == 0 {
		return Result{Passed: true}
	}
	saved := append([]uint32(nil), buf...)
	defer copy(buf, saved)

	if res, ok := runSweep(buf, patternSequence, "pattern"); !ok {
		return res
	}
	if res, ok := runSweep(buf, marchSequence, "march"); !ok {
		return res
	}
	return Result{Passed: true}
}

func runSweep(buf []uint32, sequence []uint32, phase string) (Result, bool) {
	for _, word := range sequence {
		for i := range buf {
			buf[i] = word
		}
		for i, v := range buf {
			if v != word {
				return Result{Passed: false, FailedPhase: phase, FailedIndex: i}, false
			}
		}
	}
	return Result{}, true
}

// RunCRCTest computes crc16.Checksum over a byte view of buf and
// compares it against want, reporting a mismatch as a "crc" phase
// failure.
func RunCRCTest(buf []uint32, want uint16) Result {
	got := crc16.Checksum(uint32sToBytes(buf))
	if got != want {
		return Result{Passed: false, FailedPhase: "crc"}
	}
	return Result{Passed: true}
}

func uint32sToBytes(buf []uint32) []byte {
	out := make([]byte, 0, len(buf)*4)
	for _, w := range buf {
		out = append(out,
			byte(w),
			byte(w>>8),
			byte(w>>16),
			byte(w>>24),
		)
	}
	return out
}

// Run executes the RAM pattern/march test followed by the CRC
// self-check (expectedCRC computed over buf's contents by the caller
// ahead of time, e.g. over a known firmware/constant region), and
// returns the first failing Result, or a passing Result if both
// checks succeed.
func Run(buf []uint32, expectedCRC uint16) Result {
	if res := RunRAMTest(buf); !res.Passed {
		return res
	}
	return RunCRCTest(buf, expectedCRC)
}

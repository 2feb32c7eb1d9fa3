//go:build rp2040

package pio

// PIO0 state machine allocation. Indicators only use PIO0, leaving PIO1 free.
var smAllocations = [4]bool{}

// allocateStateMachine claims the lowest free PIO0 state machine
// Returns (smNum, ok)
func allocateStateMachine() (uint8, bool) {
	for sm := uint8(0); sm < 4; sm++ {
		if !smAllocations[sm] {
			smAllocations[sm] = true
			return sm, true
		}
	}
	return 0, false
}

func releaseStateMachine(sm uint8) {
	smAllocations[sm] = false
}

//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks the UART and GPIO edge interrupts while the timer
// list is edited, returning the previous state
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}

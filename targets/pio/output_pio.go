//go:build rp2040

package pio

// PIO-driven indicator outputs using tinygo-org/pio
// Each indicator pin is owned by one state machine running a two-instruction
// program; the CPU only pushes the new level into the TX FIFO.

import (
	"errors"
	"machine"

	"uartloop/core"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildOutputProgram creates the level-follower program using AssemblerV0
//
//	Word format: bit 0 = pin level
func buildOutputProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 1: out pins, 1
		// .wrap
	}
}

const outputPIOOrigin = 0

// ErrNoStateMachine is returned when every PIO0 state machine is taken
var ErrNoStateMachine = errors.New("no free PIO state machine")

type pioOutput struct {
	sm    rp2pio.StateMachine
	pin   machine.Pin
	level bool
}

// OutputDriver implements core.GPIODriver for outputs on PIO0.
// Inputs fall back to plain machine pins.
type OutputDriver struct {
	pio     *rp2pio.PIO
	offset  uint8
	loaded  bool
	outputs map[core.GPIOPin]*pioOutput
}

// NewOutputDriver creates a PIO0-backed output driver
func NewOutputDriver() *OutputDriver {
	return &OutputDriver{
		pio:     rp2pio.PIO0,
		outputs: make(map[core.GPIOPin]*pioOutput),
	}
}

// ConfigureOutput claims a state machine for pin and starts the program on it
func (d *OutputDriver) ConfigureOutput(pin core.GPIOPin) error {
	if _, exists := d.outputs[pin]; exists {
		return nil
	}

	smNum, ok := allocateStateMachine()
	if !ok {
		return ErrNoStateMachine
	}

	program := buildOutputProgram()
	if !d.loaded {
		offset, err := d.pio.AddProgram(program, outputPIOOrigin)
		if err != nil {
			releaseStateMachine(smNum)
			return err
		}
		d.offset = offset
		d.loaded = true
	}

	out := &pioOutput{
		sm:  d.pio.StateMachine(smNum),
		pin: machine.Pin(pin),
	}
	out.sm.TryClaim()

	out.pin.Configure(machine.PinConfig{Mode: d.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(out.pin, 1)
	// Shift right, no autopull (explicit PULL), 32-bit threshold
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(d.offset+uint8(len(program))-1, d.offset)
	// Level changes are rare; run the state machine slowly
	cfg.SetClkDivIntFrac(1000, 0)

	out.sm.Init(d.offset, cfg)
	out.sm.SetPindirsConsecutive(out.pin, 1, true)
	out.sm.SetPinsConsecutive(out.pin, 1, false)
	out.sm.SetEnabled(true)

	d.outputs[pin] = out
	return nil
}

// ConfigureInputPullUp configures a plain input; PIO is not involved
func (d *OutputDriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

// SetPin pushes the new level to the pin's state machine
func (d *OutputDriver) SetPin(pin core.GPIOPin, value bool) error {
	out, exists := d.outputs[pin]
	if !exists {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		out = d.outputs[pin]
	}

	word := uint32(0)
	if value {
		word = 1
	}

	// FIFO holds 4 words; the program drains one per two cycles
	for out.sm.IsTxFIFOFull() {
	}
	out.sm.TxPut(word)
	out.level = value
	return nil
}

// GetPin returns the last level written, or the input level for inputs
func (d *OutputDriver) GetPin(pin core.GPIOPin) (bool, error) {
	if out, exists := d.outputs[pin]; exists {
		return out.level, nil
	}
	return machine.Pin(pin).Get(), nil
}

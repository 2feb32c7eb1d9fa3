//go:build rp2040

package main

import (
	"machine"

	"uartloop/core"
)

// Buttons switch to 3V3 and idle low on the internal pull-down
var (
	sw4Pin = machine.GPIO14
	sw5Pin = machine.GPIO15
)

// InitButtons binds rising edges on both buttons to the dispatcher
func InitButtons(d *core.Dispatcher) error {
	for _, b := range []struct {
		pin machine.Pin
		id  core.ButtonID
	}{
		{sw4Pin, core.SW4},
		{sw5Pin, core.SW5},
	} {
		id := b.id
		b.pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
		err := b.pin.SetInterrupt(machine.PinRising, func(machine.Pin) {
			d.Press(id)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

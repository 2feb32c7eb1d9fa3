package mcu

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"uartloop/core"
)

// ConsoleGPIO implements core.GPIODriver in memory and logs level changes.
// An optional hook sees every change, e.g. to render LEDs.
type ConsoleGPIO struct {
	mu       sync.Mutex
	names    map[core.GPIOPin]string
	levels   map[core.GPIOPin]bool
	outputs  map[core.GPIOPin]bool
	OnChange func(pin core.GPIOPin, name string, level bool)
}

// NewConsoleGPIO creates a driver with all pins low
func NewConsoleGPIO() *ConsoleGPIO {
	return &ConsoleGPIO{
		names:   make(map[core.GPIOPin]string),
		levels:  make(map[core.GPIOPin]bool),
		outputs: make(map[core.GPIOPin]bool),
	}
}

// Name labels pin in log output
func (g *ConsoleGPIO) Name(pin core.GPIOPin, name string) {
	g.mu.Lock()
	g.names[pin] = name
	g.mu.Unlock()
}

func (g *ConsoleGPIO) label(pin core.GPIOPin) string {
	if name, ok := g.names[pin]; ok {
		return name
	}
	return fmt.Sprintf("gpio%d", pin)
}

// ConfigureOutput marks pin as an output
func (g *ConsoleGPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outputs[pin] = true
	glog.V(3).Infof("%s configured as output", g.label(pin))
	return nil
}

// ConfigureInputPullUp marks pin as an input idling high
func (g *ConsoleGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outputs[pin] = false
	g.levels[pin] = true
	return nil
}

// SetPin records the level of an output pin
func (g *ConsoleGPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	if !g.outputs[pin] {
		g.mu.Unlock()
		return fmt.Errorf("%s is not an output", g.label(pin))
	}
	changed := g.levels[pin] != value
	g.levels[pin] = value
	name := g.label(pin)
	hook := g.OnChange
	g.mu.Unlock()

	if changed {
		glog.V(2).Infof("%s -> %v", name, value)
		if hook != nil {
			hook(pin, name, value)
		}
	}
	return nil
}

// GetPin returns the recorded level
func (g *ConsoleGPIO) GetPin(pin core.GPIOPin) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin], nil
}

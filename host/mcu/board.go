// Package mcu runs the control loop on the host: the same core dispatcher
// the firmware runs, driven by wall-clock time, with indicators rendered by
// a console GPIO driver.
package mcu

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"

	"uartloop/core"
	"uartloop/protocol"
)

// Pins used for the host indicators, numbered like the evaluation board LEDs
const (
	PinIndicatorA core.GPIOPin = 600
	PinIndicatorB core.GPIOPin = 601
	PinHeartbeat  core.GPIOPin = 602
)

// ErrRunning is returned by Start when the board is already running
var ErrRunning = errors.New("board already running")

// LED is the state of one indicator
type LED struct {
	Name   string
	Active bool
}

// Board owns a dispatcher and serializes every call into it. Only one board
// may run per process since the core timer list is global.
type Board struct {
	mu   sync.Mutex
	cfg  core.Config
	link core.SerialTransport
	// sim is set when link is the in-memory loopback and must be pumped
	sim *protocol.Loopback

	gpio *ConsoleGPIO
	ind  core.Indicators
	d    *core.Dispatcher

	// clock returns microseconds since start
	clock   func() uint32
	running bool
}

// NewBoard builds a board around link. A *protocol.Loopback link is pumped
// by the board between loop iterations.
func NewBoard(cfg core.Config, link core.SerialTransport) *Board {
	b := &Board{
		cfg:  cfg,
		link: link,
		gpio: NewConsoleGPIO(),
		ind: core.Indicators{
			A:         core.NewIndicator("green", PinIndicatorA, true),
			B:         core.NewIndicator("red", PinIndicatorB, true),
			Heartbeat: core.NewIndicator("yellow", PinHeartbeat, true),
		},
	}
	if lb, ok := link.(*protocol.Loopback); ok {
		b.sim = lb
	}
	for _, ind := range b.Indicators() {
		b.gpio.Name(ind.Pin, ind.Name)
	}

	start := time.Now()
	b.clock = func() uint32 {
		return uint32(time.Since(start) / time.Microsecond)
	}

	b.d = core.NewDispatcher(cfg, link, b.ind)
	return b
}

// GPIO returns the console driver, e.g. to install an OnChange hook
func (b *Board) GPIO() *ConsoleGPIO {
	return b.gpio
}

// Dispatcher returns the underlying dispatcher. Its byte notification
// (OnByte) is safe to call from any goroutine.
func (b *Board) Dispatcher() *core.Dispatcher {
	return b.d
}

// Indicators returns A, B and heartbeat in that order
func (b *Board) Indicators() []*core.Indicator {
	return []*core.Indicator{b.ind.A, b.ind.B, b.ind.Heartbeat}
}

// Start installs the GPIO driver, resets the timer list and starts the loop
func (b *Board) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return ErrRunning
	}

	core.ResetTimers()
	core.SetGPIODriver(b.gpio)
	core.SetTime(b.clock())
	core.TimerInit()

	if err := b.d.Start(); err != nil {
		return err
	}
	b.running = true
	glog.Infof("loop started: interval=%v heartbeat=%v hold=%v debounce=%v",
		b.cfg.LoopInterval, b.cfg.HeartbeatPeriod, b.cfg.HoldDuration, b.cfg.Debounce)
	return nil
}

// Stop halts the loop and closes the link
func (b *Board) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return nil
	}
	b.running = false
	return b.d.Stop()
}

// Step runs one loop iteration at the current clock
func (b *Board) Step() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return
	}
	core.SetTime(b.clock())
	b.d.Step()
	if b.sim != nil {
		b.sim.Pump(b.d.OnByte)
	}
}

// Run steps the loop every LoopInterval until ctx is done, then stops
func (b *Board) Run(ctx context.Context) error {
	if err := b.Start(); err != nil {
		return err
	}

	ticker := time.NewTicker(b.cfg.LoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := b.Stop(); err != nil {
				glog.Warningf("stop: %v", err)
			}
			return ctx.Err()
		case <-ticker.C:
			b.Step()
		}
	}
}

// Press injects a rising edge on a button
func (b *Board) Press(id core.ButtonID) {
	b.d.Press(id)
}

// Send writes raw text on the link as if from the far end
func (b *Board) Send(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.link.Write([]byte(text))
	return err
}

// Stats returns the dispatcher counters
func (b *Board) Stats() core.Stats {
	return b.d.Stats()
}

// LEDs returns the indicator states
func (b *Board) LEDs() []LED {
	b.mu.Lock()
	defer b.mu.Unlock()

	leds := make([]LED, 0, 3)
	for _, ind := range b.Indicators() {
		leds = append(leds, LED{Name: ind.Name, Active: ind.Active()})
	}
	return leds
}

// Uptime returns loop time since Start, modulo the 32-bit timer range
func (b *Board) Uptime() time.Duration {
	return time.Duration(core.TimerToUS(core.Uptime())) * time.Microsecond
}

// Busy reports whether a line is pending or being actuated
func (b *Board) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.Busy()
}

// Events returns the diagnostic event ring, oldest first
func (b *Board) Events() []core.LinkEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return core.Events()
}

// ClearEvents empties the event ring
func (b *Board) ClearEvents() {
	b.mu.Lock()
	defer b.mu.Unlock()
	core.ClearEventRing()
}

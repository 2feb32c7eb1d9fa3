package core

import (
	"errors"

	"uartloop/protocol"
)

// ButtonID selects one of the two board buttons
type ButtonID int

const (
	SW4 ButtonID = iota
	SW5
	numButtons
)

// Indicators are the three outputs the loop drives
type Indicators struct {
	A         *Indicator // Lit by "SW4\n"
	B         *Indicator // Lit by "SW5\n"
	Heartbeat *Indicator
}

// ErrNotConfigured is returned by Start when a collaborator is missing
var ErrNotConfigured = errors.New("dispatcher not configured")

// Dispatcher is the main polling loop: it services scheduled events
// (heartbeat, hold release, button transmits) and hands completed lines to
// the actuator. All methods except OnByte and Press run on the main loop.
type Dispatcher struct {
	cfg        Config
	link       SerialTransport
	indicators Indicators

	assembler *Assembler
	actuator  *Actuator
	buttons   [numButtons]*Button

	line protocol.Line // Validated Message

	hbTimer  Timer
	hbLevel  bool
	hbPeriod uint32

	stats        Stats
	lastOverruns uint32
	lastDropped  uint32
	started      bool
}

// NewDispatcher wires the assembler, actuator and buttons around link
func NewDispatcher(cfg Config, link SerialTransport, ind Indicators) *Dispatcher {
	d := &Dispatcher{
		cfg:        cfg,
		link:       link,
		indicators: ind,
		hbPeriod:   durationTicks(cfg.HeartbeatPeriod),
	}
	d.assembler = NewAssembler(&d.stats)
	d.actuator = NewActuator(link, cfg.HoldDuration, []Binding{
		{Message: protocol.MessageSW4, Indicator: ind.A},
		{Message: protocol.MessageSW5, Indicator: ind.B},
	}, &d.stats, d.assembler.Rearm)
	d.buttons[SW4] = NewButton("SW4", protocol.MessageSW4, int(SW4), link, cfg.Debounce, &d.stats)
	d.buttons[SW5] = NewButton("SW5", protocol.MessageSW5, int(SW5), link, cfg.Debounce, &d.stats)
	d.hbTimer.Handler = d.heartbeatEvent
	return d
}

// Start configures the indicators, opens the link and arms the heartbeat
func (d *Dispatcher) Start() error {
	if d.link == nil || d.indicators.A == nil || d.indicators.B == nil || d.indicators.Heartbeat == nil {
		return ErrNotConfigured
	}

	for _, ind := range []*Indicator{d.indicators.A, d.indicators.B, d.indicators.Heartbeat} {
		if err := ind.Configure(); err != nil {
			return err
		}
	}

	if err := d.link.Open(); err != nil {
		return err
	}

	d.hbLevel = false
	d.hbTimer.WakeTime = GetTime() + d.hbPeriod
	ScheduleTimer(&d.hbTimer)
	d.started = true
	DebugPrintln("[LOOP] started")
	return nil
}

// Stop releases any held indicator, cancels timers and closes the link
func (d *Dispatcher) Stop() error {
	if !d.started {
		return nil
	}
	d.started = false
	d.actuator.Abort()
	CancelTimer(&d.hbTimer)
	for _, b := range d.buttons {
		b.Reset()
	}
	_ = d.indicators.Heartbeat.Set(false)
	return d.link.Close()
}

// OnByte is the UART byte-received notification. Interrupt context.
func (d *Dispatcher) OnByte(b byte) {
	_ = d.assembler.Receive(b)
}

// Press is the rising-edge notification for a button. Interrupt context.
func (d *Dispatcher) Press(id ButtonID) {
	if id < 0 || id >= numButtons {
		return
	}
	d.buttons[id].Press()
}

// Step runs one main loop iteration
func (d *Dispatcher) Step() {
	ProcessTimers()

	for _, b := range d.buttons {
		b.Poll()
	}

	if !d.actuator.Busy() && d.assembler.Take(&d.line) {
		d.stats.inc(&d.stats.LinesReceived)
		RecordEvent(EvtLineReady, uint32(d.line.Len()))
		d.actuator.Actuate(&d.line)
	}

	d.reportLosses()
}

// reportLosses turns counter deltas from interrupt context into ring events
func (d *Dispatcher) reportLosses() {
	s := d.stats.Snapshot()
	if n := s.Overruns - d.lastOverruns; n != 0 {
		RecordEvent(EvtOverrun, n)
		DebugAsync("[RX] overrun, lines discarded: " + utoa(n))
		d.lastOverruns = s.Overruns
	}
	if n := s.Dropped - d.lastDropped; n != 0 {
		RecordEvent(EvtDropped, n)
		DebugAsync("[RX] bytes dropped while busy: " + utoa(n))
		d.lastDropped = s.Dropped
	}
}

// heartbeatEvent toggles the heartbeat indicator. Toggling is suspended
// while an actuation holds the loop.
func (d *Dispatcher) heartbeatEvent(t *Timer) uint8 {
	if !d.actuator.Busy() {
		d.hbLevel = !d.hbLevel
		if err := d.indicators.Heartbeat.Set(d.hbLevel); err != nil {
			DebugPrintln("[HB] set failed: " + err.Error())
		}
		d.stats.inc(&d.stats.Heartbeats)
	}

	t.WakeTime += d.hbPeriod
	if TimerBefore(t.WakeTime, currentTime) || d.hbPeriod == 0 {
		// Fell behind by more than a period; resync instead of bursting
		t.WakeTime = currentTime + d.hbPeriod
		if d.hbPeriod == 0 {
			t.WakeTime++
		}
	}
	return SF_RESCHEDULE
}

// Stats returns a snapshot of the diagnostic counters
func (d *Dispatcher) Stats() Stats {
	return d.stats.Snapshot()
}

// Busy reports whether a line is pending or being actuated
func (d *Dispatcher) Busy() bool {
	return d.assembler.Pending()
}

// Actuator exposes the actuator for status queries
func (d *Dispatcher) Actuator() *Actuator {
	return d.actuator
}

// Assembler exposes the receive mailbox for status queries
func (d *Dispatcher) Assembler() *Assembler {
	return d.assembler
}

// Button returns the button bound to id
func (d *Dispatcher) Button(id ButtonID) *Button {
	return d.buttons[id]
}

// HeartbeatLevel returns the current heartbeat phase
func (d *Dispatcher) HeartbeatLevel() bool {
	return d.hbLevel
}

// Config returns the timing configuration
func (d *Dispatcher) Config() Config {
	return d.cfg
}

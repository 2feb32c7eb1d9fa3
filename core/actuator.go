package core

import (
	"time"

	"uartloop/protocol"
)

// Binding maps one button message to the indicator it lights
type Binding struct {
	Message   string
	Indicator *Indicator
}

// Actuator validates a completed line and lights the matching indicator for
// the hold duration. The hold is a scheduled timer, not a stalled loop.
type Actuator struct {
	link     SerialTransport
	bindings []Binding
	hold     uint32 // hold time in ticks

	timer  Timer
	line   *protocol.Line
	lit    int // index into bindings, -1 when nothing is lit
	busy   bool
	onDone func()
	stats  *Stats
}

// NewActuator creates an actuator. onDone runs after every actuation, once
// the link is reopened; the dispatcher uses it to rearm reception.
func NewActuator(link SerialTransport, hold time.Duration, bindings []Binding, stats *Stats, onDone func()) *Actuator {
	if stats == nil {
		stats = &Stats{}
	}
	a := &Actuator{
		link:     link,
		bindings: bindings,
		hold:     durationTicks(hold),
		lit:      -1,
		onDone:   onDone,
		stats:    stats,
	}
	a.timer.Handler = a.releaseEvent
	return a
}

// Busy reports whether an actuation is in progress
func (a *Actuator) Busy() bool {
	return a.busy
}

// Lit returns the message of the indicator currently held, or ""
func (a *Actuator) Lit() string {
	if a.lit < 0 {
		return ""
	}
	return a.bindings[a.lit].Message
}

// Match returns the binding index for line, or -1
func (a *Actuator) Match(line *protocol.Line) int {
	for i := range a.bindings {
		if line.Equal(a.bindings[i].Message) {
			return i
		}
	}
	return -1
}

// Actuate runs the validate/actuate sequence for line. The link is closed
// for the duration; line is cleared when the sequence completes.
func (a *Actuator) Actuate(line *protocol.Line) {
	a.busy = true
	a.line = line

	if err := a.link.Close(); err != nil {
		a.stats.inc(&a.stats.TransportErrors)
		RecordEvent(EvtTransportErr, 0)
		DebugPrintln("[ACT] close failed: " + err.Error())
	}

	idx := a.Match(line)
	if idx < 0 {
		a.stats.inc(&a.stats.Unrecognized)
		RecordEvent(EvtUnrecognized, uint32(line.Len()))
		if IsDebugEnabled() {
			DebugPrintln("[ACT] ignoring " + quoteLine(line.Bytes()))
		}
		a.finish()
		return
	}

	a.stats.inc(&a.stats.Matched)
	ind := a.bindings[idx].Indicator
	if err := ind.Set(true); err != nil {
		DebugPrintln("[ACT] " + ind.Name + " set failed: " + err.Error())
	}
	a.lit = idx
	RecordEvent(EvtActuate, uint32(idx))
	if IsDebugEnabled() {
		DebugPrintln("[ACT] " + ind.Name + " on for " + quoteLine(line.Bytes()))
	}

	a.timer.WakeTime = GetTime() + a.hold
	ScheduleTimer(&a.timer)
}

// releaseEvent is the hold timer handler
func (a *Actuator) releaseEvent(t *Timer) uint8 {
	if a.lit >= 0 {
		ind := a.bindings[a.lit].Indicator
		if err := ind.Set(false); err != nil {
			DebugPrintln("[ACT] " + ind.Name + " clear failed: " + err.Error())
		}
		RecordEvent(EvtRelease, uint32(a.lit))
		a.lit = -1
	}
	a.finish()
	return SF_DONE
}

func (a *Actuator) finish() {
	if a.line != nil {
		a.line.Clear()
		a.line = nil
	}

	if err := a.link.Open(); err != nil {
		a.stats.inc(&a.stats.TransportErrors)
		RecordEvent(EvtTransportErr, 1)
		DebugPrintln("[ACT] reopen failed: " + err.Error())
	}

	a.busy = false
	if a.onDone != nil {
		a.onDone()
	}
}

// Abort releases a held indicator immediately and completes the sequence
func (a *Actuator) Abort() {
	if !a.busy {
		return
	}
	CancelTimer(&a.timer)
	a.releaseEvent(&a.timer)
}

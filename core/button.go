package core

import (
	"sync/atomic"
	"time"
)

// Button turns rising edges into button messages on the serial link.
// Press only counts the edge; the main loop transmits one message per edge,
// spaced by the debounce interval, so the interrupt returns immediately.
type Button struct {
	Name    string
	Message string

	pending  uint32 // edges not yet transmitted, written from interrupt context
	index    uint32
	debounce uint32
	spacing  bool // a transmit happened less than debounce ago
	timer    Timer
	link     SerialTransport
	stats    *Stats
}

// NewButton creates a button that writes msg to link
func NewButton(name, msg string, index int, link SerialTransport, debounce time.Duration, stats *Stats) *Button {
	if stats == nil {
		stats = &Stats{}
	}
	b := &Button{
		Name:     name,
		Message:  msg,
		index:    uint32(index),
		debounce: durationTicks(debounce),
		link:     link,
		stats:    stats,
	}
	b.timer.Handler = b.spacingEvent
	return b
}

// Press records one rising edge. Safe from interrupt context.
func (b *Button) Press() {
	atomic.AddUint32(&b.pending, 1)
}

// Pending returns the number of edges waiting to be transmitted
func (b *Button) Pending() uint32 {
	return atomic.LoadUint32(&b.pending)
}

// Poll transmits the next pending message unless the previous transmit is
// still inside the debounce interval. Called from the main loop.
func (b *Button) Poll() {
	if b.spacing || b.Pending() == 0 {
		return
	}
	b.transmit()
	b.spacing = true
	b.timer.WakeTime = GetTime() + b.debounce
	ScheduleTimer(&b.timer)
}

func (b *Button) spacingEvent(t *Timer) uint8 {
	if b.Pending() == 0 {
		b.spacing = false
		return SF_DONE
	}
	b.transmit()
	t.WakeTime = currentTime + b.debounce
	return SF_RESCHEDULE
}

func (b *Button) transmit() {
	atomic.AddUint32(&b.pending, ^uint32(0))

	n, err := b.link.Write([]byte(b.Message))
	if err != nil || n != len(b.Message) {
		b.stats.inc(&b.stats.TransmitErrors)
		RecordEvent(EvtTransportErr, 2)
		if err != nil {
			DebugPrintln("[BTN] " + b.Name + " write failed: " + err.Error())
		}
		return
	}
	b.stats.inc(&b.stats.Transmits)
	RecordEvent(EvtTransmit, b.index)
}

// Reset drops pending edges and stops the debounce timer
func (b *Button) Reset() {
	CancelTimer(&b.timer)
	atomic.StoreUint32(&b.pending, 0)
	b.spacing = false
}

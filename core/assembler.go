package core

import (
	"errors"
	"sync/atomic"

	"uartloop/protocol"
)

// ErrRxBusy is returned when a byte arrives while a completed line is still
// pending or being actuated. The byte is dropped.
var ErrRxBusy = errors.New("receive busy: line pending")

// Receive state. The producer only writes the buffer in rxFilling, the
// consumer only touches it in rxReady and rxBusy.
const (
	rxFilling uint32 = iota // accepting bytes
	rxReady                 // terminator seen, line published
	rxBusy                  // line taken, actuation running
)

// Assembler collects bytes from the UART receive notification into a line.
// It is a single-producer/single-consumer mailbox: Receive is the producer
// (interrupt context), Take and Rearm are the consumer (main loop).
type Assembler struct {
	state   uint32
	buf     protocol.LineBuffer
	discard bool // producer only: skipping to the next terminator after an overrun
	stats   *Stats
}

// NewAssembler returns an assembler accepting bytes
func NewAssembler(stats *Stats) *Assembler {
	if stats == nil {
		stats = &Stats{}
	}
	return &Assembler{stats: stats}
}

// Receive appends one byte. It must stay O(1) and allocation free.
func (a *Assembler) Receive(b byte) error {
	if atomic.LoadUint32(&a.state) != rxFilling {
		a.stats.inc(&a.stats.Dropped)
		return ErrRxBusy
	}

	if a.discard {
		if b == protocol.Terminator {
			a.discard = false
		}
		return nil
	}

	if err := a.buf.Append(b); err != nil {
		a.buf.Reset()
		a.discard = b != protocol.Terminator
		a.stats.inc(&a.stats.Overruns)
		return err
	}

	if b == protocol.Terminator {
		atomic.StoreUint32(&a.state, rxReady)
	}
	return nil
}

// Pending reports the completion flag: true from the terminator until Rearm
func (a *Assembler) Pending() bool {
	return atomic.LoadUint32(&a.state) != rxFilling
}

// Take copies a published line into dst, clears the receive buffer and
// rewinds the cursor. It returns false when no line is ready.
func (a *Assembler) Take(dst *protocol.Line) bool {
	if atomic.LoadUint32(&a.state) != rxReady {
		return false
	}
	protocol.CopyLine(dst, a.buf.Bytes())
	a.buf.Reset()
	atomic.StoreUint32(&a.state, rxBusy)
	return true
}

// Rearm clears the completion flag so Receive accepts bytes again
func (a *Assembler) Rearm() {
	atomic.StoreUint32(&a.state, rxFilling)
}

// Cursor returns the write cursor. Only meaningful while Pending is true or
// the producer is otherwise idle.
func (a *Assembler) Cursor() int {
	return a.buf.Len()
}

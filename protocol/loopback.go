package protocol

import (
	"errors"
	"sync"
)

// ErrPortClosed is returned by Write on a closed Loopback
var ErrPortClosed = errors.New("port closed")

// Loopback is an in-memory serial link whose transmit side is wired to its
// own receive side, like a TX-RX jumper on the board header.
type Loopback struct {
	mu   sync.Mutex
	wire *FifoBuffer
	open bool

	// Lost counts bytes discarded because the wire was full or closed
	Lost uint32
}

// NewLoopback creates a closed Loopback with room for capacity-1 bytes in flight
func NewLoopback(capacity int) *Loopback {
	return &Loopback{wire: NewFifoBuffer(capacity)}
}

// Open enables the link
func (l *Loopback) Open() error {
	l.mu.Lock()
	l.open = true
	l.mu.Unlock()
	return nil
}

// Close disables the link and discards bytes in flight
func (l *Loopback) Close() error {
	l.mu.Lock()
	l.open = false
	l.Lost += uint32(l.wire.Available())
	l.wire.Reset()
	l.mu.Unlock()
	return nil
}

// IsOpen reports whether the link is open
func (l *Loopback) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// Write queues data on the wire
func (l *Loopback) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return 0, ErrPortClosed
	}
	n := l.wire.Write(data)
	l.Lost += uint32(len(data) - n)
	return n, nil
}

// Pump delivers every byte currently on the wire to deliver, one at a time,
// in arrival order. It returns the number of bytes delivered.
func (l *Loopback) Pump(deliver func(byte)) int {
	n := 0
	for {
		l.mu.Lock()
		if !l.open {
			l.mu.Unlock()
			return n
		}
		b, ok := l.wire.ReadByte()
		l.mu.Unlock()
		if !ok {
			return n
		}
		deliver(b)
		n++
	}
}

// Pending returns the number of bytes on the wire
func (l *Loopback) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wire.Available()
}

//go:build rp2040

package main

import (
	"errors"
	"machine"
	"sync/atomic"
	"time"

	"uartloop/protocol"
)

// UART0 with TX (GPIO0) jumpered to RX (GPIO1)
var (
	linkUART   = machine.UART0
	linkTXPin  = machine.GPIO0
	linkRXPin  = machine.GPIO1
	errClosed  = errors.New("uart closed")
	errNoSetup = errors.New("uart not configured")
)

// UARTTransport implements core.SerialTransport on a hardware UART.
// The peripheral has no close; reception is suppressed in software and
// anything buffered while closed is discarded on reopen.
type UARTTransport struct {
	uart       *machine.UART
	configured bool
	open       uint32 // atomic bool, read by the reader goroutine
	lost       uint32 // bytes discarded while closed
}

// NewUARTTransport wraps uart; it stays closed until Open
func NewUARTTransport(uart *machine.UART) *UARTTransport {
	return &UARTTransport{uart: uart}
}

// Open configures the UART on first use and re-enables reception
func (t *UARTTransport) Open() error {
	if !t.configured {
		err := t.uart.Configure(machine.UARTConfig{
			BaudRate: protocol.BaudRate,
			TX:       linkTXPin,
			RX:       linkRXPin,
		})
		if err != nil {
			return err
		}
		t.configured = true
	}

	// Drop whatever arrived while closed
	for t.uart.Buffered() > 0 {
		if _, err := t.uart.ReadByte(); err != nil {
			break
		}
		atomic.AddUint32(&t.lost, 1)
	}

	atomic.StoreUint32(&t.open, 1)
	return nil
}

// Close suspends reception and transmission
func (t *UARTTransport) Close() error {
	if !t.configured {
		return errNoSetup
	}
	atomic.StoreUint32(&t.open, 0)
	return nil
}

// Write transmits data; the UART driver queues it without waiting for drain
func (t *UARTTransport) Write(data []byte) (int, error) {
	if atomic.LoadUint32(&t.open) == 0 {
		return 0, errClosed
	}
	return t.uart.Write(data)
}

// Lost returns the number of bytes discarded while closed
func (t *UARTTransport) Lost() uint32 {
	return atomic.LoadUint32(&t.lost)
}

// readerLoop runs in a goroutine and delivers each received byte to
// deliver, in arrival order
func (t *UARTTransport) readerLoop(deliver func(byte)) {
	// Recover from panics to prevent a firmware crash
	defer func() {
		if r := recover(); r != nil {
			loopErrors++
			time.Sleep(100 * time.Millisecond)
			go t.readerLoop(deliver)
		}
	}()

	for {
		for t.uart.Buffered() > 0 {
			b, err := t.uart.ReadByte()
			if err != nil {
				break
			}
			if atomic.LoadUint32(&t.open) == 0 {
				atomic.AddUint32(&t.lost, 1)
				continue
			}
			deliver(b)
		}
		// Yield to avoid a busy loop
		time.Sleep(100 * time.Microsecond)
	}
}

//go:build !tinygo

package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"uartloop/protocol"
)

// Opener opens a port for cfg; Open is the native implementation
type Opener func(cfg *Config) (Port, error)

// Transport implements core.SerialTransport over a serial port whose TX is
// jumpered to its RX. Close releases the port; Open reopens it and starts a
// reader goroutine that hands every received byte to the receiver.
type Transport struct {
	cfg    *Config
	opener Opener

	mu      sync.Mutex
	port    Port
	gen     uint64 // bumped on every open and close
	receive func(byte)
	readers sync.WaitGroup

	lost atomic.Uint32 // bytes read after the port was closed
}

// NewTransport creates a closed transport for cfg using the native opener
func NewTransport(cfg *Config) *Transport {
	return NewTransportWithOpener(cfg, Open)
}

// NewTransportWithOpener creates a closed transport using opener
func NewTransportWithOpener(cfg *Config, opener Opener) *Transport {
	return &Transport{cfg: cfg, opener: opener}
}

// SetReceiver installs the byte notification. Set it before Open.
func (t *Transport) SetReceiver(fn func(byte)) {
	t.mu.Lock()
	t.receive = fn
	t.mu.Unlock()
}

// Open opens the port if it is closed and starts reading
func (t *Transport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port != nil {
		return nil
	}

	port, err := t.opener(t.cfg)
	if err != nil {
		return fmt.Errorf("open link %s: %w", t.cfg.Device, err)
	}

	t.port = port
	t.gen++
	t.readers.Add(1)
	go t.readLoop(port, t.gen, t.receive)
	glog.V(2).Infof("link %s opened", t.cfg.Device)
	return nil
}

// Close closes the port; bytes still in flight are lost
func (t *Transport) Close() error {
	t.mu.Lock()
	port := t.port
	t.port = nil
	t.gen++
	t.mu.Unlock()

	if port == nil {
		return nil
	}
	glog.V(2).Infof("link %s closed", t.cfg.Device)
	return port.Close()
}

// Write transmits data on the open port
func (t *Transport) Write(data []byte) (int, error) {
	t.mu.Lock()
	port := t.port
	t.mu.Unlock()

	if port == nil {
		return 0, protocol.ErrPortClosed
	}
	return port.Write(data)
}

// IsOpen reports whether the port is open
func (t *Transport) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// Lost returns the number of bytes read after their port was closed
func (t *Transport) Lost() uint32 {
	return t.lost.Load()
}

// Wait blocks until every reader goroutine has exited
func (t *Transport) Wait() {
	t.readers.Wait()
}

func (t *Transport) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen == gen
}

func (t *Transport) readLoop(port Port, gen uint64, receive func(byte)) {
	defer t.readers.Done()

	var buf [64]byte
	for {
		n, err := port.Read(buf[:])
		for i := 0; i < n; i++ {
			if !t.current(gen) {
				t.lost.Add(uint32(n - i))
				return
			}
			if receive != nil {
				receive(buf[i])
			}
		}

		if err == nil || errors.Is(err, io.EOF) {
			// Read timeout with no data
			if !t.current(gen) {
				return
			}
			continue
		}
		if t.current(gen) {
			glog.Warningf("link %s read failed: %v", t.cfg.Device, err)
		}
		return
	}
}

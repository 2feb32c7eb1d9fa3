//go:build !tinygo

package serial

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"uartloop/protocol"
)

// loopPort is an in-memory Port with TX wired to RX
type loopPort struct {
	data   chan byte
	closed chan struct{}
	once   sync.Once
}

func newLoopPort() *loopPort {
	return &loopPort{data: make(chan byte, 256), closed: make(chan struct{})}
}

func (p *loopPort) Read(b []byte) (int, error) {
	select {
	case c := <-p.data:
		b[0] = c
		n := 1
		for n < len(b) {
			select {
			case c = <-p.data:
				b[n] = c
				n++
			default:
				return n, nil
			}
		}
		return n, nil
	case <-p.closed:
		return 0, io.ErrClosedPipe
	}
}

func (p *loopPort) Write(b []byte) (int, error) {
	select {
	case <-p.closed:
		return 0, io.ErrClosedPipe
	default:
	}
	for _, c := range b {
		p.data <- c
	}
	return len(b), nil
}

func (p *loopPort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *loopPort) Flush() error { return nil }

type collector struct {
	mu  sync.Mutex
	got []byte
}

func (c *collector) receive(b byte) {
	c.mu.Lock()
	c.got = append(c.got, b)
	c.mu.Unlock()
}

func (c *collector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.got)
}

func newTestTransport(opens *int) *Transport {
	return NewTransportWithOpener(DefaultConfig("loop0"), func(*Config) (Port, error) {
		*opens++
		return newLoopPort(), nil
	})
}

func TestTransportLoopsBack(t *testing.T) {
	var opens int
	var rx collector
	tr := newTestTransport(&opens)
	tr.SetReceiver(rx.receive)

	require.NoError(t, tr.Open())
	require.NoError(t, tr.Open(), "open when open is a no-op")
	require.Equal(t, 1, opens)

	n, err := tr.Write([]byte(protocol.MessageSW4))
	require.NoError(t, err)
	require.Equal(t, protocol.MessageLen, n)

	require.Eventually(t, func() bool { return rx.String() == protocol.MessageSW4 },
		time.Second, time.Millisecond)

	require.NoError(t, tr.Close())
	tr.Wait()
}

func TestTransportClosedWriteFails(t *testing.T) {
	var opens int
	tr := newTestTransport(&opens)

	_, err := tr.Write([]byte("x"))
	require.ErrorIs(t, err, protocol.ErrPortClosed)

	require.NoError(t, tr.Open())
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close(), "close when closed is a no-op")
	require.False(t, tr.IsOpen())

	_, err = tr.Write([]byte("x"))
	require.ErrorIs(t, err, protocol.ErrPortClosed)
	tr.Wait()
}

func TestTransportReopen(t *testing.T) {
	var opens int
	var rx collector
	tr := newTestTransport(&opens)
	tr.SetReceiver(rx.receive)

	require.NoError(t, tr.Open())
	require.NoError(t, tr.Close())
	tr.Wait()

	require.NoError(t, tr.Open())
	require.Equal(t, 2, opens)

	_, err := tr.Write([]byte(protocol.MessageSW5))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rx.String() == protocol.MessageSW5 },
		time.Second, time.Millisecond)

	require.NoError(t, tr.Close())
	tr.Wait()
}

func TestTransportOpenError(t *testing.T) {
	fail := errors.New("no such device")
	tr := NewTransportWithOpener(DefaultConfig("missing"), func(*Config) (Port, error) {
		return nil, fail
	})

	err := tr.Open()
	require.ErrorIs(t, err, fail)
	require.Contains(t, err.Error(), "missing")
	require.False(t, tr.IsOpen())
}

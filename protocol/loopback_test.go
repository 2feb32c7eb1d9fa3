package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoopbackDeliversInOrder(t *testing.T) {
	lb := NewLoopback(32)
	require.NoError(t, lb.Open())

	n, err := lb.Write([]byte(MessageSW4))
	require.NoError(t, err)
	require.Equal(t, MessageLen, n)

	var got []byte
	delivered := lb.Pump(func(b byte) { got = append(got, b) })
	require.Equal(t, MessageLen, delivered)
	require.Equal(t, MessageSW4, string(got))
	require.Zero(t, lb.Pending())
}

func TestLoopbackClosed(t *testing.T) {
	lb := NewLoopback(32)

	_, err := lb.Write([]byte(MessageSW5))
	require.ErrorIs(t, err, ErrPortClosed)

	require.NoError(t, lb.Open())
	_, err = lb.Write([]byte(MessageSW5))
	require.NoError(t, err)

	require.NoError(t, lb.Close())
	require.Zero(t, lb.Pending())
	require.EqualValues(t, MessageLen, lb.Lost)

	calls := 0
	require.Zero(t, lb.Pump(func(byte) { calls++ }))
	require.Zero(t, calls)
}

func TestLoopbackOverflow(t *testing.T) {
	lb := NewLoopback(4)
	require.NoError(t, lb.Open())

	n, err := lb.Write([]byte(MessageSW4))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.EqualValues(t, 1, lb.Lost)
}

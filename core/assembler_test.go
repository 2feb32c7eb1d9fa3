package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"uartloop/protocol"
)

func feed(a *Assembler, s string) (errs []error) {
	for i := 0; i < len(s); i++ {
		if err := a.Receive(s[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func TestAssemblerPublishesOnTerminator(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"sw4", protocol.MessageSW4},
		{"sw5", protocol.MessageSW5},
		{"unknown", "SW6\n"},
		{"bare terminator", "\n"},
		{"full buffer", "0123456789abcde\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssembler(nil)
			require.Empty(t, feed(a, tt.in))
			require.True(t, a.Pending())

			var line protocol.Line
			require.True(t, a.Take(&line))
			require.Equal(t, tt.in, line.String())
			require.Zero(t, a.Cursor())
			require.True(t, a.Pending(), "completion flag stays set until rearm")
		})
	}
}

func TestAssemblerPartialLineStaysPending(t *testing.T) {
	a := NewAssembler(nil)
	require.Empty(t, feed(a, "SW"))

	var line protocol.Line
	require.False(t, a.Pending())
	require.False(t, a.Take(&line))
	require.Equal(t, 2, a.Cursor())

	require.Empty(t, feed(a, "4\n"))
	require.True(t, a.Take(&line))
	require.True(t, line.Equal(protocol.MessageSW4))
}

func TestAssemblerDropsWhileBusy(t *testing.T) {
	stats := &Stats{}
	a := NewAssembler(stats)
	feed(a, protocol.MessageSW4)

	errs := feed(a, protocol.MessageSW5)
	require.Len(t, errs, 4)
	require.ErrorIs(t, errs[0], ErrRxBusy)
	require.EqualValues(t, 4, stats.Snapshot().Dropped)

	var line protocol.Line
	require.True(t, a.Take(&line))
	require.True(t, line.Equal(protocol.MessageSW4), "dropped bytes must not reach the line")

	feed(a, "x")
	require.EqualValues(t, 5, stats.Snapshot().Dropped)

	a.Rearm()
	require.False(t, a.Pending())
	require.Empty(t, feed(a, protocol.MessageSW5))
	require.True(t, a.Take(&line))
	require.True(t, line.Equal(protocol.MessageSW5))
}

func TestAssemblerOverrun(t *testing.T) {
	stats := &Stats{}
	a := NewAssembler(stats)

	errs := feed(a, "0123456789abcdefXYZ")
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], protocol.ErrBufferFull)
	require.EqualValues(t, 1, stats.Snapshot().Overruns)
	require.False(t, a.Pending())

	// Rest of the oversized line is skipped up to its terminator
	require.Empty(t, feed(a, "\n"))
	require.False(t, a.Pending())

	require.Empty(t, feed(a, protocol.MessageSW4))
	var line protocol.Line
	require.True(t, a.Take(&line))
	require.True(t, line.Equal(protocol.MessageSW4))
}

func TestAssemblerOverrunOnTerminator(t *testing.T) {
	stats := &Stats{}
	a := NewAssembler(stats)

	errs := feed(a, "0123456789abcdef\n")
	require.Len(t, errs, 1)
	require.EqualValues(t, 1, stats.Snapshot().Overruns)

	// The terminator closed the oversized line, so the next one is accepted
	require.Empty(t, feed(a, protocol.MessageSW5))
	require.True(t, a.Pending())
}

func TestAssemblerConcurrentProducer(t *testing.T) {
	stats := &Stats{}
	a := NewAssembler(stats)

	const lines = 200
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < lines; i++ {
			for {
				if a.Pending() {
					continue
				}
				feed(a, protocol.MessageSW4)
				break
			}
		}
	}()

	got := 0
	var line protocol.Line
	for got < lines {
		if a.Take(&line) {
			require.True(t, line.Equal(protocol.MessageSW4), "got %q", line.String())
			line.Clear()
			a.Rearm()
			got++
		}
	}
	wg.Wait()
	require.Zero(t, stats.Snapshot().Dropped)
}

//go:build !tinygo

package core

import "sync/atomic"

// Host builds read the clock from the main loop and from test goroutines
var hostTicks atomic.Uint32

func getSystemTicks() uint32 {
	return hostTicks.Load()
}

func setSystemTicks(ticks uint32) {
	hostTicks.Store(ticks)
}

package core

import "time"

// Config holds the control loop timing. Firmware builds use DefaultConfig;
// the host loads it from a YAML file.
type Config struct {
	LoopInterval    time.Duration // Main loop iteration period
	HeartbeatPeriod time.Duration // Time between heartbeat toggles
	HoldDuration    time.Duration // How long a matched indicator stays lit
	Debounce        time.Duration // Minimum spacing between button transmits
}

// Reference timings of the evaluation board demo
const (
	DefaultLoopInterval    = 100 * time.Millisecond
	DefaultHeartbeatPeriod = 500 * time.Millisecond
	DefaultHoldDuration    = 3000 * time.Millisecond
	DefaultDebounce        = 50 * time.Millisecond
)

// DefaultConfig returns the reference timings
func DefaultConfig() Config {
	return Config{
		LoopInterval:    DefaultLoopInterval,
		HeartbeatPeriod: DefaultHeartbeatPeriod,
		HoldDuration:    DefaultHoldDuration,
		Debounce:        DefaultDebounce,
	}
}

// durationTicks converts d to timer ticks, rounding sub-tick values up to one
func durationTicks(d time.Duration) uint32 {
	us := d / time.Microsecond
	if us <= 0 {
		if d > 0 {
			return 1
		}
		return 0
	}
	return TimerFromUS(uint32(us))
}

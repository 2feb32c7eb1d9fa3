package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ---- serial ----
	if !cfg.Simulate && cfg.Serial.Device == "" {
		return fmt.Errorf("serial.device is required unless simulate is set")
	}
	if cfg.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", cfg.Serial.Baud)
	}
	if cfg.Serial.ReadTimeoutMs < 0 {
		return fmt.Errorf("serial.read_timeout_ms must not be negative")
	}

	// ---- loop ----
	if cfg.Loop.IntervalMs <= 0 {
		return fmt.Errorf("loop.interval_ms must be positive, got %d", cfg.Loop.IntervalMs)
	}
	if cfg.Loop.HeartbeatMs <= 0 {
		return fmt.Errorf("loop.heartbeat_ms must be positive, got %d", cfg.Loop.HeartbeatMs)
	}
	if cfg.Loop.HoldMs != nil && *cfg.Loop.HoldMs < 0 {
		return fmt.Errorf("loop.hold_ms must not be negative")
	}
	if cfg.Loop.DebounceMs != nil && *cfg.Loop.DebounceMs < 0 {
		return fmt.Errorf("loop.debounce_ms must not be negative")
	}

	// The timer base is a 32-bit microsecond counter
	const maxMs = 1 << 31 / 1000
	for name, v := range map[string]*int{
		"loop.interval_ms":  &cfg.Loop.IntervalMs,
		"loop.heartbeat_ms": &cfg.Loop.HeartbeatMs,
		"loop.hold_ms":      cfg.Loop.HoldMs,
		"loop.debounce_ms":  cfg.Loop.DebounceMs,
	} {
		if v != nil && *v > maxMs {
			return fmt.Errorf("%s exceeds %d ms", name, maxMs)
		}
	}

	return nil
}

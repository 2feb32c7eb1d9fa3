// Package config loads the host runner configuration from YAML.
package config

import (
	"time"

	"uartloop/core"
)

type Config struct {
	Serial   SerialConfig `yaml:"serial"`
	Loop     LoopConfig   `yaml:"loop"`
	Simulate bool         `yaml:"simulate"` // in-memory loopback instead of a port
}

// ---- SERIAL ----

type SerialConfig struct {
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- LOOP TIMING ----

type LoopConfig struct {
	IntervalMs  int  `yaml:"interval_ms"`
	HeartbeatMs int  `yaml:"heartbeat_ms"`
	HoldMs      *int `yaml:"hold_ms"`     // nil => default, 0 allowed
	DebounceMs  *int `yaml:"debounce_ms"` // nil => default, 0 allowed
}

// Core converts the loop section into the dispatcher timing configuration.
// Call only on a loaded (defaulted) config.
func (c *Config) Core() core.Config {
	cfg := core.DefaultConfig()
	cfg.LoopInterval = ms(c.Loop.IntervalMs)
	cfg.HeartbeatPeriod = ms(c.Loop.HeartbeatMs)
	if c.Loop.HoldMs != nil {
		cfg.HoldDuration = ms(*c.Loop.HoldMs)
	}
	if c.Loop.DebounceMs != nil {
		cfg.Debounce = ms(*c.Loop.DebounceMs)
	}
	return cfg
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

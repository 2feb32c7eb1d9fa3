package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"uartloop/core"
	"uartloop/protocol"
)

const (
	DefaultDevice        = "/dev/ttyUSB0"
	DefaultReadTimeoutMs = 100
)

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a YAML file. Missing fields take their defaults;
// Validate is left to the caller.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes; unknown keys are rejected and an empty
// document yields the defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := core.DefaultConfig()

	if cfg.Serial.Device == "" {
		cfg.Serial.Device = DefaultDevice
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = protocol.BaudRate
	}
	if cfg.Serial.ReadTimeoutMs == 0 {
		cfg.Serial.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if cfg.Loop.IntervalMs == 0 {
		cfg.Loop.IntervalMs = int(def.LoopInterval.Milliseconds())
	}
	if cfg.Loop.HeartbeatMs == 0 {
		cfg.Loop.HeartbeatMs = int(def.HeartbeatPeriod.Milliseconds())
	}
	if cfg.Loop.HoldMs == nil {
		v := int(def.HoldDuration.Milliseconds())
		cfg.Loop.HoldMs = &v
	}
	if cfg.Loop.DebounceMs == nil {
		v := int(def.Debounce.Milliseconds())
		cfg.Loop.DebounceMs = &v
	}
}

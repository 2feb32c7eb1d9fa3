package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"uartloop/core"
	"uartloop/protocol"
)

func intp(v int) *int { return &v }

func TestParseEmptyYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	require.Equal(t, DefaultDevice, cfg.Serial.Device)
	require.Equal(t, protocol.BaudRate, cfg.Serial.Baud)
	require.Equal(t, core.DefaultConfig(), cfg.Core())
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
serial:
  device: /dev/ttyACM1
loop:
  interval_ms: 20
  hold_ms: 0
  debounce_ms: 200
`))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	c := cfg.Core()
	require.Equal(t, "/dev/ttyACM1", cfg.Serial.Device)
	require.Equal(t, 20*time.Millisecond, c.LoopInterval)
	require.Equal(t, time.Duration(0), c.HoldDuration, "explicit zero hold is kept")
	require.Equal(t, 200*time.Millisecond, c.Debounce)
	require.Equal(t, core.DefaultHeartbeatPeriod, c.HeartbeatPeriod)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("serial:\n  speed: 9600\n"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uartloop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulate: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Simulate)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no device", func(c *Config) { c.Serial.Device = "" }, false},
		{"no device simulated", func(c *Config) { c.Serial.Device = ""; c.Simulate = true }, true},
		{"zero baud", func(c *Config) { c.Serial.Baud = 0 }, false},
		{"zero interval", func(c *Config) { c.Loop.IntervalMs = 0 }, false},
		{"negative heartbeat", func(c *Config) { c.Loop.HeartbeatMs = -1 }, false},
		{"negative hold", func(c *Config) { c.Loop.HoldMs = intp(-5) }, false},
		{"zero debounce", func(c *Config) { c.Loop.DebounceMs = intp(0) }, true},
		{"hold beyond timer range", func(c *Config) { c.Loop.HoldMs = intp(3_000_000) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

//go:build rp2040

package main

// IndicatorBackend selects how the three indicators are driven
type IndicatorBackend uint8

const (
	// BackendGPIO drives discrete LEDs from plain GPIO
	BackendGPIO IndicatorBackend = iota
	// BackendPIO drives discrete LEDs from PIO0 state machines
	BackendPIO
	// BackendPixel maps the indicators onto the colour channels of one WS2812
	BackendPixel
)

// ModeConfig determines how the firmware is wired up
type ModeConfig struct {
	Indicators IndicatorBackend
	// Debug output on USB CDC
	Debug bool
}

// GetMode returns the current mode configuration.
// Change the values here to switch backend at compile time.
func GetMode() ModeConfig {
	return ModeConfig{
		Indicators: BackendGPIO,
		Debug:      true,
	}
}

func (b IndicatorBackend) String() string {
	switch b {
	case BackendGPIO:
		return "gpio"
	case BackendPIO:
		return "pio"
	case BackendPixel:
		return "ws2812"
	}
	return "unknown"
}

//go:build rp2040

package main

import (
	"errors"
	"image/color"
	"machine"

	"uartloop/core"

	"tinygo.org/x/drivers/ws2812"
)

// Virtual pins for the pixel backend, one per colour channel
const (
	pixelGreen core.GPIOPin = iota
	pixelRed
	pixelBlue
	numPixelChannels
)

var errPixelChannel = errors.New("invalid pixel channel")

// PixelDriver implements core.GPIODriver on a single WS2812 pixel.
// Each virtual pin owns one colour channel; setting a pin rewrites the pixel.
type PixelDriver struct {
	dev      ws2812.Device
	channels [numPixelChannels]bool
	buf      [1]color.RGBA
}

// NewPixelDriver creates a driver for the pixel data line on pin
func NewPixelDriver(pin machine.Pin) *PixelDriver {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &PixelDriver{dev: ws2812.New(pin)}
}

// ConfigureOutput validates the channel; the data line is already an output
func (d *PixelDriver) ConfigureOutput(pin core.GPIOPin) error {
	if pin >= numPixelChannels {
		return errPixelChannel
	}
	return nil
}

// ConfigureInputPullUp is not supported on a pixel
func (d *PixelDriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return errPixelChannel
}

// SetPin sets one channel and pushes the colour to the pixel
func (d *PixelDriver) SetPin(pin core.GPIOPin, value bool) error {
	if pin >= numPixelChannels {
		return errPixelChannel
	}
	d.channels[pin] = value

	c := color.RGBA{A: 0xff}
	if d.channels[pixelGreen] {
		c.G = 0x40
	}
	if d.channels[pixelRed] {
		c.R = 0x40
	}
	if d.channels[pixelBlue] {
		c.B = 0x40
	}
	d.buf[0] = c
	return d.dev.WriteColors(d.buf[:])
}

// GetPin returns the last level written to a channel
func (d *PixelDriver) GetPin(pin core.GPIOPin) (bool, error) {
	if pin >= numPixelChannels {
		return false, errPixelChannel
	}
	return d.channels[pin], nil
}

package core

import (
	"errors"
	"testing"
)

// MockGPIODriver is a test implementation of GPIODriver
type MockGPIODriver struct {
	pins       map[GPIOPin]bool
	configured map[GPIOPin]bool
	writes     map[GPIOPin]int
	failSet    error
}

func NewMockGPIODriver() *MockGPIODriver {
	return &MockGPIODriver{
		pins:       make(map[GPIOPin]bool),
		configured: make(map[GPIOPin]bool),
		writes:     make(map[GPIOPin]int),
	}
}

func (m *MockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	m.configured[pin] = true
	m.pins[pin] = false
	return nil
}

func (m *MockGPIODriver) ConfigureInputPullUp(pin GPIOPin) error {
	m.configured[pin] = true
	m.pins[pin] = true
	return nil
}

func (m *MockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.pins[pin] = value
	m.writes[pin]++
	return nil
}

func (m *MockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	return m.pins[pin], nil
}

func TestGPIODriverBasic(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	SetGPIODriver(mockDriver)

	pin := GPIOPin(25)
	if err := MustGPIO().ConfigureOutput(pin); err != nil {
		t.Fatalf("ConfigureOutput failed: %v", err)
	}

	if err := MustGPIO().SetPin(pin, true); err != nil {
		t.Fatalf("SetPin(true) failed: %v", err)
	}

	state, err := MustGPIO().GetPin(pin)
	if err != nil {
		t.Fatalf("GetPin failed: %v", err)
	}
	if !state {
		t.Errorf("Expected pin to be high, got low")
	}
}

func TestIndicatorActiveLow(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	SetGPIODriver(mockDriver)

	led := NewIndicator("green", 600, true)
	if err := led.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	if !mockDriver.pins[600] {
		t.Error("Inactive active-low LED should be driven high")
	}

	if err := led.Set(true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if mockDriver.pins[600] {
		t.Error("Active active-low LED should be driven low")
	}
	if !led.Active() {
		t.Error("Expected indicator to report active")
	}
}

func TestIndicatorActiveHigh(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	SetGPIODriver(mockDriver)

	led := NewIndicator("onboard", 25, false)
	if err := led.Set(true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !mockDriver.pins[25] {
		t.Error("Active active-high LED should be driven high")
	}
}

func TestIndicatorSetError(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	mockDriver.failSet = errors.New("pin fault")
	SetGPIODriver(mockDriver)

	led := NewIndicator("red", 601, true)
	if err := led.Set(true); err == nil {
		t.Fatal("Expected error from failing driver")
	}
	if led.Active() {
		t.Error("Indicator state must not change when the write fails")
	}
}

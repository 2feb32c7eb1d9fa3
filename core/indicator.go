package core

// Indicator is an LED (or any on/off output) driven through the GPIO HAL
type Indicator struct {
	Name      string
	Pin       GPIOPin
	ActiveLow bool // Evaluation board LEDs sink current: low = lit

	active bool
}

// NewIndicator returns an inactive indicator on pin
func NewIndicator(name string, pin GPIOPin, activeLow bool) *Indicator {
	return &Indicator{Name: name, Pin: pin, ActiveLow: activeLow}
}

// Configure sets the pin up as an output and drives it inactive
func (ind *Indicator) Configure() error {
	if err := MustGPIO().ConfigureOutput(ind.Pin); err != nil {
		return err
	}
	return ind.Set(false)
}

// Set drives the indicator active or inactive
func (ind *Indicator) Set(active bool) error {
	level := active != ind.ActiveLow
	if err := MustGPIO().SetPin(ind.Pin, level); err != nil {
		return err
	}
	ind.active = active
	return nil
}

// Active reports the last level written
func (ind *Indicator) Active() bool {
	return ind.active
}

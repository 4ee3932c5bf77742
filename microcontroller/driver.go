// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package microcontroller

// Line is a backend handle to a digital pin.
type Line interface {
	// State returns the level of the line, 0 or 1.
	State() (int, error)

	// SetState drives the line to the level, 0 or 1.
	SetState(level int) error

	// Close releases the line.
	Close() error
}

// ADC is a backend handle to an analog input.
type ADC interface {
	// ReadSamples returns one or more samples from the converter.
	ReadSamples() ([]int, error)

	// Close releases the converter.
	Close() error
}

// DAC is a backend handle to an analog output.
type DAC interface {
	Initialize() error
	SetValue(v int) error
	Close() error
}

// Capabilities describes the pin features a Driver supports.
type Capabilities struct {
	// PullUp indicates lines can be requested with an internal pull-up.
	PullUp bool

	// PullDown indicates lines can be requested with an internal pull-down.
	PullDown bool

	// OpenDrain indicates output lines can be requested as open-drain.
	OpenDrain bool

	// ADCPins are the ids of pins able to be used as analog inputs.
	ADCPins []any

	// DACPin is the id of the pin able to be used as an analog output, or nil
	// if there is none.
	DACPin any
}

// HasADC returns true if the pin can be used as an analog input.
func (c Capabilities) HasADC(id any) bool {
	for _, a := range c.ADCPins {
		if a == id {
			return true
		}
	}
	return false
}

// HasDAC returns true if the pin can be used as an analog output.
func (c Capabilities) HasDAC(id any) bool {
	return c.DACPin != nil && c.DACPin == id
}

// Driver is the platform specific backend that provides handles to pins.
//
// Pin ids are opaque to the core and interpreted by the Driver.
type Driver interface {
	// Name identifies the driver in error messages.
	Name() string

	Capabilities() Capabilities

	// OpenLine acquires the pin as a digital line in the given mode.
	//
	// The mode is one of ModeInput, ModeOutput or ModeOpenDrain, and pull
	// is only meaningful for ModeInput.  Output lines are initially driven
	// low.
	OpenLine(id any, mode Mode, pull Pull) (Line, error)

	OpenADC(id any) (ADC, error)
	OpenDAC(id any) (DAC, error)
}

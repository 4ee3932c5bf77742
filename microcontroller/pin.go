// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package microcontroller

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
)

// Mode is the function a Pin is initialised to perform.
type Mode int

const (
	// ModeUnset indicates the pin has not been initialised.
	ModeUnset Mode = iota

	// ModeInput is a digital input.
	ModeInput

	// ModeOutput is a push-pull digital output.
	ModeOutput

	// ModeOpenDrain is an open-drain digital output.
	ModeOpenDrain

	// ModeAnalogIn is an analog input, read through an ADC.
	ModeAnalogIn

	// ModeAnalogOut is an analog output, written through a DAC.
	ModeAnalogOut
)

func (m Mode) String() string {
	switch m {
	case ModeUnset:
		return "unset"
	case ModeInput:
		return "input"
	case ModeOutput:
		return "output"
	case ModeOpenDrain:
		return "open-drain"
	case ModeAnalogIn:
		return "analog-in"
	case ModeAnalogOut:
		return "analog-out"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// IsDigital returns true for the digital modes.
func (m Mode) IsDigital() bool {
	return m == ModeInput || m == ModeOutput || m == ModeOpenDrain
}

// Pull is the bias applied to a digital input.
type Pull int

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullNone:
		return "none"
	case PullUp:
		return "pull-up"
	case PullDown:
		return "pull-down"
	}
	return fmt.Sprintf("Pull(%d)", int(p))
}

const (
	// Low is the inactive digital level.
	Low = 0

	// High is the active digital level.
	High = 1
)

// Pin is a logical pin, identified by a board defined id and backed by a
// handle from a Driver.
//
// The handle is acquired by Init, and exists only while the mode is set.
// A Pin is not safe for concurrent use.
type Pin struct {
	id   any
	drv  Driver
	mode Mode
	pull Pull

	// at most one of these is set, corresponding to mode.
	line Line
	adc  ADC
	dac  DAC
}

// NewPin creates a Pin for the id, backed by the driver.
//
// A nil id is accepted, but the Pin cannot be initialised.
func NewPin(drv Driver, id any) *Pin {
	return &Pin{id: id, drv: drv}
}

// ID returns the id of the pin.
func (p *Pin) ID() any {
	return p.id
}

// Driver returns the backend driver of the pin.
func (p *Pin) Driver() Driver {
	return p.drv
}

// Mode returns the mode the pin is currently initialised to.
func (p *Pin) Mode() Mode {
	return p.mode
}

// Pull returns the pull the pin is currently initialised with.
func (p *Pin) Pull() Pull {
	return p.pull
}

func (p *Pin) String() string {
	return fmt.Sprintf("pin %v", p.id)
}

// Init (re)initialises the pin to the mode, replacing any existing handle.
//
// The pull only applies to ModeInput.
//
// The existing handle is released before the new one is acquired.  If
// acquisition fails then the previous configuration, including the level of
// a digital output, is restored.  If that also fails the pin is left
// uninitialised.
func (p *Pin) Init(mode Mode, pull Pull) error {
	if p.id == nil {
		return errors.Wrap(blinka.ErrConfiguration, "can't init a pin with no id")
	}
	if p.drv == nil {
		return errors.Wrapf(blinka.ErrConfiguration, "%s has no driver", p)
	}
	caps := p.drv.Capabilities()
	switch pull {
	case PullNone:
	case PullUp:
		if !caps.PullUp {
			return errors.Wrapf(blinka.ErrUnsupportedFeature, "internal pull-up unsupported by %s", p.drv.Name())
		}
	case PullDown:
		if !caps.PullDown {
			return errors.Wrapf(blinka.ErrUnsupportedFeature, "internal pull-down unsupported by %s", p.drv.Name())
		}
	default:
		return errors.Wrapf(blinka.ErrInvalidArgument, "not a Pull: %s", pull)
	}
	switch mode {
	case ModeInput, ModeOutput:
	case ModeOpenDrain:
		if !caps.OpenDrain {
			return errors.Wrapf(blinka.ErrUnsupportedFeature, "open-drain unsupported by %s", p.drv.Name())
		}
	case ModeAnalogIn:
		if !caps.HasADC(p.id) {
			return errors.Wrapf(blinka.ErrUnsupportedFeature, "%s does not have ADC capabilities", p)
		}
	case ModeAnalogOut:
		if !caps.HasDAC(p.id) {
			return errors.Wrapf(blinka.ErrUnsupportedFeature, "%s does not have DAC capabilities", p)
		}
	default:
		return errors.Wrapf(blinka.ErrInvalidArgument, "incorrect pin mode: %s", mode)
	}
	if mode != ModeInput && pull != PullNone {
		return errors.Wrapf(blinka.ErrInvalidArgument, "pull only applies to inputs, not %s", mode)
	}
	prevMode, prevPull := p.mode, p.pull
	prevLevel := Low
	if prevMode == ModeOutput || prevMode == ModeOpenDrain {
		if v, err := p.line.State(); err == nil {
			prevLevel = v
		}
	}
	if err := p.release(); err != nil {
		return err
	}
	if err := p.open(mode, pull); err != nil {
		err = errors.Wrapf(err, "init %s as %s", p, mode)
		if prevMode == ModeUnset {
			return err
		}
		if rerr := p.open(prevMode, prevPull); rerr != nil {
			return errors.WithMessagef(err, "restore as %s failed: %v", prevMode, rerr)
		}
		if prevLevel != Low {
			// best effort, the open error is the one reported
			_ = p.line.SetState(prevLevel)
		}
		return err
	}
	return nil
}

// open acquires the handle for the mode and records the configuration.
//
// The pin must be released.
func (p *Pin) open(mode Mode, pull Pull) error {
	var err error
	switch mode {
	case ModeAnalogIn:
		p.adc, err = p.drv.OpenADC(p.id)
	case ModeAnalogOut:
		p.dac, err = p.drv.OpenDAC(p.id)
		if err == nil {
			if err = p.dac.Initialize(); err != nil {
				p.dac.Close()
				p.dac = nil
			}
		}
	default:
		p.line, err = p.drv.OpenLine(p.id, mode, pull)
	}
	if err != nil {
		return err
	}
	p.mode = mode
	p.pull = pull
	return nil
}

// Value reads the pin.
//
// For digital modes this is the level of the line, 0 or 1.
// For ModeAnalogIn this is the first sample from the ADC.
// Reading a ModeAnalogOut pin is an error.
func (p *Pin) Value() (int, error) {
	switch {
	case p.mode.IsDigital():
		v, err := p.line.State()
		return v, errors.Wrapf(err, "read %s", p)
	case p.mode == ModeAnalogIn:
		samples, err := p.adc.ReadSamples()
		if err != nil {
			return 0, errors.Wrapf(err, "read %s", p)
		}
		if len(samples) == 0 {
			return 0, errors.Wrapf(blinka.ErrInternal, "no samples read from %s", p)
		}
		return samples[0], nil
	case p.mode == ModeAnalogOut:
		return 0, errors.Wrapf(blinka.ErrState, "%s is write-only as %s", p, p.mode)
	}
	return 0, errors.Wrapf(blinka.ErrInternal, "no action for mode %s with no value", p.mode)
}

// SetValue writes the pin.
//
// For digital modes the value must be Low or High.
// For ModeAnalogOut the value is written to the DAC.
// Writing a ModeAnalogIn pin is an error.
func (p *Pin) SetValue(v int) error {
	switch {
	case p.mode.IsDigital():
		if v != Low && v != High {
			return errors.Wrapf(blinka.ErrInvalidArgument, "invalid value for %s: %d", p, v)
		}
		return errors.Wrapf(p.line.SetState(v), "write %s", p)
	case p.mode == ModeAnalogIn:
		return errors.Wrapf(blinka.ErrState, "%s is read-only as %s", p, p.mode)
	case p.mode == ModeAnalogOut:
		return errors.Wrapf(p.dac.SetValue(v), "write %s", p)
	}
	return errors.Wrapf(blinka.ErrInternal, "no action for mode %s with value %d", p.mode, v)
}

// Deinit releases the backend handle, returning the pin to ModeUnset.
func (p *Pin) Deinit() error {
	return p.release()
}

func (p *Pin) release() error {
	var err error
	switch {
	case p.line != nil:
		err = p.line.Close()
	case p.adc != nil:
		err = p.adc.Close()
	case p.dac != nil:
		err = p.dac.Close()
	}
	p.line = nil
	p.adc = nil
	p.dac = nil
	p.mode = ModeUnset
	p.pull = PullNone
	return errors.Wrapf(err, "release %s", p)
}

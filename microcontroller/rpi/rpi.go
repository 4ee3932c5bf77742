// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package rpi provides pin and SPI backends for the Broadcom SoCs of the
// Raspberry Pi, driving the peripherals through go-rpio.
//
// Pins are identified by their BCM GPIO number.
package rpi

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/microcontroller"
)

// MaxPin is the highest GPIO available on the 40 pin header.
const MaxPin = 27

// The peripheral memory is mapped while any line or bus is open.
var mapping struct {
	sync.Mutex
	refs int
}

func acquire() error {
	mapping.Lock()
	defer mapping.Unlock()
	if mapping.refs == 0 {
		if err := rpio.Open(); err != nil {
			return errors.Wrap(err, "rpi: map peripherals")
		}
	}
	mapping.refs++
	return nil
}

func release() error {
	mapping.Lock()
	defer mapping.Unlock()
	if mapping.refs == 0 {
		return nil
	}
	mapping.refs--
	if mapping.refs == 0 {
		return errors.Wrap(rpio.Close(), "rpi: unmap peripherals")
	}
	return nil
}

// Driver is the pin driver for the Raspberry Pi.
//
// Inputs support internal pull-ups and pull-downs, but the SoC has no
// open-drain outputs or converters.
type Driver struct{}

// NewDriver creates a pin driver for the Raspberry Pi.
func NewDriver() *Driver {
	return &Driver{}
}

// Name implements microcontroller.Driver.
func (d *Driver) Name() string {
	return "rpi"
}

// Capabilities implements microcontroller.Driver.
func (d *Driver) Capabilities() microcontroller.Capabilities {
	return microcontroller.Capabilities{PullUp: true, PullDown: true}
}

// OpenLine implements microcontroller.Driver.
func (d *Driver) OpenLine(id any, mode microcontroller.Mode, pull microcontroller.Pull) (microcontroller.Line, error) {
	n, ok := id.(int)
	if !ok || n < 0 || n > MaxPin {
		return nil, errors.Wrapf(blinka.ErrConfiguration, "rpi: invalid pin: %v", id)
	}
	if mode != microcontroller.ModeInput && mode != microcontroller.ModeOutput {
		return nil, errors.Wrapf(blinka.ErrUnsupportedFeature, "rpi: mode %s", mode)
	}
	if err := acquire(); err != nil {
		return nil, err
	}
	p := rpio.Pin(n)
	if mode == microcontroller.ModeOutput {
		p.Output()
		p.Low()
		return &line{p: p}, nil
	}
	p.Input()
	switch pull {
	case microcontroller.PullUp:
		p.PullUp()
	case microcontroller.PullDown:
		p.PullDown()
	default:
		p.PullOff()
	}
	return &line{p: p}, nil
}

// OpenADC implements microcontroller.Driver.
func (d *Driver) OpenADC(id any) (microcontroller.ADC, error) {
	return nil, errors.Wrap(blinka.ErrUnsupportedFeature, "rpi: no ADC")
}

// OpenDAC implements microcontroller.Driver.
func (d *Driver) OpenDAC(id any) (microcontroller.DAC, error) {
	return nil, errors.Wrap(blinka.ErrUnsupportedFeature, "rpi: no DAC")
}

type line struct {
	p      rpio.Pin
	closed bool
}

func (l *line) State() (int, error) {
	if l.closed {
		return 0, errors.Wrap(blinka.ErrState, "rpi: line closed")
	}
	return int(l.p.Read()), nil
}

func (l *line) SetState(level int) error {
	if l.closed {
		return errors.Wrap(blinka.ErrState, "rpi: line closed")
	}
	l.p.Write(rpio.State(level))
	return nil
}

func (l *line) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return release()
}

var _ microcontroller.Driver = (*Driver)(nil)

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package ft232h provides pin and SPI backends for the FTDI FT232H USB
// bridge, using the periph.io FTDI driver.
package ft232h

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/internal/periphspi"
	"github.com/warthog618/go-blinka/microcontroller"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

// Pin ids, as indices into the FT232H header.
const (
	D0 = iota
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	C0
	C1
	C2
	C3
	C4
	C5
	C6
	C7
	C8
	C9
)

// The pins used by the MPSSE SPI engine.
const (
	SCK  = D0
	MOSI = D1
	MISO = D2
	CS   = D3
)

var dev struct {
	once sync.Once
	f    *ftdi.FT232H
	err  error
}

// device returns the first attached FT232H.
func device() (*ftdi.FT232H, error) {
	dev.once.Do(func() {
		if _, err := host.Init(); err != nil {
			dev.err = errors.Wrap(err, "periph host init")
			return
		}
		for _, d := range ftdi.All() {
			if f, ok := d.(*ftdi.FT232H); ok {
				dev.f = f
				return
			}
		}
		dev.err = errors.Wrap(blinka.ErrUnsupportedPlatform, "no FT232H attached")
	})
	return dev.f, dev.err
}

// Driver is the pin driver for the FT232H.
//
// The FT232H has no internal pulls, open-drain outputs or converters.
type Driver struct{}

// NewDriver creates a pin driver for the FT232H.
func NewDriver() *Driver {
	return &Driver{}
}

// Name implements microcontroller.Driver.
func (d *Driver) Name() string {
	return "ft232h"
}

// Capabilities implements microcontroller.Driver.
func (d *Driver) Capabilities() microcontroller.Capabilities {
	return microcontroller.Capabilities{}
}

// OpenLine implements microcontroller.Driver.
func (d *Driver) OpenLine(id any, mode microcontroller.Mode, pull microcontroller.Pull) (microcontroller.Line, error) {
	idx, err := pinIndex(id)
	if err != nil {
		return nil, err
	}
	f, err := device()
	if err != nil {
		return nil, err
	}
	p := f.Header()[idx]
	switch mode {
	case microcontroller.ModeInput:
		err = p.In(gpio.PullNoChange, gpio.NoEdge)
	case microcontroller.ModeOutput:
		err = p.Out(gpio.Low)
	default:
		return nil, errors.Wrapf(blinka.ErrUnsupportedFeature, "ft232h: mode %s", mode)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "ft232h: %s", p)
	}
	return &line{p: p}, nil
}

// OpenADC implements microcontroller.Driver.
func (d *Driver) OpenADC(id any) (microcontroller.ADC, error) {
	return nil, errors.Wrap(blinka.ErrUnsupportedFeature, "ft232h: no ADC")
}

// OpenDAC implements microcontroller.Driver.
func (d *Driver) OpenDAC(id any) (microcontroller.DAC, error) {
	return nil, errors.Wrap(blinka.ErrUnsupportedFeature, "ft232h: no DAC")
}

func pinIndex(id any) (int, error) {
	idx, ok := id.(int)
	if !ok || idx < D0 || idx > C9 {
		return 0, errors.Wrapf(blinka.ErrConfiguration, "ft232h: invalid pin: %v", id)
	}
	return idx, nil
}

type line struct {
	p gpio.PinIO
}

func (l *line) State() (int, error) {
	if l.p.Read() == gpio.High {
		return microcontroller.High, nil
	}
	return microcontroller.Low, nil
}

func (l *line) SetState(level int) error {
	return l.p.Out(gpio.Level(level == microcontroller.High))
}

// Close leaves the pin in its current state, as the header pins are not
// requested from the device.
func (l *line) Close() error {
	return nil
}

// OpenSPI opens the MPSSE SPI engine.
//
// The pins must be those of the engine, SCK, MOSI and MISO, though the data
// pins may be nil.
func OpenSPI(pins microcontroller.SPIPins) (microcontroller.SPI, error) {
	if pins.Clock != SCK ||
		(pins.MOSI != nil && pins.MOSI != MOSI) ||
		(pins.MISO != nil && pins.MISO != MISO) {
		return nil, errors.Wrapf(blinka.ErrConfiguration,
			"ft232h: no hardware SPI on (SCLK, MOSI, MISO)=(%v, %v, %v), valid SPI port is (%d, %d, %d)",
			pins.Clock, pins.MOSI, pins.MISO, SCK, MOSI, MISO)
	}
	f, err := device()
	if err != nil {
		return nil, err
	}
	return periphspi.Open(func() (spi.PortCloser, error) {
		return f.SPI()
	})
}

var _ microcontroller.Driver = (*Driver)(nil)

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package gpiocdev provides a pin backend for embedded Linux boards, using
// the GPIO character device.
//
// Pins may be identified by offset on the default chip, as an int, by
// "chip:offset", such as "gpiochip1:17", or by line name, such as "GPIO17".
package gpiocdev

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-gpiocdev"
)

// Driver is the pin driver for the GPIO character device.
type Driver struct {
	chip     string
	consumer string
}

// NewDriver creates a character device pin driver.
//
// The default chip is "gpiochip0", and may be changed using [WithChip].
// Lines are requested with consumer "blinka", unless changed using
// [WithConsumer].
func NewDriver(options ...DriverOption) *Driver {
	d := &Driver{chip: "gpiochip0", consumer: "blinka"}
	for _, o := range options {
		o.applyDriverOption(d)
	}
	return d
}

// Chip returns the name of the default chip.
func (d *Driver) Chip() string {
	return d.chip
}

// Name implements microcontroller.Driver.
func (d *Driver) Name() string {
	return "gpiocdev"
}

// Capabilities implements microcontroller.Driver.
func (d *Driver) Capabilities() microcontroller.Capabilities {
	return microcontroller.Capabilities{PullUp: true, PullDown: true, OpenDrain: true}
}

// OpenLine implements microcontroller.Driver.
func (d *Driver) OpenLine(id any, mode microcontroller.Mode, pull microcontroller.Pull) (microcontroller.Line, error) {
	chip, offset, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	opts := []gpiocdev.LineReqOption{gpiocdev.WithConsumer(d.consumer)}
	switch mode {
	case microcontroller.ModeInput:
		opts = append(opts, gpiocdev.AsInput)
		switch pull {
		case microcontroller.PullUp:
			opts = append(opts, gpiocdev.WithPullUp)
		case microcontroller.PullDown:
			opts = append(opts, gpiocdev.WithPullDown)
		default:
			opts = append(opts, gpiocdev.WithBiasDisabled)
		}
	case microcontroller.ModeOutput:
		opts = append(opts, gpiocdev.AsOutput(0), gpiocdev.AsPushPull)
	case microcontroller.ModeOpenDrain:
		opts = append(opts, gpiocdev.AsOutput(0), gpiocdev.AsOpenDrain)
	default:
		return nil, errors.Wrapf(blinka.ErrUnsupportedFeature, "gpiocdev: mode %s", mode)
	}
	l, err := gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "gpiocdev: request %s:%d", chip, offset)
	}
	return &line{l}, nil
}

// OpenADC implements microcontroller.Driver.
func (d *Driver) OpenADC(id any) (microcontroller.ADC, error) {
	return nil, errors.Wrap(blinka.ErrUnsupportedFeature, "gpiocdev: no ADC")
}

// OpenDAC implements microcontroller.Driver.
func (d *Driver) OpenDAC(id any) (microcontroller.DAC, error) {
	return nil, errors.Wrap(blinka.ErrUnsupportedFeature, "gpiocdev: no DAC")
}

// resolve maps a pin id to a chip and offset.
func (d *Driver) resolve(id any) (string, int, error) {
	switch v := id.(type) {
	case int:
		if v < 0 {
			return "", 0, errors.Wrapf(blinka.ErrConfiguration, "gpiocdev: invalid offset: %d", v)
		}
		return d.chip, v, nil
	case string:
		if chip, o, ok := strings.Cut(v, ":"); ok {
			offset, err := strconv.ParseUint(o, 10, 32)
			if err != nil || chip == "" {
				return "", 0, errors.Wrapf(blinka.ErrConfiguration, "gpiocdev: invalid pin: %q", v)
			}
			return chip, int(offset), nil
		}
		return findLine(v)
	}
	return "", 0, errors.Wrapf(blinka.ErrConfiguration, "gpiocdev: invalid pin: %v", id)
}

// findLine searches the available chips for the named line.
//
// The first match is returned.
func findLine(name string) (string, int, error) {
	for _, chip := range gpiocdev.Chips() {
		c, err := gpiocdev.NewChip(chip)
		if err != nil {
			continue
		}
		offset := -1
		for o := 0; o < c.Lines(); o++ {
			info, err := c.LineInfo(o)
			if err == nil && info.Name == name {
				offset = o
				break
			}
		}
		c.Close()
		if offset >= 0 {
			return chip, offset, nil
		}
	}
	return "", 0, errors.Wrapf(blinka.ErrConfiguration, "gpiocdev: unknown line %q", name)
}

type line struct {
	l *gpiocdev.Line
}

func (l *line) State() (int, error) {
	return l.l.Value()
}

func (l *line) SetState(level int) error {
	return l.l.SetValue(level)
}

func (l *line) Close() error {
	return l.l.Close()
}

var _ microcontroller.Driver = (*Driver)(nil)

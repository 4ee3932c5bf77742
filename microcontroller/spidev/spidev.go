// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package spidev provides an SPI backend for the Linux spidev interface,
// through the periph.io SPI registry.
package spidev

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/internal/periphspi"
	"github.com/warthog618/go-blinka/microcontroller"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Port maps the pins of a hardware SPI port to its spidev bus.
type Port struct {
	// Bus is the spidev bus number, N in /dev/spidevN.M.
	Bus int

	// ChipSelect is the spidev chip select, M in /dev/spidevN.M.
	ChipSelect int

	SCK  any
	MOSI any
	MISO any
}

// Name returns the name of the port in the periph SPI registry.
func (p Port) Name() string {
	return fmt.Sprintf("SPI%d.%d", p.Bus, p.ChipSelect)
}

func (p Port) String() string {
	return fmt.Sprintf("%s(SCLK=%v, MOSI=%v, MISO=%v)", p.Name(), p.SCK, p.MOSI, p.MISO)
}

// Match returns true if the pins can be served by the port.
//
// The clock must match, while the data pins may be nil for a bus that is
// write only or read only.
func (p Port) Match(pins microcontroller.SPIPins) bool {
	return pins.Clock == p.SCK &&
		(pins.MOSI == nil || pins.MOSI == p.MOSI) &&
		(pins.MISO == nil || pins.MISO == p.MISO)
}

// Opener returns a function that opens the spidev bus matching the pins.
//
// If no ports are provided then the first spidev bus in the registry is
// opened, regardless of the pins.
func Opener(ports ...Port) func(microcontroller.SPIPins) (microcontroller.SPI, error) {
	return func(pins microcontroller.SPIPins) (microcontroller.SPI, error) {
		name, err := portName(ports, pins)
		if err != nil {
			return nil, err
		}
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, "periph host init")
		}
		return periphspi.Open(func() (spi.PortCloser, error) {
			return spireg.Open(name)
		})
	}
}

func portName(ports []Port, pins microcontroller.SPIPins) (string, error) {
	if len(ports) == 0 {
		return "", nil
	}
	for _, p := range ports {
		if p.Match(pins) {
			return p.Name(), nil
		}
	}
	valid := make([]string, len(ports))
	for i, p := range ports {
		valid[i] = p.String()
	}
	return "", errors.Wrapf(blinka.ErrConfiguration,
		"no hardware SPI on (SCLK, MOSI, MISO)=(%v, %v, %v), valid SPI ports: %s",
		pins.Clock, pins.MOSI, pins.MISO, strings.Join(valid, ", "))
}

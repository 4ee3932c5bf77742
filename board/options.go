// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package board

import (
	"github.com/warthog618/go-blinka/busio"
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-blinka/microcontroller/gpiocdev"
	"github.com/warthog618/go-blinka/microcontroller/spidev"
	"github.com/warthog618/go-blinka/platform"
)

// Option defines the interface required to provide an option to New.
type Option interface {
	applyBoardOption(*Board)
}

// PlatformOption provides the platform identity, bypassing detection.
type PlatformOption platform.Info

// WithPlatform returns an option that sets the platform of the Board.
func WithPlatform(i platform.Info) PlatformOption {
	return PlatformOption(i)
}

func (o PlatformOption) applyBoardOption(b *Board) {
	i := platform.Info(o)
	b.info = &i
}

// DriversOption provides the pin driver dispatch table.
type DriversOption platform.Table[DriverFactory]

// WithDrivers returns an option that replaces the pin driver dispatch table.
//
// The table takes precedence over [WithGPIOChip].
func WithDrivers(t platform.Table[DriverFactory]) DriversOption {
	return DriversOption(t)
}

func (o DriversOption) applyBoardOption(b *Board) {
	b.drivers = platform.Table[DriverFactory](o)
}

// SPIBackendsOption provides the SPI backend dispatch table.
type SPIBackendsOption platform.Table[busio.Opener]

// WithSPIBackends returns an option that replaces the SPI backend dispatch
// table.
//
// The table takes precedence over the backends of [WithSPIPorts], though the
// first port still provides the default SPI bus pins.
func WithSPIBackends(t platform.Table[busio.Opener]) SPIBackendsOption {
	return SPIBackendsOption(t)
}

func (o SPIBackendsOption) applyBoardOption(b *Board) {
	b.buses = platform.Table[busio.Opener](o)
}

// SPIPinsOption sets the pins of the default SPI bus.
type SPIPinsOption microcontroller.SPIPins

// WithSPIPins returns an option that sets the pins of the default SPI bus.
func WithSPIPins(pins microcontroller.SPIPins) SPIPinsOption {
	return SPIPinsOption(pins)
}

func (o SPIPinsOption) applyBoardOption(b *Board) {
	p := microcontroller.SPIPins(o)
	b.spiPins = &p
}

// SPIPortsOption provides the spidev ports of an embedded Linux board.
type SPIPortsOption []spidev.Port

// WithSPIPorts returns an option that maps pins to spidev buses.
//
// The first port provides the default SPI bus pins, unless set using
// [WithSPIPins].  The ports are ignored by a table provided by
// [WithSPIBackends].
func WithSPIPorts(ports ...spidev.Port) SPIPortsOption {
	return SPIPortsOption(ports)
}

func (o SPIPortsOption) applyBoardOption(b *Board) {
	b.spiPorts = []spidev.Port(o)
}

// GPIOChipOption sets the default chip of the character device driver.
type GPIOChipOption string

// WithGPIOChip returns an option that sets the chip used by embedded Linux
// boards for pins identified by offset alone.
//
// The chip is ignored by a table provided by [WithDrivers].
func WithGPIOChip(name string) GPIOChipOption {
	return GPIOChipOption(name)
}

func (o GPIOChipOption) applyBoardOption(b *Board) {
	b.gpioChips = []gpiocdev.DriverOption{gpiocdev.WithChip(string(o))}
}

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package board provides the pins and default buses of the platform the
// program is running on.
//
// The pin driver is selected from the detected platform the first time it
// is required, as is the default SPI bus.
package board

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/busio"
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-blinka/microcontroller/ft232h"
	"github.com/warthog618/go-blinka/microcontroller/gpiocdev"
	"github.com/warthog618/go-blinka/microcontroller/rpi"
	"github.com/warthog618/go-blinka/microcontroller/spidev"
	"github.com/warthog618/go-blinka/platform"
)

// DriverFactory creates the pin driver for a platform.
type DriverFactory func() (microcontroller.Driver, error)

// DefaultDrivers returns the pin driver dispatch table.
//
// The options are applied to the character device driver used by embedded
// Linux boards.
func DefaultDrivers(options ...gpiocdev.DriverOption) platform.Table[DriverFactory] {
	return platform.Table[DriverFactory]{
		platform.Implemented("ftdi_ft232h", platform.IsBoard(platform.BoardFT232H),
			DriverFactory(func() (microcontroller.Driver, error) { return ft232h.NewDriver(), nil })),
		platform.Unimplemented[DriverFactory]("ftdi_ft2232h", platform.IsBoard(platform.BoardFT2232H)),
		platform.Unimplemented[DriverFactory]("binho_nova", platform.IsBoard(platform.BoardBinhoNova)),
		platform.Unimplemented[DriverFactory]("greatfet_one", platform.IsBoard(platform.BoardGreatFETOne)),
		platform.Unimplemented[DriverFactory]("u2if", platform.Info.AnyU2IF),
		platform.Unimplemented[DriverFactory]("rp2040", platform.IsChip(platform.ChipRP2040)),
		platform.Implemented("bcm2xxx", platform.IsChip(platform.ChipBCM2XXX),
			DriverFactory(func() (microcontroller.Driver, error) { return rpi.NewDriver(), nil })),
		platform.Implemented("embedded linux", platform.Info.AnyEmbeddedLinux,
			DriverFactory(func() (microcontroller.Driver, error) { return gpiocdev.NewDriver(options...), nil })),
	}
}

// DefaultSPIPins returns the pins of the default SPI bus for the platform.
//
// Returns false if the platform has no known default.
func DefaultSPIPins(i platform.Info) (microcontroller.SPIPins, bool) {
	switch {
	case i.IsBoard(platform.BoardFT232H):
		return microcontroller.SPIPins{Clock: ft232h.SCK, MOSI: ft232h.MOSI, MISO: ft232h.MISO}, true
	case i.IsChip(platform.ChipBCM2XXX):
		p := rpi.Ports[0]
		return microcontroller.SPIPins{Clock: p.SCK, MOSI: p.MOSI, MISO: p.MISO}, true
	}
	return microcontroller.SPIPins{}, false
}

// Board is a platform and the resources it provides.
type Board struct {
	info    *platform.Info
	drivers platform.Table[DriverFactory]
	buses   platform.Table[busio.Opener]
	spiPins *microcontroller.SPIPins

	// used to build the default tables if not explicitly provided.
	spiPorts  []spidev.Port
	gpioChips []gpiocdev.DriverOption

	drvOnce sync.Once
	drv     microcontroller.Driver
	drvErr  error

	spiMu sync.Mutex
	spi   *busio.SPI
}

// New creates a Board.
//
// The platform is detected unless provided using [WithPlatform].
// The dispatch tables may be replaced using [WithDrivers] and
// [WithSPIBackends].  Otherwise the default tables are used, customised by
// [WithGPIOChip] and [WithSPIPorts].  A replaced table takes precedence over
// those customisations, regardless of the order of the options.
func New(options ...Option) *Board {
	b := &Board{}
	for _, o := range options {
		o.applyBoardOption(b)
	}
	if b.drivers == nil {
		b.drivers = DefaultDrivers(b.gpioChips...)
	}
	if b.buses == nil {
		b.buses = busio.DefaultBackends(b.spiPorts...)
	}
	if b.spiPins == nil {
		b.spiPins = spiPortPins(b.spiPorts)
	}
	return b
}

// Info returns the identity of the platform.
func (b *Board) Info() platform.Info {
	if b.info != nil {
		return *b.info
	}
	return platform.Detect()
}

// Driver returns the pin driver for the platform.
func (b *Board) Driver() (microcontroller.Driver, error) {
	b.drvOnce.Do(func() {
		f, err := b.drivers.Select(b.Info())
		if err != nil {
			b.drvErr = errors.Wrap(err, "board: pins")
			return
		}
		b.drv, b.drvErr = f()
	})
	return b.drv, b.drvErr
}

// Pin returns the pin with the given id.
//
// The pin is not initialised.  Acquiring it is left to its user, such as
// digitalio.New.
func (b *Board) Pin(id any) (*microcontroller.Pin, error) {
	if id == nil {
		return nil, errors.Wrap(blinka.ErrConfiguration, "board: pin id is required")
	}
	drv, err := b.Driver()
	if err != nil {
		return nil, err
	}
	return microcontroller.NewPin(drv, id), nil
}

// SPIPins returns the pins of the default SPI bus.
func (b *Board) SPIPins() (microcontroller.SPIPins, error) {
	if b.spiPins != nil {
		return *b.spiPins, nil
	}
	info := b.Info()
	pins, ok := DefaultSPIPins(info)
	if !ok {
		return pins, errors.Wrapf(blinka.ErrConfiguration, "board: no default SPI pins for %s", info)
	}
	return pins, nil
}

// SPI returns the default SPI bus.
//
// The bus is created on first use and the same bus is returned by
// subsequent calls.  A failed creation is retried on the next call.
func (b *Board) SPI() (*busio.SPI, error) {
	b.spiMu.Lock()
	defer b.spiMu.Unlock()
	if b.spi != nil {
		return b.spi, nil
	}
	info := b.Info()
	if _, err := b.buses.Select(info); err != nil {
		return nil, errors.Wrap(err, "board: spi")
	}
	pins, err := b.SPIPins()
	if err != nil {
		return nil, err
	}
	s, err := busio.NewSPI(pins.Clock,
		busio.WithMOSI(pins.MOSI),
		busio.WithMISO(pins.MISO),
		busio.WithPlatform(info),
		busio.WithBackends(b.buses))
	if err != nil {
		return nil, err
	}
	b.spi = s
	return s, nil
}

var (
	defaultOnce  sync.Once
	defaultBoard *Board
)

// Default returns the Board for the detected platform.
func Default() *Board {
	defaultOnce.Do(func() {
		defaultBoard = New()
	})
	return defaultBoard
}

// Pin returns the pin with the given id on the detected platform.
func Pin(id any) (*microcontroller.Pin, error) {
	return Default().Pin(id)
}

// SPI returns the default SPI bus of the detected platform.
func SPI() (*busio.SPI, error) {
	return Default().SPI()
}

// spiPortPins returns the pins of the first port, if any.
func spiPortPins(ports []spidev.Port) *microcontroller.SPIPins {
	if len(ports) == 0 {
		return nil
	}
	p := ports[0]
	return &microcontroller.SPIPins{Clock: p.SCK, MOSI: p.MOSI, MISO: p.MISO}
}

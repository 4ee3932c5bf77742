// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package rpi

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/microcontroller"
)

// Frequencies of the core clock the SPI clock is divided from.
const (
	CoreClock     = 250000000
	CoreClock2711 = 550000000
)

// Port maps the pins of a hardware SPI port to its controller.
type Port struct {
	Dev  rpio.SpiDev
	SCK  int
	MOSI int
	MISO int
}

func (p Port) String() string {
	return fmt.Sprintf("(SCLK=%d, MOSI=%d, MISO=%d)", p.SCK, p.MOSI, p.MISO)
}

// Ports are the SPI ports available on the 40 pin header.
//
// Only SPI0 is supported, as go-rpio only drives the SPI0 registers.
var Ports = []Port{
	{Dev: rpio.Spi0, SCK: 11, MOSI: 10, MISO: 9},
}

// FindPort returns the port matching the pins.
func FindPort(pins microcontroller.SPIPins) (Port, error) {
	for _, p := range Ports {
		if pins.Clock == p.SCK &&
			(pins.MOSI == nil || pins.MOSI == p.MOSI) &&
			(pins.MISO == nil || pins.MISO == p.MISO) {
			return p, nil
		}
	}
	return Port{}, errors.Wrapf(blinka.ErrConfiguration,
		"rpi: no hardware SPI on (SCLK, MOSI, MISO)=(%v, %v, %v), valid SPI ports: %v",
		pins.Clock, pins.MOSI, pins.MISO, Ports)
}

// Bus is an SPI backend driving an SPI controller of the SoC.
//
// The controller only supports 8 bit words shifted MSB first.
type Bus struct {
	dev  rpio.SpiDev
	core int
	freq int
	open bool
}

// OpenSPI opens the SPI controller matching the pins.
func OpenSPI(pins microcontroller.SPIPins) (microcontroller.SPI, error) {
	port, err := FindPort(pins)
	if err != nil {
		return nil, err
	}
	if err := acquire(); err != nil {
		return nil, err
	}
	if err := rpio.SpiBegin(port.Dev); err != nil {
		release()
		return nil, errors.Wrap(err, "rpi: spi begin")
	}
	b := &Bus{dev: port.Dev, core: CoreClockOf(os.DirFS("/")), open: true}
	if err := b.Init(microcontroller.SPIConfig{Baudrate: 100000, Bits: 8}); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// Init implements microcontroller.SPI.
func (b *Bus) Init(cfg microcontroller.SPIConfig) error {
	if cfg.Bits != 8 {
		return errors.Wrapf(blinka.ErrUnsupportedFeature, "rpi: %d bit words", cfg.Bits)
	}
	if cfg.FirstBit != microcontroller.MSB {
		return errors.Wrap(blinka.ErrUnsupportedFeature, "rpi: LSB first")
	}
	lo, hi := BaudrateRange(b.core)
	if cfg.Baudrate < lo || cfg.Baudrate > hi {
		return errors.Wrapf(blinka.ErrInvalidArgument,
			"rpi: baudrate %d outside %d..%d", cfg.Baudrate, lo, hi)
	}
	rpio.SpiSpeed(cfg.Baudrate)
	rpio.SpiMode(uint8(cfg.Polarity), uint8(cfg.Phase))
	rpio.SpiChipSelect(0)
	b.freq = ClockFrequency(b.core, cfg.Baudrate)
	return nil
}

// CoreClockOf returns the core clock frequency of the SoC described by the
// device tree in fsys.
//
// The BCM2711 runs its core clock at 550MHz, while the earlier SoCs run at
// 250MHz.
func CoreClockOf(fsys fs.FS) int {
	compatible, _ := fs.ReadFile(fsys, "proc/device-tree/compatible")
	for _, c := range bytes.Split(compatible, []byte{0}) {
		if bytes.Equal(c, []byte("brcm,bcm2711")) {
			return CoreClock2711
		}
	}
	return CoreClock
}

// BaudrateRange returns the range of baudrates the core clock can be divided
// down to, the divisor being limited to 2..65536.
func BaudrateRange(core int) (int, int) {
	return core/65536 + 1, core / 2
}

// ClockFrequency returns the actual clock frequency for the requested
// baudrate.
//
// The controller divides the core clock by an even divisor, odd divisors
// being rounded down, and a zero divisor is treated as 65536.
func ClockFrequency(core, baudrate int) int {
	if baudrate <= 0 {
		return 0
	}
	div := uint32(core/baudrate) & 0xfffe
	if div == 0 {
		div = 65536
	}
	return core / int(div)
}

// Frequency implements microcontroller.FrequencyReporter.
func (b *Bus) Frequency() (int, error) {
	return b.freq, nil
}

// Write implements microcontroller.SPI.
func (b *Bus) Write(buf []byte, start, end int) error {
	w := make([]byte, end-start)
	copy(w, buf[start:end])
	rpio.SpiTransmit(w...)
	return nil
}

// Readinto implements microcontroller.SPI.
func (b *Bus) Readinto(buf []byte, start, end int, writeValue byte) error {
	w := buf[start:end]
	for i := range w {
		w[i] = writeValue
	}
	rpio.SpiExchange(w)
	return nil
}

// WriteReadinto implements microcontroller.SPI.
func (b *Bus) WriteReadinto(out, in []byte, outStart, outEnd, inStart, inEnd int) error {
	w := make([]byte, outEnd-outStart)
	copy(w, out[outStart:outEnd])
	rpio.SpiExchange(w)
	copy(in[inStart:inEnd], w)
	return nil
}

// Close implements microcontroller.SPI.
func (b *Bus) Close() error {
	if !b.open {
		return nil
	}
	b.open = false
	rpio.SpiEnd(b.dev)
	return release()
}

var (
	_ microcontroller.SPI               = (*Bus)(nil)
	_ microcontroller.FrequencyReporter = (*Bus)(nil)
)

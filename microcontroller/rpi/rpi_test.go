// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package rpi_test

import (
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-blinka/microcontroller/rpi"
)

func TestCapabilities(t *testing.T) {
	d := rpi.NewDriver()
	assert.Equal(t, "rpi", d.Name())
	c := d.Capabilities()
	assert.True(t, c.PullUp)
	assert.True(t, c.PullDown)
	assert.False(t, c.OpenDrain)
	assert.False(t, c.HasADC(0))
	assert.False(t, c.HasDAC(0))
}

func TestOpenLineInvalid(t *testing.T) {
	d := rpi.NewDriver()
	for _, id := range []any{-1, rpi.MaxPin + 1, "GPIO4", nil} {
		l, err := d.OpenLine(id, microcontroller.ModeInput, microcontroller.PullNone)
		assert.True(t, errors.Is(err, blinka.ErrConfiguration), id)
		assert.Nil(t, l)
	}
	l, err := d.OpenLine(4, microcontroller.ModeOpenDrain, microcontroller.PullNone)
	assert.True(t, errors.Is(err, blinka.ErrUnsupportedFeature))
	assert.Nil(t, l)
}

func TestOpenConverters(t *testing.T) {
	d := rpi.NewDriver()
	_, err := d.OpenADC(4)
	assert.True(t, errors.Is(err, blinka.ErrUnsupportedFeature))
	_, err = d.OpenDAC(4)
	assert.True(t, errors.Is(err, blinka.ErrUnsupportedFeature))
}

func TestFindPort(t *testing.T) {
	patterns := []struct {
		name string
		pins microcontroller.SPIPins
		dev  rpio.SpiDev
	}{
		{"spi0", microcontroller.SPIPins{Clock: 11, MOSI: 10, MISO: 9}, rpio.Spi0},
		{"spi0 write only", microcontroller.SPIPins{Clock: 11, MOSI: 10}, rpio.Spi0},
		{"spi0 read only", microcontroller.SPIPins{Clock: 11, MISO: 9}, rpio.Spi0},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			port, err := rpi.FindPort(p.pins)
			require.Nil(t, err)
			assert.Equal(t, p.dev, port.Dev)
		}
		t.Run(p.name, tf)
	}
}

func TestFindPortMismatch(t *testing.T) {
	patterns := []struct {
		name string
		pins microcontroller.SPIPins
	}{
		{"clock", microcontroller.SPIPins{Clock: 12, MOSI: 10, MISO: 9}},
		{"mosi", microcontroller.SPIPins{Clock: 11, MOSI: 20}},
		{"miso", microcontroller.SPIPins{Clock: 21, MISO: 9}},
		{"spi1", microcontroller.SPIPins{Clock: 21, MOSI: 20, MISO: 19}},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			_, err := rpi.FindPort(p.pins)
			assert.True(t, errors.Is(err, blinka.ErrConfiguration))
			assert.Contains(t, err.Error(), "valid SPI ports")
		}
		t.Run(p.name, tf)
	}
}

func TestOpenSPIMismatch(t *testing.T) {
	s, err := rpi.OpenSPI(microcontroller.SPIPins{Clock: 4})
	assert.True(t, errors.Is(err, blinka.ErrConfiguration))
	assert.Nil(t, s)
}

func TestClockFrequency(t *testing.T) {
	patterns := []struct {
		name string
		core int
		baud int
		freq int
	}{
		{"100k", rpi.CoreClock, 100000, 100000},
		{"3M", rpi.CoreClock, 3000000, 3048780},
		{"odd divisor", rpi.CoreClock, 80000000, 125000000},
		{"max", rpi.CoreClock, 125000000, 125000000},
		{"zero divisor", rpi.CoreClock, 500000000, 3814},
		{"zero", rpi.CoreClock, 0, 0},
		{"2711 100k", rpi.CoreClock2711, 100000, 100000},
		{"2711 80M", rpi.CoreClock2711, 80000000, 91666666},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.Equal(t, p.freq, rpi.ClockFrequency(p.core, p.baud))
		}
		t.Run(p.name, tf)
	}
}

func TestBaudrateRange(t *testing.T) {
	lo, hi := rpi.BaudrateRange(rpi.CoreClock)
	assert.Equal(t, 3815, lo)
	assert.Equal(t, 125000000, hi)
	// divisors at the limits are not truncated
	assert.Equal(t, 65530, rpi.CoreClock/lo)
	assert.Equal(t, rpi.CoreClock/2, rpi.ClockFrequency(rpi.CoreClock, hi))

	lo, hi = rpi.BaudrateRange(rpi.CoreClock2711)
	assert.Equal(t, 8393, lo)
	assert.Equal(t, 275000000, hi)
}

func TestCoreClockOf(t *testing.T) {
	patterns := []struct {
		name       string
		compatible string
		core       int
	}{
		{"pi4", "raspberrypi,4-model-b\x00brcm,bcm2711\x00", rpi.CoreClock2711},
		{"pi3", "raspberrypi,3-model-b\x00brcm,bcm2837\x00", rpi.CoreClock},
		{"prefix only", "brcm,bcm27110\x00", rpi.CoreClock},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			fsys := fstest.MapFS{
				"proc/device-tree/compatible": &fstest.MapFile{Data: []byte(p.compatible)},
			}
			assert.Equal(t, p.core, rpi.CoreClockOf(fsys))
		}
		t.Run(p.name, tf)
	}
	// no device tree
	assert.Equal(t, rpi.CoreClock, rpi.CoreClockOf(fstest.MapFS{}))
}

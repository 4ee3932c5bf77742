// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-blinka/microcontroller/spidev"
)

var spi0 = spidev.Port{Bus: 0, ChipSelect: 0, SCK: 14, MOSI: 15, MISO: 16}

func TestPortName(t *testing.T) {
	assert.Equal(t, "SPI0.0", spi0.Name())
	assert.Equal(t, "SPI1.2", spidev.Port{Bus: 1, ChipSelect: 2}.Name())
	assert.Equal(t, "SPI0.0(SCLK=14, MOSI=15, MISO=16)", spi0.String())
}

func TestPortMatch(t *testing.T) {
	patterns := []struct {
		name  string
		pins  microcontroller.SPIPins
		match bool
	}{
		{"full", microcontroller.SPIPins{Clock: 14, MOSI: 15, MISO: 16}, true},
		{"write only", microcontroller.SPIPins{Clock: 14, MOSI: 15}, true},
		{"read only", microcontroller.SPIPins{Clock: 14, MISO: 16}, true},
		{"clock only", microcontroller.SPIPins{Clock: 14}, true},
		{"wrong clock", microcontroller.SPIPins{Clock: 15, MOSI: 15}, false},
		{"wrong mosi", microcontroller.SPIPins{Clock: 14, MOSI: 16}, false},
		{"wrong miso", microcontroller.SPIPins{Clock: 14, MISO: 15}, false},
		{"mistyped", microcontroller.SPIPins{Clock: "14"}, false},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.Equal(t, p.match, spi0.Match(p.pins))
		}
		t.Run(p.name, tf)
	}
}

func TestOpenerMismatch(t *testing.T) {
	spi1 := spidev.Port{Bus: 1, SCK: 21, MOSI: 20, MISO: 19}
	open := spidev.Opener(spi0, spi1)
	s, err := open(microcontroller.SPIPins{Clock: 3, MOSI: 2})
	assert.True(t, errors.Is(err, blinka.ErrConfiguration))
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "SPI0.0(SCLK=14, MOSI=15, MISO=16), SPI1.0(SCLK=21, MOSI=20, MISO=19)")
}

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package config loads the configuration of the blinka command from YAML.
//
//	board: RASPBERRY_PI
//	chip: BCM2XXX
//	gpiochip: gpiochip0
//	spi:
//	  - bus: 0
//	    cs: 0
//	    sck: 11
//	    mosi: 10
//	    miso: 9
//	pins:
//	  LED: 17
//	  BUTTON: GPIO27
package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/board"
	"github.com/warthog618/go-blinka/microcontroller/spidev"
	"github.com/warthog618/go-blinka/platform"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of the platform and its pins.
type Config struct {
	// Board overrides the detected board.
	Board string `yaml:"board"`

	// Chip overrides the detected chip.
	Chip string `yaml:"chip"`

	// GPIOChip is the chip used by embedded Linux boards for pins identified
	// by offset.
	GPIOChip string `yaml:"gpiochip"`

	// SPI maps pins to spidev buses.  The first port is the default bus.
	SPI []SPIPort `yaml:"spi"`

	// Pins maps aliases to pin ids.
	Pins map[string]any `yaml:"pins"`
}

// SPIPort is the configuration of a spidev bus.
type SPIPort struct {
	Bus        int `yaml:"bus"`
	ChipSelect int `yaml:"cs"`
	SCK        any `yaml:"sck"`
	MOSI       any `yaml:"mosi"`
	MISO       any `yaml:"miso"`
}

// Load reads the configuration from the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	c, err := Parse(data)
	return c, errors.Wrapf(err, "config %s", path)
}

// Parse decodes and validates the configuration.
//
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(blinka.ErrConfiguration, "%s", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the pin ids and ports are usable.
func (c *Config) Validate() error {
	for name, id := range c.Pins {
		if !validID(id) {
			return errors.Wrapf(blinka.ErrConfiguration, "pin %s: invalid id: %v", name, id)
		}
	}
	for i, p := range c.SPI {
		if p.SCK == nil {
			return errors.Wrapf(blinka.ErrConfiguration, "spi[%d]: sck is required", i)
		}
		for _, id := range []any{p.SCK, p.MOSI, p.MISO} {
			if id != nil && !validID(id) {
				return errors.Wrapf(blinka.ErrConfiguration, "spi[%d]: invalid pin: %v", i, id)
			}
		}
		if p.Bus < 0 || p.ChipSelect < 0 {
			return errors.Wrapf(blinka.ErrConfiguration, "spi[%d]: invalid bus %d.%d", i, p.Bus, p.ChipSelect)
		}
	}
	return nil
}

func validID(id any) bool {
	switch v := id.(type) {
	case int:
		return v >= 0
	case string:
		return v != ""
	}
	return false
}

// Platform applies the board and chip overrides to the detected platform.
func (c *Config) Platform(detected platform.Info) platform.Info {
	i := detected
	if c.Board != "" {
		i.Board = platform.BoardID(strings.ToUpper(c.Board))
	}
	if c.Chip != "" {
		i.Chip = platform.ChipID(strings.ToUpper(c.Chip))
	}
	return i
}

// PinID resolves a pin name, from the command line, to a pin id.
//
// Aliases are resolved first, then decimal numbers are treated as offsets.
// Anything else is passed through as a line name.
func (c *Config) PinID(name string) any {
	if id, ok := c.Pins[name]; ok {
		return id
	}
	if n, err := strconv.Atoi(name); err == nil {
		return n
	}
	return name
}

// Ports returns the spidev ports.
func (c *Config) Ports() []spidev.Port {
	ports := make([]spidev.Port, len(c.SPI))
	for i, p := range c.SPI {
		ports[i] = spidev.Port{
			Bus:        p.Bus,
			ChipSelect: p.ChipSelect,
			SCK:        p.SCK,
			MOSI:       p.MOSI,
			MISO:       p.MISO,
		}
	}
	return ports
}

// BoardOptions returns the options that apply the configuration to a Board.
func (c *Config) BoardOptions(detected platform.Info) []board.Option {
	opts := []board.Option{board.WithPlatform(c.Platform(detected))}
	if c.GPIOChip != "" {
		opts = append(opts, board.WithGPIOChip(c.GPIOChip))
	}
	if len(c.SPI) > 0 {
		opts = append(opts, board.WithSPIPorts(c.Ports()...))
	}
	return opts
}

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package busio

import (
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-blinka/platform"
)

// SPIOption defines the interface required to provide an option to NewSPI.
type SPIOption interface {
	applySPIOption(*SPI)
}

// MOSIOption is an option that sets the MOSI pin of the bus.
type MOSIOption struct {
	id any
}

// WithMOSI returns an option that sets the pin used for MOSI.
func WithMOSI(id any) MOSIOption {
	return MOSIOption{id}
}

func (o MOSIOption) applySPIOption(s *SPI) {
	s.req.MOSI = o.id
}

// MISOOption is an option that sets the MISO pin of the bus.
type MISOOption struct {
	id any
}

// WithMISO returns an option that sets the pin used for MISO.
func WithMISO(id any) MISOOption {
	return MISOOption{id}
}

func (o MISOOption) applySPIOption(s *SPI) {
	s.req.MISO = o.id
}

// PlatformOption is an option that provides the platform identity, bypassing
// detection.
type PlatformOption platform.Info

// WithPlatform returns an option that selects the backend for the given
// platform rather than the detected one.
func WithPlatform(i platform.Info) PlatformOption {
	return PlatformOption(i)
}

func (o PlatformOption) applySPIOption(s *SPI) {
	i := platform.Info(o)
	s.info = &i
}

// BackendsOption is an option that provides the backend dispatch table.
type BackendsOption platform.Table[Opener]

// WithBackends returns an option that replaces the default backend dispatch
// table.
func WithBackends(t platform.Table[Opener]) BackendsOption {
	return BackendsOption(t)
}

func (o BackendsOption) applySPIOption(s *SPI) {
	s.backends = platform.Table[Opener](o)
}

// ConfigOption defines the interface required to provide an option to
// Configure.
type ConfigOption interface {
	applyConfigOption(*microcontroller.SPIConfig)
}

// BaudrateOption is an option that sets the clock rate.
type BaudrateOption int

// WithBaudrate returns an option that sets the clock rate, in Hz.
func WithBaudrate(hz int) BaudrateOption {
	return BaudrateOption(hz)
}

func (o BaudrateOption) applyConfigOption(c *microcontroller.SPIConfig) {
	c.Baudrate = int(o)
}

// PolarityOption is an option that sets the clock polarity.
type PolarityOption int

// WithPolarity returns an option that sets the idle level of the clock.
func WithPolarity(p int) PolarityOption {
	return PolarityOption(p)
}

func (o PolarityOption) applyConfigOption(c *microcontroller.SPIConfig) {
	c.Polarity = int(o)
}

// PhaseOption is an option that sets the clock phase.
type PhaseOption int

// WithPhase returns an option that sets the clock edge data is sampled on.
func WithPhase(p int) PhaseOption {
	return PhaseOption(p)
}

func (o PhaseOption) applyConfigOption(c *microcontroller.SPIConfig) {
	c.Phase = int(o)
}

// BitsOption is an option that sets the word size.
type BitsOption int

// WithBits returns an option that sets the number of bits per word.
func WithBits(n int) BitsOption {
	return BitsOption(n)
}

func (o BitsOption) applyConfigOption(c *microcontroller.SPIConfig) {
	c.Bits = int(o)
}

// FirstBitOption is an option that sets the bit order.
type FirstBitOption microcontroller.BitOrder

// WithFirstBit returns an option that sets the order bits are shifted.
func WithFirstBit(b microcontroller.BitOrder) FirstBitOption {
	return FirstBitOption(b)
}

func (o FirstBitOption) applyConfigOption(c *microcontroller.SPIConfig) {
	c.FirstBit = microcontroller.BitOrder(o)
}

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package busio

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-blinka/platform"
)

// Opener opens the SPI backend for a platform, using the given pins.
type Opener func(pins microcontroller.SPIPins) (microcontroller.SPI, error)

// SPI is an SPI bus.
//
// The bus must be locked, using TryLock, before it can be configured.
// The lock is advisory, so all users of the bus are expected to hold the lock
// while using the bus.
//
// The backend driving the bus is selected when the bus is constructed, based
// on the detected platform.
type SPI struct {
	Lockable

	// requested pins, retained across Deinit to allow Init.
	req microcontroller.SPIPins

	// pins associated with the live backend.
	pins microcontroller.SPIPins

	info     *platform.Info
	backends platform.Table[Opener]
	backend  microcontroller.SPI
	cfg      microcontroller.SPIConfig
}

// NewSPI creates an SPI bus using the clock pin.
//
// The data pins are optional, and may be provided using [WithMOSI] and
// [WithMISO].  The platform is detected, unless provided using
// [WithPlatform], and the backend selected from [DefaultBackends], unless
// replaced using [WithBackends].
//
// If no backend is available for the platform then an error wrapping
// blinka.ErrUnsupportedPlatform is returned.
func NewSPI(clock any, options ...SPIOption) (*SPI, error) {
	s := &SPI{
		req:      microcontroller.SPIPins{Clock: clock},
		backends: DefaultBackends(),
	}
	for _, o := range options {
		o.applySPIOption(s)
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}

// Init selects and opens the backend for the bus.
//
// Any existing backend is released first.  Init is called by NewSPI, so is
// only required to reinitialise a bus after Deinit.
func (s *SPI) Init() error {
	if err := s.Deinit(); err != nil {
		return err
	}
	if s.req.Clock == nil {
		return errors.Wrap(blinka.ErrConfiguration, "spi: clock pin is required")
	}
	info := s.platform()
	open, err := s.backends.Select(info)
	if err != nil {
		return errors.Wrap(err, "spi")
	}
	b, err := open(s.req)
	if err != nil {
		return errors.Wrapf(err, "spi: open on %s", info)
	}
	s.backend = b
	s.pins = s.req
	s.cfg = microcontroller.SPIConfig{}
	return nil
}

// Deinit releases the backend.
//
// The bus cannot be used again until reinitialised by Init.
// Deinitialising a bus that is not initialised has no effect.
func (s *SPI) Deinit() error {
	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	s.pins = microcontroller.SPIPins{}
	return errors.Wrap(err, "spi: close")
}

// Configure updates the configuration of the bus.
//
// The bus must be locked.  The configuration defaults to 100kHz, polarity 0,
// phase 0, 8 bits and MSB first, and may be set using [WithBaudrate],
// [WithPolarity], [WithPhase], [WithBits] and [WithFirstBit].
func (s *SPI) Configure(options ...ConfigOption) error {
	cfg := microcontroller.SPIConfig{
		Baudrate: 100000,
		Bits:     8,
		FirstBit: microcontroller.MSB,
	}
	for _, o := range options {
		o.applyConfigOption(&cfg)
	}
	if !s.Locked() {
		return errors.Wrap(blinka.ErrState, "spi: must TryLock first")
	}
	if err := s.checkLive(); err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if err := s.backend.Init(cfg); err != nil {
		return errors.Wrap(err, "spi: configure")
	}
	s.cfg = cfg
	return nil
}

// Config returns the configuration most recently applied by Configure.
func (s *SPI) Config() microcontroller.SPIConfig {
	return s.cfg
}

// Pins returns the pins associated with the bus.
//
// The pins are empty while the bus is deinitialised.
func (s *SPI) Pins() microcontroller.SPIPins {
	return s.pins
}

// Frequency returns the actual frequency of the bus clock, in Hz.
//
// Returns an error wrapping blinka.ErrUnsupportedFeature if the backend is
// unable to report the frequency.
func (s *SPI) Frequency() (int, error) {
	if err := s.checkLive(); err != nil {
		return 0, err
	}
	fr, ok := s.backend.(microcontroller.FrequencyReporter)
	if !ok {
		return 0, errors.Wrap(blinka.ErrUnsupportedFeature, "spi: frequency not implemented for this platform")
	}
	f, err := fr.Frequency()
	return f, errors.Wrap(err, "spi: frequency")
}

// Write writes buf[start:end] to the bus.
//
// An end < 0 indicates the end of buf.
func (s *SPI) Write(buf []byte, start, end int) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	start, end, err := span(buf, start, end)
	if err != nil {
		return err
	}
	return s.backend.Write(buf, start, end)
}

// Readinto reads from the bus into buf[start:end], writing writeValue for
// each byte read.
//
// An end < 0 indicates the end of buf.
func (s *SPI) Readinto(buf []byte, start, end int, writeValue byte) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	start, end, err := span(buf, start, end)
	if err != nil {
		return err
	}
	return s.backend.Readinto(buf, start, end, writeValue)
}

// WriteReadinto writes out[outStart:outEnd] to the bus while reading into
// in[inStart:inEnd].
//
// An end < 0 indicates the end of the corresponding buffer.
// The two ranges must be the same length.
func (s *SPI) WriteReadinto(out, in []byte, outStart, outEnd, inStart, inEnd int) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	outStart, outEnd, err := span(out, outStart, outEnd)
	if err != nil {
		return err
	}
	inStart, inEnd, err = span(in, inStart, inEnd)
	if err != nil {
		return err
	}
	if outEnd-outStart != inEnd-inStart {
		return errors.Wrapf(blinka.ErrInvalidArgument,
			"spi: buffer slices must be of equal length, %d != %d",
			outEnd-outStart, inEnd-inStart)
	}
	return s.backend.WriteReadinto(out, in, outStart, outEnd, inStart, inEnd)
}

func (s *SPI) checkLive() error {
	if s.backend == nil {
		return errors.Wrap(blinka.ErrState, "spi: deinitialized")
	}
	return nil
}

func (s *SPI) platform() platform.Info {
	if s.info != nil {
		return *s.info
	}
	return platform.Detect()
}

// span resolves and validates a buffer range.
func span(buf []byte, start, end int) (int, int, error) {
	if end < 0 {
		end = len(buf)
	}
	if start < 0 || start > end || end > len(buf) {
		return 0, 0, errors.Wrapf(blinka.ErrInvalidArgument,
			"spi: range [%d:%d] out of bounds for buffer of length %d",
			start, end, len(buf))
	}
	return start, end, nil
}

func validateConfig(cfg microcontroller.SPIConfig) error {
	switch {
	case cfg.Baudrate <= 0:
		return errors.Wrapf(blinka.ErrInvalidArgument, "spi: invalid baudrate: %d", cfg.Baudrate)
	case cfg.Polarity != 0 && cfg.Polarity != 1:
		return errors.Wrapf(blinka.ErrInvalidArgument, "spi: invalid polarity: %d", cfg.Polarity)
	case cfg.Phase != 0 && cfg.Phase != 1:
		return errors.Wrapf(blinka.ErrInvalidArgument, "spi: invalid phase: %d", cfg.Phase)
	case cfg.Bits <= 0 || cfg.Bits > 32:
		return errors.Wrapf(blinka.ErrInvalidArgument, "spi: invalid bits: %d", cfg.Bits)
	case cfg.FirstBit != microcontroller.MSB && cfg.FirstBit != microcontroller.LSB:
		return errors.Wrapf(blinka.ErrInvalidArgument, "spi: invalid first bit: %d", int(cfg.FirstBit))
	}
	return nil
}

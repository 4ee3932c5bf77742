// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package microcontroller

// BitOrder is the order bits are shifted onto the SPI bus.
type BitOrder int

const (
	MSB BitOrder = iota
	LSB
)

func (b BitOrder) String() string {
	if b == LSB {
		return "LSB"
	}
	return "MSB"
}

// SPIConfig is the configuration of an SPI bus.
type SPIConfig struct {
	// Baudrate is the clock rate, in Hz.
	Baudrate int

	// Polarity is the idle level of the clock, 0 or 1.
	Polarity int

	// Phase selects the clock edge data is sampled on, 0 for the leading
	// edge and 1 for the trailing.
	Phase int

	// Bits is the number of bits per word.
	Bits int

	FirstBit BitOrder
}

// Mode returns the SPI mode number, 0..3, corresponding to the polarity and
// phase.
func (c SPIConfig) Mode() int {
	return c.Polarity<<1 | c.Phase
}

// SPIPins are the ids of the pins used by an SPI bus.
//
// MOSI and MISO are optional, and nil if unused.
type SPIPins struct {
	Clock any
	MOSI  any
	MISO  any
}

// SPI is a backend handle to an SPI bus.
//
// Buffer ranges are half-open [start, end) and have been validated by the
// caller.
type SPI interface {
	// Init (re)configures the bus.
	Init(cfg SPIConfig) error

	// Write writes buf[start:end] to the bus, discarding the bytes read.
	Write(buf []byte, start, end int) error

	// Readinto reads into buf[start:end], writing writeValue for each byte
	// read.
	Readinto(buf []byte, start, end int, writeValue byte) error

	// WriteReadinto writes out[outStart:outEnd] while reading into
	// in[inStart:inEnd].  The two ranges are the same length.
	WriteReadinto(out, in []byte, outStart, outEnd, inStart, inEnd int) error

	// Close releases the bus.
	Close() error
}

// FrequencyReporter is implemented by SPI backends able to report the actual
// frequency of the bus clock.
type FrequencyReporter interface {
	// Frequency returns the clock frequency, in Hz.
	Frequency() (int, error)
}

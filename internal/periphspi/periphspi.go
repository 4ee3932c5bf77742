// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package periphspi adapts periph.io SPI ports to the microcontroller.SPI
// backend interface.
package periphspi

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka/microcontroller"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultConfig is the configuration applied when a Bus is opened.
var DefaultConfig = microcontroller.SPIConfig{
	Baudrate: 100000,
	Bits:     8,
	FirstBit: microcontroller.MSB,
}

// Bus is an SPI backend driving a periph.io port.
//
// A periph port may only be connected once, so reconfiguring the bus closes
// the port and reopens it.
type Bus struct {
	open func() (spi.PortCloser, error)
	port spi.PortCloser
	conn spi.Conn
	freq int
}

// Open opens the port and connects it with the DefaultConfig.
func Open(open func() (spi.PortCloser, error)) (*Bus, error) {
	b := &Bus{open: open}
	if err := b.Init(DefaultConfig); err != nil {
		return nil, err
	}
	return b, nil
}

// Init implements microcontroller.SPI.
func (b *Bus) Init(cfg microcontroller.SPIConfig) error {
	if b.port != nil {
		if err := b.port.Close(); err != nil {
			return errors.Wrap(err, "close port")
		}
		b.port = nil
		b.conn = nil
	}
	port, err := b.open()
	if err != nil {
		return errors.Wrap(err, "open port")
	}
	mode := spi.Mode(cfg.Mode())
	if cfg.FirstBit == microcontroller.LSB {
		mode |= spi.LSBFirst
	}
	conn, err := port.Connect(physic.Frequency(cfg.Baudrate)*physic.Hertz, mode, cfg.Bits)
	if err != nil {
		port.Close()
		return errors.Wrap(err, "connect")
	}
	b.port = port
	b.conn = conn
	b.freq = cfg.Baudrate
	return nil
}

// Frequency implements microcontroller.FrequencyReporter.
func (b *Bus) Frequency() (int, error) {
	if b.conn == nil {
		return 0, errors.New("not connected")
	}
	return b.freq, nil
}

// Write implements microcontroller.SPI.
func (b *Bus) Write(buf []byte, start, end int) error {
	if b.conn == nil {
		return errors.New("not connected")
	}
	return b.conn.Tx(buf[start:end], nil)
}

// Readinto implements microcontroller.SPI.
func (b *Bus) Readinto(buf []byte, start, end int, writeValue byte) error {
	if b.conn == nil {
		return errors.New("not connected")
	}
	w := make([]byte, end-start)
	for i := range w {
		w[i] = writeValue
	}
	return b.conn.Tx(w, buf[start:end])
}

// WriteReadinto implements microcontroller.SPI.
func (b *Bus) WriteReadinto(out, in []byte, outStart, outEnd, inStart, inEnd int) error {
	if b.conn == nil {
		return errors.New("not connected")
	}
	return b.conn.Tx(out[outStart:outEnd], in[inStart:inEnd])
}

// Close implements microcontroller.SPI.
func (b *Bus) Close() error {
	if b.port == nil {
		return nil
	}
	err := b.port.Close()
	b.port = nil
	b.conn = nil
	return err
}

var (
	_ microcontroller.SPI               = (*Bus)(nil)
	_ microcontroller.FrequencyReporter = (*Bus)(nil)
)

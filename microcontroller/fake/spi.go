// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package fake

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka/microcontroller"
)

// SPI is a fake microcontroller.SPI that echoes written data.
//
// Bytes written by Write are queued and returned by subsequent reads, as if
// the peripheral echoed them back.  Once the queue is empty, reads return the
// write value.  WriteReadinto is a direct loopback, reading what it writes.
type SPI struct {
	mu      sync.Mutex
	cfg     microcontroller.SPIConfig
	inits   int
	echo    []byte
	written [][]byte
	err     error
	closed  bool
}

// NewSPI creates a fake SPI backend.
//
// It does not report the bus frequency; use NewReportingSPI for that.
func NewSPI() *SPI {
	return &SPI{}
}

// Init implements microcontroller.SPI.
func (s *SPI) Init(cfg microcontroller.SPIConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.cfg = cfg
	s.inits++
	return nil
}

// Write implements microcontroller.SPI.
func (s *SPI) Write(buf []byte, start, end int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	w := append([]byte(nil), buf[start:end]...)
	s.written = append(s.written, w)
	s.echo = append(s.echo, w...)
	return nil
}

// Readinto implements microcontroller.SPI.
func (s *SPI) Readinto(buf []byte, start, end int, writeValue byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	r := buf[start:end]
	n := copy(r, s.echo)
	s.echo = s.echo[n:]
	for i := n; i < len(r); i++ {
		r[i] = writeValue
	}
	w := make([]byte, len(r))
	for i := range w {
		w[i] = writeValue
	}
	s.written = append(s.written, w)
	return nil
}

// WriteReadinto implements microcontroller.SPI.
func (s *SPI) WriteReadinto(out, in []byte, outStart, outEnd, inStart, inEnd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	w := append([]byte(nil), out[outStart:outEnd]...)
	s.written = append(s.written, w)
	copy(in[inStart:inEnd], w)
	return nil
}

// Close implements microcontroller.SPI.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("spi already closed")
	}
	s.closed = true
	return nil
}

func (s *SPI) check() error {
	if s.closed {
		return errors.New("spi closed")
	}
	return s.err
}

// Fail causes subsequent operations to fail with the error, or to succeed
// again if err is nil.
func (s *SPI) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Config returns the most recently applied configuration.
func (s *SPI) Config() microcontroller.SPIConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Inits returns the number of times Init has been called.
func (s *SPI) Inits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inits
}

// Written returns the data written by each transaction, in order.
func (s *SPI) Written() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.written...)
}

// Closed returns true if the backend has been closed.
func (s *SPI) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ReportingSPI is a fake SPI backend that reports the configured baudrate as
// the bus frequency.
type ReportingSPI struct {
	*SPI
}

// NewReportingSPI creates a fake SPI backend that reports its frequency.
func NewReportingSPI() *ReportingSPI {
	return &ReportingSPI{NewSPI()}
}

// Frequency implements microcontroller.FrequencyReporter.
func (s *ReportingSPI) Frequency() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Baudrate, s.check()
}

var (
	_ microcontroller.SPI               = (*SPI)(nil)
	_ microcontroller.FrequencyReporter = (*ReportingSPI)(nil)
)

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package busio

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
	"tinygo.org/x/drivers"
)

// Tx performs a transaction on the bus, allowing the SPI to be used by
// TinyGo device drivers.
//
// If both w and r are provided they must be the same length.  Either may be
// nil for a write only or read only transaction.
func (s *SPI) Tx(w, r []byte) error {
	switch {
	case w == nil && r == nil:
		return nil
	case r == nil:
		return s.Write(w, 0, -1)
	case w == nil:
		return s.Readinto(r, 0, -1, 0)
	case len(w) != len(r):
		return errors.Wrapf(blinka.ErrInvalidArgument, "spi: tx length mismatch, %d != %d", len(w), len(r))
	}
	return s.WriteReadinto(w, r, 0, -1, 0, -1)
}

// Transfer writes a single byte while reading a single byte.
func (s *SPI) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := s.WriteReadinto([]byte{b}, r[:], 0, -1, 0, -1)
	return r[0], err
}

var _ drivers.SPI = (*SPI)(nil)

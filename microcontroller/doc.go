// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package microcontroller provides the logical [Pin] and the interfaces
// implemented by the platform specific backends.
//
// A [Driver] provides digital, ADC and DAC handles to pins, and an [SPI]
// provides access to an SPI bus.  Backends live in the subpackages:
//
//   - gpiocdev, for Linux GPIO character devices.
//   - ft232h, for the FTDI FT232H USB bridge.
//   - rpi, for memory-mapped access on the Raspberry Pi.
//   - spidev, for Linux spidev SPI buses.
//   - fake, an in-memory backend for testing.
package microcontroller

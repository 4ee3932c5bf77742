// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package blinka is a hardware abstraction layer for digital I/O and SPI on
single board computers and USB bridge boards, modelled on the CircuitPython
board, digitalio and busio API.

Application code requests a pin or bus by its logical identifier, configures
it, and performs I/O without depending on the chip or board driver
underneath.  The driver is selected at runtime from the detected platform.

The packages are layered:

  - [platform] identifies the board and chip, once per process, and provides
    the ordered dispatch table used to pick backends.
  - [microcontroller] defines the logical [microcontroller.Pin] and the
    interfaces backends implement.  The backends themselves live in its
    subpackages.
  - [digitalio] provides [digitalio.DigitalInOut], the direction, pull and
    drive mode state machine over a pin.
  - [busio] provides the lockable [busio.SPI] bus.
  - [board] binds the above to the detected platform.

This package holds the error taxonomy shared by the others, and [With], which
guarantees a resource is deinitialized however the scope using it exits.

# Example Usage

Drive an output on an FT232H:

	p, err := board.Pin(ft232h.C0)
	cs, err := digitalio.New(p)
	err = blinka.With(cs, func(cs *digitalio.DigitalInOut) error {
		if err := cs.SwitchToOutput(digitalio.WithValue(true)); err != nil {
			return err
		}
		return cs.SetValue(false)
	})

Lock, configure and write to the board SPI bus:

	spi, err := board.SPI()
	for !spi.TryLock() {
	}
	defer spi.Unlock()
	err = spi.Configure(busio.WithBaudrate(8000000))
	err = spi.Write(buf, 0, -1)

[platform]: https://pkg.go.dev/github.com/warthog618/go-blinka/platform
[microcontroller]: https://pkg.go.dev/github.com/warthog618/go-blinka/microcontroller
[digitalio]: https://pkg.go.dev/github.com/warthog618/go-blinka/digitalio
[busio]: https://pkg.go.dev/github.com/warthog618/go-blinka/busio
[board]: https://pkg.go.dev/github.com/warthog618/go-blinka/board
*/
package blinka

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package busio

import (
	"github.com/warthog618/go-blinka/microcontroller/ft232h"
	"github.com/warthog618/go-blinka/microcontroller/rpi"
	"github.com/warthog618/go-blinka/microcontroller/spidev"
	"github.com/warthog618/go-blinka/platform"
)

// DefaultBackends returns the SPI backend dispatch table.
//
// The ports, if any, map pins to Linux spidev buses for the platforms using
// spidev.  Without ports the first spidev bus is used.
func DefaultBackends(ports ...spidev.Port) platform.Table[Opener] {
	linux := Opener(spidev.Opener(ports...))
	return platform.Table[Opener]{
		platform.Implemented("ftdi_ft232h", platform.IsBoard(platform.BoardFT232H), Opener(ft232h.OpenSPI)),
		platform.Unimplemented[Opener]("ftdi_ft2232h", platform.IsBoard(platform.BoardFT2232H)),
		platform.Unimplemented[Opener]("binho_nova", platform.IsBoard(platform.BoardBinhoNova)),
		platform.Unimplemented[Opener]("greatfet_one", platform.IsBoard(platform.BoardGreatFETOne)),
		platform.Implemented("nanopi on sun8i",
			platform.All(platform.Info.AnyNanoPi, platform.IsChip(platform.ChipSun8i)), linux),
		platform.Implemented("lubancat on imx6ull",
			platform.All(platform.Info.AnyLubanCat, platform.IsChip(platform.ChipIMX6ULL)), linux),
		platform.Unimplemented[Opener]("pico_u2if", platform.IsBoard(platform.BoardPicoU2IF)),
		platform.Unimplemented[Opener]("feather_u2if", platform.IsBoard(platform.BoardFeatherU2IF)),
		platform.Unimplemented[Opener]("itsybitsy_u2if", platform.IsBoard(platform.BoardItsyBitsyU2IF)),
		platform.Unimplemented[Opener]("macropad_u2if", platform.IsBoard(platform.BoardMacroPadU2IF)),
		platform.Unimplemented[Opener]("qtpy_u2if", platform.IsBoard(platform.BoardQTPyU2IF)),
		platform.Unimplemented[Opener]("rp2040", platform.IsChip(platform.ChipRP2040)),
		platform.Implemented("bcm2xxx", platform.IsChip(platform.ChipBCM2XXX), Opener(rpi.OpenSPI)),
		platform.Implemented("embedded linux", platform.Info.AnyEmbeddedLinux, linux),
	}
}

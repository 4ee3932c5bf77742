// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package platform

// BoardID identifies a board.
type BoardID string

const (
	BoardUnknown BoardID = ""

	// USB bridge boards.
	BoardFT232H        BoardID = "FTDI_FT232H"
	BoardFT2232H       BoardID = "FTDI_FT2232H"
	BoardBinhoNova     BoardID = "BINHO_NOVA"
	BoardGreatFETOne   BoardID = "GREATFET_ONE"
	BoardPicoU2IF      BoardID = "RASPBERRY_PI_PICO_U2IF"
	BoardFeatherU2IF   BoardID = "FEATHER_U2IF"
	BoardItsyBitsyU2IF BoardID = "ITSYBITSY_U2IF"
	BoardMacroPadU2IF  BoardID = "MACROPAD_U2IF"
	BoardQTPyU2IF      BoardID = "QTPY_U2IF"

	// Embedded Linux boards.
	BoardRaspberryPi  BoardID = "RASPBERRY_PI"
	BoardNanoPi       BoardID = "NANOPI"
	BoardLubanCat     BoardID = "LUBANCAT"
	BoardGenericLinux BoardID = "GENERIC_LINUX"
)

// ChipID identifies the chip, or SoC, driving a board.
type ChipID string

const (
	ChipUnknown      ChipID = ""
	ChipFT232H       ChipID = "FT232H"
	ChipFT2232H      ChipID = "FT2232H"
	ChipBinho        ChipID = "BINHO"
	ChipLPC4330      ChipID = "LPC4330"
	ChipRP2040       ChipID = "RP2040"
	ChipRP2040U2IF   ChipID = "RP2040_U2IF"
	ChipBCM2XXX      ChipID = "BCM2XXX"
	ChipSun8i        ChipID = "SUN8I"
	ChipIMX6ULL      ChipID = "IMX6ULL"
	ChipGenericLinux ChipID = "GENERIC_LINUX"
)

// Info is the identity of the running platform.
type Info struct {
	Board BoardID
	Chip  ChipID
}

// IsBoard returns true if the platform is the given board.
func (i Info) IsBoard(b BoardID) bool {
	return i.Board == b
}

// IsChip returns true if the platform is driven by the given chip.
func (i Info) IsChip(c ChipID) bool {
	return i.Chip == c
}

// AnyFTDI returns true if the board is an FTDI MPSSE USB bridge.
func (i Info) AnyFTDI() bool {
	return i.Board == BoardFT232H || i.Board == BoardFT2232H
}

// AnyU2IF returns true if the board is an RP2040 running u2if firmware.
func (i Info) AnyU2IF() bool {
	switch i.Board {
	case BoardPicoU2IF, BoardFeatherU2IF, BoardItsyBitsyU2IF, BoardMacroPadU2IF, BoardQTPyU2IF:
		return true
	}
	return false
}

// AnyRaspberryPi returns true if the board is a Raspberry Pi.
func (i Info) AnyRaspberryPi() bool {
	return i.Board == BoardRaspberryPi
}

// AnyNanoPi returns true if the board is a FriendlyElec NanoPi.
func (i Info) AnyNanoPi() bool {
	return i.Board == BoardNanoPi
}

// AnyLubanCat returns true if the board is an EmbedFire LubanCat.
func (i Info) AnyLubanCat() bool {
	return i.Board == BoardLubanCat
}

// AnyEmbeddedLinux returns true if the platform is running Linux on the
// board itself, as opposed to a USB bridge attached to a host.
func (i Info) AnyEmbeddedLinux() bool {
	switch i.Board {
	case BoardRaspberryPi, BoardNanoPi, BoardLubanCat, BoardGenericLinux:
		return true
	}
	return false
}

// String returns the board and chip in a form suitable for error messages.
func (i Info) String() string {
	b := string(i.Board)
	if b == "" {
		b = "unknown board"
	}
	c := string(i.Chip)
	if c == "" {
		c = "unknown chip"
	}
	return b + " (" + c + ")"
}

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package platform

import (
	"github.com/google/gousb"
	"github.com/pkg/errors"
)

// USBID is the vendor and product ID pair from a USB device descriptor.
type USBID struct {
	Vendor  uint16
	Product uint16
}

type knownUSBBoard struct {
	USBID
	env string
	Info
}

// knownUSBBoards is in detection priority order.
var knownUSBBoards = []knownUSBBoard{
	{USBID{0x0403, 0x6014}, EnvFT232H, Info{BoardFT232H, ChipFT232H}},
	{USBID{0x0403, 0x6010}, EnvFT2232H, Info{BoardFT2232H, ChipFT2232H}},
	{USBID{0x04d8, 0xed34}, EnvNova, Info{BoardBinhoNova, ChipBinho}},
	{USBID{0x1d50, 0x60e6}, EnvGreatFET, Info{BoardGreatFETOne, ChipLPC4330}},
	{USBID{0xcafe, 0x4005}, EnvU2IF, Info{BoardPicoU2IF, ChipRP2040U2IF}},
	{USBID{0x239a, 0x00f1}, EnvU2IF, Info{BoardFeatherU2IF, ChipRP2040U2IF}},
	{USBID{0x239a, 0x00fd}, EnvU2IF, Info{BoardItsyBitsyU2IF, ChipRP2040U2IF}},
	{USBID{0x239a, 0x0107}, EnvU2IF, Info{BoardMacroPadU2IF, ChipRP2040U2IF}},
	{USBID{0x239a, 0x00f7}, EnvU2IF, Info{BoardQTPyU2IF, ChipRP2040U2IF}},
}

// ScanUSB returns the IDs of all USB devices attached to the host.
//
// Devices are identified from their descriptors only; none are opened.
func ScanUSB() ([]USBID, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	var ids []USBID
	_, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		ids = append(ids, USBID{uint16(desc.Vendor), uint16(desc.Product)})
		return false
	})
	if err != nil && err != gousb.ErrorAccess {
		return ids, errors.Wrap(err, "usb scan")
	}
	return ids, nil
}

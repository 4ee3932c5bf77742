// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"github.com/warthog618/go-blinka/board"
	"github.com/warthog618/go-blinka/busio"
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-blinka/microcontroller/fake"
	"github.com/warthog618/go-blinka/platform"
)

var simInfo = platform.Info{Board: platform.BoardGenericLinux, Chip: platform.ChipGenericLinux}

// newSimBoard returns a board backed by the in-memory backends.
//
// Inputs read low and the SPI bus echoes what is written to it.
func newSimBoard() *board.Board {
	drv := fake.NewDriver(fake.WithName("sim"))
	return board.New(
		board.WithPlatform(simInfo),
		board.WithDrivers(platform.Table[board.DriverFactory]{
			platform.Implemented("sim", platform.Always,
				board.DriverFactory(func() (microcontroller.Driver, error) { return drv, nil })),
		}),
		board.WithSPIBackends(platform.Table[busio.Opener]{
			platform.Implemented("sim", platform.Always,
				busio.Opener(func(microcontroller.SPIPins) (microcontroller.SPI, error) {
					return fake.NewReportingSPI(), nil
				})),
		}),
		board.WithSPIPins(microcontroller.SPIPins{Clock: "SCK", MOSI: "MOSI", MISO: "MISO"}),
	)
}

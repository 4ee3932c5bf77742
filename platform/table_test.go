// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package platform_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/platform"
)

type factory func() string

func constFactory(s string) factory {
	return func() string { return s }
}

var table = platform.Table[factory]{
	platform.Implemented("ft232h", platform.IsBoard(platform.BoardFT232H), constFactory("ft232h")),
	platform.Unimplemented[factory]("binho nova", platform.IsBoard(platform.BoardBinhoNova)),
	platform.Implemented("nanopi sun8i",
		platform.All(platform.Info.AnyNanoPi, platform.IsChip(platform.ChipSun8i)),
		constFactory("spidev")),
	platform.Unimplemented[factory]("rp2040", platform.IsChip(platform.ChipRP2040)),
	platform.Implemented("bcm2xxx", platform.IsChip(platform.ChipBCM2XXX), constFactory("rpi")),
	platform.Implemented("embedded linux", platform.Info.AnyEmbeddedLinux, constFactory("spidev")),
}

func TestTableSelect(t *testing.T) {
	patterns := []struct {
		name string
		info platform.Info
		xval string
		xerr string
	}{
		{
			"board",
			platform.Info{Board: platform.BoardFT232H, Chip: platform.ChipFT232H},
			"ft232h",
			"",
		},
		{
			"board precedes chip",
			platform.Info{Board: platform.BoardFT232H, Chip: platform.ChipBCM2XXX},
			"ft232h",
			"",
		},
		{
			"board and chip",
			platform.Info{Board: platform.BoardNanoPi, Chip: platform.ChipSun8i},
			"spidev",
			"",
		},
		{
			"chip family",
			platform.Info{Board: platform.BoardRaspberryPi, Chip: platform.ChipBCM2XXX},
			"rpi",
			"",
		},
		{
			"fallback",
			platform.Info{Board: platform.BoardNanoPi, Chip: platform.ChipGenericLinux},
			"spidev",
			"",
		},
		{
			"unimplemented board",
			platform.Info{Board: platform.BoardBinhoNova, Chip: platform.ChipBinho},
			"",
			"not implemented for binho nova: unsupported platform",
		},
		{
			"unimplemented chip",
			platform.Info{Board: platform.BoardGenericLinux, Chip: platform.ChipRP2040},
			"",
			"not implemented for rp2040: unsupported platform",
		},
		{
			"no match",
			platform.Info{},
			"",
			"no backend for unknown board (unknown chip): unsupported platform",
		},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			f, err := table.Select(p.info)
			if p.xerr != "" {
				assert.True(t, errors.Is(err, blinka.ErrUnsupportedPlatform))
				assert.EqualError(t, err, p.xerr)
				assert.Nil(t, f)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, p.xval, f())
		}
		t.Run(p.name, tf)
	}
}

func TestPredicates(t *testing.T) {
	i := platform.Info{Board: platform.BoardLubanCat, Chip: platform.ChipIMX6ULL}
	assert.True(t, platform.IsBoard(platform.BoardLubanCat)(i))
	assert.False(t, platform.IsBoard(platform.BoardNanoPi)(i))
	assert.True(t, platform.IsChip(platform.ChipIMX6ULL)(i))
	assert.True(t, platform.All(platform.Info.AnyLubanCat, platform.IsChip(platform.ChipIMX6ULL))(i))
	assert.False(t, platform.All(platform.Info.AnyLubanCat, platform.IsChip(platform.ChipSun8i))(i))
	assert.True(t, platform.All()(i))
	assert.True(t, platform.Always(platform.Info{}))
}

func TestTableMatch(t *testing.T) {
	e, ok := table.Match(platform.Info{Board: platform.BoardBinhoNova, Chip: platform.ChipBinho})
	assert.True(t, ok)
	assert.Equal(t, "binho nova", e.Name)
	assert.Nil(t, e.Factory)

	e, ok = table.Match(platform.Info{Board: platform.BoardRaspberryPi, Chip: platform.ChipBCM2XXX})
	assert.True(t, ok)
	assert.Equal(t, "bcm2xxx", e.Name)
	require.NotNil(t, e.Factory)
	assert.Equal(t, "rpi", (*e.Factory)())

	_, ok = table.Match(platform.Info{})
	assert.False(t, ok)
}

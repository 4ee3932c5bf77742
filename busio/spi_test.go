// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package busio_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/busio"
	"github.com/warthog618/go-blinka/microcontroller"
	"github.com/warthog618/go-blinka/microcontroller/fake"
	"github.com/warthog618/go-blinka/platform"
)

var rpiInfo = platform.Info{Board: platform.BoardRaspberryPi, Chip: platform.ChipBCM2XXX}

// opener records the backends it opens.
type opener struct {
	reporting bool
	pins      []microcontroller.SPIPins
	opened    []*fake.SPI
	err       error
}

func (o *opener) open(pins microcontroller.SPIPins) (microcontroller.SPI, error) {
	if o.err != nil {
		return nil, o.err
	}
	o.pins = append(o.pins, pins)
	if o.reporting {
		s := fake.NewReportingSPI()
		o.opened = append(o.opened, s.SPI)
		return s, nil
	}
	s := fake.NewSPI()
	o.opened = append(o.opened, s)
	return s, nil
}

func (o *opener) last() *fake.SPI {
	return o.opened[len(o.opened)-1]
}

func (o *opener) table() platform.Table[busio.Opener] {
	return platform.Table[busio.Opener]{
		platform.Implemented("bcm2xxx", platform.IsChip(platform.ChipBCM2XXX), busio.Opener(o.open)),
	}
}

func newSPI(t *testing.T, o *opener, options ...busio.SPIOption) *busio.SPI {
	t.Helper()
	options = append([]busio.SPIOption{
		busio.WithMOSI(10),
		busio.WithMISO(9),
		busio.WithPlatform(rpiInfo),
		busio.WithBackends(o.table()),
	}, options...)
	s, err := busio.NewSPI(11, options...)
	require.Nil(t, err)
	require.NotNil(t, s)
	return s
}

func checkErrorIs(t *testing.T, err, target error) {
	t.Helper()
	assert.True(t, errors.Is(err, target), "expected %v, got %v", target, err)
}

func TestNewSPI(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)
	require.Len(t, o.opened, 1)
	pins := microcontroller.SPIPins{Clock: 11, MOSI: 10, MISO: 9}
	assert.Equal(t, pins, o.pins[0])
	assert.Equal(t, pins, s.Pins())
	assert.False(t, s.Locked())
}

func TestNewSPINoClock(t *testing.T) {
	o := &opener{}
	s, err := busio.NewSPI(nil, busio.WithPlatform(rpiInfo), busio.WithBackends(o.table()))
	checkErrorIs(t, err, blinka.ErrConfiguration)
	assert.Nil(t, s)
	assert.Empty(t, o.opened)
}

func TestNewSPIUnsupportedPlatform(t *testing.T) {
	o := &opener{}
	info := platform.Info{Board: platform.BoardPicoU2IF, Chip: platform.ChipRP2040U2IF}
	s, err := busio.NewSPI(11, busio.WithPlatform(info), busio.WithBackends(o.table()))
	checkErrorIs(t, err, blinka.ErrUnsupportedPlatform)
	assert.Nil(t, s)
	assert.Empty(t, o.opened)
}

func TestNewSPIDefaultBackends(t *testing.T) {
	patterns := []struct {
		name string
		info platform.Info
		msg  string
	}{
		{"ft2232h", platform.Info{Board: platform.BoardFT2232H, Chip: platform.ChipFT2232H}, "ftdi_ft2232h"},
		{"nova", platform.Info{Board: platform.BoardBinhoNova, Chip: platform.ChipBinho}, "binho_nova"},
		{"greatfet", platform.Info{Board: platform.BoardGreatFETOne, Chip: platform.ChipLPC4330}, "greatfet_one"},
		{"pico", platform.Info{Board: platform.BoardPicoU2IF, Chip: platform.ChipRP2040U2IF}, "pico_u2if"},
		{"qtpy", platform.Info{Board: platform.BoardQTPyU2IF, Chip: platform.ChipRP2040U2IF}, "qtpy_u2if"},
		{"rp2040", platform.Info{Chip: platform.ChipRP2040}, "rp2040"},
		{"unknown", platform.Info{}, "no backend"},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			s, err := busio.NewSPI(11, busio.WithPlatform(p.info))
			checkErrorIs(t, err, blinka.ErrUnsupportedPlatform)
			assert.Contains(t, err.Error(), p.msg)
			assert.Nil(t, s)
		}
		t.Run(p.name, tf)
	}
}

func TestNewSPIOpenError(t *testing.T) {
	o := &opener{err: errors.New("no such bus")}
	s, err := busio.NewSPI(11, busio.WithPlatform(rpiInfo), busio.WithBackends(o.table()))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "no such bus")
	assert.Nil(t, s)
}

func TestConfigure(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)

	err := s.Configure()
	checkErrorIs(t, err, blinka.ErrState)
	assert.Equal(t, 0, o.last().Inits())

	require.True(t, s.TryLock())
	defer s.Unlock()

	require.Nil(t, s.Configure())
	dflt := microcontroller.SPIConfig{Baudrate: 100000, Bits: 8, FirstBit: microcontroller.MSB}
	assert.Equal(t, dflt, o.last().Config())
	assert.Equal(t, dflt, s.Config())

	require.Nil(t, s.Configure(
		busio.WithBaudrate(1000000),
		busio.WithPolarity(1),
		busio.WithPhase(1),
		busio.WithBits(16),
		busio.WithFirstBit(microcontroller.LSB)))
	cfg := microcontroller.SPIConfig{
		Baudrate: 1000000, Polarity: 1, Phase: 1, Bits: 16, FirstBit: microcontroller.LSB,
	}
	assert.Equal(t, cfg, o.last().Config())
	assert.Equal(t, 3, cfg.Mode())
	assert.Equal(t, 2, o.last().Inits())
}

func TestConfigureInvalid(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)
	require.True(t, s.TryLock())
	patterns := []struct {
		name string
		opt  busio.ConfigOption
	}{
		{"baudrate", busio.WithBaudrate(0)},
		{"polarity", busio.WithPolarity(2)},
		{"phase", busio.WithPhase(-1)},
		{"bits", busio.WithBits(0)},
		{"wide", busio.WithBits(33)},
		{"firstbit", busio.WithFirstBit(microcontroller.BitOrder(2))},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			err := s.Configure(p.opt)
			checkErrorIs(t, err, blinka.ErrInvalidArgument)
			assert.Equal(t, 0, o.last().Inits())
		}
		t.Run(p.name, tf)
	}
}

func TestConfigureBackendError(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)
	require.True(t, s.TryLock())
	o.last().Fail(blinka.ErrUnsupportedFeature)
	err := s.Configure(busio.WithBits(12))
	checkErrorIs(t, err, blinka.ErrUnsupportedFeature)
	assert.Equal(t, microcontroller.SPIConfig{}, s.Config())
}

func TestFrequency(t *testing.T) {
	o := &opener{reporting: true}
	s := newSPI(t, o)
	require.True(t, s.TryLock())
	require.Nil(t, s.Configure(busio.WithBaudrate(250000)))
	f, err := s.Frequency()
	assert.Nil(t, err)
	assert.Equal(t, 250000, f)

	o = &opener{}
	s = newSPI(t, o)
	_, err = s.Frequency()
	checkErrorIs(t, err, blinka.ErrUnsupportedFeature)
}

func TestLoopback(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)
	out := []byte{0xde, 0xad, 0xbe, 0xef}
	require.Nil(t, s.Write(out, 0, -1))
	in := make([]byte, 4)
	require.Nil(t, s.Readinto(in, 0, -1, 0xff))
	assert.Equal(t, out, in)

	// echo drained, so reads see the write value
	require.Nil(t, s.Readinto(in, 1, 3, 0xa5))
	assert.Equal(t, []byte{0xde, 0xa5, 0xa5, 0xef}, in)

	in = make([]byte, 6)
	require.Nil(t, s.WriteReadinto(out, in, 1, 3, 2, 4))
	assert.Equal(t, []byte{0, 0, 0xad, 0xbe, 0, 0}, in)

	assert.Equal(t, [][]byte{out, {0xff, 0xff, 0xff, 0xff}, {0xa5, 0xa5}, {0xad, 0xbe}},
		o.last().Written())
}

func TestRanges(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)
	buf := make([]byte, 4)
	patterns := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 2},
		{"start after end", 3, 2},
		{"end past buffer", 0, 5},
		{"start past buffer", 5, -1},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			checkErrorIs(t, s.Write(buf, p.start, p.end), blinka.ErrInvalidArgument)
			checkErrorIs(t, s.Readinto(buf, p.start, p.end, 0), blinka.ErrInvalidArgument)
			checkErrorIs(t, s.WriteReadinto(buf, buf, p.start, p.end, 0, -1), blinka.ErrInvalidArgument)
			checkErrorIs(t, s.WriteReadinto(buf, buf, 0, -1, p.start, p.end), blinka.ErrInvalidArgument)
		}
		t.Run(p.name, tf)
	}
	// empty range
	assert.Nil(t, s.Write(buf, 2, 2))

	// mismatched lengths
	err := s.WriteReadinto(buf, make([]byte, 3), 0, -1, 0, -1)
	checkErrorIs(t, err, blinka.ErrInvalidArgument)
	assert.Empty(t, o.last().Written()[1:])
}

func TestBackendError(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)
	berr := errors.New("bus fault")
	o.last().Fail(berr)
	assert.Equal(t, berr, s.Write([]byte{1}, 0, -1))
	assert.Equal(t, berr, s.Readinto(make([]byte, 1), 0, -1, 0))
}

func TestDeinit(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)
	b := o.last()
	require.Nil(t, s.Deinit())
	assert.True(t, b.Closed())
	assert.Equal(t, microcontroller.SPIPins{}, s.Pins())

	// idempotent
	assert.Nil(t, s.Deinit())

	checkErrorIs(t, s.Write([]byte{1}, 0, -1), blinka.ErrState)
	checkErrorIs(t, s.Readinto(make([]byte, 1), 0, -1, 0), blinka.ErrState)
	checkErrorIs(t, s.WriteReadinto([]byte{1}, make([]byte, 1), 0, -1, 0, -1), blinka.ErrState)
	_, err := s.Frequency()
	checkErrorIs(t, err, blinka.ErrState)
	require.True(t, s.TryLock())
	checkErrorIs(t, s.Configure(), blinka.ErrState)
	require.Nil(t, s.Unlock())

	// reinit
	require.Nil(t, s.Init())
	require.Len(t, o.opened, 2)
	assert.Equal(t, microcontroller.SPIPins{Clock: 11, MOSI: 10, MISO: 9}, s.Pins())
	assert.Nil(t, s.Write([]byte{1}, 0, -1))
}

func TestScopedSPI(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)
	err := blinka.With(s, func(s *busio.SPI) error {
		return s.Write([]byte{0x42}, 0, -1)
	})
	assert.Nil(t, err)
	assert.True(t, o.last().Closed())
}

func TestTx(t *testing.T) {
	o := &opener{}
	s := newSPI(t, o)

	assert.Nil(t, s.Tx(nil, nil))
	require.Nil(t, s.Tx([]byte{1, 2}, nil))
	r := make([]byte, 2)
	require.Nil(t, s.Tx(nil, r))
	assert.Equal(t, []byte{1, 2}, r)

	r = make([]byte, 3)
	require.Nil(t, s.Tx([]byte{3, 4, 5}, r))
	assert.Equal(t, []byte{3, 4, 5}, r)

	checkErrorIs(t, s.Tx([]byte{1}, r), blinka.ErrInvalidArgument)

	v, err := s.Transfer(0x5a)
	assert.Nil(t, err)
	assert.Equal(t, byte(0x5a), v)
}

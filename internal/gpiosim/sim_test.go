// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosim_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-blinka/internal/gpiosim"
	"github.com/warthog618/go-gpiocdev"
)

func newSim(t *testing.T, options ...gpiosim.Option) *gpiosim.Sim {
	t.Helper()
	s, err := gpiosim.NewSim(options...)
	if errors.Is(err, gpiosim.ErrUnavailable) {
		t.Skip(err)
	}
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSim(t *testing.T) {
	s := newSim(t,
		gpiosim.WithName("blinka_sim_test"),
		gpiosim.WithLabel("left"),
		gpiosim.WithNumLines(12),
		gpiosim.WithNamedLine(3, "LED0"),
		gpiosim.WithHoggedLine(2, "piggy"),
	)
	assert.Equal(t, "blinka_sim_test", s.Name())
	assert.FileExists(t, s.DevPath())

	c, err := gpiocdev.NewChip(s.ChipName())
	require.Nil(t, err)
	defer c.Close()
	assert.Equal(t, 12, c.Lines())
	assert.Equal(t, "left", c.Label)

	li, err := c.LineInfo(3)
	require.Nil(t, err)
	assert.Equal(t, "LED0", li.Name)
	assert.False(t, li.Used)

	li, err = c.LineInfo(2)
	require.Nil(t, err)
	assert.True(t, li.Used)
	assert.Equal(t, "piggy", li.Consumer)

	// name in use
	dup, err := gpiosim.NewSim(gpiosim.WithName("blinka_sim_test"))
	assert.NotNil(t, err)
	assert.Nil(t, dup)
}

func TestPull(t *testing.T) {
	s := newSim(t)
	c, err := gpiocdev.NewChip(s.ChipName())
	require.Nil(t, err)
	defer c.Close()
	l, err := c.RequestLine(1, gpiocdev.AsInput)
	require.Nil(t, err)
	defer l.Close()

	for _, level := range []int{1, 0, 1} {
		require.Nil(t, s.SetPull(1, level))
		v, err := l.Value()
		assert.Nil(t, err)
		assert.Equal(t, level, v)
	}
}

func TestLevel(t *testing.T) {
	s := newSim(t)
	c, err := gpiocdev.NewChip(s.ChipName())
	require.Nil(t, err)
	defer c.Close()
	l, err := c.RequestLine(4, gpiocdev.AsOutput(1))
	require.Nil(t, err)
	defer l.Close()

	v, err := s.Level(4)
	assert.Nil(t, err)
	assert.Equal(t, 1, v)

	require.Nil(t, l.SetValue(0))
	v, err = s.Level(4)
	assert.Nil(t, err)
	assert.Equal(t, 0, v)
}

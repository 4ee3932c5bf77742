// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package periphspi_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-blinka/internal/periphspi"
	"github.com/warthog618/go-blinka/microcontroller"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// port is a loopback periph port that records how it was connected.
type port struct {
	freq    physic.Frequency
	mode    spi.Mode
	bits    int
	closed  bool
	written [][]byte
}

func (p *port) String() string { return "loopback" }
func (p *port) LimitSpeed(f physic.Frequency) error { return nil }
func (p *port) Close() error {
	p.closed = true
	return nil
}

func (p *port) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if p.closed {
		return nil, errors.New("port closed")
	}
	p.freq, p.mode, p.bits = f, mode, bits
	return p, nil
}

func (p *port) Halt() error { return nil }
func (p *port) Duplex() conn.Duplex { return conn.Full }
func (p *port) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if err := p.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

func (p *port) Tx(w, r []byte) error {
	p.written = append(p.written, append([]byte(nil), w...))
	copy(r, w)
	return nil
}

type opener struct {
	ports []*port
}

func (o *opener) open() (spi.PortCloser, error) {
	p := &port{}
	o.ports = append(o.ports, p)
	return p, nil
}

func (o *opener) last() *port {
	return o.ports[len(o.ports)-1]
}

func TestOpen(t *testing.T) {
	o := &opener{}
	b, err := periphspi.Open(o.open)
	require.Nil(t, err)
	require.Len(t, o.ports, 1)
	p := o.last()
	assert.Equal(t, 100*physic.KiloHertz, p.freq)
	assert.Equal(t, spi.Mode0, p.mode)
	assert.Equal(t, 8, p.bits)
	f, err := b.Frequency()
	assert.Nil(t, err)
	assert.Equal(t, 100000, f)
}

func TestOpenError(t *testing.T) {
	b, err := periphspi.Open(func() (spi.PortCloser, error) {
		return nil, errors.New("no such port")
	})
	assert.NotNil(t, err)
	assert.Nil(t, b)
}

func TestInit(t *testing.T) {
	o := &opener{}
	b, err := periphspi.Open(o.open)
	require.Nil(t, err)
	first := o.last()

	err = b.Init(microcontroller.SPIConfig{
		Baudrate: 2000000, Polarity: 1, Phase: 0, Bits: 16, FirstBit: microcontroller.LSB,
	})
	require.Nil(t, err)
	assert.True(t, first.closed)
	require.Len(t, o.ports, 2)
	p := o.last()
	assert.Equal(t, 2*physic.MegaHertz, p.freq)
	assert.Equal(t, spi.Mode2|spi.LSBFirst, p.mode)
	assert.Equal(t, 16, p.bits)
	f, err := b.Frequency()
	assert.Nil(t, err)
	assert.Equal(t, 2000000, f)
}

func TestTransfers(t *testing.T) {
	o := &opener{}
	b, err := periphspi.Open(o.open)
	require.Nil(t, err)

	require.Nil(t, b.Write([]byte{1, 2, 3, 4}, 1, 3))
	buf := make([]byte, 4)
	require.Nil(t, b.Readinto(buf, 1, 4, 0x5a))
	assert.Equal(t, []byte{0, 0x5a, 0x5a, 0x5a}, buf)
	in := make([]byte, 3)
	require.Nil(t, b.WriteReadinto([]byte{7, 8, 9}, in, 0, 2, 1, 3))
	assert.Equal(t, []byte{0, 7, 8}, in)
	assert.Equal(t, [][]byte{{2, 3}, {0x5a, 0x5a, 0x5a}, {7, 8}}, o.last().written)
}

func TestClose(t *testing.T) {
	o := &opener{}
	b, err := periphspi.Open(o.open)
	require.Nil(t, err)
	require.Nil(t, b.Close())
	assert.True(t, o.last().closed)
	assert.Nil(t, b.Close())

	assert.NotNil(t, b.Write([]byte{1}, 0, 1))
	_, err = b.Frequency()
	assert.NotNil(t, err)
}

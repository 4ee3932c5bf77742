// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/busio"
	"github.com/warthog618/go-blinka/microcontroller"
)

var (
	spiBaudrate int
	spiMode     int
	spiBits     int
	spiLSB      bool
)

var spiCmd = &cobra.Command{
	Use:   "spi",
	Short: "Transfer data over the default SPI bus",
}

var spiXferCmd = &cobra.Command{
	Use:   "xfer <hex>",
	Short: "Write bytes to the bus while reading the same number of bytes",
	Long: `Write the bytes, given in hex, to the default SPI bus and print the bytes
read back, also in hex.

Examples:
  blinka spi xfer 9f000000 --baudrate 1000000`,
	Args: cobra.ExactArgs(1),
	RunE: runSPIXfer,
}

func init() {
	rootCmd.AddCommand(spiCmd)
	spiCmd.AddCommand(spiXferCmd)

	spiXferCmd.Flags().IntVarP(&spiBaudrate, "baudrate", "b", 100000,
		"clock rate in Hz")
	spiXferCmd.Flags().IntVarP(&spiMode, "mode", "m", 0,
		"SPI mode (0-3)")
	spiXferCmd.Flags().IntVar(&spiBits, "bits", 8,
		"bits per word")
	spiXferCmd.Flags().BoolVar(&spiLSB, "lsb", false,
		"shift the least significant bit first")
}

func runSPIXfer(cmd *cobra.Command, args []string) error {
	out, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return errors.Wrapf(blinka.ErrInvalidArgument, "data: %s", err)
	}
	if spiMode < 0 || spiMode > 3 {
		return errors.Wrapf(blinka.ErrInvalidArgument, "mode: %d", spiMode)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openBoard(cfg).SPI()
	if err != nil {
		return err
	}
	logger.Printf("spi on %+v", s.Pins())
	return blinka.With(s, func(s *busio.SPI) error {
		return withLock(s, func() error { return xfer(cmd, s, out) })
	})
}

type locker interface {
	TryLock() bool
	Unlock() error
}

// withLock calls fn while holding the lock.
//
// An error unlocking is returned if fn succeeds.
func withLock(l locker, fn func() error) (err error) {
	if !l.TryLock() {
		return errors.Wrap(blinka.ErrState, "spi: bus is locked")
	}
	defer func() {
		uerr := l.Unlock()
		if err == nil {
			err = errors.Wrap(uerr, "spi: unlock")
		} else if uerr != nil {
			logger.Printf("spi: unlock: %s", uerr)
		}
	}()
	return fn()
}

func xfer(cmd *cobra.Command, s *busio.SPI, out []byte) error {
	first := microcontroller.MSB
	if spiLSB {
		first = microcontroller.LSB
	}
	err := s.Configure(
		busio.WithBaudrate(spiBaudrate),
		busio.WithPolarity(spiMode>>1),
		busio.WithPhase(spiMode&1),
		busio.WithBits(spiBits),
		busio.WithFirstBit(first))
	if err != nil {
		return err
	}
	if f, err := s.Frequency(); err == nil {
		logger.Printf("clock %d Hz", f)
	}
	in := make([]byte, len(out))
	if err := s.WriteReadinto(out, in, 0, -1, 0, -1); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(in))
	return nil
}

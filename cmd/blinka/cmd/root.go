// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package cmd implements the commands of the blinka tool.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/warthog618/go-blinka/board"
	"github.com/warthog618/go-blinka/internal/config"
	"github.com/warthog618/go-blinka/platform"
)

var (
	// Global flags
	verbose    bool
	configPath string
	simulate   bool

	logger = log.New(io.Discard, "blinka: ", 0)
)

var rootCmd = &cobra.Command{
	Use:   "blinka",
	Short: "Platform detection, digital I/O and SPI for single-board computers",
	Long: `A tool to identify the platform it is running on, and to drive its pins
and SPI bus.

Examples:
  blinka detect                       # Identify the board and chip
  blinka gpio get 17 --pull up        # Read a pin
  blinka gpio set LED 1               # Drive a pin, using an alias from the config
  blinka spi xfer 9f000000            # Read a flash JEDEC id
  blinka --sim spi xfer deadbeef      # Loopback on the simulated bus`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetOutput(os.Stderr)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&simulate, "sim", false, "use a simulated platform")
}

// loadConfig returns the configuration, or an empty one if none is provided.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return &config.Config{}, nil
	}
	logger.Printf("loading config from %s", configPath)
	return config.Load(configPath)
}

// openBoard returns the board to operate on, either simulated or detected.
func openBoard(cfg *config.Config) *board.Board {
	if simulate {
		logger.Print("using simulated platform")
		return newSimBoard()
	}
	detected := platform.Detect()
	logger.Printf("detected %s", detected)
	return board.New(cfg.BoardOptions(detected)...)
}

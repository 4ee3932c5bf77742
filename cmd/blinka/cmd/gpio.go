// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/digitalio"
)

var (
	gpioPull      string
	gpioOpenDrain bool
)

var gpioCmd = &cobra.Command{
	Use:   "gpio",
	Short: "Read and drive pins",
}

var gpioGetCmd = &cobra.Command{
	Use:   "get <pin>",
	Short: "Read the level of a pin",
	Long: `Read the level of a pin, as an input.

The pin may be an alias from the config, a number, or a platform specific
name such as a line name.`,
	Args: cobra.ExactArgs(1),
	RunE: runGPIOGet,
}

var gpioSetCmd = &cobra.Command{
	Use:   "set <pin> <0|1>",
	Short: "Drive a pin to a level",
	Args:  cobra.ExactArgs(2),
	RunE:  runGPIOSet,
}

func init() {
	rootCmd.AddCommand(gpioCmd)
	gpioCmd.AddCommand(gpioGetCmd, gpioSetCmd)

	gpioGetCmd.Flags().StringVarP(&gpioPull, "pull", "p", "none",
		"internal pull (none, up or down)")
	gpioSetCmd.Flags().BoolVar(&gpioOpenDrain, "open-drain", false,
		"drive the pin open-drain")
}

func parsePull(s string) (digitalio.Pull, error) {
	switch s {
	case "none", "":
		return digitalio.PullNone, nil
	case "up":
		return digitalio.PullUp, nil
	case "down":
		return digitalio.PullDown, nil
	}
	return digitalio.PullNone, errors.Wrapf(blinka.ErrInvalidArgument, "unknown pull: %s", s)
}

func parseLevel(s string) (bool, error) {
	switch s {
	case "0", "low":
		return false, nil
	case "1", "high":
		return true, nil
	}
	return false, errors.Wrapf(blinka.ErrInvalidArgument, "unknown level: %s", s)
}

// openPin returns the named pin as a DigitalInOut.
func openPin(name string) (*digitalio.DigitalInOut, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	id := cfg.PinID(name)
	logger.Printf("pin %s resolves to %v", name, id)
	p, err := openBoard(cfg).Pin(id)
	if err != nil {
		return nil, err
	}
	return digitalio.New(p)
}

func runGPIOGet(cmd *cobra.Command, args []string) error {
	pull, err := parsePull(gpioPull)
	if err != nil {
		return err
	}
	dio, err := openPin(args[0])
	if err != nil {
		return err
	}
	return blinka.With(dio, func(dio *digitalio.DigitalInOut) error {
		if err := dio.SwitchToInput(digitalio.WithPull(pull)); err != nil {
			return err
		}
		v, err := dio.Value()
		if err != nil {
			return err
		}
		level := 0
		if v {
			level = 1
		}
		fmt.Fprintln(cmd.OutOrStdout(), level)
		return nil
	})
}

func runGPIOSet(cmd *cobra.Command, args []string) error {
	v, err := parseLevel(args[1])
	if err != nil {
		return err
	}
	mode := digitalio.PushPull
	if gpioOpenDrain {
		mode = digitalio.OpenDrain
	}
	dio, err := openPin(args[0])
	if err != nil {
		return err
	}
	return blinka.With(dio, func(dio *digitalio.DigitalInOut) error {
		logger.Printf("driving %s %v, %s", args[0], v, mode)
		return dio.SwitchToOutput(digitalio.WithValue(v), digitalio.WithDriveMode(mode))
	})
}

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package digitalio

// OutputOption defines the interface required to provide an option to
// SwitchToOutput.
type OutputOption interface {
	applyOutputOption(*outputConfig)
}

// InputOption defines the interface required to provide an option to
// SwitchToInput.
type InputOption interface {
	applyInputOption(*inputConfig)
}

type outputConfig struct {
	value     bool
	driveMode DriveMode
}

type inputConfig struct {
	pull Pull
}

// ValueOption is an option that sets the initial value of an output.
type ValueOption bool

// WithValue returns an option that sets the initial value of an output.
func WithValue(v bool) ValueOption {
	return ValueOption(v)
}

func (o ValueOption) applyOutputOption(c *outputConfig) {
	c.value = bool(o)
}

func (o DriveMode) applyOutputOption(c *outputConfig) {
	c.driveMode = o
}

// WithDriveMode returns an option that sets the drive mode of an output.
func WithDriveMode(m DriveMode) DriveMode {
	return m
}

func (o Pull) applyInputOption(c *inputConfig) {
	c.pull = o
}

// WithPull returns an option that sets the pull of an input.
func WithPull(p Pull) Pull {
	return p
}

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package digitalio provides digital input and output control of pins,
// compatible with the CircuitPython digitalio module.
package digitalio

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
	"github.com/warthog618/go-blinka/microcontroller"
)

// Direction is the direction of a DigitalInOut.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "Direction.INPUT"
	case Output:
		return "Direction.OUTPUT"
	}
	return "Direction(?)"
}

// Pull is the bias applied to an input.
type Pull int

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullNone:
		return "None"
	case PullUp:
		return "Pull.UP"
	case PullDown:
		return "Pull.DOWN"
	}
	return "Pull(?)"
}

// DriveMode is the electrical behaviour of an output.
type DriveMode int

const (
	PushPull DriveMode = iota
	OpenDrain
)

func (m DriveMode) String() string {
	switch m {
	case PushPull:
		return "DriveMode.PUSH_PULL"
	case OpenDrain:
		return "DriveMode.OPEN_DRAIN"
	}
	return "DriveMode(?)"
}

// DigitalInOut controls the direction, pull, drive mode and value of a pin.
//
// The pull is only accessible while the direction is Input, and the drive mode
// only while the direction is Output.  Changing any of those reconfigures the
// backing pin immediately.  If reconfiguration fails the previous state is
// retained, unless the pin could not be restored, in which case only setting
// the direction is permitted.
//
// A DigitalInOut is not safe for concurrent use.
type DigitalInOut struct {
	pin       *microcontroller.Pin
	direction Direction
	pull      Pull
	driveMode DriveMode
}

// New creates a DigitalInOut for the pin, configured as an input with no
// pull.
//
// Only the id and driver of the provided pin are used; the DigitalInOut
// creates and owns its own Pin.
func New(p *microcontroller.Pin) (*DigitalInOut, error) {
	if p == nil {
		return nil, errors.Wrap(blinka.ErrConfiguration, "no pin")
	}
	d := &DigitalInOut{pin: microcontroller.NewPin(p.Driver(), p.ID())}
	if err := d.SetDirection(Input); err != nil {
		return nil, err
	}
	return d, nil
}

// Deinit releases the backing pin.
//
// The DigitalInOut cannot be used afterwards.
func (d *DigitalInOut) Deinit() error {
	if d.pin == nil {
		return errors.Wrap(blinka.ErrState, "already deinitialized")
	}
	err := d.pin.Deinit()
	d.pin = nil
	return err
}

// SwitchToOutput sets the direction to Output.
//
// The value and drive mode default to false and PushPull, and may be set
// using [WithValue] and [WithDriveMode].
func (d *DigitalInOut) SwitchToOutput(options ...OutputOption) error {
	cfg := outputConfig{driveMode: PushPull}
	for _, o := range options {
		o.applyOutputOption(&cfg)
	}
	if err := d.checkLive(); err != nil {
		return err
	}
	mode, err := outputMode(cfg.driveMode)
	if err != nil {
		return err
	}
	if err := d.pin.Init(mode, microcontroller.PullNone); err != nil {
		return err
	}
	d.direction = Output
	d.driveMode = cfg.driveMode
	return d.pin.SetValue(level(cfg.value))
}

// SwitchToInput sets the direction to Input.
//
// The pull defaults to PullNone, and may be set using [WithPull].
func (d *DigitalInOut) SwitchToInput(options ...InputOption) error {
	cfg := inputConfig{pull: PullNone}
	for _, o := range options {
		o.applyInputOption(&cfg)
	}
	if err := d.checkLive(); err != nil {
		return err
	}
	return d.initInput(cfg.pull)
}

// Direction returns the current direction.
func (d *DigitalInOut) Direction() Direction {
	return d.direction
}

// SetDirection sets the direction, reconfiguring the pin.
//
// Switching to Output drives the pin low with PushPull, and switching to
// Input removes any pull.  The pin is reconfigured even if the direction is
// unchanged.
func (d *DigitalInOut) SetDirection(dir Direction) error {
	if err := d.checkLive(); err != nil {
		return err
	}
	switch dir {
	case Output:
		return d.SwitchToOutput()
	case Input:
		return d.initInput(PullNone)
	}
	return errors.Wrapf(blinka.ErrInvalidArgument, "not a Direction: %d", int(dir))
}

// Value returns the level of the pin.
//
// The value is readable in either direction.
func (d *DigitalInOut) Value() (bool, error) {
	if err := d.checkReady(); err != nil {
		return false, err
	}
	v, err := d.pin.Value()
	if err != nil {
		return false, err
	}
	return v == microcontroller.High, nil
}

// SetValue sets the level the output is driven to.
//
// The direction must be Output.
func (d *DigitalInOut) SetValue(v bool) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if d.direction != Output {
		return errors.Wrap(blinka.ErrState, "not an output")
	}
	return d.pin.SetValue(level(v))
}

// Pull returns the pull applied to the input.
//
// The direction must be Input.
func (d *DigitalInOut) Pull() (Pull, error) {
	if err := d.checkReady(); err != nil {
		return PullNone, err
	}
	if d.direction != Input {
		return PullNone, errors.Wrap(blinka.ErrState, "not an input")
	}
	return d.pull, nil
}

// SetPull sets the pull applied to the input, reconfiguring the pin.
//
// The direction must be Input.
func (d *DigitalInOut) SetPull(p Pull) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if d.direction != Input {
		return errors.Wrap(blinka.ErrState, "not an input")
	}
	return d.initInput(p)
}

// DriveMode returns the drive mode of the output.
//
// The direction must be Output.
func (d *DigitalInOut) DriveMode() (DriveMode, error) {
	if err := d.checkReady(); err != nil {
		return PushPull, err
	}
	if d.direction != Output {
		return PushPull, errors.Wrap(blinka.ErrState, "not an output")
	}
	return d.driveMode, nil
}

// SetDriveMode sets the drive mode of the output, reconfiguring the pin.
//
// The direction must be Output.  The level the output is driven to is
// preserved.
func (d *DigitalInOut) SetDriveMode(m DriveMode) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if d.direction != Output {
		return errors.Wrap(blinka.ErrState, "not an output")
	}
	mode, err := outputMode(m)
	if err != nil {
		return err
	}
	v, err := d.pin.Value()
	if err != nil {
		return err
	}
	if err := d.pin.Init(mode, microcontroller.PullNone); err != nil {
		return err
	}
	d.driveMode = m
	if v != microcontroller.Low {
		return d.pin.SetValue(v)
	}
	return nil
}

// initInput reconfigures the pin as an input with the pull.
//
// The recorded state is only updated once the pin has been reconfigured.
func (d *DigitalInOut) initInput(p Pull) error {
	var pull microcontroller.Pull
	switch p {
	case PullNone:
		pull = microcontroller.PullNone
	case PullUp:
		pull = microcontroller.PullUp
	case PullDown:
		pull = microcontroller.PullDown
	default:
		return errors.Wrapf(blinka.ErrInvalidArgument, "not a Pull: %d", int(p))
	}
	if err := d.pin.Init(microcontroller.ModeInput, pull); err != nil {
		return err
	}
	d.direction = Input
	d.pull = p
	return nil
}

func (d *DigitalInOut) checkLive() error {
	if d.pin == nil {
		return errors.Wrap(blinka.ErrState, "deinitialized")
	}
	return nil
}

// checkReady checks the pin is still configured, as a failed
// reconfiguration may leave it released.  Setting the direction recovers it.
func (d *DigitalInOut) checkReady() error {
	if err := d.checkLive(); err != nil {
		return err
	}
	if d.pin.Mode() == microcontroller.ModeUnset {
		return errors.Wrapf(blinka.ErrState, "%s released by failed reconfiguration", d.pin)
	}
	return nil
}

func outputMode(m DriveMode) (microcontroller.Mode, error) {
	switch m {
	case PushPull:
		return microcontroller.ModeOutput, nil
	case OpenDrain:
		return microcontroller.ModeOpenDrain, nil
	}
	return microcontroller.ModeUnset, errors.Wrapf(blinka.ErrInvalidArgument, "not a DriveMode: %d", int(m))
}

func level(v bool) int {
	if v {
		return microcontroller.High
	}
	return microcontroller.Low
}

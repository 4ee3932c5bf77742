// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package fake provides an in-memory backend, for testing users of the
// microcontroller interfaces without hardware.
//
// Pins simulate an external level which inputs read, and which is overridden
// by internal pulls.  Outputs record every level written to them.
package fake

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka/microcontroller"
)

// Driver is a fake microcontroller.Driver.
type Driver struct {
	mu      sync.Mutex
	name    string
	caps    microcontroller.Capabilities
	samples map[any][]int
	ext     map[any]int
	lines   map[any]*Line
	adcs    map[any]*ADC
	dacs    map[any]*DAC
	opens   map[any]int
	openErr error

	// fails remaining opens with openErr, or all opens if negative.
	openFails int
}

// NewDriver creates a fake Driver.
//
// By default the driver supports pull-ups, pull-downs and open-drain, and has
// no analog pins.  The available options are [WithName],
// [WithCapabilities] and [WithSamples].
func NewDriver(options ...DriverOption) *Driver {
	d := &Driver{
		name: "fake",
		caps: microcontroller.Capabilities{
			PullUp:    true,
			PullDown:  true,
			OpenDrain: true,
		},
		samples: make(map[any][]int),
		ext:     make(map[any]int),
		lines:   make(map[any]*Line),
		adcs:    make(map[any]*ADC),
		dacs:    make(map[any]*DAC),
		opens:   make(map[any]int),
	}
	for _, o := range options {
		o.applyDriverOption(d)
	}
	return d
}

// Name implements microcontroller.Driver.
func (d *Driver) Name() string {
	return d.name
}

// Capabilities implements microcontroller.Driver.
func (d *Driver) Capabilities() microcontroller.Capabilities {
	return d.caps
}

// OpenLine implements microcontroller.Driver.
func (d *Driver) OpenLine(id any, mode microcontroller.Mode, pull microcontroller.Pull) (microcontroller.Line, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(id); err != nil {
		return nil, err
	}
	l := &Line{d: d, id: id, mode: mode, pull: pull}
	d.lines[id] = l
	d.opens[id]++
	return l, nil
}

// OpenADC implements microcontroller.Driver.
func (d *Driver) OpenADC(id any) (microcontroller.ADC, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(id); err != nil {
		return nil, err
	}
	a := &ADC{samples: d.samples[id]}
	d.adcs[id] = a
	d.opens[id]++
	return a, nil
}

// OpenDAC implements microcontroller.Driver.
func (d *Driver) OpenDAC(id any) (microcontroller.DAC, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(id); err != nil {
		return nil, err
	}
	a := &DAC{}
	d.dacs[id] = a
	d.opens[id]++
	return a, nil
}

func (d *Driver) checkOpen(id any) error {
	if d.openErr != nil && d.openFails != 0 {
		if d.openFails > 0 {
			d.openFails--
		}
		return d.openErr
	}
	if l, ok := d.lines[id]; ok && !l.closed {
		return errors.Errorf("%v already in use", id)
	}
	if a, ok := d.adcs[id]; ok && !a.closed {
		return errors.Errorf("%v already in use as ADC", id)
	}
	if a, ok := d.dacs[id]; ok && !a.closed {
		return errors.Errorf("%v already in use as DAC", id)
	}
	return nil
}

// FailOpen causes subsequent opens to fail with the error, or to succeed
// again if err is nil.
func (d *Driver) FailOpen(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.openErr = err
	d.openFails = -1
}

// FailNextOpen causes only the next open to fail with the error.
func (d *Driver) FailNextOpen(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.openErr = err
	d.openFails = 1
}

// Line returns the line most recently opened for the id, or nil if none has
// been opened.
func (d *Driver) Line(id any) *Line {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lines[id]
}

// ADC returns the ADC most recently opened for the id.
func (d *Driver) ADC(id any) *ADC {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.adcs[id]
}

// DAC returns the DAC most recently opened for the id.
func (d *Driver) DAC(id any) *DAC {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dacs[id]
}

// Opens returns the number of times the id has been opened.
func (d *Driver) Opens(id any) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens[id]
}

// SetExternal sets the level the pin is driven to externally.
//
// Inputs without a pull read the external level.
func (d *Driver) SetExternal(id any, level int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ext[id] = level
}

// Line is a fake microcontroller.Line.
type Line struct {
	d      *Driver
	id     any
	mode   microcontroller.Mode
	pull   microcontroller.Pull
	level  int
	writes []int
	closed bool
}

// State implements microcontroller.Line.
func (l *Line) State() (int, error) {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	if l.closed {
		return 0, errors.New("line closed")
	}
	if l.mode != microcontroller.ModeInput {
		return l.level, nil
	}
	switch l.pull {
	case microcontroller.PullUp:
		return microcontroller.High, nil
	case microcontroller.PullDown:
		return microcontroller.Low, nil
	}
	return l.d.ext[l.id], nil
}

// SetState implements microcontroller.Line.
func (l *Line) SetState(level int) error {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	if l.closed {
		return errors.New("line closed")
	}
	if l.mode == microcontroller.ModeInput {
		return errors.Errorf("%v is an input", l.id)
	}
	l.level = level
	l.writes = append(l.writes, level)
	return nil
}

// Close implements microcontroller.Line.
func (l *Line) Close() error {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	if l.closed {
		return errors.New("line already closed")
	}
	l.closed = true
	return nil
}

// Mode returns the mode the line was opened with.
func (l *Line) Mode() microcontroller.Mode {
	return l.mode
}

// Pull returns the pull the line was opened with.
func (l *Line) Pull() microcontroller.Pull {
	return l.pull
}

// Writes returns the levels written to the line, in order.
func (l *Line) Writes() []int {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	return append([]int(nil), l.writes...)
}

// Closed returns true if the line has been closed.
func (l *Line) Closed() bool {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	return l.closed
}

func (l *Line) String() string {
	return fmt.Sprintf("fake line %v (%s)", l.id, l.mode)
}

// ADC is a fake microcontroller.ADC.
type ADC struct {
	samples []int
	closed  bool
}

// ReadSamples implements microcontroller.ADC.
func (a *ADC) ReadSamples() ([]int, error) {
	return append([]int(nil), a.samples...), nil
}

// Close implements microcontroller.ADC.
func (a *ADC) Close() error {
	a.closed = true
	return nil
}

// Closed returns true if the ADC has been closed.
func (a *ADC) Closed() bool {
	return a.closed
}

// DAC is a fake microcontroller.DAC.
type DAC struct {
	initialized bool
	values      []int
	closed      bool
}

// Initialize implements microcontroller.DAC.
func (a *DAC) Initialize() error {
	a.initialized = true
	return nil
}

// SetValue implements microcontroller.DAC.
func (a *DAC) SetValue(v int) error {
	if !a.initialized {
		return errors.New("dac not initialized")
	}
	a.values = append(a.values, v)
	return nil
}

// Close implements microcontroller.DAC.
func (a *DAC) Close() error {
	a.closed = true
	return nil
}

// Initialized returns true if the DAC has been initialized.
func (a *DAC) Initialized() bool {
	return a.initialized
}

// Closed returns true if the DAC has been closed.
func (a *DAC) Closed() bool {
	return a.closed
}

// Values returns the values written to the DAC, in order.
func (a *DAC) Values() []int {
	return append([]int(nil), a.values...)
}

var (
	_ microcontroller.Driver = (*Driver)(nil)
	_ microcontroller.Line   = (*Line)(nil)
	_ microcontroller.ADC    = (*ADC)(nil)
	_ microcontroller.DAC    = (*DAC)(nil)
)

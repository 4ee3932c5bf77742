// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package gpiosim provides a simulated gpiochip, using the Linux gpio-sim
// kernel module, for testing the character device backend without hardware.
//
// Creating a Sim requires permission to write to configfs, so typically root.
package gpiosim

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrUnavailable indicates the gpio-sim module cannot be found or loaded.
var ErrUnavailable = errors.New("gpio-sim unavailable")

// Sim is a live simulated gpiochip.
//
// Lines are identified by offset, in the range 0..NumLines-1.
type Sim struct {
	name     string
	label    string
	numLines int
	names    map[int]string
	hogs     map[int]string

	// configfs directory of the simulator.
	cfgPath string

	// sysfs directory of the chip.
	sysPath string

	chipName string
}

// NewSim creates a simulated chip and takes it live.
//
// The chip has 8 lines unless set using [WithNumLines].  The other options
// are [WithName], [WithLabel], [WithNamedLine] and [WithHoggedLine].
//
// Returns an error wrapping ErrUnavailable if gpio-sim is not available.
func NewSim(options ...Option) (*Sim, error) {
	s := &Sim{
		label:    "blinka",
		numLines: 8,
		names:    make(map[int]string),
		hogs:     make(map[int]string),
	}
	for _, o := range options {
		o.applyOption(s)
	}
	if s.name == "" {
		s.name = uniqueName()
	}
	root, err := configfsRoot()
	if err != nil {
		return nil, err
	}
	s.cfgPath = path.Join(root, s.name)
	if _, err := os.Stat(s.cfgPath); err == nil {
		return nil, errors.Errorf("sim '%s' already exists", s.name)
	}
	if err := s.goLive(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sim) goLive() error {
	bank := path.Join(s.cfgPath, "bank0")
	if err := os.MkdirAll(bank, 0755); err != nil {
		return err
	}
	if err := writeAttr(bank, "label", s.label); err != nil {
		return err
	}
	if err := writeAttr(bank, "num_lines", fmt.Sprint(s.numLines)); err != nil {
		return err
	}
	for o, n := range s.names {
		dir := path.Join(bank, fmt.Sprintf("line%d", o))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		if err := writeAttr(dir, "name", n); err != nil {
			return err
		}
	}
	for o, c := range s.hogs {
		dir := path.Join(bank, fmt.Sprintf("line%d", o), "hog")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		if err := writeAttr(dir, "name", c); err != nil {
			return err
		}
		if err := writeAttr(dir, "direction", "input"); err != nil {
			return err
		}
	}
	if err := writeAttr(s.cfgPath, "live", "1"); err != nil {
		return errors.Wrap(err, "go live")
	}
	devName, err := readAttr(s.cfgPath, "dev_name")
	if err != nil {
		return err
	}
	s.chipName, err = readAttr(bank, "chip_name")
	if err != nil {
		return err
	}
	dev := s.DevPath()
	stat, err := os.Lstat(dev)
	if err != nil {
		return err
	}
	if stat.Mode()&fs.ModeSymlink != 0 {
		return errors.Errorf("symlink %s masks the simulated chip", dev)
	}
	s.sysPath = path.Join("/sys/devices/platform", devName, s.chipName)
	return nil
}

// Close takes the chip offline and removes the simulator.
func (s *Sim) Close() error {
	if s.cfgPath == "" {
		return nil
	}
	err := writeAttr(s.cfgPath, "live", "0")
	bank := path.Join(s.cfgPath, "bank0")
	for o := range s.hogs {
		os.Remove(path.Join(bank, fmt.Sprintf("line%d", o), "hog"))
	}
	for o := range s.hogs {
		os.Remove(path.Join(bank, fmt.Sprintf("line%d", o)))
	}
	for o := range s.names {
		os.Remove(path.Join(bank, fmt.Sprintf("line%d", o)))
	}
	os.Remove(bank)
	os.Remove(s.cfgPath)
	s.cfgPath = ""
	return err
}

// Name returns the name of the simulator in configfs.
func (s *Sim) Name() string {
	return s.name
}

// Label returns the label of the chip.
func (s *Sim) Label() string {
	return s.label
}

// NumLines returns the number of lines on the chip.
func (s *Sim) NumLines() int {
	return s.numLines
}

// ChipName returns the name of the chip, e.g. "gpiochip3".
func (s *Sim) ChipName() string {
	return s.chipName
}

// DevPath returns the path to the chip device, e.g. "/dev/gpiochip3".
func (s *Sim) DevPath() string {
	return path.Join("/dev", s.chipName)
}

// Level returns the level of the line.
//
// For an output this is the level the line is driven to, and for an input
// it is the simulated pull.
func (s *Sim) Level(offset int) (int, error) {
	v, err := s.lineAttr(offset, "value")
	if err != nil {
		return 0, err
	}
	switch v {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	}
	return 0, errors.Errorf("unexpected value: %s", v)
}

// SetPull sets the external pull of the line, 1 for up and 0 for down.
func (s *Sim) SetPull(offset, level int) error {
	v := "pull-down"
	if level != 0 {
		v = "pull-up"
	}
	return writeAttr(s.linePath(offset), "pull", v)
}

func (s *Sim) linePath(offset int) string {
	return path.Join(s.sysPath, fmt.Sprintf("sim_gpio%d", offset))
}

func (s *Sim) lineAttr(offset int, name string) (string, error) {
	return readAttr(s.linePath(offset), name)
}

func readAttr(dir, name string) (string, error) {
	b, err := os.ReadFile(path.Join(dir, name))
	return strings.TrimSpace(string(b)), err
}

func writeAttr(dir, name, value string) error {
	return os.WriteFile(path.Join(dir, name), []byte(value), 0644)
}

// configfsRoot returns the gpio-sim directory in configfs, loading the module
// if necessary.
func configfsRoot() (string, error) {
	const dflt = "/sys/kernel/config/gpio-sim"
	if _, err := os.Stat(dflt); err == nil {
		return dflt, nil
	}
	if err := exec.Command("modprobe", "gpio-sim").Run(); err == nil {
		if _, err := os.Stat(dflt); err == nil {
			return dflt, nil
		}
	}
	if mnt, err := configfsMount(); err == nil {
		p := path.Join(mnt, "gpio-sim")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.Wrap(ErrUnavailable, "module not loaded")
}

func configfsMount() (string, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return "", err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 3 && fields[2] == "configfs" {
			return fields[1], nil
		}
	}
	return "", errors.New("configfs not mounted")
}

var simCount uint32

func uniqueName() string {
	app := "blinka"
	if exe, err := os.Executable(); err == nil {
		app = path.Base(exe)
	}
	return fmt.Sprintf("%s-p%d-%d", app, os.Getpid(), atomic.AddUint32(&simCount, 1))
}

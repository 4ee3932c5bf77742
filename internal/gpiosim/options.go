// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosim

// Option defines the interface required to provide an option to NewSim.
type Option interface {
	applyOption(*Sim)
}

// NameOption defines the name of a Sim in configfs.
type NameOption string

// WithName returns an option that defines the name of the Sim.
//
// The name must be unique on the system, so is generated if not provided.
func WithName(name string) NameOption {
	return NameOption(name)
}

func (o NameOption) applyOption(s *Sim) {
	s.name = string(o)
}

// LabelOption defines the label of the simulated chip.
type LabelOption string

// WithLabel returns an option that sets the label reported by the chip.
func WithLabel(label string) LabelOption {
	return LabelOption(label)
}

func (o LabelOption) applyOption(s *Sim) {
	s.label = string(o)
}

// NumLinesOption sets the number of lines on the chip.
type NumLinesOption int

// WithNumLines returns an option that sets the number of lines simulated.
func WithNumLines(n int) NumLinesOption {
	return NumLinesOption(n)
}

func (o NumLinesOption) applyOption(s *Sim) {
	s.numLines = int(o)
}

// NamedLine is an option that names a line.
type NamedLine struct {
	Offset int
	Name   string
}

// WithNamedLine returns an option that names a simulated line.
func WithNamedLine(offset int, name string) NamedLine {
	return NamedLine{offset, name}
}

func (o NamedLine) applyOption(s *Sim) {
	s.names[o.Offset] = o.Name
}

// HoggedLine is an option that makes a line appear in use.
type HoggedLine struct {
	Offset   int
	Consumer string
}

// WithHoggedLine returns an option that hogs a simulated line as an input,
// so it cannot be requested.
func WithHoggedLine(offset int, consumer string) HoggedLine {
	return HoggedLine{offset, consumer}
}

func (o HoggedLine) applyOption(s *Sim) {
	s.hogs[o.Offset] = o.Consumer
}

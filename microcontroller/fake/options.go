// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package fake

import "github.com/warthog618/go-blinka/microcontroller"

// DriverOption defines the interface required to provide an option to
// NewDriver.
type DriverOption interface {
	applyDriverOption(*Driver)
}

// NameOption is an option that names the Driver.
type NameOption string

// WithName returns an option that sets the name reported by the Driver.
func WithName(name string) NameOption {
	return NameOption(name)
}

func (o NameOption) applyDriverOption(d *Driver) {
	d.name = string(o)
}

// CapabilitiesOption is an option that defines the capabilities of the
// Driver.
type CapabilitiesOption microcontroller.Capabilities

// WithCapabilities returns an option that replaces the default capabilities.
func WithCapabilities(caps microcontroller.Capabilities) CapabilitiesOption {
	return CapabilitiesOption(caps)
}

func (o CapabilitiesOption) applyDriverOption(d *Driver) {
	d.caps = microcontroller.Capabilities(o)
}

// SamplesOption is an option that defines the samples returned by an ADC.
type SamplesOption struct {
	id      any
	samples []int
}

// WithSamples returns an option that sets the samples read from the ADC on
// the pin.
//
// The pin is not added to the ADC capable pins; use WithCapabilities for that.
func WithSamples(id any, samples ...int) SamplesOption {
	return SamplesOption{id, samples}
}

func (o SamplesOption) applyDriverOption(d *Driver) {
	d.samples[o.id] = o.samples
}

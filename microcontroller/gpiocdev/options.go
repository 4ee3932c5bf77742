// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocdev

// DriverOption defines the interface required to provide an option to
// NewDriver.
type DriverOption interface {
	applyDriverOption(*Driver)
}

// ChipOption sets the default chip.
type ChipOption string

// WithChip returns an option that sets the chip used for pins identified by
// offset alone.
func WithChip(name string) ChipOption {
	return ChipOption(name)
}

func (o ChipOption) applyDriverOption(d *Driver) {
	d.chip = string(o)
}

// ConsumerOption sets the consumer label of requested lines.
type ConsumerOption string

// WithConsumer returns an option that sets the consumer label reported for
// requested lines.
func WithConsumer(name string) ConsumerOption {
	return ConsumerOption(name)
}

func (o ConsumerOption) applyDriverOption(d *Driver) {
	d.consumer = string(o)
}

// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package blinka

import "github.com/pkg/errors"

// The error taxonomy shared by all packages in the module.
//
// Errors returned by the module wrap one of these with context, so callers
// should test for them using errors.Is.
var (
	// ErrConfiguration indicates a missing or invalid identifier or argument.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidArgument indicates an argument outside the set of values
	// accepted by an operation, such as an unknown mode or enum value.
	//
	// It is a refinement of ErrConfiguration.
	ErrInvalidArgument = errors.WithMessage(ErrConfiguration, "invalid argument")

	// ErrUnsupportedFeature indicates the platform lacks a requested
	// capability, e.g. a pull-down, an ADC on the pin, or frequency reporting.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrUnsupportedPlatform indicates no backend driver matches the detected
	// board and chip, or the matching backend is not implemented.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrState indicates the operation is not valid in the current state,
	// such as unlocking an unlocked bus or writing the value of an input.
	ErrState = errors.New("invalid state")

	// ErrInternal indicates an unreachable combination of internal state.
	ErrInternal = errors.New("internal error")
)

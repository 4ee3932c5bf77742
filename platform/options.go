// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package platform

import "io/fs"

// DetectorOption defines the interface required to provide an option to
// NewDetector.
type DetectorOption interface {
	applyDetectorOption(*Detector)
}

// FSOption provides the filesystem the Detector reads platform identity from.
type FSOption struct {
	fsys fs.FS
}

// WithFS returns an option that sets the root filesystem read by the Detector.
//
// Paths within the filesystem are relative to the root, e.g. "proc/cpuinfo".
func WithFS(fsys fs.FS) FSOption {
	return FSOption{fsys}
}

func (o FSOption) applyDetectorOption(d *Detector) {
	d.fsys = o.fsys
}

// EnvOption provides the environment lookup used by the Detector.
type EnvOption func(string) (string, bool)

// WithEnv returns an option that sets the function used to lookup
// environment variables, with the same semantics as os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) EnvOption {
	return EnvOption(lookup)
}

func (o EnvOption) applyDetectorOption(d *Detector) {
	d.lookup = o
}

// USBOption provides the USB enumerator used by the Detector.
type USBOption func() ([]USBID, error)

// WithUSB returns an option that sets the function used to enumerate
// attached USB devices.
func WithUSB(scan func() ([]USBID, error)) USBOption {
	return USBOption(scan)
}

func (o USBOption) applyDetectorOption(d *Detector) {
	d.usb = o
}

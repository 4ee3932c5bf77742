// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package platform

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"strings"
	"sync"
)

// Detector identifies the running platform.
//
// Detection is performed once, on the first call to Detect, and the result
// is returned by all subsequent calls.
type Detector struct {
	fsys   fs.FS
	lookup func(string) (string, bool)
	usb    func() ([]USBID, error)

	once sync.Once
	info Info
}

// NewDetector creates a Detector.
//
// By default the Detector reads the live system.  The available options are
// [WithFS], [WithEnv] and [WithUSB].
func NewDetector(options ...DetectorOption) *Detector {
	d := &Detector{
		fsys:   os.DirFS("/"),
		lookup: os.LookupEnv,
		usb:    ScanUSB,
	}
	for _, o := range options {
		o.applyDetectorOption(d)
	}
	return d
}

// Detect returns the identity of the platform.
func (d *Detector) Detect() Info {
	d.once.Do(func() {
		d.info = d.detect()
	})
	return d.info
}

var defaultDetector = NewDetector()

// Detect returns the identity of the running platform.
func Detect() Info {
	return defaultDetector.Detect()
}

// Environment variables that control detection.
const (
	EnvForceBoard = "BLINKA_FORCEBOARD"
	EnvForceChip  = "BLINKA_FORCECHIP"
	EnvFT232H     = "BLINKA_FT232H"
	EnvFT2232H    = "BLINKA_FT2232H"
	EnvNova       = "BLINKA_NOVA"
	EnvGreatFET   = "BLINKA_GREATFET"
	EnvU2IF       = "BLINKA_U2IF"
)

func (d *Detector) detect() Info {
	if b, ok := d.lookup(EnvForceBoard); ok && b != "" {
		c, _ := d.lookup(EnvForceChip)
		return Info{Board: BoardID(b), Chip: ChipID(c)}
	}
	if i, ok := d.detectUSB(); ok {
		return i
	}
	i := d.detectLinux()
	if c, ok := d.lookup(EnvForceChip); ok && c != "" {
		i.Chip = ChipID(c)
	}
	return i
}

// detectUSB checks for USB bridge boards.
//
// USB bridges are only considered if the user has opted in by setting the
// corresponding environment variable, as the bridge may be connected without
// being intended for use.
func (d *Detector) detectUSB() (Info, bool) {
	var want []knownUSBBoard
	for _, k := range knownUSBBoards {
		if v, ok := d.lookup(k.env); ok && v != "" && v != "0" {
			want = append(want, k)
		}
	}
	if len(want) == 0 {
		return Info{}, false
	}
	ids, err := d.usb()
	if err != nil {
		return Info{}, false
	}
	for _, k := range want {
		for _, id := range ids {
			if id == k.USBID {
				return k.Info, true
			}
		}
	}
	return Info{}, false
}

func (d *Detector) detectLinux() Info {
	cpuinfo, err := fs.ReadFile(d.fsys, "proc/cpuinfo")
	if err != nil {
		return Info{}
	}
	i := Info{Board: BoardGenericLinux, Chip: ChipGenericLinux}
	compatible, _ := fs.ReadFile(d.fsys, "proc/device-tree/compatible")
	if c := chipFromCompatible(compatible); c != ChipUnknown {
		i.Chip = c
	} else if c := chipFromCPUInfo(cpuinfo); c != ChipUnknown {
		i.Chip = c
	}
	model, _ := fs.ReadFile(d.fsys, "proc/device-tree/model")
	if b := boardFromModel(string(bytes.TrimRight(model, "\x00\n"))); b != BoardUnknown {
		i.Board = b
	}
	return i
}

var compatibleChips = []struct {
	prefix string
	chip   ChipID
}{
	{"brcm,bcm2835", ChipBCM2XXX},
	{"brcm,bcm2836", ChipBCM2XXX},
	{"brcm,bcm2837", ChipBCM2XXX},
	{"brcm,bcm2711", ChipBCM2XXX},
	{"brcm,bcm2712", ChipBCM2XXX},
	{"allwinner,sun8i", ChipSun8i},
	{"fsl,imx6ull", ChipIMX6ULL},
}

// chipFromCompatible maps the NUL separated device tree compatible strings to
// a chip.
func chipFromCompatible(compatible []byte) ChipID {
	for _, c := range bytes.Split(compatible, []byte{0}) {
		for _, k := range compatibleChips {
			if bytes.HasPrefix(c, []byte(k.prefix)) {
				return k.chip
			}
		}
	}
	return ChipUnknown
}

// chipFromCPUInfo maps the Hardware field of /proc/cpuinfo to a chip, for
// kernels that do not expose a device tree.
func chipFromCPUInfo(cpuinfo []byte) ChipID {
	scanner := bufio.NewScanner(bytes.NewReader(cpuinfo))
	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(k) != "Hardware" {
			continue
		}
		v = strings.ToLower(strings.TrimSpace(v))
		switch {
		case strings.HasPrefix(v, "bcm2"):
			return ChipBCM2XXX
		case strings.HasPrefix(v, "sun8i"):
			return ChipSun8i
		}
	}
	return ChipUnknown
}

func boardFromModel(model string) BoardID {
	switch {
	case strings.HasPrefix(model, "Raspberry Pi"):
		return BoardRaspberryPi
	case strings.Contains(model, "NanoPi"):
		return BoardNanoPi
	case strings.Contains(model, "LubanCat"):
		return BoardLubanCat
	}
	return BoardUnknown
}

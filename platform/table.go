// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package platform

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
)

// Entry is one row of a dispatch Table.
type Entry[F any] struct {
	// Name identifies the platform the entry serves.
	Name string

	// Match returns true if the entry applies to the platform.
	Match func(Info) bool

	// Factory is the backend factory for the platform.
	//
	// A nil Factory marks a platform that is recognised but for which no
	// backend is implemented.
	Factory *F
}

// Table is an ordered list of entries, mapping platforms to backend
// factories.
//
// Entries are evaluated in order, so board specific entries must precede chip
// family entries, which must precede any generic fallback.
type Table[F any] []Entry[F]

// Select returns the factory from the first entry matching the platform.
//
// If the first matching entry is not implemented, or if no entry matches,
// then an error wrapping blinka.ErrUnsupportedPlatform is returned.
func (t Table[F]) Select(i Info) (F, error) {
	var zero F
	e, ok := t.Match(i)
	if !ok {
		return zero, errors.Wrapf(blinka.ErrUnsupportedPlatform, "no backend for %s", i)
	}
	if e.Factory == nil {
		return zero, errors.Wrapf(blinka.ErrUnsupportedPlatform, "not implemented for %s", e.Name)
	}
	return *e.Factory, nil
}

// Match returns the first entry matching the platform.
func (t Table[F]) Match(i Info) (Entry[F], bool) {
	for _, e := range t {
		if e.Match(i) {
			return e, true
		}
	}
	return Entry[F]{}, false
}

// Implemented returns an entry that applies the factory to matching platforms.
func Implemented[F any](name string, match func(Info) bool, factory F) Entry[F] {
	return Entry[F]{Name: name, Match: match, Factory: &factory}
}

// Unimplemented returns an entry for a platform that is recognised but has no
// backend.
func Unimplemented[F any](name string, match func(Info) bool) Entry[F] {
	return Entry[F]{Name: name, Match: match}
}

// IsBoard returns a predicate matching the board.
func IsBoard(b BoardID) func(Info) bool {
	return func(i Info) bool { return i.IsBoard(b) }
}

// IsChip returns a predicate matching the chip.
func IsChip(c ChipID) func(Info) bool {
	return func(i Info) bool { return i.IsChip(c) }
}

// All returns a predicate matching platforms that match all the predicates.
func All(preds ...func(Info) bool) func(Info) bool {
	return func(i Info) bool {
		for _, p := range preds {
			if !p(i) {
				return false
			}
		}
		return true
	}
}

// Always matches any platform, and is intended for fallback entries.
func Always(Info) bool {
	return true
}

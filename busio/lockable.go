// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package busio

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-blinka"
)

// Lockable is an advisory lock on a shared resource.
//
// The lock does not block, and is not reentrant.  It only protects the
// resource from cooperating users that take the lock before using it.
//
// The zero value is unlocked.
type Lockable struct {
	mu     sync.Mutex
	locked bool
}

// TryLock attempts to take the lock, returning true if it was taken and false
// if it was already held.
func (l *Lockable) TryLock() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked {
		return false
	}
	l.locked = true
	return true
}

// Unlock releases the lock so others may use the resource.
//
// Unlocking a resource that is not locked is an error.
func (l *Lockable) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked {
		return errors.Wrap(blinka.ErrState, "not locked")
	}
	l.locked = false
	return nil
}

// Locked returns true if the lock is held.
func (l *Lockable) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

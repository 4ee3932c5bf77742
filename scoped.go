// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package blinka

// Deinitializer is implemented by resources that hold hardware which must be
// released when no longer required.
type Deinitializer interface {
	Deinit() error
}

// With calls fn with the resource and deinitializes the resource when fn
// returns, however it returns.
//
// Deinit is called exactly once, including when fn returns an error or
// panics.  If fn succeeds then any error returned by Deinit is returned,
// otherwise the error from fn takes precedence.
func With[T Deinitializer](r T, fn func(T) error) (err error) {
	defer func() {
		derr := r.Deinit()
		if err == nil {
			err = derr
		}
	}()
	return fn(r)
}

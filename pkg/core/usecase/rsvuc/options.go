// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rsvuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the reservations use case.
type Option func(uc *UseCase) error

// WithLockWait option configures how long an admission may wait for
// the garage row lock before failing with a transient error. This
// option may be passed to the New() function. In its absence, the
// DefaultLockWait value is used.
// The wait must be at least one millisecond, since the row lock
// timeout has millisecond resolution and a zero value disables the
// timeout instead of bounding it.
func WithLockWait(wait time.Duration) Option {
	return func(uc *UseCase) error {
		if wait < time.Millisecond {
			return fmt.Errorf("lock wait (%v) is less than 1ms", wait)
		}
		if uc.lockWait != 0 {
			return errors.New("lock wait is already configured")
		}
		uc.lockWait = wait
		return nil
	}
}

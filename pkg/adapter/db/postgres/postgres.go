// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres provides the PostgreSQL adapter for the repo
// package interfaces, using the GORM framework on top of the pgx
// driver. The Pool, Conn, and Tx types wrap *gorm.DB, while the
// entity repositories live in their own sub-packages and run their
// queries through the Queryer type constraint.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE class 55 (object not in prerequisite state) code which is
// raised when a lock wait exceeds the lock_timeout setting.
const lockNotAvailable = "55P03"

// IsLockUnavailable detects whether err indicates an expired
// lock_timeout, so a lock acquisition timeout can be distinguished
// from other query failures and reported as a transient condition.
func IsLockUnavailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable
}

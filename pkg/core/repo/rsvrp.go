// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/core/model"
)

// ReservationsQueryer lists the reservation operations which may run
// on either a connection or a transaction. Like the other entities,
// read paths only observe active rows.
type ReservationsQueryer interface {
	FindActiveByID(ctx context.Context, rsvID uuid.UUID) (*model.Reservation, error)
	ListActive(ctx context.Context) ([]model.Reservation, error)
}

type ReservationsConnQueryer interface {
	ReservationsQueryer
}

// ReservationsTxQueryer adds the mutating operations and the overlap
// scan. They require a transaction because the admission decision and
// the subsequent write must fall in one atomic scope: the overlap scan
// locks the rows it reads and the lock is held until the transaction
// ends, so no concurrent admission can interleave between the check
// and the insert.
type ReservationsTxQueryer interface {
	ReservationsQueryer

	// FindByID loads a reservation regardless of its deleted flag.
	FindByID(ctx context.Context, rsvID uuid.UUID) (*model.Reservation, error)

	// FindActiveOverlapping returns the active reservations of the
	// garageID garage whose inclusive [From, To] intervals share at
	// least one day with [from, to], locking the matched rows with a
	// write-exclusive lock. Reservations listed in exclude are left
	// out of the scan, so an update does not collide with the row it
	// is replacing.
	FindActiveOverlapping(
		ctx context.Context, garageID uuid.UUID,
		from, to model.Date, exclude ...uuid.UUID,
	) ([]model.Reservation, error)

	Create(ctx context.Context, rsv *model.Reservation) error
	Update(ctx context.Context, rsv *model.Reservation) error
	// SoftDelete marks an active reservation as deleted, excluding it
	// from subsequent overlap scans and reads, keeping the row.
	SoftDelete(ctx context.Context, rsvID uuid.UUID) error
}

type Reservations interface {
	Conn(Conn) ReservationsConnQueryer
	Tx(Tx) ReservationsTxQueryer
}

// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rsvuc contains the reservations use case: the admission
// pipeline which a candidate reservation must pass before being
// persisted, and the create/update/delete lifecycle built on top
// of it.
//
// Admission and persistence run in a single database transaction.
// The garage row is loaded with a write-exclusive lock first, so two
// concurrent admissions against the same garage serialize on that
// lock: the second one observes the first one's committed reservation
// in its overlap scan and fails with no availability. Correctness
// therefore holds across multiple process instances; no in-process
// mutex is involved.
package rsvuc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/core/cerr"
	"github.com/hjalali/garageweb/pkg/core/log"
	"github.com/hjalali/garageweb/pkg/core/model"
	"github.com/hjalali/garageweb/pkg/core/repo"
)

// DefaultLockWait bounds how long an admission waits for the garage
// row lock before the operation is reported as a transient failure.
const DefaultLockWait = 5 * time.Second

// UseCase represents the reservations use case. It holds a database
// connection pool and the three repository instances which take part
// in an admission (to be guided with the pool).
type UseCase struct {
	pool      repo.Pool
	rsvrp     repo.Reservations
	carsrp    repo.Cars
	garagesrp repo.Garages

	lockWait time.Duration
}

// Command carries the caller provided reservation attributes for the
// create and update operations. From and To are inclusive calendar
// days; CarID and GarageID must reference active entities.
type Command struct {
	From     model.Date
	To       model.Date
	CarID    uuid.UUID
	GarageID uuid.UUID
}

// New instantiates a reservations use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error. Optional parameters are passed as
// a series of functional options.
func New(
	p repo.Pool,
	r repo.Reservations, c repo.Cars, g repo.Garages,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, rsvrp: r, carsrp: c, garagesrp: g}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.lockWait == 0 {
		uc.lockWait = DefaultLockWait
	}
	return uc, nil
}

// Create admits the cmd candidate reservation and persists it as a new
// active row, returning the persisted model. Admission performs, in
// order: date range validation, garage lookup (with the serializing
// row lock), car lookup, fuel type compatibility, and the overlap
// scan. Any failure aborts the transaction, so no partial state is
// ever written.
func (rsv *UseCase) Create(ctx context.Context, cmd Command) (out *model.Reservation, err error) {
	if err = validateRange(cmd); err != nil {
		return nil, err
	}
	err = rsv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if err := rsv.admit(ctx, tx, cmd); err != nil {
				return err
			}
			out = &model.Reservation{
				ID:       uuid.New(),
				From:     cmd.From,
				To:       cmd.To,
				CarID:    cmd.CarID,
				GarageID: cmd.GarageID,
			}
			return rsv.rsvrp.Tx(tx).Create(ctx, out)
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "reservation admitted",
		slog.String("rsv", out.ID.String()),
		slog.String("garage", out.GarageID.String()),
		slog.String("from", out.From.String()),
		slog.String("to", out.To.String()),
	)
	return out, nil
}

// Update loads the rsvID reservation and re-admits it with the cmd
// attributes, excluding the reservation itself from its own overlap
// scan, then persists the new dates and references.
// The target row is located regardless of its deleted flag, matching
// the delete-then-update leniency of the original service; the flag
// itself is left unchanged.
func (rsv *UseCase) Update(ctx context.Context, rsvID uuid.UUID, cmd Command) (out *model.Reservation, err error) {
	if err = validateRange(cmd); err != nil {
		return nil, err
	}
	err = rsv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			rq := rsv.rsvrp.Tx(tx)
			existing, err := rq.FindByID(ctx, rsvID)
			if err != nil {
				return fmt.Errorf("loading reservation: %w", err)
			}
			if err := rsv.admit(ctx, tx, cmd, rsvID); err != nil {
				return err
			}
			existing.From = cmd.From
			existing.To = cmd.To
			existing.CarID = cmd.CarID
			existing.GarageID = cmd.GarageID
			if err := rq.Update(ctx, existing); err != nil {
				return err
			}
			out = existing
			return nil
		})
	})
	if err != nil {
		out = nil
	}
	return
}

// Delete soft-deletes the rsvID reservation, excluding its date range
// from all future overlap scans while retaining the row.
func (rsv *UseCase) Delete(ctx context.Context, rsvID uuid.UUID) error {
	return rsv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return rsv.rsvrp.Tx(tx).SoftDelete(ctx, rsvID)
		})
	})
}

// Get returns the rsvID reservation if it exists and is not deleted.
func (rsv *UseCase) Get(ctx context.Context, rsvID uuid.UUID) (out *model.Reservation, err error) {
	err = rsv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		out, err = rsv.rsvrp.Conn(c).FindActiveByID(ctx, rsvID)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// List returns all active reservations in storage order.
func (rsv *UseCase) List(ctx context.Context) (all []model.Reservation, err error) {
	err = rsv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		all, err = rsv.rsvrp.Conn(c).ListActive(ctx)
		return err
	})
	if err != nil {
		all = nil
	}
	return
}

// admit runs the admission checks for the cmd candidate within the tx
// transaction. The garage lookup comes first and acquires the per
// garage serialization lock; the overlap scan must run under that
// lock, otherwise two admissions could both observe an empty scan.
// The rows matched by the overlap scan are locked as well. Reservation
// ids in exclude do not count as conflicts.
func (rsv *UseCase) admit(
	ctx context.Context, tx repo.Tx, cmd Command, exclude ...uuid.UUID,
) error {
	garage, err := rsv.garagesrp.Tx(tx).LockActiveByID(
		ctx, cmd.GarageID, rsv.lockWait,
	)
	if err != nil {
		return fmt.Errorf("locking garage: %w", err)
	}
	car, err := rsv.carsrp.Tx(tx).FindActiveByID(ctx, cmd.CarID)
	if err != nil {
		return fmt.Errorf("resolving car: %w", err)
	}
	if !garage.Compatible(car) {
		return cerr.Conflict(model.ErrIncompatibleFuelType)
	}
	overlapping, err := rsv.rsvrp.Tx(tx).FindActiveOverlapping(
		ctx, garage.ID, cmd.From, cmd.To, exclude...,
	)
	if err != nil {
		return fmt.Errorf("scanning for overlaps: %w", err)
	}
	if len(overlapping) > 0 {
		return cerr.Conflict(model.ErrNoAvailability)
	}
	return nil
}

func validateRange(cmd Command) error {
	if cmd.From.After(cmd.To) {
		return cerr.BadRequest(model.ErrInvalidDateRange)
	}
	return nil
}

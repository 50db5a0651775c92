// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNoAvailability indicates that an active reservation of the same
// garage overlaps the requested date range.
var ErrNoAvailability = errors.New(
	"there is no free place for these dates",
)

// ErrIncompatibleFuelType indicates an attempt to book an LPG car into
// a garage which does not accept LPG.
var ErrIncompatibleFuelType = errors.New("LPG is not allowed here")

// ErrInvalidDateRange indicates a reservation request whose from date
// falls after its to date.
var ErrInvalidDateRange = errors.New("fromDate is after toDate")

// Reservation books one car a place in one garage over an inclusive
// [From, To] date interval. It holds non-owning references to its car
// and garage, so many reservations may reference the same car or
// garage over non-overlapping periods.
//
// Invariant: for a given garage, active (Deleted=false) reservations
// have pairwise non-overlapping date intervals. Soft-deleted rows are
// retained but excluded from all overlap scans and normal reads.
type Reservation struct {
	ID       uuid.UUID `json:"id"`
	From     Date      `json:"fromDate"`
	To       Date      `json:"toDate"`
	CarID    uuid.UUID `json:"carId"`
	GarageID uuid.UUID `json:"garageId"`
	Deleted  bool      `json:"deleted"`
}

// Overlaps reports whether the r reservation's date interval shares
// at least one calendar day with the [from, to] interval.
func (r *Reservation) Overlaps(from, to Date) bool {
	return Overlaps(r.From, r.To, from, to)
}

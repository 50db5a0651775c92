// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import "github.com/google/uuid"

// FuelTypeLPG is the only fuel type with a compatibility constraint:
// an LPG car may only be booked into a garage which accepts LPG.
// Other fuel type values are free text and carry no constraint.
const FuelTypeLPG = "LPG"

// Car models a car which may be reserved a place in a garage.
// A soft-deleted car is retained in storage, excluded from the normal
// read paths, and may not be referenced by new reservations. Existing
// reservations which reference it are not affected.
type Car struct {
	ID       uuid.UUID `json:"id"`
	Brand    string    `json:"brand"`
	Model    string    `json:"model"`
	Price    float64   `json:"price"` // strictly positive
	FuelType string    `json:"fuelType"`
	Deleted  bool      `json:"deleted"`
}

// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/google/uuid"

// Garage models a garage which reservations may be booked against.
// NumberOfPlaces is an advisory capacity; it is stored and reported
// but not enforced against the count of active reservations.
// Soft deletion follows the same rules as the Car model.
type Garage struct {
	ID             uuid.UUID `json:"id"`
	Address        string    `json:"address"`
	NumberOfPlaces int       `json:"numberOfPlaces"` // advisory, >= 0
	AcceptsLPG     bool      `json:"acceptsLPG"`
	Deleted        bool      `json:"deleted"`
}

// Compatible reports whether a car may be booked into the g garage.
// The only incompatibility is an LPG car and a garage which does not
// accept LPG.
func (g *Garage) Compatible(c *Car) bool {
	return c.FuelType != FuelTypeLPG || g.AcceptsLPG
}

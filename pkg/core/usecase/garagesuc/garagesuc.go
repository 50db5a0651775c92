// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package garagesuc contains the garages use case which supports the
// garages CRUD operations, mirroring the carsuc lifecycle rules.
package garagesuc

import (
	"context"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/core/model"
	"github.com/hjalali/garageweb/pkg/core/repo"
)

// UseCase represents the garages use case.
type UseCase struct {
	pool      repo.Pool
	garagesrp repo.Garages
}

// Command carries the caller provided garage attributes for the create
// and update operations. NumberOfPlaces is advisory and is not checked
// against the count of active reservations.
type Command struct {
	Address        string
	NumberOfPlaces int
	AcceptsLPG     bool
}

// New instantiates a garages use case.
func New(p repo.Pool, g repo.Garages) *UseCase {
	return &UseCase{pool: p, garagesrp: g}
}

// Create persists a new active garage with a fresh id and returns it.
func (grgs *UseCase) Create(ctx context.Context, cmd Command) (garage *model.Garage, err error) {
	garage = &model.Garage{
		ID:             uuid.New(),
		Address:        cmd.Address,
		NumberOfPlaces: cmd.NumberOfPlaces,
		AcceptsLPG:     cmd.AcceptsLPG,
	}
	err = grgs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return grgs.garagesrp.Conn(c).Create(ctx, garage)
	})
	if err != nil {
		garage = nil
	}
	return
}

// Get returns the garageID garage if it exists and is not deleted.
func (grgs *UseCase) Get(ctx context.Context, garageID uuid.UUID) (garage *model.Garage, err error) {
	err = grgs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		garage, err = grgs.garagesrp.Conn(c).FindActiveByID(ctx, garageID)
		return err
	})
	if err != nil {
		garage = nil
	}
	return
}

// List returns all active garages in storage order.
func (grgs *UseCase) List(ctx context.Context) (all []model.Garage, err error) {
	err = grgs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		all, err = grgs.garagesrp.Conn(c).ListActive(ctx)
		return err
	})
	if err != nil {
		all = nil
	}
	return
}

// Update replaces the attributes of the garageID garage with the cmd
// values and resets its deleted flag.
func (grgs *UseCase) Update(ctx context.Context, garageID uuid.UUID, cmd Command) (garage *model.Garage, err error) {
	err = grgs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		garage, err = grgs.garagesrp.Conn(c).Update(ctx, &model.Garage{
			ID:             garageID,
			Address:        cmd.Address,
			NumberOfPlaces: cmd.NumberOfPlaces,
			AcceptsLPG:     cmd.AcceptsLPG,
		})
		return err
	})
	if err != nil {
		garage = nil
	}
	return
}

// Delete soft-deletes the garageID garage. Existing reservations which
// reference the garage are kept active; their date ranges also remain
// relevant for future overlap checks against this garage.
func (grgs *UseCase) Delete(ctx context.Context, garageID uuid.UUID) error {
	return grgs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return grgs.garagesrp.Conn(c).SoftDelete(ctx, garageID)
	})
}

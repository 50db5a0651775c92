// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars use case which supports the cars
// CRUD operations. Cars are soft-deleted: a deleted car disappears
// from the read paths and may not be referenced by new reservations,
// but its row and any reservations which reference it are retained.
package carsuc

import (
	"context"

	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/core/model"
	"github.com/hjalali/garageweb/pkg/core/repo"
)

// UseCase represents the cars use case. It holds a database connection
// pool and the cars repository instance (to be guided with the pool).
type UseCase struct {
	pool   repo.Pool
	carsrp repo.Cars
}

// Command carries the caller provided car attributes for the create
// and update operations. Validation of the field formats (non-empty
// brand/model, positive price) belongs to the adapter layer.
type Command struct {
	Brand    string
	Model    string
	Price    float64
	FuelType string
}

// New instantiates a cars use case.
func New(p repo.Pool, c repo.Cars) *UseCase {
	return &UseCase{pool: p, carsrp: c}
}

// Create persists a new active car with a fresh id and returns it.
func (cars *UseCase) Create(ctx context.Context, cmd Command) (car *model.Car, err error) {
	car = &model.Car{
		ID:       uuid.New(),
		Brand:    cmd.Brand,
		Model:    cmd.Model,
		Price:    cmd.Price,
		FuelType: cmd.FuelType,
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return cars.carsrp.Conn(c).Create(ctx, car)
	})
	if err != nil {
		car = nil
	}
	return
}

// Get returns the carID car if it exists and is not soft-deleted.
func (cars *UseCase) Get(ctx context.Context, carID uuid.UUID) (car *model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		car, err = cars.carsrp.Conn(c).FindActiveByID(ctx, carID)
		return err
	})
	if err != nil {
		car = nil
	}
	return
}

// List returns all active cars in storage order.
func (cars *UseCase) List(ctx context.Context) (all []model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		all, err = cars.carsrp.Conn(c).ListActive(ctx)
		return err
	})
	if err != nil {
		all = nil
	}
	return
}

// Update replaces the attributes of the carID car with the cmd values
// and resets its deleted flag, returning the updated car model.
func (cars *UseCase) Update(ctx context.Context, carID uuid.UUID, cmd Command) (car *model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		car, err = cars.carsrp.Conn(c).Update(ctx, &model.Car{
			ID:       carID,
			Brand:    cmd.Brand,
			Model:    cmd.Model,
			Price:    cmd.Price,
			FuelType: cmd.FuelType,
		})
		return err
	})
	if err != nil {
		car = nil
	}
	return
}

// Delete soft-deletes the carID car. Reservations which reference the
// car are not cascaded; they keep their own lifecycle.
func (cars *UseCase) Delete(ctx context.Context, carID uuid.UUID) error {
	return cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return cars.carsrp.Conn(c).SoftDelete(ctx, carID)
	})
}

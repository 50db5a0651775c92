// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the cars
// manipulation REST APIs to be accepted and delegated to the
// cars use cases respectively.
package carsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hjalali/garageweb/pkg/adapter/restful/gin/serdser"
	"github.com/hjalali/garageweb/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. POST request to /api/gwweb/v1/cars
//     in order to create a car,
//  2. GET requests to /api/gwweb/v1/cars and /api/gwweb/v1/cars/:cid
//     in order to list active cars or fetch one of them,
//  3. PUT request to /api/gwweb/v1/cars/:cid
//     in order to replace the attributes of a car, and
//  4. DELETE request to /api/gwweb/v1/cars/:cid
//     in order to soft-delete a car.
func Register(r *gin.RouterGroup, cars *carsuc.UseCase) {
	rs := &resource{cars: cars}
	r.POST("cars", rs.CreateCar)
	r.GET("cars", rs.ListCars)
	r.GET("cars/:cid", rs.GetCar)
	r.PUT("cars/:cid", rs.UpdateCar)
	r.DELETE("cars/:cid", rs.DeleteCar)
}

func (rs *resource) CreateCar(c *gin.Context) {
	cmd := rs.DserCarCmd(c)
	if cmd == nil {
		return
	}
	car, err := rs.cars.Create(c, *cmd)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (rs *resource) ListCars(c *gin.Context) {
	cars, err := rs.cars.List(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) GetCar(c *gin.Context) {
	cid, ok := rs.DserCarID(c)
	if !ok {
		return
	}
	car, err := rs.cars.Get(c, cid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) UpdateCar(c *gin.Context) {
	cid, ok := rs.DserCarID(c)
	if !ok {
		return
	}
	cmd := rs.DserCarCmd(c)
	if cmd == nil {
		return
	}
	car, err := rs.cars.Update(c, cid, *cmd)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) DeleteCar(c *gin.Context) {
	cid, ok := rs.DserCarID(c)
	if !ok {
		return
	}
	if err := rs.cars.Delete(c, cid); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rsvrs realizes the reservations resource, allowing the
// booking REST APIs to be accepted and delegated to the reservations
// use case. Admission failures surface with distinct status codes: a
// 400 for an inverted date range, a 404 for a missing car or garage,
// a 409 for a fuel type incompatibility or date range overlap, and a
// 503 when the garage admission lock could not be acquired in time.
package rsvrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hjalali/garageweb/pkg/adapter/restful/gin/serdser"
	"github.com/hjalali/garageweb/pkg/core/usecase/rsvuc"
)

type resource struct {
	rsvs *rsvuc.UseCase
}

// Register instantiates a resource adapting the reservations use case
// instance with the reservations CRUD REST APIs, rooted at the
// /api/gwweb/v1/reservations path.
func Register(r *gin.RouterGroup, rsvs *rsvuc.UseCase) {
	rs := &resource{rsvs: rsvs}
	r.POST("reservations", rs.CreateReservation)
	r.GET("reservations", rs.ListReservations)
	r.GET("reservations/:rid", rs.GetReservation)
	r.PUT("reservations/:rid", rs.UpdateReservation)
	r.DELETE("reservations/:rid", rs.DeleteReservation)
}

func (rs *resource) CreateReservation(c *gin.Context) {
	cmd := rs.DserReservationCmd(c)
	if cmd == nil {
		return
	}
	rsv, err := rs.rsvs.Create(c, *cmd)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rsv)
}

func (rs *resource) ListReservations(c *gin.Context) {
	rsvs, err := rs.rsvs.List(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rsvs)
}

func (rs *resource) GetReservation(c *gin.Context) {
	rid, ok := rs.DserReservationID(c)
	if !ok {
		return
	}
	rsv, err := rs.rsvs.Get(c, rid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rsv)
}

func (rs *resource) UpdateReservation(c *gin.Context) {
	rid, ok := rs.DserReservationID(c)
	if !ok {
		return
	}
	cmd := rs.DserReservationCmd(c)
	if cmd == nil {
		return
	}
	rsv, err := rs.rsvs.Update(c, rid, *cmd)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rsv)
}

func (rs *resource) DeleteReservation(c *gin.Context) {
	rid, ok := rs.DserReservationID(c)
	if !ok {
		return
	}
	if err := rs.rsvs.Delete(c, rid); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

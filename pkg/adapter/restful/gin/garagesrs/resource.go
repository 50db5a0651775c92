// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package garagesrs realizes the garages resource, allowing the
// garages manipulation REST APIs to be accepted and delegated to the
// garages use cases respectively.
package garagesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hjalali/garageweb/pkg/adapter/restful/gin/serdser"
	"github.com/hjalali/garageweb/pkg/core/usecase/garagesuc"
)

type resource struct {
	garages *garagesuc.UseCase
}

// Register instantiates a resource adapting the garages use case
// instance with the garages CRUD REST APIs, rooted at the
// /api/gwweb/v1/garages path.
func Register(r *gin.RouterGroup, garages *garagesuc.UseCase) {
	rs := &resource{garages: garages}
	r.POST("garages", rs.CreateGarage)
	r.GET("garages", rs.ListGarages)
	r.GET("garages/:gid", rs.GetGarage)
	r.PUT("garages/:gid", rs.UpdateGarage)
	r.DELETE("garages/:gid", rs.DeleteGarage)
}

func (rs *resource) CreateGarage(c *gin.Context) {
	cmd := rs.DserGarageCmd(c)
	if cmd == nil {
		return
	}
	garage, err := rs.garages.Create(c, *cmd)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, garage)
}

func (rs *resource) ListGarages(c *gin.Context) {
	garages, err := rs.garages.List(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, garages)
}

func (rs *resource) GetGarage(c *gin.Context) {
	gid, ok := rs.DserGarageID(c)
	if !ok {
		return
	}
	garage, err := rs.garages.Get(c, gid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, garage)
}

func (rs *resource) UpdateGarage(c *gin.Context) {
	gid, ok := rs.DserGarageID(c)
	if !ok {
		return
	}
	cmd := rs.DserGarageCmd(c)
	if cmd == nil {
		return
	}
	garage, err := rs.garages.Update(c, gid, *cmd)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, garage)
}

func (rs *resource) DeleteGarage(c *gin.Context) {
	gid, ok := rs.DserGarageID(c)
	if !ok {
		return
	}
	if err := rs.garages.Delete(c, gid); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

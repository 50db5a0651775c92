package carsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/adapter/restful/gin/serdser"
	"github.com/hjalali/garageweb/pkg/core/usecase/carsuc"
)

type rawCarReq struct {
	Brand    string  `json:"brand" binding:"required"`
	Model    string  `json:"model" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	FuelType string  `json:"fuelType" binding:"required"`
}

func (rs *resource) DserCarCmd(c *gin.Context) *carsuc.Command {
	req := &rawCarReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &carsuc.Command{
		Brand:    req.Brand,
		Model:    req.Model,
		Price:    req.Price,
		FuelType: req.FuelType,
	}
}

func (rs *resource) DserCarID(c *gin.Context) (uuid.UUID, bool) {
	cid, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "cid", "Path param cid is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return uuid.Nil, false
	}
	return cid, true
}

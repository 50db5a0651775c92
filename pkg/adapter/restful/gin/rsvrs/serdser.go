package rsvrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/adapter/restful/gin/serdser"
	"github.com/hjalali/garageweb/pkg/core/model"
	"github.com/hjalali/garageweb/pkg/core/usecase/rsvuc"
)

type rawReservationReq struct {
	FromDate string `json:"fromDate" binding:"required,datetime=2006-01-02"`
	ToDate   string `json:"toDate" binding:"required,datetime=2006-01-02"`
	CarID    string `json:"carId" binding:"required,uuid"`
	GarageID string `json:"garageId" binding:"required,uuid"`
}

func (rs *resource) DserReservationCmd(c *gin.Context) *rsvuc.Command {
	req := &rawReservationReq{}
	val := &rsvuc.Command{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	var err error
	val.From, err = model.ParseDate(req.FromDate)
	serdser.Assert(&errs, err == nil, "fromDate", "Not a calendar day.")
	val.To, err = model.ParseDate(req.ToDate)
	serdser.Assert(&errs, err == nil, "toDate", "Not a calendar day.")
	val.CarID, err = uuid.Parse(req.CarID)
	serdser.Assert(&errs, err == nil, "carId", "Not a UUID.")
	val.GarageID, err = uuid.Parse(req.GarageID)
	serdser.Assert(&errs, err == nil, "garageId", "Not a UUID.")
	if errs == nil {
		return val
	}
	return nil
}

func (rs *resource) DserReservationID(c *gin.Context) (uuid.UUID, bool) {
	rid, err := uuid.Parse(c.Param("rid"))
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "rid", "Path param rid is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return uuid.Nil, false
	}
	return rid, true
}

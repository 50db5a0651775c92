package garagesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/hjalali/garageweb/pkg/adapter/restful/gin/serdser"
	"github.com/hjalali/garageweb/pkg/core/usecase/garagesuc"
)

type rawGarageReq struct {
	Address        string `json:"address" binding:"required"`
	NumberOfPlaces *int   `json:"numberOfPlaces" binding:"required,min=0"`
	AcceptsLPG     bool   `json:"acceptsLPG"`
}

func (rs *resource) DserGarageCmd(c *gin.Context) *garagesuc.Command {
	req := &rawGarageReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &garagesuc.Command{
		Address:        req.Address,
		NumberOfPlaces: *req.NumberOfPlaces,
		AcceptsLPG:     req.AcceptsLPG,
	}
}

func (rs *resource) DserGarageID(c *gin.Context) (uuid.UUID, bool) {
	gid, err := uuid.Parse(c.Param("gid"))
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "gid", "Path param gid is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return uuid.Nil, false
	}
	return gid, true
}

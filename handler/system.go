package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/model"
)

type SystemHandler struct {
	build model.VersionResponse
}

func NewSystemHandler(build model.VersionResponse) *SystemHandler {
	return &SystemHandler{build: build}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:  "ok",
		Version: h.build.Version,
	})
}

func (h *SystemHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}

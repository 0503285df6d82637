package http

import (
	"github.com/gin-gonic/gin"

	"task-intake-assistant/internal/middleware"
	"task-intake-assistant/internal/model"
	pkgErrors "task-intake-assistant/pkg/errors"
)

func (h *handler) scope(c *gin.Context) (model.Scope, error) {
	sc, ok := middleware.GetScope(c.Request.Context())
	if !ok {
		return model.Scope{}, pkgErrors.Unauthorized()
	}
	return sc, nil
}

func (h *handler) processCreateReq(c *gin.Context) (createReq, error) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, pkgErrors.InvalidInput("invalid request body: " + err.Error())
	}
	return req, nil
}

func (h *handler) processListReq(c *gin.Context) (listReq, error) {
	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, pkgErrors.InvalidInput(err.Error())
	}
	return req, nil
}

func (h *handler) processUpdateStatusReq(c *gin.Context) (updateStatusReq, error) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, pkgErrors.InvalidInput("status is required")
	}
	req.ID = c.Param("id")
	return req, nil
}

func (h *handler) processScheduleReq(c *gin.Context) (scheduleReq, error) {
	var req scheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, pkgErrors.InvalidInput("scheduledAt is required")
	}
	req.ID = c.Param("id")
	return req, nil
}

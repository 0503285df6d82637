package http

import (
	"strings"

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

func (h *handler) processSendMessageReq(c *gin.Context) (sendMessageReq, error) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, pkgErrors.InvalidInput("invalid request body: " + err.Error())
	}
	if strings.TrimSpace(req.Text) == "" {
		return req, pkgErrors.InvalidInput("text is required")
	}
	return req, nil
}

package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	pkgErrors "task-intake-assistant/pkg/errors"
)

// processParseReq binds and validates the parse request body.
func (h *handler) processParseReq(c *gin.Context) (parseReq, error) {
	var req parseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, pkgErrors.InvalidInput("invalid request body: " + err.Error())
	}
	if strings.TrimSpace(req.Input) == "" {
		return req, pkgErrors.InvalidInput("input is required")
	}
	return req, nil
}

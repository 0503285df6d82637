package http

import (
	"github.com/gin-gonic/gin"

	"task-intake-assistant/internal/middleware"
)

// RegisterRoutes mounts the parse endpoint under rg (normally /api/v1/tasks).
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.POST("/parse", mw.Auth(), mw.RateLimit(), h.Parse)
}

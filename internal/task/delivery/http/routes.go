package http

import (
	"github.com/gin-gonic/gin"

	"task-intake-assistant/internal/middleware"
)

// RegisterRoutes maps task routes under rg (normally /api/v1/tasks).
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.POST("", mw.Auth(), h.Create)
	rg.GET("", mw.Auth(), h.List)
	rg.PATCH("/:id/status", mw.Auth(), h.UpdateStatus)
	rg.PATCH("/:id/schedule", mw.Auth(), h.Schedule)
}

package http

import (
	"github.com/gin-gonic/gin"

	"task-intake-assistant/internal/middleware"
)

// RegisterRoutes mounts the conversation endpoints under rg (normally /api/v1/conversations).
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.Use(mw.Auth())
	rg.POST("", h.Start)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/messages", mw.RateLimit(), h.SendMessage)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/reset", h.Reset)
}

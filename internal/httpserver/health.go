package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-intake-assistant/pkg/response"
)

const (
	HealthMessage = "Task intake assistant is running"
	HealthVersion = "1.0.0"
	ServiceName   = "task-intake-assistant"
)

func (srv HTTPServer) status(state string) gin.H {
	return gin.H{
		"status":   state,
		"message":  HealthMessage,
		"version":  HealthVersion,
		"service":  ServiceName,
		"telegram": srv.telegramHandler != nil,
	}
}

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, srv.status("healthy"))
}

// readyCheck reports ready once the task store answers.
// @Summary Readiness Check
// @Description Check if the task store is reachable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Failure 503 {object} response.Resp "Task store unavailable"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	if srv.ready != nil {
		if err := srv.ready(c.Request.Context()); err != nil {
			srv.l.Warnf(c.Request.Context(), "httpserver.readyCheck: %v", err)
			c.JSON(http.StatusServiceUnavailable, response.Resp{
				Success: false,
				Error:   &response.ErrorBody{Code: "NOT_READY", Message: err.Error()},
			})
			return
		}
	}
	response.OK(c, srv.status("ready"))
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, srv.status("alive"))
}

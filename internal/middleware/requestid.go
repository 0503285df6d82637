package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-intake-assistant/pkg/log"
)

const HeaderRequestID = "X-Request-ID"

// RequestID tags the request context with a correlation id, reusing the
// caller's header when present, and logs one line per request.
func (m Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := log.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, id)

		start := time.Now()
		c.Next()
		m.l.Debugf(ctx, "%s %s -> %d (%s)", c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/pkg/response"
)

// Header names carrying the caller identity. Authentication itself happens
// upstream; these are trusted as-is.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUsername = "X-Username"
)

type scopeKey struct{}

// SetScope stores sc in ctx.
func SetScope(ctx context.Context, sc model.Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, sc)
}

// GetScope returns the scope stored by Auth.
func GetScope(ctx context.Context) (model.Scope, bool) {
	sc, ok := ctx.Value(scopeKey{}).(model.Scope)
	return sc, ok
}

// Auth requires a user id header and puts the caller scope on the request context.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			response.Unauthorized(c)
			return
		}
		sc := model.Scope{
			UserID:   userID,
			Username: strings.TrimSpace(c.GetHeader(HeaderUsername)),
			Source:   model.SourceHTTP,
		}
		c.Request = c.Request.WithContext(SetScope(c.Request.Context(), sc))
		c.Next()
	}
}

package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	conversationHTTP "task-intake-assistant/internal/conversation/delivery/http"
	extractionHTTP "task-intake-assistant/internal/extraction/delivery/http"
	"task-intake-assistant/internal/middleware"
	taskHTTP "task-intake-assistant/internal/task/delivery/http"
)

// registerDomainRoutes mounts every domain under /api/v1.
//
// Pattern to follow when adding a new domain:
//  1. Build the UseCase in cmd/api and pass it through Config.
//  2. Create the HTTP handler: h := mydomainHTTP.New(srv.l, uc)
//  3. Register its routes:     mydomainHTTP.RegisterRoutes(api.Group("/myresource"), h, mw)
func (srv HTTPServer) registerDomainRoutes(mw middleware.Middleware) error {
	ctx := context.Background()
	api := srv.gin.Group("/api/v1")

	srv.setupTaskDomain(ctx, api, mw)
	srv.setupConversationDomain(ctx, api, mw)

	if srv.telegramHandler != nil {
		srv.gin.POST("/webhook/telegram", srv.telegramHandler.HandleWebhook)
		srv.l.Infof(ctx, "Telegram webhook route registered at POST /webhook/telegram")
	} else {
		srv.l.Infof(ctx, "Telegram handler not configured, skipping webhook route")
	}

	return nil
}

// setupTaskDomain registers /api/v1/tasks and /api/v1/tasks/parse.
func (srv HTTPServer) setupTaskDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) {
	tasks := api.Group("/tasks")

	extractionHTTP.RegisterRoutes(tasks, extractionHTTP.New(srv.l, srv.extractionUC), mw)
	taskHTTP.RegisterRoutes(tasks, taskHTTP.New(srv.l, srv.taskUC), mw)

	srv.l.Infof(ctx, "Task domain registered")
}

// setupConversationDomain registers /api/v1/conversations.
func (srv HTTPServer) setupConversationDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) {
	h := conversationHTTP.New(srv.l, srv.conversationUC)
	conversationHTTP.RegisterRoutes(api.Group("/conversations"), h, mw)

	srv.l.Infof(ctx, "Conversation domain registered")
}

package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/conversation"
	tgDelivery "task-intake-assistant/internal/conversation/delivery/telegram"
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/task"
	"task-intake-assistant/pkg/log"
)

const shutdownTimeout = 10 * time.Second

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	convCfg     config.ConversationConfig
	ready       func(ctx context.Context) error

	// Domains
	extractionUC   extraction.UseCase
	taskUC         task.UseCase
	conversationUC conversation.UseCase

	// Optional Telegram webhook
	telegramHandler tgDelivery.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger       log.Logger
	Port         int
	Mode         string
	Environment  string
	Conversation config.ConversationConfig

	// Ready backs /ready, typically the task store's PingContext.
	Ready func(ctx context.Context) error

	ExtractionUC   extraction.UseCase
	TaskUC         task.UseCase
	ConversationUC conversation.UseCase

	TelegramHandler tgDelivery.Handler
}

// New creates a new HTTPServer instance with all routes mapped.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		convCfg:         cfg.Conversation,
		ready:           cfg.Ready,
		extractionUC:    cfg.ExtractionUC,
		taskUC:          cfg.TaskUC,
		conversationUC:  cfg.ConversationUC,
		telegramHandler: cfg.TelegramHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.extractionUC == nil || srv.taskUC == nil || srv.conversationUC == nil {
		return errors.New("extraction, task and conversation use cases are required")
	}
	return nil
}

// Handler exposes the engine, mainly for tests.
func (srv HTTPServer) Handler() *gin.Engine {
	return srv.gin
}

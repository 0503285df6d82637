package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"task-intake-assistant/config"
	_ "task-intake-assistant/docs" // Swagger docs
	convUC "task-intake-assistant/internal/conversation/usecase"
	tgDelivery "task-intake-assistant/internal/conversation/delivery/telegram"
	extractionUC "task-intake-assistant/internal/extraction/usecase"
	"task-intake-assistant/internal/httpserver"
	taskSQLite "task-intake-assistant/internal/task/repository/sqlite"
	taskUC "task-intake-assistant/internal/task/usecase"
	"task-intake-assistant/pkg/gcalendar"
	"task-intake-assistant/pkg/llmprovider"
	"task-intake-assistant/pkg/log"
	"task-intake-assistant/pkg/telegram"
)

// @title       Task Intake Assistant API
// @description Conversational task intake: free Japanese text is turned into a structured task through an LLM-driven slot-filling dialog.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Task Intake Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorf(ctx, "Server stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	// 3. Storage
	db, err := taskSQLite.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	logger.Infof(ctx, "Task store: %s", cfg.Database.Path)

	// 4. LLM providers. With none configured, every request must bring its own key.
	llm := llmprovider.NewManager(nil, nil, logger)
	if len(cfg.LLM.Providers) > 0 {
		llm, err = llmprovider.NewManagerFromConfig(ctx, &cfg.LLM, logger)
		if err != nil {
			return fmt.Errorf("init llm providers: %w", err)
		}
		logger.Infof(ctx, "LLM primary provider: %s (%s)", llm.Name(), llm.Model())
	} else {
		logger.Warn(ctx, "No LLM providers configured: parse requests must carry llmConfig.apiKey")
	}

	prompts, err := extractionUC.LoadPrompts(cfg.Conversation.PromptPath)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	// 5. Task domain, with Google Calendar when credentials are present
	var taskOpts []taskUC.Option
	if cfg.GoogleCalendar.CredentialsPath != "" {
		cal, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
		} else {
			taskOpts = append(taskOpts, taskUC.WithCalendar(cal, cfg.GoogleCalendar.CalendarID))
			logger.Info(ctx, "Google Calendar initialized")
		}
	}
	tasks := taskUC.New(logger, taskSQLite.New(logger, db), taskOpts...)

	// 6. Extraction and conversation
	extraction := extractionUC.New(logger, llm, prompts, extractionUC.WithTemperature(cfg.LLM.Temperature))
	conversations := convUC.New(logger, extraction, tasks, cfg.Conversation)

	// 7. Telegram (optional)
	var telegramHandler tgDelivery.Handler
	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = tgDelivery.New(logger, conversations, bot, cfg.Telegram, cfg.Conversation)

		if cfg.Telegram.WebhookURL != "" {
			if whErr := bot.SetWebhook(cfg.Telegram.WebhookURL, cfg.Telegram.SecretToken); whErr != nil {
				logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
			} else {
				logger.Infof(ctx, "Telegram webhook registered at %s", cfg.Telegram.WebhookURL)
			}
		}
	} else {
		logger.Info(ctx, "Telegram skipped: TELEGRAM_BOT_TOKEN is not set")
	}

	// 8. HTTP Server
	srv, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		Conversation:    cfg.Conversation,
		Ready:           db.PingContext,
		ExtractionUC:    extraction,
		TaskUC:          tasks,
		ConversationUC:  conversations,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	// 9. Run
	return srv.Run(ctx)
}

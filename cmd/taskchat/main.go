package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/mattn/go-isatty"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/cli"
	convUC "task-intake-assistant/internal/conversation/usecase"
	extractionUC "task-intake-assistant/internal/extraction/usecase"
	"task-intake-assistant/internal/model"
	taskSQLite "task-intake-assistant/internal/task/repository/sqlite"
	taskUC "task-intake-assistant/internal/task/usecase"
	"task-intake-assistant/pkg/gcalendar"
	"task-intake-assistant/pkg/llmprovider"
	"task-intake-assistant/pkg/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The terminal belongs to the dialog; only warnings go to stderr.
	logger := log.Init(log.ZapConfig{
		Level:    "warn",
		Mode:     cfg.Logger.Mode,
		Encoding: "console",
		Output:   os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := taskSQLite.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	llm := llmprovider.NewManager(nil, nil, logger)
	if len(cfg.LLM.Providers) > 0 {
		llm, err = llmprovider.NewManagerFromConfig(ctx, &cfg.LLM, logger)
		if err != nil {
			return fmt.Errorf("init llm providers: %w", err)
		}
	}

	prompts, err := extractionUC.LoadPrompts(cfg.Conversation.PromptPath)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	var taskOpts []taskUC.Option
	if cfg.GoogleCalendar.CredentialsPath != "" {
		if cal, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath); calErr == nil {
			taskOpts = append(taskOpts, taskUC.WithCalendar(cal, cfg.GoogleCalendar.CalendarID))
		}
	}
	tasks := taskUC.New(logger, taskSQLite.New(logger, db), taskOpts...)
	extraction := extractionUC.New(logger, llm, prompts, extractionUC.WithTemperature(cfg.LLM.Temperature))

	app := &cli.App{
		Conversations: convUC.New(logger, extraction, tasks, cfg.Conversation),
		Tasks:         tasks,
		Scope:         model.Scope{UserID: defaultUser(), Source: model.SourceCLI},
		In:            os.Stdin,
		Out:           os.Stdout,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		CalendarCredentialsPath: cfg.GoogleCalendar.CredentialsPath,
		CalendarTokenPath:       cfg.GoogleCalendar.TokenPath,
	}

	root := cli.NewRootCmd(app)
	return root.ExecuteContext(ctx)
}

func defaultUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

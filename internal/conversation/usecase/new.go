package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/task"
	pkgLog "task-intake-assistant/pkg/log"
)

const (
	LogPrefix = "conversation.usecase"

	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 10000
)

type implUseCase struct {
	l          pkgLog.Logger
	extraction extraction.UseCase
	tasks      task.UseCase
	sessions   *expirable.LRU[string, *session]
	now        func() time.Time
	newID      func() string
}

// Option customizes the use case.
type Option func(*implUseCase)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(uc *implUseCase) { uc.now = now }
}

// WithIDGenerator overrides session and message id generation.
func WithIDGenerator(f func() string) Option {
	return func(uc *implUseCase) { uc.newID = f }
}

// New creates a new conversation UseCase. Sessions live in memory and
// expire after cfg.SessionTTL without activity.
func New(l pkgLog.Logger, ex extraction.UseCase, tasks task.UseCase, cfg config.ConversationConfig, opts ...Option) conversation.UseCase {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	size := cfg.MaxSessions
	if size <= 0 {
		size = defaultMaxSessions
	}

	uc := &implUseCase{
		l:          l,
		extraction: ex,
		tasks:      tasks,
		sessions:   expirable.NewLRU[string, *session](size, nil, ttl),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

package usecase

import (
	"context"
	"time"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/resolver"
	"task-intake-assistant/pkg/llmprovider"
	pkgLog "task-intake-assistant/pkg/log"
)

const (
	LogPrefix = "extraction.usecase"

	defaultMaxTokens = 512
)

// ProviderFactory builds a provider for a per-request LLM config.
type ProviderFactory func(ctx context.Context, cfg config.ProviderConfig) (llmprovider.Provider, error)

type implUseCase struct {
	l           pkgLog.Logger
	llm         llmprovider.Provider
	newProvider ProviderFactory
	resolver    *resolver.Resolver
	prompts     *PromptSet
	temperature float64
	now         func() time.Time
}

// Option customizes the use case.
type Option func(*implUseCase)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(uc *implUseCase) { uc.now = now }
}

// WithProviderFactory overrides how per-request providers are built.
func WithProviderFactory(f ProviderFactory) Option {
	return func(uc *implUseCase) { uc.newProvider = f }
}

// WithTemperature sets the sampling temperature (default 0).
func WithTemperature(t float64) Option {
	return func(uc *implUseCase) { uc.temperature = t }
}

// New creates a new extraction UseCase. llm is usually the provider
// Manager; it may have no providers when every request brings its own key.
func New(l pkgLog.Logger, llm llmprovider.Provider, prompts *PromptSet, opts ...Option) extraction.UseCase {
	uc := &implUseCase{
		l:           l,
		llm:         llm,
		newProvider: llmprovider.NewProvider,
		prompts:     prompts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.resolver = resolver.New(uc.now)
	return uc
}

package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-intake-assistant/config"
	"task-intake-assistant/pkg/log"
)

const defaultAppTitle = "task-intake-assistant"

// InitializeProviders creates Provider instances from config.LLMConfig,
// sorted by priority with disabled providers filtered out. Providers that
// fail to initialize are skipped and logged.
func InitializeProviders(ctx context.Context, cfg *config.LLMConfig, l log.Logger) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	enabled := cfg.EnabledProviders()
	if len(enabled) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	var providers []Provider
	var initErrs []error

	for _, p := range enabled {
		provider, err := NewProvider(ctx, p)
		if err != nil {
			err = fmt.Errorf("provider %s (priority %d): %w", p.Name, p.Priority, err)
			l.Warnf(ctx, "llmprovider.InitializeProviders: %v", err)
			initErrs = append(initErrs, err)
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers successfully initialized: %w", errors.Join(initErrs...))
	}

	return providers, nil
}

// NewManagerFromConfig initializes the configured providers and wraps them in a Manager.
func NewManagerFromConfig(ctx context.Context, cfg *config.LLMConfig, l log.Logger) (*Manager, error) {
	providers, err := InitializeProviders(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	return NewManager(providers, &Config{
		FallbackEnabled: cfg.FallbackEnabled,
		RetryAttempts:   cfg.RetryAttempts,
		RetryDelay:      config.ParseDuration(cfg.RetryDelay, time.Second),
		MaxTotalTimeout: config.ParseDuration(cfg.MaxTotalTimeout, 0),
	}, l), nil
}

// NewProvider creates a concrete provider from one provider config.
func NewProvider(ctx context.Context, cfg config.ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: API key is required", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("provider %s: model is required", cfg.Name)
	}

	timeout := config.ParseDuration(cfg.Timeout, 0)

	switch strings.ToLower(cfg.Name) {
	case "openai":
		return NewOpenAIAdapter(OpenAIConfig{
			Name:    "openai",
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: timeout,
		}), nil

	case "openrouter":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = OpenRouterBaseURL
		}
		title := cfg.Title
		if title == "" {
			title = defaultAppTitle
		}
		headers := map[string]string{"X-Title": title}
		if cfg.Referer != "" {
			headers["HTTP-Referer"] = cfg.Referer
		}
		return NewOpenAIAdapter(OpenAIConfig{
			Name:    "openrouter",
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: baseURL,
			Headers: headers,
			Timeout: timeout,
		}), nil

	case "deepseek":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DeepSeekBaseURL
		}
		return NewOpenAIAdapter(OpenAIConfig{
			Name:    "deepseek",
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: baseURL,
			Timeout: timeout,
		}), nil

	case "anthropic", "claude":
		return NewAnthropicAdapter(cfg.APIKey, cfg.Model, cfg.BaseURL, timeout), nil

	case "gemini", "google":
		return NewGeminiAdapter(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL, timeout)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Name)
	}
}

package llmprovider

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockProvider is a test implementation of the Provider interface
type mockProvider struct {
	name       string
	model      string
	shouldFail bool
	response   *Response
	callCount  int
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	m.callCount++
	if m.shouldFail {
		return nil, errors.New("mock provider error")
	}
	return m.response, nil
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

// mockLogger is a test implementation of the Logger interface
type mockLogger struct {
	infoMessages []string
	warnMessages []string
}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Info(ctx context.Context, arg ...any) {
	if len(arg) > 0 {
		if msg, ok := arg[0].(string); ok {
			m.infoMessages = append(m.infoMessages, msg)
		}
	}
}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any) {
	if len(arg) > 0 {
		if msg, ok := arg[0].(string); ok {
			m.warnMessages = append(m.warnMessages, msg)
		}
	}
}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any) {
	m.warnMessages = append(m.warnMessages, template)
}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

func helloRequest() *Request {
	return UserPrompt("reply with JSON", "Hello")
}

func TestGenerateContent_SuccessWithPrimaryProvider(t *testing.T) {
	primary := &mockProvider{
		name:  "primary",
		model: "primary-model",
		response: &Response{
			Content:      `{"title":"hello"}`,
			ProviderName: "primary",
			ModelName:    "primary-model",
			Usage:        &Usage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
		},
	}

	logger := &mockLogger{}
	manager := NewManager([]Provider{primary}, &Config{RetryAttempts: 3, RetryDelay: 10 * time.Millisecond}, logger)

	resp, err := manager.GenerateContent(context.Background(), helloRequest())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Content != `{"title":"hello"}` {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if primary.callCount != 1 {
		t.Errorf("Expected primary provider to be called once, got: %d", primary.callCount)
	}
	if len(logger.infoMessages) != 1 {
		t.Errorf("Expected 1 info log message, got: %d", len(logger.infoMessages))
	}
	if len(logger.warnMessages) != 0 {
		t.Errorf("Expected 0 warn log messages, got: %d", len(logger.warnMessages))
	}
}

func TestGenerateContent_FallbackToSecondaryProvider(t *testing.T) {
	primary := &mockProvider{name: "primary", model: "primary-model", shouldFail: true}
	secondary := &mockProvider{
		name:     "secondary",
		model:    "secondary-model",
		response: &Response{Content: "{}", ProviderName: "secondary"},
	}

	logger := &mockLogger{}
	manager := NewManager([]Provider{primary, secondary}, &Config{
		FallbackEnabled: true,
		RetryAttempts:   2,
		RetryDelay:      10 * time.Millisecond,
	}, logger)

	resp, err := manager.GenerateContent(context.Background(), helloRequest())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.ProviderName != "secondary" {
		t.Errorf("Expected provider name 'secondary', got: %s", resp.ProviderName)
	}
	if primary.callCount != 2 {
		t.Errorf("Expected primary provider to be called 2 times, got: %d", primary.callCount)
	}
	if secondary.callCount != 1 {
		t.Errorf("Expected secondary provider to be called once, got: %d", secondary.callCount)
	}
	if len(logger.warnMessages) != 1 {
		t.Errorf("Expected 1 warn log message, got: %d", len(logger.warnMessages))
	}
}

func TestGenerateContent_AllProvidersFail(t *testing.T) {
	primary := &mockProvider{name: "primary", shouldFail: true}
	secondary := &mockProvider{name: "secondary", shouldFail: true}

	logger := &mockLogger{}
	manager := NewManager([]Provider{primary, secondary}, &Config{
		FallbackEnabled: true,
		RetryAttempts:   2,
		RetryDelay:      10 * time.Millisecond,
	}, logger)

	resp, err := manager.GenerateContent(context.Background(), helloRequest())
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("Expected ErrAllProvidersFailed, got: %v", err)
	}
	if resp != nil {
		t.Errorf("Expected nil response, got: %v", resp)
	}
	if primary.callCount != 2 || secondary.callCount != 2 {
		t.Errorf("Expected 2 calls each, got primary=%d secondary=%d", primary.callCount, secondary.callCount)
	}
	if len(logger.warnMessages) != 2 {
		t.Errorf("Expected 2 warn log messages, got: %d", len(logger.warnMessages))
	}
}

func TestGenerateContent_FailFastDefaults(t *testing.T) {
	primary := &mockProvider{name: "primary", shouldFail: true}
	secondary := &mockProvider{name: "secondary", response: &Response{Content: "{}"}}

	// Zero RetryAttempts is raised to a single attempt.
	manager := NewManager([]Provider{primary, secondary}, &Config{}, &mockLogger{})

	_, err := manager.GenerateContent(context.Background(), helloRequest())
	if err == nil {
		t.Fatal("Expected error when primary fails and fallback is disabled, got nil")
	}
	if primary.callCount != 1 {
		t.Errorf("Expected exactly one attempt, got: %d", primary.callCount)
	}
	if secondary.callCount != 0 {
		t.Errorf("Expected secondary provider to NOT be called, got: %d calls", secondary.callCount)
	}
}

func TestGenerateContent_NoProvidersConfigured(t *testing.T) {
	manager := NewManager(nil, &Config{RetryAttempts: 1}, &mockLogger{})

	if manager.HasProviders() {
		t.Error("Expected HasProviders to be false")
	}

	resp, err := manager.GenerateContent(context.Background(), helloRequest())
	if !errors.Is(err, ErrNoProvidersConfigured) {
		t.Errorf("Expected ErrNoProvidersConfigured, got: %v", err)
	}
	if resp != nil {
		t.Errorf("Expected nil response, got: %v", resp)
	}
}

func TestManager_NameAndModel(t *testing.T) {
	manager := NewManager([]Provider{&mockProvider{name: "openai", model: "gpt-4o-mini"}}, nil, &mockLogger{})
	if manager.Name() != "openai" || manager.Model() != "gpt-4o-mini" {
		t.Errorf("Unexpected identity: %s/%s", manager.Name(), manager.Model())
	}
}

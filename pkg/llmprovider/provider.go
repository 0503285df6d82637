package llmprovider

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	// GenerateContent sends a generation request and returns a response
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string

	// Model returns the model being used
	Model() string
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request represents a normalized chat request
type Request struct {
	SystemInstruction string
	Messages          []Message
	Temperature       float64
	MaxTokens         int
	// JSONMode asks the provider for a single JSON object reply.
	JSONMode bool
}

// Message represents a conversation message
type Message struct {
	Role    string
	Content string
}

// Response represents a normalized LLM generation response
type Response struct {
	Content      string
	ProviderName string
	ModelName    string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a request with a system instruction and one user message.
func UserPrompt(system, user string) *Request {
	return &Request{
		SystemInstruction: system,
		Messages:          []Message{{Role: RoleUser, Content: user}},
	}
}

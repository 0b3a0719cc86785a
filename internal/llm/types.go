// Package llm abstracts the completion service used for graph extraction
// behind a small provider interface.
package llm

import (
	"context"
	"time"

	"github.com/rrbanda/dataloader/internal/types"
)

// Role identifies the author of a message in a completion conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a completion conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one blocking completion call.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// CompletionResponse is the full response of a completion call.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	StopReason   string `json:"stop_reason,omitempty"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
}

// ProviderConfig carries the resolved connection settings for a provider.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Provider is the contract every completion backend satisfies.
type Provider interface {
	// Name returns the provider name for logging.
	Name() string

	// Complete sends a completion request and blocks for the full
	// response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Health reports connectivity to the backing service.
	Health(ctx context.Context) types.HealthStatus
}

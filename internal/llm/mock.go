package llm

import (
	"context"
	"sync"

	"github.com/rrbanda/dataloader/internal/types"
)

// MockProvider is a configurable in-memory Provider for tests. Responses
// are returned in order; when they run out the last one repeats.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     []CompletionRequest
}

// NewMockProvider creates a mock that returns the given responses in order.
func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewFailingMockProvider creates a mock whose Complete always returns err.
func NewFailingMockProvider(err error) *MockProvider {
	return &MockProvider{err: err}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &CompletionResponse{Content: "", Model: "mock"}, nil
	}

	content := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return &CompletionResponse{Content: content, Model: "mock", StopReason: "stop"}, nil
}

func (m *MockProvider) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return types.Unhealthy("mock provider configured to fail")
	}
	return types.Healthy("mock provider ready")
}

// Calls returns a copy of every request Complete received.
func (m *MockProvider) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompletionRequest(nil), m.calls...)
}

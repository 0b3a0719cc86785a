package graph

import (
	"context"
	"sync"

	"github.com/rrbanda/dataloader/internal/extract"
	"github.com/rrbanda/dataloader/internal/types"
)

// MockClient is an in-memory Client for tests. It records every write and
// can be told to fail specific operations.
type MockClient struct {
	mu sync.Mutex

	ConnectErr error
	UpsertErr  error
	StoreErr   error

	Connected bool
	Closed    bool
	Cleared   bool
	SchemaOK  bool

	Systems   []types.SystemEntity
	Events    []types.EventEntity
	Documents []*extract.GraphDocument
}

// NewMockClient creates an empty mock.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.Connected = true
	return nil
}

func (m *MockClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *MockClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Connected {
		return types.Unhealthy("mock not connected")
	}
	return types.Healthy("mock connected")
}

func (m *MockClient) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SchemaOK = true
	return nil
}

func (m *MockClient) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cleared = true
	m.Systems = nil
	m.Events = nil
	m.Documents = nil
	return nil
}

func (m *MockClient) UpsertSystem(ctx context.Context, system types.SystemEntity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Systems = append(m.Systems, system)
	return nil
}

func (m *MockClient) UpsertEvent(ctx context.Context, event types.EventEntity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockClient) StoreGraphDocument(ctx context.Context, doc *extract.GraphDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	m.Documents = append(m.Documents, doc)
	return nil
}

package mock

import (
	"context"
	"sync"

	"github.com/poiesic/saarthi/ai"
)

// MockGenerator is a test double for ai.Generator.
// It records every request it receives.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, the generator echoes the user prompt.
	GenerateFunc func(ctx context.Context, req *ai.GenerationRequest) (string, error)

	mu       sync.Mutex
	requests []*ai.GenerationRequest
}

// NewMockGenerator creates a mock generator with echo behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records req and returns the injected or echoed answer.
func (m *MockGenerator) Generate(ctx context.Context, req *ai.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "echo: " + req.UserPrompt, nil
}

// Requests returns the requests received so far.
func (m *MockGenerator) Requests() []*ai.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ai.GenerationRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or nil.
func (m *MockGenerator) LastRequest() *ai.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// CallCount returns the number of Generate calls.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

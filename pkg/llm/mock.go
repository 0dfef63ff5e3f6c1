package llm

import (
	"context"
	"sync"
	"sync/atomic"
)

// MockGenerator is a configurable Generator for tests.
// Set GenerateFunc to control behavior; calls and requests are recorded.
type MockGenerator struct {
	// GenerateFunc is called when Generate is invoked. If nil, Generate returns
	// a Generation whose Content is "{}".
	GenerateFunc func(ctx context.Context, req *GenerationRequest) (*Generation, error)

	calls    atomic.Int32
	mu       sync.Mutex
	requests []*GenerationRequest
}

// NewMockGenerator creates a mock that answers every request with content.
func NewMockGenerator(content string) *MockGenerator {
	return &MockGenerator{
		GenerateFunc: func(ctx context.Context, req *GenerationRequest) (*Generation, error) {
			return &Generation{
				Content:     content,
				RawResponse: []byte(`{"id":"mock-response"}`),
				Provider:    "mock",
				Model:       "mock-model",
			}, nil
		},
	}
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, req *GenerationRequest) (*Generation, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &Generation{Content: "{}", RawResponse: []byte(`{}`), Provider: "mock", Model: "mock-model"}, nil
}

// Calls returns how many times Generate was invoked.
func (m *MockGenerator) Calls() int {
	return int(m.calls.Load())
}

// LastRequest returns the most recent request, or nil if Generate was never called.
func (m *MockGenerator) LastRequest() *GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

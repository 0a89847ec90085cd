package mock

import (
	"context"

	"github.com/sushilduseja/divine-vision/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateTextFunc is called by GenerateText if set.
	// If nil, returns FixedResponse.
	GenerateTextFunc func(ctx context.Context, prompt, systemPrompt string, opts ...ai.GenerateOption) (string, error)

	// FixedResponse is the default response when no function is injected.
	FixedResponse string

	callCount int
}

// NewMockGenerator creates a mock generator that echoes a fixed response.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{FixedResponse: "mock response"}
}

// GenerateText returns the injected behavior's result or the fixed response.
func (m *MockGenerator) GenerateText(ctx context.Context, prompt, systemPrompt string, opts ...ai.GenerateOption) (string, error) {
	m.callCount++

	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt, systemPrompt, opts...)
	}
	return m.FixedResponse, nil
}

// CallCount returns the number of times GenerateText was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateTextFunc = nil
	m.FixedResponse = "mock response"
}

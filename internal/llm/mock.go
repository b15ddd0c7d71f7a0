package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockResponse is one scripted reply of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records every request.
// Once the script runs out it writes numbered placeholder questions, so the
// mock provider can run a whole quiz without network access.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	requests []Request
	offline  int
}

// NewMockProvider returns a provider that replays script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if len(m.script) == 0 {
		m.offline++
		return &Response{
			Content:    placeholderQuestion(m.offline),
			Model:      ProviderMock,
			StopReason: "end",
		}, nil
	}

	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      ProviderMock,
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string { return ProviderMock }

// Script queues more replies.
func (m *MockProvider) Script(replies ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, replies...)
}

// Requests returns a copy of every request received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func placeholderQuestion(n int) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"question_id": n,
		"question":    fmt.Sprintf("Offline practice question %d: which option is marked correct?", n),
		"A":           "This one",
		"B":           "Not this one",
		"C":           "Nor this one",
		"answer":      "A",
		"explanation": "The mock provider always marks option A correct.",
		"wikipedia":   "https://en.wikipedia.org/wiki/Trivia",
	})
	return b
}

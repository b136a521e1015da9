package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/encounter-engine/pkg/chat"
)

// MockOracle is a mock implementation of OracleService for testing
type MockOracle struct {
	InitModelFunc    func(ctx context.Context, modelName string) error
	ChatFunc         func(ctx context.Context, messages []chat.ChatMessage) (string, error)
	IsModelReadyFunc func(ctx context.Context, modelName string) (bool, error)

	// Track calls for testing
	InitModelCalls    []string
	ChatCalls         []ChatCall
	IsModelReadyCalls []string

	// Replies are consumed in order by Chat when ChatFunc is unset.
	Replies []string

	mu sync.Mutex // protects all fields above
}

type ChatCall struct {
	Messages []chat.ChatMessage
}

// NewMockOracle creates a new mock oracle service
func NewMockOracle() *MockOracle {
	return &MockOracle{
		InitModelCalls:    make([]string, 0),
		ChatCalls:         make([]ChatCall, 0),
		IsModelReadyCalls: make([]string, 0),
	}
}

// InitModel mocks model initialization
func (m *MockOracle) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// Chat mocks a chat completion
func (m *MockOracle) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls = append(m.ChatCalls, ChatCall{Messages: messages})

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	if len(m.Replies) > 0 {
		reply := m.Replies[0]
		m.Replies = m.Replies[1:]
		return reply, nil
	}
	return "Mock response", nil
}

// IsModelReady mocks model readiness check
func (m *MockOracle) IsModelReady(ctx context.Context, modelName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IsModelReadyCalls = append(m.IsModelReadyCalls, modelName)
	if m.IsModelReadyFunc != nil {
		return m.IsModelReadyFunc(ctx, modelName)
	}
	return true, nil
}

// QueueReply appends a canned reply for Chat to return
func (m *MockOracle) QueueReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replies = append(m.Replies, reply)
}

// SetChatError sets up the mock to return an error on Chat
func (m *MockOracle) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "", err
	}
}

// Reset clears all call tracking and queued replies
func (m *MockOracle) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.ChatCalls = make([]ChatCall, 0)
	m.IsModelReadyCalls = make([]string, 0)
	m.Replies = nil
	m.ChatFunc = nil
}

package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/jwebster45206/encounter-engine/pkg/chat"
)

func TestMockOracle(t *testing.T) {
	oracle := NewMockOracle()

	err := oracle.InitModel(context.Background(), "test-model")
	if err != nil {
		t.Errorf("InitModel failed: %v", err)
	}

	if len(oracle.InitModelCalls) != 1 {
		t.Errorf("Expected 1 InitModel call, got %d", len(oracle.InitModelCalls))
	}

	if oracle.InitModelCalls[0] != "test-model" {
		t.Errorf("Expected model name 'test-model', got '%s'", oracle.InitModelCalls[0])
	}

	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "Hello"},
	}

	reply, err := oracle.Chat(context.Background(), messages)
	if err != nil {
		t.Errorf("Chat failed: %v", err)
	}

	if reply != "Mock response" {
		t.Errorf("Expected 'Mock response', got '%s'", reply)
	}

	if len(oracle.ChatCalls) != 1 {
		t.Errorf("Expected 1 Chat call, got %d", len(oracle.ChatCalls))
	}
}

func TestMockOracle_QueuedReplies(t *testing.T) {
	oracle := NewMockOracle()
	oracle.QueueReply("first")
	oracle.QueueReply("second")

	reply, err := oracle.Chat(context.Background(), nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "first" {
		t.Errorf("Expected 'first', got '%s'", reply)
	}

	reply, _ = oracle.Chat(context.Background(), nil)
	if reply != "second" {
		t.Errorf("Expected 'second', got '%s'", reply)
	}

	// Queue exhausted, falls back to the default
	reply, _ = oracle.Chat(context.Background(), nil)
	if reply != "Mock response" {
		t.Errorf("Expected 'Mock response', got '%s'", reply)
	}
}

func TestMockOracle_ErrorHandling(t *testing.T) {
	oracle := NewMockOracle()

	expectedErr := fmt.Errorf("chat failed")
	oracle.SetChatError(expectedErr)

	_, err := oracle.Chat(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	if err.Error() != expectedErr.Error() {
		t.Errorf("Expected error '%s', got '%s'", expectedErr.Error(), err.Error())
	}

	oracle.Reset()
	if len(oracle.ChatCalls) != 0 {
		t.Errorf("Expected 0 Chat calls after reset, got %d", len(oracle.ChatCalls))
	}
	if _, err := oracle.Chat(context.Background(), nil); err != nil {
		t.Errorf("Chat after reset failed: %v", err)
	}
}

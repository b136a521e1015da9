package services

import (
	"context"
	"testing"

	"github.com/jwebster45206/encounter-engine/pkg/chat"
)

func TestNewVeniceService(t *testing.T) {
	apiKey := "test-api-key"
	modelName := "test-model"

	service := NewVeniceService(apiKey, modelName)

	if service.apiKey != apiKey {
		t.Errorf("Expected apiKey %s, got %s", apiKey, service.apiKey)
	}

	if service.modelName != modelName {
		t.Errorf("Expected modelName %s, got %s", modelName, service.modelName)
	}

	if service.httpClient == nil {
		t.Error("Expected httpClient to be initialized")
	}
}

func TestVeniceService_InitModel(t *testing.T) {
	service := NewVeniceService("test-key", "test-model")

	// Venice requires no explicit model initialization
	if err := service.InitModel(context.Background(), "test-model"); err != nil {
		t.Errorf("InitModel failed: %v", err)
	}
}

func TestVeniceChatRequestStructure(t *testing.T) {
	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "Hello"},
		{Role: chat.ChatRoleAgent, Content: "Hi there!"},
	}

	req := VeniceChatRequest{
		Model:       "test-model",
		Messages:    messages,
		Temperature: DefaultVeniceTemperature,
		MaxTokens:   DefaultVeniceMaxTokens,
		Stream:      false,
	}

	if req.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", req.Model)
	}

	if len(req.Messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(req.Messages))
	}

	if req.Temperature != DefaultVeniceTemperature {
		t.Errorf("Expected temperature %f, got %f", DefaultVeniceTemperature, req.Temperature)
	}
}

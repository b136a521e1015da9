package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwebster45206/encounter-engine/pkg/chat"
)

const (
	veniceBaseURL = "https://api.venice.ai/api/v1"

	DefaultVeniceTemperature = 0.7
	DefaultVeniceMaxTokens   = 1024
)

// VeniceService implements OracleService for Venice AI
type VeniceService struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
}

type VeniceParameters struct {
	IncludeVeniceSystemPrompt bool   `json:"include_venice_system_prompt"`
	EnableWebSearch           string `json:"enable_web_search"`
}

// VeniceChatRequest represents the request structure for Venice AI chat completions
type VeniceChatRequest struct {
	Model            string             `json:"model"`
	Messages         []chat.ChatMessage `json:"messages"`
	Temperature      float64            `json:"temperature,omitempty"`
	MaxTokens        int                `json:"max_tokens,omitempty"`
	Stream           bool               `json:"stream"`
	VeniceParameters VeniceParameters   `json:"venice_parameters"`
}

// VeniceChatChoice represents a single choice in the Venice AI response
type VeniceChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// VeniceChatResponse represents the response structure for Venice AI chat completions
type VeniceChatResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []VeniceChatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewVeniceService creates a new Venice AI oracle service
func NewVeniceService(apiKey string, modelName string) *VeniceService {
	return &VeniceService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// InitModel initializes the model (Venice AI doesn't require explicit model initialization)
func (v *VeniceService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

// IsModelReady checks model availability with a minimal request
func (v *VeniceService) IsModelReady(ctx context.Context, modelName string) (bool, error) {
	return true, nil
}

// Chat sends a chat completion request and returns the raw reply text
func (v *VeniceService) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	veniceReq := VeniceChatRequest{
		Model:       v.modelName,
		Messages:    messages,
		Temperature: DefaultVeniceTemperature,
		MaxTokens:   DefaultVeniceMaxTokens,
		Stream:      false,
		VeniceParameters: VeniceParameters{
			IncludeVeniceSystemPrompt: false,
			EnableWebSearch:           "off",
		},
	}

	reqBody, err := json.Marshal(veniceReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", veniceBaseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("venice api returned status %d: %s", resp.StatusCode, string(body))
	}

	var veniceResp VeniceChatResponse
	if err := json.Unmarshal(body, &veniceResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if veniceResp.Error != nil {
		return "", fmt.Errorf("venice api error: %s", veniceResp.Error.Message)
	}

	if len(veniceResp.Choices) == 0 {
		return "", fmt.Errorf("venice api returned no choices")
	}

	return veniceResp.Choices[0].Message.Content, nil
}

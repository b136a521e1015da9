package services

import (
	"context"

	"github.com/jwebster45206/encounter-engine/pkg/chat"
)

// OracleService is the transport to the generative model refereeing the
// encounter. Replies are raw text; the engine treats them as untrusted
// and extracts any embedded JSON itself.
type OracleService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Chat sends the message list and returns the raw reply text.
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// IsModelReady checks whether the model can serve requests.
	IsModelReady(ctx context.Context, modelName string) (bool, error)
}

package chat

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Oracle narration
	ChatRoleSystem = "system"    // Referee instructions
)

// ChatMessage represents a single message in the conversation with the
// oracle. The shape matches OpenAI-style chat completion APIs.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

package domain

import "context"

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn authored by the user.
	RoleUser Role = "user"
	// RoleAssistant marks a turn authored by the model.
	RoleAssistant Role = "assistant"
)

// Turn is a single conversational exchange entry.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationResult carries the assistant reply and token usage.
type GenerationResult struct {
	Reply            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Generator is the chat completion contract. The system prompt is passed
// separately from the ordered conversation turns so providers can map it to
// their native system role.
type Generator interface {
	Generate(ctx context.Context, system string, turns []Turn) (GenerationResult, error)
}

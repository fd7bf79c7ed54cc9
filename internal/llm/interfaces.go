package llm

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationConfig holds sampling settings. Zero values leave the provider
// default in place.
type GenerationConfig struct {
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

type CompletionRequest struct {
	Messages []Message
	Model    string
	Config   GenerationConfig
}

type AIProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (Message, error)
}

package secondary

import "context"

// LLMClient is the external chat-completion collaborator.
type LLMClient interface {
	// Chat returns the assistant reply for the conversation.
	Chat(ctx context.Context, req ChatRequest) (string, error)

	// ListModels lists model identifiers the provider serves.
	ListModels(ctx context.Context) ([]string, error)

	// Name identifies the provider.
	Name() string
}

// Chat roles understood by LLMClient.
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one message of an LLM conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest is a full chat-completion request.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

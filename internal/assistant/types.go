package assistant

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a role-tagged entry in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports provider token accounting for one completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest carries a fully built message list plus generation parameters.
type CompletionRequest struct {
	Messages    []ChatMessage
	Temperature float32
	MaxTokens   int
}

// CompletionResponse is the provider's reply text plus usage counts.
type CompletionResponse struct {
	Text  string
	Usage TokenUsage
}

// CompletionClient abstracts the upstream completion provider.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

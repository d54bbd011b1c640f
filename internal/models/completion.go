// ABOUTME: Chat completion request shapes passed from the session to the completion client
// ABOUTME: The client adds the model name and disables streaming
package models

const (
	ChatRoleSystem = "system"
	ChatRoleUser   = "user"
)

// ChatMessage is one message of an outgoing completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is what the session asks the completion service for
type CompletionRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

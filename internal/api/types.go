// In file: internal/api/types.go

// Package api defines the public request/response contract of the gateway's
// HTTP surface. These types are what external callers see; they are kept
// separate from the internal llm types so the wire contract can evolve
// independently of the orchestration logic.
package api

// Message is one prior conversation turn supplied by the caller.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AskRequest is the body of POST /api/v1/ask.
type AskRequest struct {
	// Prompt is the user's question about the system landscape or about
	// client requests.
	Prompt string `json:"prompt" binding:"required"`
	// History carries earlier turns of the same conversation, oldest first.
	// The gateway itself does not persist conversations.
	History []Message `json:"history,omitempty"`
	// ConversationID is an optional caller-side identifier, echoed in logs.
	ConversationID string `json:"conversation_id,omitempty"`
}

// Usage holds token usage statistics for one or more model calls.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates usage across the model calls of one run.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ToolInvocation summarizes one tool call made during a run, so callers can
// see how the answer was grounded.
type ToolInvocation struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Failure string `json:"failure,omitempty"`
}

// AskResponse is the body returned by POST /api/v1/ask.
type AskResponse struct {
	Answer          string           `json:"answer"`
	ModelUsed       string           `json:"model_used"`
	Usage           Usage            `json:"usage"`
	LatencyMS       int64            `json:"latency_ms"`
	CacheStatus     string           `json:"cache_status"`
	ToolInvocations []ToolInvocation `json:"tool_invocations,omitempty"`
}

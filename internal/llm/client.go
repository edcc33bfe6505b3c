// In file: internal/llm/client.go
package llm

import (
	"context"

	"github.com/dlm-assistant/landscape-gateway/internal/api"
	"github.com/dlm-assistant/landscape-gateway/internal/tools"
)

// =================================================================================
// Core Data Structures
// =================================================================================

// Role represents the originator of a message in a conversation.
// Using a defined type and constants prevents typos and improves code clarity.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single turn in a conversation. Within one run the
// orchestrator only ever appends turns; existing turns are never rewritten.
type Message struct {
	Role       Role              `json:"role"`
	Content    string            `json:"content"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	ToolCalls  []*tools.ToolCall `json:"tool_calls,omitempty"`
}

// GenerationConfig holds the parameters that control the model's generation
// behavior for one call.
type GenerationConfig struct {
	// The specific model to use for the generation (e.g., "gpt-4o").
	Model string
	// Controls randomness. A lower value makes the output more deterministic.
	// Using a pointer allows us to distinguish between a value of 0.0 and an unset value.
	Temperature *float32
	// The maximum number of tokens to generate in the response.
	MaxTokens int
	// An alternative to sampling with temperature, called nucleus sampling.
	TopP *float32
}

// GenerationResult holds the complete output from one model call.
type GenerationResult struct {
	// The generated text content from the model.
	Content string
	// The tool calls requested by the model. Modern models can request
	// multiple tools in one turn, so this is a slice.
	ToolCalls []*tools.ToolCall
	// Token usage statistics for the generation request.
	Usage api.Usage
}

// =================================================================================
// LLM Client Interface
// =================================================================================

// LLMClient is the universal interface all completion clients implement.
// The orchestrator performs blocking call-and-join rounds, so a single unary
// Generate covers every caller in this system.
type LLMClient interface {
	// Generate performs a standard, blocking request to the LLM.
	// It takes the full conversation history plus the advertised tool
	// schemas and returns a single, complete result. An error from Generate
	// means the completion service itself failed; callers treat that as
	// fatal to the run.
	Generate(
		ctx context.Context,
		messages []Message,
		config *GenerationConfig,
		availableTools []tools.Tool,
	) (*GenerationResult, error)
}

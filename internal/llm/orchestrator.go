// In file: internal/llm/orchestrator.go
package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/sourcegraph/conc/iter"

	"github.com/dlm-assistant/landscape-gateway/internal/api"
	"github.com/dlm-assistant/landscape-gateway/internal/tools"
)

// Orchestrator drives one conversational run: it sends the conversation to
// the model, executes every tool call the model requests, folds the results
// back into the conversation and obtains the final answer with a second
// model call.
//
// The run is a short state machine. The first completion either ends the run
// (no tool calls) or moves it into tool execution; all requested calls are
// executed and joined before the follow-up completion is issued; the second
// completion's text is the final answer. A failing tool never aborts the
// run, its failure descriptor simply becomes conversation content. Only a
// failure of the completion service itself is fatal.
//
// All collaborators are injected at construction, so tests substitute a fake
// client and stub tools.
type Orchestrator struct {
	client  LLMClient
	invoker *tools.Invoker
	manager *tools.ToolManager
	config  *GenerationConfig
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(client LLMClient, invoker *tools.Invoker, manager *tools.ToolManager, config *GenerationConfig) *Orchestrator {
	return &Orchestrator{
		client:  client,
		invoker: invoker,
		manager: manager,
		config:  config,
	}
}

// RunResult is the outcome of one completed orchestration run.
type RunResult struct {
	// Answer is the final natural-language text: the second completion's
	// content when tools ran, the first completion's content otherwise.
	Answer string
	// ToolResults are the outcomes of every tool call of the run, in the
	// order the model requested them.
	ToolResults []*tools.ToolCallResult
	// Usage accumulates token usage across both completions.
	Usage api.Usage
}

// Run executes one conversation run over the given turns (system + history +
// user). The passed slice is not mutated; the run appends to its own copy.
// An error return means the completion service failed and the run produced
// no answer.
func (o *Orchestrator) Run(ctx context.Context, messages []Message) (*RunResult, error) {
	conversation := make([]Message, len(messages), len(messages)+8)
	copy(conversation, messages)

	result := &RunResult{}
	definitions := o.manager.GetDefinitions()

	first, err := o.client.Generate(ctx, conversation, o.config, definitions)
	if err != nil {
		return nil, fmt.Errorf("completion service failed: %w", err)
	}
	result.Usage.Add(first.Usage)

	if len(first.ToolCalls) == 0 {
		// The model answered directly; no backend is touched.
		result.Answer = first.Content
		return result, nil
	}

	// Record the assistant turn that initiated the calls, then execute all
	// of them. The calls are independent, so they run concurrently; iter.Map
	// returns results in request order, which keeps the correlation between
	// request and result deterministic regardless of completion order.
	conversation = append(conversation, Message{
		Role:      RoleAssistant,
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})

	log.Printf("Model requested %d tool call(s)", len(first.ToolCalls))
	result.ToolResults = iter.Map(first.ToolCalls, func(call **tools.ToolCall) *tools.ToolCallResult {
		return o.invoker.Invoke(ctx, *call)
	})

	for _, tr := range result.ToolResults {
		conversation = append(conversation, Message{
			Role:       RoleTool,
			ToolCallID: tr.ID,
			Content:    tr.MessageContent(),
		})
	}

	second, err := o.client.Generate(ctx, conversation, o.config, definitions)
	if err != nil {
		return nil, fmt.Errorf("completion service failed on follow-up: %w", err)
	}
	result.Usage.Add(second.Usage)
	result.Answer = second.Content
	return result, nil
}

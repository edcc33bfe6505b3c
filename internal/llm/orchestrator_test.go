// In file: internal/llm/orchestrator_test.go
package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlm-assistant/landscape-gateway/internal/api"
	"github.com/dlm-assistant/landscape-gateway/internal/backend"
	"github.com/dlm-assistant/landscape-gateway/internal/tools"
)

// fakeClient scripts the completion service turn by turn. Each call to
// Generate consumes the next scripted result and records the messages it was
// given.
type fakeClient struct {
	results  []*GenerationResult
	errs     []error
	calls    int
	received [][]Message
}

var _ LLMClient = (*fakeClient)(nil)

func (f *fakeClient) Generate(_ context.Context, messages []Message, _ *GenerationConfig, _ []tools.Tool) (*GenerationResult, error) {
	snapshot := make([]Message, len(messages))
	copy(snapshot, messages)
	f.received = append(f.received, snapshot)

	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.results) {
		return nil, errors.New("fakeClient: no scripted result left")
	}
	return f.results[i], nil
}

// delayedTool resolves after a short pause, useful for exercising the join.
type delayedTool struct {
	name    string
	delay   time.Duration
	content string
	err     error
}

func (d *delayedTool) Definition() tools.Tool {
	return tools.NewFunctionTool(d.name, "test tool", tools.JSONSchema{Type: "object"})
}

func (d *delayedTool) Execute(context.Context, string) (string, error) {
	time.Sleep(d.delay)
	return d.content, d.err
}

func toolCall(id, name string) *tools.ToolCall {
	return &tools.ToolCall{
		ID:   id,
		Type: tools.ToolTypeFunction,
		Function: tools.ToolCallFunction{
			Name:      name,
			Arguments: "{}",
		},
	}
}

func newOrchestrator(client LLMClient, manager *tools.ToolManager) *Orchestrator {
	return NewOrchestrator(client, tools.NewInvoker(manager), manager, &GenerationConfig{Model: "gpt-4o"})
}

func startConversation() []Message {
	return []Message{
		{Role: RoleSystem, Content: SystemPrompt(IntentGeneral)},
		{Role: RoleUser, Content: "show me the client requests for system CCF"},
	}
}

func TestRunWithoutToolCalls(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	landscape, err := backend.NewLandscapeClient(backend.LandscapeConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	manager := tools.NewToolManager()
	manager.Register(tools.NewSystemDetailsTool(landscape))

	client := &fakeClient{results: []*GenerationResult{
		{Content: "CCF is a development system.", Usage: api.Usage{TotalTokens: 10}},
	}}

	result, err := newOrchestrator(client, manager).Run(context.Background(), startConversation())
	require.NoError(t, err)

	assert.Equal(t, "CCF is a development system.", result.Answer)
	assert.Empty(t, result.ToolResults)
	assert.Equal(t, 1, client.calls, "no follow-up call without tool calls")
	assert.Zero(t, hits.Load(), "no backend call without tool calls")
}

func TestRunExecutesEveryToolCallBeforeFollowUp(t *testing.T) {
	manager := tools.NewToolManager()
	// The slower tool comes first, so completion order differs from request
	// order; the results must still line up by correlation ID.
	manager.Register(&delayedTool{name: "slow_tool", delay: 50 * time.Millisecond, content: "slow result"})
	manager.Register(&delayedTool{name: "fast_tool", content: "fast result"})

	client := &fakeClient{results: []*GenerationResult{
		{ToolCalls: []*tools.ToolCall{
			toolCall("call_a", "slow_tool"),
			toolCall("call_b", "fast_tool"),
			toolCall("call_c", "fast_tool"),
		}},
		{Content: "combined answer"},
	}}

	result, err := newOrchestrator(client, manager).Run(context.Background(), startConversation())
	require.NoError(t, err)
	assert.Equal(t, "combined answer", result.Answer)

	require.Len(t, result.ToolResults, 3)
	assert.Equal(t, "call_a", result.ToolResults[0].ID)
	assert.Equal(t, "call_b", result.ToolResults[1].ID)
	assert.Equal(t, "call_c", result.ToolResults[2].ID)
	assert.Equal(t, "slow result", result.ToolResults[0].Content)

	// The follow-up call must see the assistant turn plus one tool turn per
	// request, correlated by ID, before anything else happened.
	require.Equal(t, 2, client.calls)
	followUp := client.received[1]
	require.Len(t, followUp, len(startConversation())+1+3)
	assistantTurn := followUp[2]
	assert.Equal(t, RoleAssistant, assistantTurn.Role)
	require.Len(t, assistantTurn.ToolCalls, 3)
	for i, id := range []string{"call_a", "call_b", "call_c"} {
		turn := followUp[3+i]
		assert.Equal(t, RoleTool, turn.Role)
		assert.Equal(t, id, turn.ToolCallID)
	}
}

func TestRunDoesNotMutateCallerMessages(t *testing.T) {
	manager := tools.NewToolManager()
	manager.Register(&delayedTool{name: "fast_tool", content: "ok"})

	client := &fakeClient{results: []*GenerationResult{
		{ToolCalls: []*tools.ToolCall{toolCall("call_a", "fast_tool")}},
		{Content: "done"},
	}}

	conversation := startConversation()
	_, err := newOrchestrator(client, manager).Run(context.Background(), conversation)
	require.NoError(t, err)
	assert.Len(t, conversation, 2)
}

func TestRunSurvivesToolFailure(t *testing.T) {
	manager := tools.NewToolManager()
	manager.Register(&delayedTool{
		name: "get_system_details",
		err:  &backend.TransportError{URL: "https://dlm/slim", Err: errors.New("timeout awaiting response")},
	})

	client := &fakeClient{results: []*GenerationResult{
		{ToolCalls: []*tools.ToolCall{toolCall("call_a", "get_system_details")}},
		{Content: "The landscape service is currently unreachable, please try again later."},
	}}

	result, err := newOrchestrator(client, manager).Run(context.Background(), startConversation())
	require.NoError(t, err)

	require.Len(t, result.ToolResults, 1)
	require.NotNil(t, result.ToolResults[0].Failure)
	assert.Equal(t, tools.FailureBackendUnavailable, result.ToolResults[0].Failure.Kind)
	assert.Contains(t, result.Answer, "unreachable")
}

func TestRunSurvivesUnknownTool(t *testing.T) {
	client := &fakeClient{results: []*GenerationResult{
		{ToolCalls: []*tools.ToolCall{toolCall("call_a", "get_unknown_thing")}},
		{Content: "I do not have that capability."},
	}}

	result, err := newOrchestrator(client, tools.NewToolManager()).Run(context.Background(), startConversation())
	require.NoError(t, err)

	require.Len(t, result.ToolResults, 1)
	require.NotNil(t, result.ToolResults[0].Failure)
	assert.Equal(t, tools.FailureUnknownTool, result.ToolResults[0].Failure.Kind)
	assert.Equal(t, "I do not have that capability.", result.Answer)
}

func TestRunFailsWhenCompletionServiceFails(t *testing.T) {
	client := &fakeClient{errs: []error{errors.New("upstream 503")}}

	_, err := newOrchestrator(client, tools.NewToolManager()).Run(context.Background(), startConversation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion service failed")
}

func TestRunFailsWhenFollowUpFails(t *testing.T) {
	manager := tools.NewToolManager()
	manager.Register(&delayedTool{name: "fast_tool", content: "ok"})

	client := &fakeClient{
		results: []*GenerationResult{
			{ToolCalls: []*tools.ToolCall{toolCall("call_a", "fast_tool")}},
		},
		errs: []error{nil, errors.New("upstream reset")},
	}

	_, err := newOrchestrator(client, manager).Run(context.Background(), startConversation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "follow-up")
}

func TestRunAccumulatesUsage(t *testing.T) {
	manager := tools.NewToolManager()
	manager.Register(&delayedTool{name: "fast_tool", content: "ok"})

	client := &fakeClient{results: []*GenerationResult{
		{
			ToolCalls: []*tools.ToolCall{toolCall("call_a", "fast_tool")},
			Usage:     api.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
		},
		{
			Content: "done",
			Usage:   api.Usage{PromptTokens: 150, CompletionTokens: 30, TotalTokens: 180},
		},
	}}

	result, err := newOrchestrator(client, manager).Run(context.Background(), startConversation())
	require.NoError(t, err)
	assert.Equal(t, api.Usage{PromptTokens: 250, CompletionTokens: 50, TotalTokens: 300}, result.Usage)
}

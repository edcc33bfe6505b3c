// In file: internal/tools/invoker.go
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dlm-assistant/landscape-gateway/internal/backend"
	"github.com/dlm-assistant/landscape-gateway/internal/filter"
)

// ArgumentError reports that a tool was invoked without a required argument
// or with arguments that do not fit the tool's expected shape. It is raised
// before any network call.
type ArgumentError struct {
	Tool    string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %s: %s", e.Tool, e.Message)
}

// Invoker executes individual tool calls against the registry. It is the one
// place where errors stop being errors: every call produces exactly one
// ToolCallResult, failed or not, so a broken tool can never abort the
// surrounding conversation run.
type Invoker struct {
	manager *ToolManager
}

func NewInvoker(manager *ToolManager) *Invoker {
	return &Invoker{manager: manager}
}

// Invoke resolves and runs one tool call. It never returns an error and
// never retries; the outcome, good or bad, is data.
func (inv *Invoker) Invoke(ctx context.Context, call *ToolCall) *ToolCallResult {
	result := &ToolCallResult{ID: call.ID, Name: call.Function.Name}

	tool, ok := inv.manager.Resolve(call.Function.Name)
	if !ok {
		// A name we never advertised: the schema shown to the model and the
		// registry have drifted apart.
		log.Printf("WARNING: model requested unregistered tool %q", call.Function.Name)
		result.Failure = &Failure{
			Kind:    FailureUnknownTool,
			Message: fmt.Sprintf("tool %q is not available", call.Function.Name),
		}
		return result
	}

	content, err := tool.Execute(ctx, call.Function.Arguments)
	if err != nil {
		result.Failure = classify(err)
		log.Printf("Tool %s (ID: %s) failed: %s: %s", result.Name, result.ID, result.Failure.Kind, result.Failure.Message)
		return result
	}

	result.Content = content
	return result
}

// classify maps a tool execution error onto the closed failure taxonomy.
func classify(err error) *Failure {
	var verr *filter.ValidationError
	if errors.As(err, &verr) {
		return &Failure{Kind: FailureValidation, Message: verr.Error()}
	}

	var aerr *ArgumentError
	if errors.As(err, &aerr) {
		return &Failure{Kind: FailureInvalidArguments, Message: aerr.Error()}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Failure{Kind: FailureInvalidArguments, Message: "tool arguments are not valid JSON: " + err.Error()}
	}

	var terr *backend.TransportError
	if errors.As(err, &terr) {
		return &Failure{Kind: FailureBackendUnavailable, Message: terr.Error()}
	}

	// Anything else means the backend was reached but the exchange went
	// wrong, including explicit StatusError values.
	return &Failure{Kind: FailureBackendError, Message: err.Error()}
}

// In file: internal/tools/types.go

// Package tools defines the function-calling (tool use) layer of the gateway.
// These types provide a provider-agnostic representation of the tools that
// are advertised to the LLM, of the model's requests to invoke them, and of
// the results that flow back into the conversation.
package tools

import "encoding/json"

// ToolTypeFunction is the standard type for function-based tools.
const ToolTypeFunction = "function"

// Tool defines the schema for a function that can be described to an LLM.
// This is the information you send *to* the model to make it aware of a tool's existence.
type Tool struct {
	// Type specifies the type of tool, which is almost always "function".
	Type string `json:"type"`
	// Function holds the detailed definition of the function.
	Function Function `json:"function"`
}

// Function defines the name, description, and parameters of a callable tool.
// This structure is based on the common JSON Schema format used by major LLM providers.
type Function struct {
	// Name is the name of the function to be called (e.g., "get_system_details").
	Name string `json:"name"`
	// Description is a clear, concise explanation of what the function does.
	// This is critical, as the LLM uses this description to decide when to use the tool.
	Description string `json:"description"`
	// Parameters defines the arguments the function accepts, structured as a JSON Schema.
	Parameters JSONSchema `json:"parameters"`
}

// JSONSchema provides a structured, type-safe representation of the JSON Schema
// used for defining tool parameters. Using this struct instead of `map[string]interface{}`
// prevents common schema errors and makes tool definitions much clearer.
//
// The schema is advisory: it tells the model which arguments exist, but each
// tool's own argument parsing remains the authoritative validation.
type JSONSchema struct {
	// Type defines the data type for a schema node (e.g., "object", "string", "array").
	// For the top-level parameters object, this should always be "object".
	Type string `json:"type"`
	// Description explains what a specific parameter is for.
	Description string `json:"description,omitempty"`
	// Enum restricts a string parameter to a closed set of legal values.
	Enum []string `json:"enum,omitempty"`
	// Properties describes the parameters of an object. The keys are parameter names,
	// and the values are further JSONSchema definitions for each parameter.
	Properties map[string]*JSONSchema `json:"properties,omitempty"`
	// Items describes the element schema of an array parameter.
	Items *JSONSchema `json:"items,omitempty"`
	// Required is a list of parameter names that are mandatory for a function call.
	Required []string `json:"required,omitempty"`
}

// ToolCall represents a request *from* the LLM to execute a specific tool with
// given arguments.
type ToolCall struct {
	// ID is the correlation identifier for this specific call. It is what ties
	// the eventual result back to the model's request within one turn.
	ID string `json:"id"`
	// Type indicates the type of tool being called, which is almost always "function".
	Type string `json:"type"`
	// Function contains the name and arguments for the function the LLM wants to execute.
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the name and arguments of a function call requested by the LLM.
type ToolCallFunction struct {
	// Name is the name of the function the LLM has decided to call.
	Name string `json:"name"`
	// Arguments is a JSON string containing the arguments for the function.
	Arguments string `json:"arguments"`
}

// FailureKind classifies why a tool invocation failed. The set is closed:
// every failure the invoker can produce maps to exactly one kind.
type FailureKind string

const (
	// FailureUnknownTool means the model requested a tool name absent from
	// the registry. This indicates a schema/advertisement mismatch worth
	// logging, but it is not fatal to the conversation.
	FailureUnknownTool FailureKind = "unknown_tool"
	// FailureInvalidArguments means required identifying arguments were
	// missing or the argument JSON did not parse.
	FailureInvalidArguments FailureKind = "invalid_arguments"
	// FailureValidation means the filter description was malformed or
	// contradictory (for example BT without HIGH). No network call was made.
	FailureValidation FailureKind = "validation_error"
	// FailureBackendUnavailable means the backend never produced a response:
	// timeout, connection refused, TLS failure.
	FailureBackendUnavailable FailureKind = "backend_unavailable"
	// FailureBackendError means the backend responded with an error status
	// or an unusable body.
	FailureBackendError FailureKind = "backend_error"
)

// Failure is the structured descriptor of a failed tool invocation.
type Failure struct {
	Kind    FailureKind `json:"reason"`
	Message string      `json:"error"`
}

// ToolCallResult is the outcome of exactly one ToolCall. Either Content holds
// the successful payload or Failure describes what went wrong; never both.
// Failed results still flow into the conversation so the model can explain
// the problem in its final answer.
type ToolCallResult struct {
	ID      string
	Name    string
	Content string
	Failure *Failure
}

// OK reports whether the invocation succeeded.
func (r *ToolCallResult) OK() bool { return r.Failure == nil }

// MessageContent renders the result as the content of a tool turn. Failures
// become a small JSON object the model can read and relay to the user.
func (r *ToolCallResult) MessageContent() string {
	if r.Failure == nil {
		return r.Content
	}
	raw, err := json.Marshal(r.Failure)
	if err != nil {
		return `{"error":"tool failed and the failure could not be serialized"}`
	}
	return string(raw)
}

// NewFunctionTool is a helper that simplifies the creation of a new Tool.
// It reduces boilerplate and ensures the tool is created with the correct "function" type.
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// In file: internal/tools/invoker_test.go
package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlm-assistant/landscape-gateway/internal/backend"
	"github.com/dlm-assistant/landscape-gateway/internal/filter"
)

func call(name, arguments string) *ToolCall {
	return &ToolCall{
		ID:   "call_1",
		Type: ToolTypeFunction,
		Function: ToolCallFunction{
			Name:      name,
			Arguments: arguments,
		},
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	inv := NewInvoker(NewToolManager())

	result := inv.Invoke(context.Background(), call("get_unknown_thing", "{}"))

	assert.Equal(t, "call_1", result.ID)
	assert.False(t, result.OK())
	require.NotNil(t, result.Failure)
	assert.Equal(t, FailureUnknownTool, result.Failure.Kind)
	assert.Contains(t, result.MessageContent(), "get_unknown_thing")
}

func TestInvokeSuccess(t *testing.T) {
	tm := NewToolManager()
	tm.Register(&stubTool{name: "echo", content: `{"ok":true}`})
	inv := NewInvoker(tm)

	result := inv.Invoke(context.Background(), call("echo", "{}"))

	require.True(t, result.OK())
	assert.Equal(t, `{"ok":true}`, result.Content)
	assert.Equal(t, `{"ok":true}`, result.MessageContent())
}

func TestInvokeClassifiesFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind FailureKind
	}{
		{
			name: "validation error",
			err:  &filter.ValidationError{Field: "REQUEST_ID", Message: "operator EQ does not take a HIGH value"},
			kind: FailureValidation,
		},
		{
			name: "argument error",
			err:  &ArgumentError{Tool: "get_system_details", Message: "either 'sid' or 'objid' is required"},
			kind: FailureInvalidArguments,
		},
		{
			name: "transport failure",
			err:  &backend.TransportError{URL: "https://dlm/slim", Err: errors.New("connection refused")},
			kind: FailureBackendUnavailable,
		},
		{
			name: "status failure",
			err:  &backend.StatusError{URL: "https://dlm/slim", StatusCode: 500, Body: "dump"},
			kind: FailureBackendError,
		},
		{
			name: "unclassified failure",
			err:  errors.New("short read"),
			kind: FailureBackendError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tm := NewToolManager()
			tm.Register(&stubTool{name: "flaky", err: tc.err})
			inv := NewInvoker(tm)

			result := inv.Invoke(context.Background(), call("flaky", "{}"))

			assert.False(t, result.OK())
			require.NotNil(t, result.Failure)
			assert.Equal(t, tc.kind, result.Failure.Kind)
			// The failure must be relayable to the model as JSON content.
			assert.Contains(t, result.MessageContent(), string(tc.kind))
		})
	}
}

func TestInvokeWrappedErrorsStillClassify(t *testing.T) {
	tm := NewToolManager()
	wrapped := &backend.TransportError{URL: "https://dlm/slim", Err: context.DeadlineExceeded}
	tm.Register(&stubTool{name: "slow", err: wrapped})
	inv := NewInvoker(tm)

	result := inv.Invoke(context.Background(), call("slow", "{}"))
	require.NotNil(t, result.Failure)
	assert.Equal(t, FailureBackendUnavailable, result.Failure.Kind)
}

// In file: internal/llm/gemini_client_test.go
package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestParseGeminiResponseAssignsUniqueCallIDs(t *testing.T) {
	// One turn may call the same tool several times, e.g. looking up two
	// systems; every call needs its own correlation ID so the tool turns
	// line up with the right request.
	resp := geminiResponse(
		genai.FunctionCall{Name: "get_system_details", Args: map[string]any{"sid": "CCF"}},
		genai.FunctionCall{Name: "get_system_details", Args: map[string]any{"sid": "ER1"}},
	)

	result, err := parseGeminiResponse(resp)
	require.NoError(t, err)
	require.Len(t, result.ToolCalls, 2)

	assert.NotEqual(t, result.ToolCalls[0].ID, result.ToolCalls[1].ID)
	assert.Equal(t, "get_system_details", result.ToolCalls[0].Function.Name)
	assert.Equal(t, "get_system_details", result.ToolCalls[1].Function.Name)
	assert.Contains(t, result.ToolCalls[0].Function.Arguments, "CCF")
	assert.Contains(t, result.ToolCalls[1].Function.Arguments, "ER1")
}

func TestParseGeminiResponseCollectsTextAndCalls(t *testing.T) {
	resp := geminiResponse(
		genai.Text("Let me look that up."),
		genai.FunctionCall{Name: "get_system_sections", Args: map[string]any{}},
	)
	resp.UsageMetadata = &genai.UsageMetadata{PromptTokenCount: 40, CandidatesTokenCount: 8, TotalTokenCount: 48}

	result, err := parseGeminiResponse(resp)
	require.NoError(t, err)

	assert.Equal(t, "Let me look that up.", result.Content)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "get_system_sections", result.ToolCalls[0].Function.Name)
	assert.Equal(t, 40, result.Usage.PromptTokens)
	assert.Equal(t, 48, result.Usage.TotalTokens)
}

func TestParseGeminiResponseRejectsEmptyCandidates(t *testing.T) {
	_, err := parseGeminiResponse(&genai.GenerateContentResponse{})
	require.Error(t, err)
}

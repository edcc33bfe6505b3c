// In file: internal/tools/sections_tool.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dlm-assistant/landscape-gateway/internal/backend"
)

// --- Sections Tool Implementation ---

// SectionsTool retrieves the section metadata catalog of the landscape
// service. The model uses it to discover which sections exist before asking
// get_system_details for a focused subset.
type SectionsTool struct {
	client *backend.LandscapeClient
}

// Statically verify that SectionsTool implements the ToolExecutor interface.
var _ ToolExecutor = (*SectionsTool)(nil)

// NewSectionsTool creates a new instance of the SectionsTool.
func NewSectionsTool(client *backend.LandscapeClient) *SectionsTool {
	return &SectionsTool{client: client}
}

// Definition describes the tool to the LLM. It takes no arguments.
func (st *SectionsTool) Definition() Tool {
	return NewFunctionTool(
		"get_system_sections",
		"List the data sections available for system-details lookups, with a description of each. "+
			"Use this to plan which sections to request from get_system_details.",
		JSONSchema{
			Type:       "object",
			Properties: map[string]*JSONSchema{},
			Required:   []string{},
		},
	)
}

// Execute fetches the catalog and returns it as JSON.
func (st *SectionsTool) Execute(ctx context.Context, _ string) (string, error) {
	info, err := st.client.Sections(ctx)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to serialize sections catalog: %w", err)
	}
	return string(raw), nil
}

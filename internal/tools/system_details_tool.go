// In file: internal/tools/system_details_tool.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dlm-assistant/landscape-gateway/internal/backend"
)

// --- System Details Tool Implementation ---

// SystemDetailsTool fetches detailed cockpit data for a single system from
// the landscape service. The backend client is injected so tests can point
// the tool at a fake server.
type SystemDetailsTool struct {
	client *backend.LandscapeClient
}

// Statically verify that SystemDetailsTool implements the ToolExecutor interface.
var _ ToolExecutor = (*SystemDetailsTool)(nil)

// NewSystemDetailsTool creates a new instance of the SystemDetailsTool.
func NewSystemDetailsTool(client *backend.LandscapeClient) *SystemDetailsTool {
	return &SystemDetailsTool{client: client}
}

// Definition describes the tool to the LLM. The section catalog in the
// description mirrors what the landscape service actually serves, so the
// model can pick a focused section instead of pulling everything.
func (st *SystemDetailsTool) Definition() Tool {
	return NewFunctionTool(
		"get_system_details",
		"Get detailed system-landscape data for a single system. Either 'sid' or 'objid' is mandatory. "+
			"Request focused sections to keep the answer small: "+
			"system_details (SID, status, connections, database, app servers), "+
			"Tickets (monitoring notes, incidents, alerts), "+
			"program_landscape (landscape name, responsible persons, milestones, related systems), "+
			"Clients (client numbers, descriptions, roles), "+
			"Software_Components (versions, support packages), "+
			"all-sections (all filtered sections), ALL (complete raw data).",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"sid": {
					Type:        "string",
					Description: "System ID (3 characters), the preferred identifier, e.g. 'CCF'.",
				},
				"objid": {
					Type:        "string",
					Description: "Object ID, an alternative identifier when the SID is unknown.",
				},
				"sysType": {
					Type:        "string",
					Description: "System type. Defaults to ABAPSystem.",
				},
				"sections": {
					Type:        "array",
					Description: "Section names to retrieve. Omit for all sections.",
					Items:       &JSONSchema{Type: "string"},
				},
			},
			Required: []string{},
		},
	)
}

// Execute validates the identifying arguments and performs the lookup.
// A missing sid/objid pair fails before any network traffic.
func (st *SystemDetailsTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args struct {
		SID      string   `json:"sid"`
		ObjID    string   `json:"objid"`
		SysType  string   `json:"sysType"`
		Sections []string `json:"sections"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments for system details tool: %w", err)
	}
	if args.SID == "" && args.ObjID == "" {
		return "", &ArgumentError{
			Tool:    "get_system_details",
			Message: "either 'sid' or 'objid' is required to identify the system",
		}
	}

	raw, err := st.client.SystemData(ctx, backend.SystemDataRequest{
		SysType:  args.SysType,
		SID:      args.SID,
		ObjID:    args.ObjID,
		Sections: args.Sections,
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// In file: internal/tools/request_search_tool.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dlm-assistant/landscape-gateway/internal/backend"
	"github.com/dlm-assistant/landscape-gateway/internal/filter"
)

// --- Client-Request Search Tool Implementation ---

// Wire group names of the client-request search payload. The request header
// section and the scope-item section are the two filterable groups.
const (
	headerGroup = "HEADER"
	itemGroup   = "SI"
)

// RequestSearchTool searches client requests (BCM) with selection-table
// filters built from the model's arguments. The filter portion of the
// arguments is routed through the filter grammar, so a malformed selection
// option is rejected before any network call.
type RequestSearchTool struct {
	client *backend.RequestClient
}

// Statically verify that RequestSearchTool implements the ToolExecutor interface.
var _ ToolExecutor = (*RequestSearchTool)(nil)

// NewRequestSearchTool creates a new instance of the RequestSearchTool.
func NewRequestSearchTool(client *backend.RequestClient) *RequestSearchTool {
	return &RequestSearchTool{client: client}
}

// selectionOptionSchema describes one SIGN/OPTION/LOW/HIGH condition. Shared
// by both filter groups.
func selectionOptionSchema() *JSONSchema {
	return &JSONSchema{
		Type: "object",
		Properties: map[string]*JSONSchema{
			"SIGN": {
				Type:        "string",
				Enum:        []string{"I", "E"},
				Description: "I to include matching values, E to exclude them. Defaults to I.",
			},
			"OPTION": {
				Type: "string",
				Enum: []string{"EQ", "GE", "LE", "BT", "NB", "CP"},
				Description: "Comparison operator: EQ equal, GE greater-or-equal, LE less-or-equal, " +
					"BT between, NB not-between, CP contains-pattern. BT and NB need both LOW and HIGH; " +
					"every other operator takes LOW only.",
			},
			"LOW": {
				Type:        "string",
				Description: "The value, or the lower bound for BT/NB.",
			},
			"HIGH": {
				Type:        "string",
				Description: "The upper bound. Only valid for BT and NB.",
			},
		},
		Required: []string{"OPTION", "LOW"},
	}
}

// criterionSchema describes one field criterion of a filter group.
func criterionSchema(table string) *JSONSchema {
	return &JSONSchema{
		Type: "array",
		Description: fmt.Sprintf("Filter criteria for the %s section. Multiple options on one field are "+
			"OR-combined, different fields are AND-combined.", table),
		Items: &JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"FIELDNAME": {
					Type:        "string",
					Description: "Technical field name to filter on, e.g. 'REQUEST_ID', 'TA_SID', 'STATUS'.",
				},
				"VALUE_SELOP": {
					Type:        "array",
					Description: "Selection options for this field; several options are OR-combined.",
					Items:       selectionOptionSchema(),
				},
			},
			Required: []string{"FIELDNAME", "VALUE_SELOP"},
		},
	}
}

// Definition describes the tool to the LLM.
func (rt *RequestSearchTool) Definition() Tool {
	return NewFunctionTool(
		"search_client_requests",
		"Search client requests (BCM) by building a dynamic filter payload from the user's question. "+
			"Filter the request header with HEADER_FILTER and the scope items with SI_FILTER, and list "+
			"the technical fields to return in HEADER_OUT_FIELD / SI_OUT_FIELD as comma-separated strings.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"HEADER_FILTER": criterionSchema("request header"),
				"SI_FILTER":     criterionSchema("scope item"),
				"HEADER_OUT_FIELD": {
					Type:        "string",
					Description: "Comma-separated header fields to return, e.g. 'REQUEST_ID,TA_SID,TA_CLNT,STATUS'.",
				},
				"SI_OUT_FIELD": {
					Type:        "string",
					Description: "Comma-separated scope-item fields to return, e.g. 'ID,DESCRIPTION,PROCESSOR'.",
				},
			},
			Required: []string{"HEADER_FILTER", "HEADER_OUT_FIELD"},
		},
	)
}

// Execute parses the loose filter description, validates it through the
// filter grammar and runs the search. The item group is only attached when
// the model supplied scope-item filters or output fields.
func (rt *RequestSearchTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args struct {
		HeaderFilter   []filter.CriterionSpec `json:"HEADER_FILTER"`
		ItemFilter     []filter.CriterionSpec `json:"SI_FILTER"`
		HeaderOutField string                 `json:"HEADER_OUT_FIELD"`
		ItemOutField   string                 `json:"SI_OUT_FIELD"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments for request search tool: %w", err)
	}
	if len(args.HeaderFilter) == 0 {
		return "", &ArgumentError{
			Tool:    "search_client_requests",
			Message: "HEADER_FILTER must contain at least one criterion",
		}
	}

	groups := []filter.GroupSpec{{
		Name:         headerGroup,
		Criteria:     args.HeaderFilter,
		OutputFields: args.HeaderOutField,
	}}
	if len(args.ItemFilter) > 0 || args.ItemOutField != "" {
		groups = append(groups, filter.GroupSpec{
			Name:         itemGroup,
			Criteria:     args.ItemFilter,
			OutputFields: args.ItemOutField,
		})
	}

	payload, err := filter.Build(groups)
	if err != nil {
		return "", err
	}

	result, err := rt.client.Search(ctx, payload)
	if err != nil {
		return "", err
	}
	if !result.Structured {
		// Tag unparsed bodies so the model knows it is looking at raw text.
		raw, err := json.Marshal(map[string]string{"raw_text": result.Body})
		if err != nil {
			return "", fmt.Errorf("failed to wrap raw backend response: %w", err)
		}
		return string(raw), nil
	}
	return result.Body, nil
}

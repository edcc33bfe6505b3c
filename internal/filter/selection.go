// In file: internal/filter/selection.go

// Package filter models the selection-table query grammar understood by the
// SAP-side backend services. A query is a set of named filter groups; each
// group holds field-level criteria whose values are classic selection options
// (SIGN / OPTION / LOW / HIGH). The package converts the loosely-typed filter
// descriptions produced by the LLM into a validated, strongly-typed payload
// and nothing else: it performs no I/O and does not own the backend's field
// dictionary.
package filter

import (
	"encoding/json"
	"strings"
)

// Sign states whether a selection option includes or excludes the matched values.
type Sign string

const (
	SignInclude Sign = "I"
	SignExclude Sign = "E"
)

// Operator is the comparison operator of a selection option. The two range
// operators (BT, NB) are the only ones that take an upper bound.
type Operator string

const (
	OpEqual           Operator = "EQ"
	OpGreaterEqual    Operator = "GE"
	OpLessEqual       Operator = "LE"
	OpBetween         Operator = "BT"
	OpNotBetween      Operator = "NB"
	OpContainsPattern Operator = "CP"
)

// validSigns and validOperators are the closed enums accepted by Build.
var (
	validSigns = map[Sign]bool{
		SignInclude: true,
		SignExclude: true,
	}
	validOperators = map[Operator]bool{
		OpEqual:           true,
		OpGreaterEqual:    true,
		OpLessEqual:       true,
		OpBetween:         true,
		OpNotBetween:      true,
		OpContainsPattern: true,
	}
)

// IsRange reports whether the operator takes both a lower and an upper bound.
func (op Operator) IsRange() bool {
	return op == OpBetween || op == OpNotBetween
}

// SelectionOption is one atomic filter condition on a field. High is only
// populated for range operators; Build rejects it anywhere else.
type SelectionOption struct {
	Sign     Sign     `json:"SIGN"`
	Operator Operator `json:"OPTION"`
	Low      string   `json:"LOW"`
	High     string   `json:"HIGH,omitempty"`
}

// Criterion is a field name plus its selection options. Multiple options on
// the same field are OR-combined by the backend.
type Criterion struct {
	FieldName string            `json:"FIELDNAME"`
	Options   []SelectionOption `json:"VALUE_SELOP"`
}

// Group is one named section of a query payload (for example the request
// header vs. the scope items). Criteria within a group are AND-combined.
// OutputFields lists the technical field names the backend should return for
// this group; an empty list leaves the backend default in place.
type Group struct {
	Name         string
	Criteria     []Criterion
	OutputFields []string
}

// QueryPayload is the complete, validated body of a client-request search.
// Groups keep their construction order.
type QueryPayload struct {
	Groups []Group
}

// Wire key suffixes of the backend contract: for a group named HEADER the
// criteria travel under HEADER_FILTER and the requested output fields under
// HEADER_OUT_FIELD as a comma-separated string.
const (
	filterKeySuffix   = "_FILTER"
	outFieldKeySuffix = "_OUT_FIELD"
)

// MarshalJSON renders the payload in the backend's wire shape.
func (p *QueryPayload) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, 2*len(p.Groups))
	for _, g := range p.Groups {
		body[g.Name+filterKeySuffix] = g.Criteria
		if len(g.OutputFields) > 0 {
			body[g.Name+outFieldKeySuffix] = strings.Join(g.OutputFields, ",")
		}
	}
	return json.Marshal(body)
}

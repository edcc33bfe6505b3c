// In file: internal/filter/build.go
package filter

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed or contradictory filter description.
// It is raised before any network call and is never retried; the invoker
// surfaces it to the model as a failed tool result.
type ValidationError struct {
	Field   string // technical field name the option belongs to, if known
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("filter validation failed on field %q: %s", e.Field, e.Message)
	}
	return "filter validation failed: " + e.Message
}

// OptionSpec is the loosely-typed selection option as produced by the LLM.
// Sign and Operator arrive as raw strings and are validated by Build; an
// empty Sign defaults to Include and an empty Operator to Equal, the classic
// selection-table defaults.
type OptionSpec struct {
	Sign     string `json:"SIGN"`
	Operator string `json:"OPTION"`
	Low      string `json:"LOW"`
	High     string `json:"HIGH,omitempty"`
}

// CriterionSpec is the loosely-typed form of one field criterion.
type CriterionSpec struct {
	FieldName string       `json:"FIELDNAME"`
	Options   []OptionSpec `json:"VALUE_SELOP"`
}

// GroupSpec describes one filter group to build. OutputFields is the
// comma-separated field list exactly as the model emits it; blank segments
// are dropped and duplicates removed while preserving first-seen order.
type GroupSpec struct {
	Name         string
	Criteria     []CriterionSpec
	OutputFields string
}

// Build converts loosely-typed group descriptions into a validated
// QueryPayload. Checks run in a fixed order and the first failure wins:
//
//  1. every criterion names a non-empty field and carries at least one option
//  2. SIGN and OPTION must be inside their enums (after defaulting)
//  3. HIGH is required for BT/NB and rejected for every other operator; a
//     stray HIGH signals ambiguous intent and is never silently dropped
//  4. per-group output fields are deduplicated, first-seen order kept
//
// Field names themselves are not checked against a dictionary: the backend
// owns the set of legal fields, this layer only enforces structure. Build is
// pure, so the same input always yields a structurally identical payload.
func Build(groups []GroupSpec) (*QueryPayload, error) {
	payload := &QueryPayload{Groups: make([]Group, 0, len(groups))}
	for _, gs := range groups {
		if gs.Name == "" {
			return nil, &ValidationError{Message: "filter group name must not be empty"}
		}
		g := Group{Name: gs.Name, Criteria: make([]Criterion, 0, len(gs.Criteria))}
		for _, cs := range gs.Criteria {
			crit, err := buildCriterion(cs)
			if err != nil {
				return nil, err
			}
			g.Criteria = append(g.Criteria, crit)
		}
		g.OutputFields = splitOutputFields(gs.OutputFields)
		payload.Groups = append(payload.Groups, g)
	}
	return payload, nil
}

func buildCriterion(cs CriterionSpec) (Criterion, error) {
	if strings.TrimSpace(cs.FieldName) == "" {
		return Criterion{}, &ValidationError{Message: "criterion is missing FIELDNAME"}
	}
	if len(cs.Options) == 0 {
		return Criterion{}, &ValidationError{
			Field:   cs.FieldName,
			Message: "criterion needs at least one selection option",
		}
	}

	crit := Criterion{FieldName: cs.FieldName, Options: make([]SelectionOption, 0, len(cs.Options))}
	for _, os := range cs.Options {
		opt, err := buildOption(cs.FieldName, os)
		if err != nil {
			return Criterion{}, err
		}
		crit.Options = append(crit.Options, opt)
	}
	return crit, nil
}

func buildOption(field string, os OptionSpec) (SelectionOption, error) {
	sign := Sign(os.Sign)
	if sign == "" {
		sign = SignInclude
	}
	if !validSigns[sign] {
		return SelectionOption{}, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("SIGN %q is not valid, expected I or E", os.Sign),
		}
	}

	op := Operator(os.Operator)
	if op == "" {
		op = OpEqual
	}
	if !validOperators[op] {
		return SelectionOption{}, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("OPTION %q is not a known operator", os.Operator),
		}
	}

	if os.Low == "" {
		return SelectionOption{}, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("operator %s requires a LOW value", op),
		}
	}

	if op.IsRange() {
		if os.High == "" {
			return SelectionOption{}, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("operator %s requires a HIGH value", op),
			}
		}
		if op == OpBetween && os.Low > os.High {
			return SelectionOption{}, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("BT range is inverted: LOW %q is greater than HIGH %q", os.Low, os.High),
			}
		}
	} else if os.High != "" {
		return SelectionOption{}, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("operator %s does not take a HIGH value (got %q)", op, os.High),
		}
	}

	return SelectionOption{Sign: sign, Operator: op, Low: os.Low, High: os.High}, nil
}

// splitOutputFields turns the comma-separated list into an ordered, unique
// slice. Blank segments (a trailing comma is a common LLM artifact) are
// dropped so the resulting payload never carries an empty field name.
func splitOutputFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var fields []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, name)
	}
	return fields
}

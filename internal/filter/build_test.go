// In file: internal/filter/build_test.go
package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerGroup(criteria []CriterionSpec, outFields string) []GroupSpec {
	return []GroupSpec{{Name: "HEADER", Criteria: criteria, OutputFields: outFields}}
}

func TestBuildSingleEqualOption(t *testing.T) {
	payload, err := Build(headerGroup([]CriterionSpec{{
		FieldName: "REQUEST_ID",
		Options:   []OptionSpec{{Operator: "EQ", Low: "2025000000060"}},
	}}, ""))
	require.NoError(t, err)

	require.Len(t, payload.Groups, 1)
	require.Len(t, payload.Groups[0].Criteria, 1)
	crit := payload.Groups[0].Criteria[0]
	assert.Equal(t, "REQUEST_ID", crit.FieldName)
	require.Len(t, crit.Options, 1)
	assert.Equal(t, SelectionOption{Sign: SignInclude, Operator: OpEqual, Low: "2025000000060"}, crit.Options[0])
	assert.Empty(t, crit.Options[0].High)
}

func TestBuildBetweenKeepsHigh(t *testing.T) {
	payload, err := Build(headerGroup([]CriterionSpec{{
		FieldName: "REQUEST_ID",
		Options:   []OptionSpec{{Sign: "I", Operator: "BT", Low: "A", High: "Z"}},
	}}, ""))
	require.NoError(t, err)

	opt := payload.Groups[0].Criteria[0].Options[0]
	assert.Equal(t, OpBetween, opt.Operator)
	assert.Equal(t, "A", opt.Low)
	assert.Equal(t, "Z", opt.High)
}

func TestBuildRejectsHighForNonRangeOperator(t *testing.T) {
	_, err := Build(headerGroup([]CriterionSpec{{
		FieldName: "REQUEST_ID",
		Options:   []OptionSpec{{Operator: "EQ", Low: "A", High: "Z"}},
	}}, ""))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "REQUEST_ID", verr.Field)
	assert.Contains(t, verr.Message, "HIGH")
}

func TestBuildRejectsRangeWithoutHigh(t *testing.T) {
	for _, op := range []string{"BT", "NB"} {
		_, err := Build(headerGroup([]CriterionSpec{{
			FieldName: "STATUS",
			Options:   []OptionSpec{{Operator: op, Low: "A"}},
		}}, ""))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "operator %s", op)
		assert.Contains(t, verr.Message, "HIGH")
	}
}

func TestBuildRejectsInvertedBetweenRange(t *testing.T) {
	_, err := Build(headerGroup([]CriterionSpec{{
		FieldName: "REQUEST_ID",
		Options:   []OptionSpec{{Operator: "BT", Low: "Z", High: "A"}},
	}}, ""))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "inverted")
}

func TestBuildRejectsUnknownEnumValues(t *testing.T) {
	_, err := Build(headerGroup([]CriterionSpec{{
		FieldName: "STATUS",
		Options:   []OptionSpec{{Sign: "X", Operator: "EQ", Low: "NEW"}},
	}}, ""))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "SIGN")

	_, err = Build(headerGroup([]CriterionSpec{{
		FieldName: "STATUS",
		Options:   []OptionSpec{{Sign: "I", Operator: "LIKE", Low: "NEW"}},
	}}, ""))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "operator")
}

func TestBuildDefaultsSignAndOperator(t *testing.T) {
	payload, err := Build(headerGroup([]CriterionSpec{{
		FieldName: "TA_SID",
		Options:   []OptionSpec{{Low: "CCF"}},
	}}, ""))
	require.NoError(t, err)

	opt := payload.Groups[0].Criteria[0].Options[0]
	assert.Equal(t, SignInclude, opt.Sign)
	assert.Equal(t, OpEqual, opt.Operator)
}

func TestBuildRejectsMissingFieldNameAndEmptyOptions(t *testing.T) {
	_, err := Build(headerGroup([]CriterionSpec{{
		Options: []OptionSpec{{Low: "X"}},
	}}, ""))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "FIELDNAME")

	_, err = Build(headerGroup([]CriterionSpec{{FieldName: "STATUS"}}, ""))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "at least one selection option")
}

func TestBuildDeduplicatesOutputFieldsInOrder(t *testing.T) {
	payload, err := Build(headerGroup(nil, "REQUEST_ID, TA_SID,REQUEST_ID,,STATUS, TA_SID,"))
	require.NoError(t, err)
	assert.Equal(t, []string{"REQUEST_ID", "TA_SID", "STATUS"}, payload.Groups[0].OutputFields)
}

func TestBuildIsIdempotent(t *testing.T) {
	spec := []GroupSpec{
		{
			Name: "HEADER",
			Criteria: []CriterionSpec{{
				FieldName: "TA_SID",
				Options:   []OptionSpec{{Sign: "I", Operator: "EQ", Low: "CCF"}},
			}},
			OutputFields: "REQUEST_ID,TA_SID,TA_CLNT",
		},
		{
			Name: "SI",
			Criteria: []CriterionSpec{{
				FieldName: "ID",
				Options:   []OptionSpec{{Sign: "I", Operator: "CP", Low: "Z*"}},
			}},
			OutputFields: "ID,DESCRIPTION",
		},
	}

	first, err := Build(spec)
	require.NoError(t, err)
	second, err := Build(spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQueryPayloadWireShape(t *testing.T) {
	payload, err := Build([]GroupSpec{
		{
			Name: "HEADER",
			Criteria: []CriterionSpec{{
				FieldName: "REQUEST_ID",
				Options:   []OptionSpec{{Sign: "I", Operator: "EQ", Low: "2025000000060"}},
			}},
			OutputFields: "REQUEST_ID,TA_SID,TA_CLNT",
		},
		{Name: "SI"},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body, "HEADER_FILTER")
	assert.Contains(t, body, "HEADER_OUT_FIELD")
	assert.Contains(t, body, "SI_FILTER")
	// Empty output-field list means backend defaults, so the key is absent.
	assert.NotContains(t, body, "SI_OUT_FIELD")

	var outField string
	require.NoError(t, json.Unmarshal(body["HEADER_OUT_FIELD"], &outField))
	assert.Equal(t, "REQUEST_ID,TA_SID,TA_CLNT", outField)

	var criteria []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body["HEADER_FILTER"], &criteria))
	require.Len(t, criteria, 1)
	assert.Contains(t, criteria[0], "FIELDNAME")
	assert.Contains(t, criteria[0], "VALUE_SELOP")
}

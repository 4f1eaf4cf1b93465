package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentSchemaShape(t *testing.T) {
	var schema struct {
		Type                 string                     `json:"type"`
		AdditionalProperties bool                       `json:"additionalProperties"`
		Properties           map[string]json.RawMessage `json:"properties"`
		Required             []string                   `json:"required"`
	}
	require.NoError(t, json.Unmarshal(AssessmentSchema, &schema))

	assert.Equal(t, "object", schema.Type)
	assert.False(t, schema.AdditionalProperties)
	assert.Len(t, schema.Properties, 10)
	assert.Len(t, schema.Required, 10)
	for name := range schema.Properties {
		assert.Contains(t, schema.Required, name, "every field must be required")
	}
}

func TestParseAssessmentValidDocument(t *testing.T) {
	doc := `{
		"verdict": "Likely a Scam",
		"risk_score": 88,
		"confidence": 0.9,
		"summary": "Classic remote-access scam.",
		"red_flags": ["urgency", "remote software"],
		"green_flags": [],
		"what_to_check": ["call the bank directly"],
		"safe_actions_now": ["hang up"],
		"questions_to_ask": [],
		"data_to_never_share": ["card PIN"]
	}`

	a, err := ParseAssessment([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, VerdictLikelyScam, a.Verdict)
	assert.Equal(t, 88, a.RiskScore)
	assert.Equal(t, []string{"urgency", "remote software"}, a.RedFlags)
}

func TestParseAssessmentRejectsNonJSON(t *testing.T) {
	_, err := ParseAssessment([]byte("I think this is a scam."))
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Raw, "I think")
}

func TestParseAssessmentRejectsUnknownFields(t *testing.T) {
	doc := `{"verdict": "Unclear", "risk_score": 50, "confidence": 0.5, "summary": "",
		"red_flags": [], "green_flags": [], "what_to_check": [], "safe_actions_now": [],
		"questions_to_ask": [], "data_to_never_share": [], "extra": true}`

	_, err := ParseAssessment([]byte(doc))
	assert.Error(t, err)
}

func TestParseAssessmentRejectsContractViolations(t *testing.T) {
	doc := `{"verdict": "Probably Fine", "risk_score": 50, "confidence": 0.5, "summary": "",
		"red_flags": [], "green_flags": [], "what_to_check": [], "safe_actions_now": [],
		"questions_to_ask": [], "data_to_never_share": []}`

	_, err := ParseAssessment([]byte(doc))
	assert.ErrorIs(t, err, ErrContractViolation)
}

package core

import (
	"bytes"
	"encoding/json"
)

// AssessmentSchemaName is the name the structured-output constraint is
// registered under with the provider.
const AssessmentSchemaName = "scam_assessment"

// AssessmentSchema is the JSON Schema document constraining structured
// assessment responses. It is passed to the provider as-is; providers that
// cannot accept a raw schema translate it (see the gemini adapter) or embed
// it in the instruction (bedrock).
var AssessmentSchema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "verdict":             { "type": "string", "enum": ["Likely a Scam", "Unclear", "Likely Legit"] },
    "risk_score":          { "type": "integer", "minimum": 0, "maximum": 100 },
    "confidence":          { "type": "number", "minimum": 0, "maximum": 1 },
    "summary":             { "type": "string" },
    "red_flags":           { "type": "array", "items": { "type": "string" } },
    "green_flags":         { "type": "array", "items": { "type": "string" } },
    "what_to_check":       { "type": "array", "items": { "type": "string" } },
    "safe_actions_now":    { "type": "array", "items": { "type": "string" } },
    "questions_to_ask":    { "type": "array", "items": { "type": "string" } },
    "data_to_never_share": { "type": "array", "items": { "type": "string" } }
  },
  "required": [
    "verdict", "risk_score", "confidence", "summary",
    "red_flags", "green_flags", "what_to_check",
    "safe_actions_now", "questions_to_ask", "data_to_never_share"
  ]
}`)

// ParseAssessment decodes a structured response body into an Assessment and
// validates it against the schema's ranges and enumerations. The decode is
// strict: unknown fields are a contract violation, not noise to ignore.
func ParseAssessment(data []byte) (*Assessment, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var a Assessment
	if err := dec.Decode(&a); err != nil {
		return nil, &ParseError{Raw: string(data), Err: err}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// ParseError wraps a JSON decode failure together with the raw response so
// callers can log what the provider actually sent.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "failed to parse assessment response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

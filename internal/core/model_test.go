package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRiskScore(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero stays zero", 0, 0},
		{"low scale score rescaled", 7, 70},
		{"boundary ten rescaled", 10, 100},
		{"eleven kept as-is", 11, 11},
		{"normal score untouched", 85, 85},
		{"maximum untouched", 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRiskScore(tt.in))
		})
	}
}

func TestAssessmentValidate(t *testing.T) {
	valid := Assessment{
		Verdict:    VerdictUnclear,
		RiskScore:  50,
		Confidence: 0.5,
	}
	assert.NoError(t, valid.Validate())

	badVerdict := valid
	badVerdict.Verdict = "Maybe"
	assert.ErrorIs(t, badVerdict.Validate(), ErrContractViolation)

	badScore := valid
	badScore.RiskScore = 101
	assert.ErrorIs(t, badScore.Validate(), ErrContractViolation)

	badConfidence := valid
	badConfidence.Confidence = 1.5
	assert.ErrorIs(t, badConfidence.Validate(), ErrContractViolation)
}

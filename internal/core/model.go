package core

import (
	"fmt"
	"time"
)

// Verdict values the assessment schema allows.
const (
	VerdictLikelyScam  = "Likely a Scam"
	VerdictUnclear     = "Unclear"
	VerdictLikelyLegit = "Likely Legit"
)

// Message roles used in completion requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Assessment represents the structured result of one scam evaluation
type Assessment struct {
	Verdict          string   `json:"verdict"`
	RiskScore        int      `json:"risk_score"`
	Confidence       float64  `json:"confidence"`
	Summary          string   `json:"summary"`
	RedFlags         []string `json:"red_flags"`
	GreenFlags       []string `json:"green_flags"`
	WhatToCheck      []string `json:"what_to_check"`
	SafeActionsNow   []string `json:"safe_actions_now"`
	QuestionsToAsk   []string `json:"questions_to_ask"`
	DataToNeverShare []string `json:"data_to_never_share"`
}

// Validate checks the assessment against the ranges and enumerations the
// schema promises. A failure here means the provider broke the contract.
func (a *Assessment) Validate() error {
	switch a.Verdict {
	case VerdictLikelyScam, VerdictUnclear, VerdictLikelyLegit:
	default:
		return fmt.Errorf("%w: unexpected verdict %q", ErrContractViolation, a.Verdict)
	}
	if a.RiskScore < 0 || a.RiskScore > 100 {
		return fmt.Errorf("%w: risk_score %d out of range", ErrContractViolation, a.RiskScore)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("%w: confidence %f out of range", ErrContractViolation, a.Confidence)
	}
	return nil
}

// NormalizeRiskScore corrects the one known provider defect: despite the
// schema, models occasionally answer on a 0-10 scale. Any score at or below
// 10 is rescaled by 10. A genuinely low score in that range gets inflated
// too; the quirk is preserved deliberately so results stay comparable with
// earlier versions of this tool.
func NormalizeRiskScore(score int) int {
	if score <= 10 {
		return score * 10
	}
	return score
}

// Turn is a single role-tagged exchange in a conversation
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is the persisted form of one assessment event
type Record struct {
	Timestamp  time.Time   `json:"timestamp"`
	Input      string      `json:"input"`
	Assessment *Assessment `json:"assessment"`
}

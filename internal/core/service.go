package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// safetyPrompt is the fixed system instruction for assessment requests.
const safetyPrompt = `You help users identify scams and stay safe.
- If key details are missing, use verdict "Unclear" and explain what to verify.
- Never recommend clicking links, calling numbers from the message, or installing unknown software, especially remote control software.
- Prefer independent verification via official websites, apps, or numbers from bank statements/cards, remember companies never ask for codes from users.
- If money was sent, credentials shared, or software installed, prioritize urgent remediation.
- Keep advice practical, step-by-step, and platform-agnostic.
- Risk score is between 0 (not a scam) and 100 (definitely a scam), confidence is between 0 and 1.`

// AssessmentService is the core service for scam assessment. It only
// computes; persistence and rendering are the caller's business.
type AssessmentService struct {
	llmClient LLMClient
	logger    *zap.Logger
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(llmClient LLMClient, logger *zap.Logger) *AssessmentService {
	return &AssessmentService{
		llmClient: llmClient,
		logger:    logger,
	}
}

// Assess runs one scam evaluation of userText against the given conversation
// history. The user turn is recorded before the call; on success a condensed
// assistant turn is recorded so later requests carry context without the
// full structured result.
func (s *AssessmentService) Assess(ctx context.Context, history *History, userText string) (*Assessment, error) {
	history.Append(RoleUser, userText)

	turns := append([]Turn{{Role: RoleSystem, Content: safetyPrompt}}, history.Snapshot()...)

	assessment, err := s.llmClient.Assess(ctx, turns)
	if err != nil {
		return nil, fmt.Errorf("assessment request failed: %w", err)
	}

	assessment.RiskScore = NormalizeRiskScore(assessment.RiskScore)

	history.Append(RoleAssistant, fmt.Sprintf("Verdict: %s, risk: %d. %s",
		assessment.Verdict, assessment.RiskScore, assessment.Summary))

	s.logger.Info("Assessment completed",
		zap.String("verdict", assessment.Verdict),
		zap.Int("risk_score", assessment.RiskScore),
		zap.Float64("confidence", assessment.Confidence))

	return assessment, nil
}

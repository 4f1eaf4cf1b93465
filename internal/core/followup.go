package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const followUpPrompt = `You are continuing a conversation about a scam safety check.
Answer the user's follow-up questions about the assessment below.
Stay practical and specific; never recommend engaging with the suspected scammer.`

// BuildFollowUpContext freezes one assessment into the text snapshot that
// grounds a follow-up session. Empty lists render as "none" so the model
// does not invent flags that were never reported.
func BuildFollowUpContext(a *Assessment) string {
	return fmt.Sprintf(
		"Assessment: verdict %q, risk score %d/100, confidence %.2f.\nSummary: %s\nRed flags: %s.\nGreen flags: %s.\nSafe actions now: %s.",
		a.Verdict, a.RiskScore, a.Confidence, a.Summary,
		joinOrNone(a.RedFlags), joinOrNone(a.GreenFlags), joinOrNone(a.SafeActionsNow))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// FollowUpService answers conversational questions scoped to one
// assessment. Each session owns its own history, separate from the main
// conversation, and is discarded when the session ends.
type FollowUpService struct {
	llmClient LLMClient
	logger    *zap.Logger
}

// NewFollowUpService creates a new follow-up service
func NewFollowUpService(llmClient LLMClient, logger *zap.Logger) *FollowUpService {
	return &FollowUpService{
		llmClient: llmClient,
		logger:    logger,
	}
}

// NewSession returns a fresh session history for one assessment.
func (s *FollowUpService) NewSession() *History {
	return NewHistory(DefaultHistoryCapacity)
}

// Reply sends one unconstrained follow-up question grounded in the frozen
// assessment context and the session history so far.
func (s *FollowUpService) Reply(ctx context.Context, session *History, assessmentContext, question string) (string, error) {
	session.Append(RoleUser, question)

	turns := append([]Turn{
		{Role: RoleSystem, Content: followUpPrompt},
		{Role: RoleSystem, Content: assessmentContext},
	}, session.Snapshot()...)

	reply, err := s.llmClient.Converse(ctx, turns)
	if err != nil {
		return "", fmt.Errorf("follow-up request failed: %w", err)
	}

	session.Append(RoleAssistant, reply)
	return reply, nil
}

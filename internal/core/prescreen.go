package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
)

const prescreenPrompt = `You are a triage filter for a scam safety assistant.
Answer only "yes" or "no": is the following text something a scam check could apply to
(a message, email, offer, request for money or data, or a description of such a situation)?`

// PrescreenService is a cheap gate in front of the full structured
// assessment. It is optional; callers that skip it lose nothing but cost.
type PrescreenService struct {
	llmClient LLMClient
	cache     PrescreenCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewPrescreenService creates a new pre-screen service. The cache may be nil.
func NewPrescreenService(llmClient LLMClient, cache PrescreenCache, cacheTTL time.Duration, logger *zap.Logger) *PrescreenService {
	return &PrescreenService{
		llmClient: llmClient,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// LooksScamRelated asks the model for a bare yes/no. Only a reply starting
// with "yes" counts. Errors fail open: a broken gate must not block a real
// assessment.
func (s *PrescreenService) LooksScamRelated(ctx context.Context, text string) bool {
	key := prescreenKey(text)
	if s.cache != nil {
		if verdict, ok := s.cache.Get(ctx, key); ok {
			s.logger.Debug("Pre-screen cache hit", zap.Bool("scam_related", verdict))
			return verdict
		}
	}

	reply, err := s.llmClient.Converse(ctx, []Turn{
		{Role: RoleSystem, Content: prescreenPrompt},
		{Role: RoleUser, Content: text},
	})
	if err != nil {
		s.logger.Warn("Pre-screen failed, assessing anyway", zap.Error(err))
		return true
	}

	verdict := strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), "yes")
	if s.cache != nil {
		s.cache.Set(ctx, key, verdict, s.cacheTTL)
	}
	return verdict
}

func prescreenKey(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-scam-check/internal/core"
	"go.uber.org/zap"
)

// GeminiClient is an implementation of the LLMClient interface using Google
// Gemini. Two generative models are configured up front: one pinned to the
// assessment schema via ResponseSchema, one unconstrained for conversation.
type GeminiClient struct {
	client      *genai.Client
	assessModel *genai.GenerativeModel
	chatModel   *genai.GenerativeModel
	modelName   string
	logger      *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *GeminiClient {
	assessModel := client.GenerativeModel(modelName)
	assessModel.SetTemperature(temperature)
	assessModel.SetTopP(topP)
	assessModel.SetMaxOutputTokens(int32(maxTokens))
	assessModel.ResponseMIMEType = "application/json"
	assessModel.ResponseSchema = assessmentSchema()

	chatModel := client.GenerativeModel(modelName)
	chatModel.SetTemperature(temperature)
	chatModel.SetTopP(topP)
	chatModel.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClient{
		client:      client,
		assessModel: assessModel,
		chatModel:   chatModel,
		modelName:   modelName,
		logger:      logger,
	}
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// assessmentSchema mirrors core.AssessmentSchema in Gemini's own schema
// type. The genai schema cannot express numeric bounds; those stay in the
// system instruction and are checked locally after parsing.
func assessmentSchema() *genai.Schema {
	stringArray := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"verdict": {
				Type: genai.TypeString,
				Enum: []string{core.VerdictLikelyScam, core.VerdictUnclear, core.VerdictLikelyLegit},
			},
			"risk_score":          {Type: genai.TypeInteger},
			"confidence":          {Type: genai.TypeNumber},
			"summary":             {Type: genai.TypeString},
			"red_flags":           stringArray(),
			"green_flags":         stringArray(),
			"what_to_check":       stringArray(),
			"safe_actions_now":    stringArray(),
			"questions_to_ask":    stringArray(),
			"data_to_never_share": stringArray(),
		},
		Required: []string{
			"verdict", "risk_score", "confidence", "summary",
			"red_flags", "green_flags", "what_to_check",
			"safe_actions_now", "questions_to_ask", "data_to_never_share",
		},
	}
}

// Assess sends a schema-constrained completion request
func (c *GeminiClient) Assess(ctx context.Context, turns []core.Turn) (*core.Assessment, error) {
	text, err := c.generate(ctx, c.assessModel, turns)
	if err != nil {
		return nil, err
	}
	return core.ParseAssessment([]byte(text))
}

// Converse sends an unconstrained completion request
func (c *GeminiClient) Converse(ctx context.Context, turns []core.Turn) (string, error) {
	return c.generate(ctx, c.chatModel, turns)
}

func (c *GeminiClient) generate(ctx context.Context, model *genai.GenerativeModel, turns []core.Turn) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(flattenTurns(turns)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", core.ErrEmptyResponse
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok || text == "" {
		return "", core.ErrEmptyResponse
	}
	return string(text), nil
}

// flattenTurns renders role-tagged turns into a single prompt. Gemini's chat
// sessions want strict user/model alternation, which the mixed system
// messages here do not fit.
func flattenTurns(turns []core.Turn) string {
	var sb strings.Builder
	for _, t := range turns {
		switch t.Role {
		case core.RoleSystem:
			sb.WriteString(t.Content)
		case core.RoleAssistant:
			sb.WriteString("Assistant: " + t.Content)
		default:
			sb.WriteString("User: " + t.Content)
		}
		sb.WriteString("\n\n")
	}
	return strings.TrimSuffix(sb.String(), "\n\n")
}

package openai

import (
	"context"
	"fmt"

	"github.com/mikey/llm-scam-check/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the LLMClient interface using OpenAI
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *OpenAIClient {
	return &OpenAIClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Assess sends a schema-constrained completion request. OpenAI enforces the
// assessment schema natively through the json_schema response format; the
// reply is still parsed defensively before it is trusted.
func (c *OpenAIClient) Assess(ctx context.Context, turns []core.Turn) (*core.Assessment, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    toMessages(turns),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   core.AssessmentSchemaName,
				Schema: core.AssessmentSchema,
				Strict: true,
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, core.ErrEmptyResponse
	}

	c.logger.Debug("Received structured response",
		zap.String("model", c.modelName),
		zap.String("completion_id", resp.ID))

	return core.ParseAssessment([]byte(resp.Choices[0].Message.Content))
}

// Converse sends an unconstrained completion request and returns the reply
// text.
func (c *OpenAIClient) Converse(ctx context.Context, turns []core.Turn) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    toMessages(turns),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", core.ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

func toMessages(turns []core.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Content,
		})
	}
	return messages
}

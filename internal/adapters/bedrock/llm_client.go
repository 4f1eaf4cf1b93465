package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-scam-check/internal/core"
	"go.uber.org/zap"
)

// BedrockClient is an implementation of the LLMClient interface using Amazon
// Bedrock. Bedrock has no structured-output constraint, so for assessments
// the schema is embedded in the instruction and the reply is parsed with a
// brace-extraction fallback for models that wrap their JSON in prose.
type BedrockClient struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Assess sends a schema-constrained completion request
func (c *BedrockClient) Assess(ctx context.Context, turns []core.Turn) (*core.Assessment, error) {
	prompt := flattenTurns(turns) + fmt.Sprintf(
		"\n\nRespond only with a JSON object matching this schema, and nothing else:\n%s",
		string(core.AssessmentSchema))

	responseText, err := c.invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}

	assessment, err := core.ParseAssessment([]byte(responseText))
	if err == nil {
		return assessment, nil
	}

	// Some models wrap the JSON in prose; retry on the outermost braces.
	extracted, ok := extractJSON(responseText)
	if !ok {
		return nil, fmt.Errorf("failed to extract JSON from Bedrock response: %w", err)
	}
	return core.ParseAssessment([]byte(extracted))
}

// Converse sends an unconstrained completion request
func (c *BedrockClient) Converse(ctx context.Context, turns []core.Turn) (string, error) {
	return c.invoke(ctx, flattenTurns(turns))
}

func (c *BedrockClient) invoke(ctx context.Context, prompt string) (string, error) {
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	return c.extractResponseText(resp.Body)
}

func (c *BedrockClient) extractResponseText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		if claudeResp.Completion == "" {
			return "", core.ErrEmptyResponse
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 || titanResp.Results[0].OutputText == "" {
			return "", core.ErrEmptyResponse
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	for _, candidate := range []string{genericResp.Output, genericResp.Text, genericResp.Response} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return string(body), nil
}

func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}

// extractJSON returns the slice between the first '{' and the last '}'.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

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

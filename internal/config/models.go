package config

import "fmt"

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey       string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey       string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region       string
	ModelID      string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:       c.GetString("openai.api_key"),
		ModelName:    c.GetString("openai.model_name"),
		MaxTokens:    c.GetInt("openai.max_tokens"),
		Temperature:  float32(c.GetFloat64("openai.temperature")),
		TopP:         float32(c.GetFloat64("openai.top_p")),
		MaxInputSize: c.GetInt("openai.max_input_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:       c.GetString("gemini.api_key"),
		ModelName:    c.GetString("gemini.model_name"),
		MaxTokens:    c.GetInt("gemini.max_tokens"),
		Temperature:  float32(c.GetFloat64("gemini.temperature")),
		TopP:         float32(c.GetFloat64("gemini.top_p")),
		MaxInputSize: c.GetInt("gemini.max_input_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:       c.GetString("bedrock.region"),
		ModelID:      c.GetString("bedrock.model_id"),
		MaxTokens:    c.GetInt("bedrock.max_tokens"),
		Temperature:  float32(c.GetFloat64("bedrock.temperature")),
		TopP:         float32(c.GetFloat64("bedrock.top_p")),
		MaxInputSize: c.GetInt("bedrock.max_input_size"),
	}
}

// ValidateCredentials fails fast when the selected provider has no usable
// credentials, before any prompt is shown.
func (c *Config) ValidateCredentials() error {
	switch c.GetLLM().Provider {
	case "openai":
		if c.GetOpenAI().APIKey == "" {
			return fmt.Errorf("openai provider selected but no API key set (OPENAI_API_KEY)")
		}
	case "gemini":
		if c.GetGemini().APIKey == "" {
			return fmt.Errorf("gemini provider selected but no API key set (GEMINI_API_KEY)")
		}
	case "bedrock":
		// Bedrock credentials come from the AWS default chain; nothing to
		// check here without making a network call.
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.GetLLM().Provider)
	}
	return nil
}

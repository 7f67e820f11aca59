package llm

import (
	"context"

	"github.com/insurelab/claimlens/internal/model"
)

// Provider defines the interface for text-generation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for the given request
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation call
type GenerateRequest struct {
	// System sets the assistant's role (e.g. insurance claims adjuster)
	System string

	// Prompt is the full user prompt, context included
	Prompt string

	// Model overrides the configured model for this call (optional)
	Model string

	// MaxTokens limits the response length (0 uses the configured default)
	MaxTokens int

	// Temperature controls sampling. Eligibility analysis passes a low value;
	// its output feeds a compliance-relevant decision.
	Temperature float64
}

// GenerateResponse contains the provider's output
type GenerateResponse struct {
	// Text is the raw completion. Callers must tolerate unstructured output.
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption (0 if the provider does not report it)
	TokensUsed int
}

// Config holds text-generation provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens default for response generation
	MaxTokens int

	// Temperature default when a request does not set one
	Temperature float64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     30,
		MaxTokens:   800,
		Temperature: 0.1,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
	}
}

package integrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.uber.org/zap"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
)

const (
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// ModelSettings selects and parameterizes a model provider.
type ModelSettings struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

// NewAIModelIntegration builds the integration for settings.Provider.
// An empty BaseURL falls back to the provider's public endpoint.
func NewAIModelIntegration(ctx context.Context, settings ModelSettings, logger *zap.Logger) (interfaces.AIModelIntegration, error) {
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))
	if provider == "" {
		provider = ProviderGroq
	}

	switch provider {
	case ProviderGroq, ProviderOpenAI:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = DefaultGroqBaseURL
			if provider == ProviderOpenAI {
				baseURL = DefaultOpenAIBaseURL
			}
		}
		return NewOpenAIIntegration(baseURL, settings.APIKey, settings.Model, provider, settings.Temperature, logger)
	case ProviderGoogle:
		return NewGoogleIntegration(ctx, settings.APIKey, settings.Model, settings.Temperature, logger)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", settings.Provider)
	}
}

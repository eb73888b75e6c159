package interfaces

import (
	"context"

	"github.com/drujensen/wearables/internal/domain/entities"
)

// AIModelIntegration defines the interface for AI model providers
type AIModelIntegration interface {
	// GenerateResponse runs one model round over the conversation. The returned
	// assistant message either carries ToolRequests or the final Content.
	GenerateResponse(ctx context.Context, messages []*entities.Message, tools []*entities.ToolSpec) (*entities.Message, error)

	// ModelName returns the name of the model being used
	ModelName() string

	// ProviderType returns the type of provider
	ProviderType() string
}

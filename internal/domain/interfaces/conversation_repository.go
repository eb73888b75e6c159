package interfaces

import (
	"context"

	"github.com/drujensen/wearables/internal/domain/entities"
)

// ConversationRepository keeps the full model history per channel.
// GetConversation returns an empty history for a channel it has never seen.
type ConversationRepository interface {
	GetConversation(ctx context.Context, channelID string) ([]*entities.Message, error)
	SaveConversation(ctx context.Context, channelID string, messages []*entities.Message) error
	DeleteConversation(ctx context.Context, channelID string) error
}

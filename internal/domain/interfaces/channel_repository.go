package interfaces

import (
	"context"

	"github.com/drujensen/wearables/internal/domain/entities"
)

// ChannelRepository stores channels and their visible transcripts.
// Returned channels always have MessageCount in sync with Messages.
type ChannelRepository interface {
	CreateChannel(ctx context.Context, channel *entities.Channel) error
	GetChannel(ctx context.Context, id string) (*entities.Channel, error)
	ListChannels(ctx context.Context) ([]*entities.Channel, error)
	DeleteChannel(ctx context.Context, id string) error
	AddMessage(ctx context.Context, channelID string, message *entities.Message) error
	GetMessages(ctx context.Context, channelID string) ([]entities.Message, error)
	ClearMessages(ctx context.Context, channelID string) error
}

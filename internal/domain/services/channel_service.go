package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/events"
	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.uber.org/zap"
)

const (
	DefaultChannelName = "General"
	MaxChannelName     = 100
)

type ChannelService interface {
	CreateChannel(ctx context.Context, name string) (*entities.Channel, error)
	ListChannels(ctx context.Context) ([]*entities.Channel, error)
	GetChannel(ctx context.Context, id string) (*entities.Channel, error)
	DeleteChannel(ctx context.Context, id string) error
	EnsureDefaultChannel(ctx context.Context) (*entities.Channel, error)
}

type channelService struct {
	channelRepo      interfaces.ChannelRepository
	conversationRepo interfaces.ConversationRepository
	locks            *ChannelLocks
	logger           *zap.Logger
}

func NewChannelService(
	channelRepo interfaces.ChannelRepository,
	conversationRepo interfaces.ConversationRepository,
	locks *ChannelLocks,
	logger *zap.Logger,
) *channelService {
	return &channelService{
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		locks:            locks,
		logger:           logger,
	}
}

func (s *channelService) CreateChannel(ctx context.Context, name string) (*entities.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ValidationErrorf("channel name is required")
	}
	if utf8.RuneCountInString(name) > MaxChannelName {
		return nil, errors.ValidationErrorf("channel name must be at most %d characters", MaxChannelName)
	}

	channel := entities.NewChannel(name)
	if err := s.channelRepo.CreateChannel(ctx, channel); err != nil {
		return nil, err
	}

	s.logger.Info("Channel created", zap.String("channel_id", channel.ID), zap.String("name", channel.Name))
	return channel, nil
}

func (s *channelService) ListChannels(ctx context.Context) ([]*entities.Channel, error) {
	return s.channelRepo.ListChannels(ctx)
}

func (s *channelService) GetChannel(ctx context.Context, id string) (*entities.Channel, error) {
	if id == "" {
		return nil, errors.ValidationErrorf("channel id is required")
	}
	return s.channelRepo.GetChannel(ctx, id)
}

// DeleteChannel removes the channel, its transcript and its model history.
func (s *channelService) DeleteChannel(ctx context.Context, id string) error {
	if id == "" {
		return errors.ValidationErrorf("channel id is required")
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.channelRepo.DeleteChannel(ctx, id); err != nil {
		return err
	}
	if err := s.conversationRepo.DeleteConversation(ctx, id); err != nil {
		return err
	}

	events.PublishClearedEvent(id, true)
	s.logger.Info("Channel deleted", zap.String("channel_id", id))
	return nil
}

// EnsureDefaultChannel creates the General channel unless a channel with
// that name already exists.
func (s *channelService) EnsureDefaultChannel(ctx context.Context) (*entities.Channel, error) {
	channels, err := s.channelRepo.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	for _, channel := range channels {
		if channel.Name == DefaultChannelName {
			return channel, nil
		}
	}
	return s.CreateChannel(ctx, DefaultChannelName)
}

package services

import (
	"context"
	"strings"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/events"
	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.uber.org/zap"
)

type ChatService interface {
	SendMessage(ctx context.Context, channelID, content string) (*entities.Message, error)
	GetHistory(ctx context.Context, channelID string) ([]entities.Message, error)
	ClearHistory(ctx context.Context, channelID string) error
	IsInitialized() bool
}

type chatService struct {
	channelRepo      interfaces.ChannelRepository
	conversationRepo interfaces.ConversationRepository
	orchestrator     Orchestrator
	locks            *ChannelLocks
	logger           *zap.Logger
}

// NewChatService accepts a nil orchestrator; SendMessage then fails with
// an UnavailableError.
func NewChatService(
	channelRepo interfaces.ChannelRepository,
	conversationRepo interfaces.ConversationRepository,
	orchestrator Orchestrator,
	locks *ChannelLocks,
	logger *zap.Logger,
) *chatService {
	return &chatService{
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		orchestrator:     orchestrator,
		locks:            locks,
		logger:           logger,
	}
}

func (s *chatService) IsInitialized() bool {
	return s.orchestrator != nil
}

// SendMessage runs one turn and returns the assistant reply with the
// invocations made while producing it. Nothing is stored when the turn
// fails, and the model history is only saved once the transcript holds
// the turn.
func (s *chatService) SendMessage(ctx context.Context, channelID, content string) (*entities.Message, error) {
	if channelID == "" {
		return nil, errors.ValidationErrorf("channel_id is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.ValidationErrorf("Message cannot be empty")
	}

	unlock := s.locks.Lock(channelID)
	defer unlock()

	if _, err := s.channelRepo.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}
	if s.orchestrator == nil {
		return nil, errors.UnavailableErrorf("Agent not initialized")
	}

	userMessage := entities.NewUserMessage(content)

	history, err := s.conversationRepo.GetConversation(ctx, channelID)
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator.RunTurn(WithChannelID(ctx, channelID), history, content)
	if err != nil {
		s.logger.Error("Turn failed", zap.String("channel_id", channelID), zap.Error(err))
		return nil, err
	}

	assistantMessage := entities.NewAssistantMessage(result.FinalText)
	if len(result.Invocations) > 0 {
		assistantMessage.ToolCalls = result.Invocations
	}

	if err := s.channelRepo.AddMessage(ctx, channelID, userMessage); err != nil {
		return nil, err
	}
	if err := s.channelRepo.AddMessage(ctx, channelID, assistantMessage); err != nil {
		return nil, err
	}
	// The model history never holds a turn the transcript lacks.
	if err := s.conversationRepo.SaveConversation(ctx, channelID, result.History); err != nil {
		return nil, err
	}

	events.PublishTranscriptEvent(channelID, *userMessage, *assistantMessage)

	s.logger.Info("Message processed",
		zap.String("channel_id", channelID),
		zap.Int("tool_calls", len(result.Invocations)))

	return assistantMessage, nil
}

func (s *chatService) GetHistory(ctx context.Context, channelID string) ([]entities.Message, error) {
	if channelID == "" {
		return nil, errors.ValidationErrorf("channel_id is required")
	}
	return s.channelRepo.GetMessages(ctx, channelID)
}

func (s *chatService) ClearHistory(ctx context.Context, channelID string) error {
	if channelID == "" {
		return errors.ValidationErrorf("channel_id is required")
	}

	unlock := s.locks.Lock(channelID)
	defer unlock()

	if err := s.channelRepo.ClearMessages(ctx, channelID); err != nil {
		return err
	}
	if err := s.conversationRepo.DeleteConversation(ctx, channelID); err != nil {
		return err
	}

	events.PublishClearedEvent(channelID, false)
	s.logger.Info("Chat history cleared", zap.String("channel_id", channelID))
	return nil
}

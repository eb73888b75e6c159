package apicontrollers

import (
	"context"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/services"

	"github.com/stretchr/testify/mock"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) SendMessage(ctx context.Context, channelID, content string) (*entities.Message, error) {
	args := m.Called(ctx, channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Message), args.Error(1)
}

func (m *MockChatService) GetHistory(ctx context.Context, channelID string) ([]entities.Message, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Message), args.Error(1)
}

func (m *MockChatService) ClearHistory(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockChatService) IsInitialized() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockChannelService struct {
	mock.Mock
}

func (m *MockChannelService) CreateChannel(ctx context.Context, name string) (*entities.Channel, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Channel), args.Error(1)
}

func (m *MockChannelService) ListChannels(ctx context.Context) ([]*entities.Channel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Channel), args.Error(1)
}

func (m *MockChannelService) GetChannel(ctx context.Context, id string) (*entities.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Channel), args.Error(1)
}

func (m *MockChannelService) DeleteChannel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChannelService) EnsureDefaultChannel(ctx context.Context) (*entities.Channel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Channel), args.Error(1)
}

type MockGraphService struct {
	mock.Mock
}

func (m *MockGraphService) GetGraph(ctx context.Context) *services.GraphResponse {
	args := m.Called(ctx)
	return args.Get(0).(*services.GraphResponse)
}

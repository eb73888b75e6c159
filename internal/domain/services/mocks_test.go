package services

import (
	"context"
	"sync"

	"github.com/drujensen/wearables/internal/domain/entities"

	"github.com/stretchr/testify/mock"
)

type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) CreateChannel(ctx context.Context, channel *entities.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockChannelRepository) GetChannel(ctx context.Context, id string) (*entities.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Channel), args.Error(1)
}

func (m *MockChannelRepository) ListChannels(ctx context.Context) ([]*entities.Channel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Channel), args.Error(1)
}

func (m *MockChannelRepository) DeleteChannel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChannelRepository) AddMessage(ctx context.Context, channelID string, message *entities.Message) error {
	args := m.Called(ctx, channelID, message)
	return args.Error(0)
}

func (m *MockChannelRepository) GetMessages(ctx context.Context, channelID string) ([]entities.Message, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Message), args.Error(1)
}

func (m *MockChannelRepository) ClearMessages(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) GetConversation(ctx context.Context, channelID string) ([]*entities.Message, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Message), args.Error(1)
}

func (m *MockConversationRepository) SaveConversation(ctx context.Context, channelID string, messages []*entities.Message) error {
	args := m.Called(ctx, channelID, messages)
	return args.Error(0)
}

func (m *MockConversationRepository) DeleteConversation(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

type MockOrchestrator struct {
	mock.Mock
}

func (m *MockOrchestrator) RunTurn(ctx context.Context, history []*entities.Message, userText string) (*TurnResult, error) {
	args := m.Called(ctx, history, userText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TurnResult), args.Error(1)
}

func (m *MockOrchestrator) Graph() *StateGraph {
	return orchestratorGraph()
}

type MockGraphRenderer struct {
	mock.Mock
}

func (m *MockGraphRenderer) RenderPNG(ctx context.Context, mermaid string) ([]byte, error) {
	args := m.Called(ctx, mermaid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// scriptedModel plays back replies in order and repeats the last one once
// the script runs out.
type scriptedModel struct {
	mu      sync.Mutex
	replies []*entities.Message
	err     error
	block   bool
	seen    [][]*entities.Message
}

func (m *scriptedModel) GenerateResponse(ctx context.Context, messages []*entities.Message, tools []*entities.ToolSpec) (*entities.Message, error) {
	m.mu.Lock()
	m.seen = append(m.seen, entities.CloneMessages(messages))
	round := len(m.seen)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
		return nil, nil
	}
	if round > len(m.replies) {
		round = len(m.replies)
	}
	return m.replies[round-1], nil
}

func (m *scriptedModel) ModelName() string    { return "scripted" }
func (m *scriptedModel) ProviderType() string { return "test" }

func (m *scriptedModel) rounds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

type fakeTools struct {
	handlers map[string]func(args map[string]any) (string, error)
}

func (f *fakeTools) Specs() []*entities.ToolSpec {
	specs := make([]*entities.ToolSpec, 0, len(f.handlers))
	for name := range f.handlers {
		specs = append(specs, &entities.ToolSpec{Name: name, Description: name})
	}
	return specs
}

func (f *fakeTools) Execute(ctx context.Context, name string, arguments map[string]any) (string, error) {
	return f.handlers[name](arguments)
}

func toolReply(calls ...entities.ToolCall) *entities.Message {
	return entities.NewToolRequestMessage("", calls)
}

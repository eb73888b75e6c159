package repositories_memory

import (
	"context"
	"sort"
	"sync"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/interfaces"
)

// MemoryChannelRepository keeps channels in process. Callers always get
// copies, never the stored values.
type MemoryChannelRepository struct {
	mu       sync.RWMutex
	channels map[string]*entities.Channel
	seq      map[string]int
	next     int
}

func NewMemoryChannelRepository() *MemoryChannelRepository {
	return &MemoryChannelRepository{
		channels: make(map[string]*entities.Channel),
		seq:      make(map[string]int),
	}
}

func (r *MemoryChannelRepository) CreateChannel(ctx context.Context, channel *entities.Channel) error {
	if channel == nil || channel.ID == "" {
		return errors.ValidationErrorf("channel id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.channels[channel.ID]; exists {
		return errors.ValidationErrorf("channel already exists: %s", channel.ID)
	}
	stored := copyChannel(channel)
	r.channels[channel.ID] = stored
	r.seq[channel.ID] = r.next
	r.next++
	channel.SyncCount()
	return nil
}

func (r *MemoryChannelRepository) GetChannel(ctx context.Context, id string) (*entities.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, ok := r.channels[id]
	if !ok {
		return nil, errors.NotFoundErrorf("Channel not found: %s", id)
	}
	return copyChannel(channel), nil
}

// ListChannels returns channels oldest first.
func (r *MemoryChannelRepository) ListChannels(ctx context.Context) ([]*entities.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := make([]*entities.Channel, 0, len(r.channels))
	for _, channel := range r.channels {
		channels = append(channels, copyChannel(channel))
	}
	sort.SliceStable(channels, func(i, j int) bool {
		if !channels[i].CreatedAt.Equal(channels[j].CreatedAt) {
			return channels[i].CreatedAt.Before(channels[j].CreatedAt)
		}
		return r.seq[channels[i].ID] < r.seq[channels[j].ID]
	})
	return channels, nil
}

func (r *MemoryChannelRepository) DeleteChannel(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[id]; !ok {
		return errors.NotFoundErrorf("Channel not found: %s", id)
	}
	delete(r.channels, id)
	delete(r.seq, id)
	return nil
}

func (r *MemoryChannelRepository) AddMessage(ctx context.Context, channelID string, message *entities.Message) error {
	if message == nil {
		return errors.ValidationErrorf("message is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	channel, ok := r.channels[channelID]
	if !ok {
		return errors.NotFoundErrorf("Channel not found: %s", channelID)
	}
	channel.Messages = append(channel.Messages, copyMessage(*message))
	channel.SyncCount()
	return nil
}

func (r *MemoryChannelRepository) GetMessages(ctx context.Context, channelID string) ([]entities.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, ok := r.channels[channelID]
	if !ok {
		return nil, errors.NotFoundErrorf("Channel not found: %s", channelID)
	}
	messages := make([]entities.Message, len(channel.Messages))
	for i, msg := range channel.Messages {
		messages[i] = copyMessage(msg)
	}
	return messages, nil
}

func (r *MemoryChannelRepository) ClearMessages(ctx context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, ok := r.channels[channelID]
	if !ok {
		return errors.NotFoundErrorf("Channel not found: %s", channelID)
	}
	channel.Messages = make([]entities.Message, 0)
	channel.SyncCount()
	return nil
}

func copyChannel(c *entities.Channel) *entities.Channel {
	out := *c
	out.Messages = make([]entities.Message, len(c.Messages))
	for i, msg := range c.Messages {
		out.Messages[i] = copyMessage(msg)
	}
	out.SyncCount()
	return &out
}

func copyMessage(m entities.Message) entities.Message {
	if m.ToolCalls != nil {
		m.ToolCalls = append([]entities.ToolInvocation(nil), m.ToolCalls...)
	}
	if m.ToolRequests != nil {
		m.ToolRequests = append([]entities.ToolCall(nil), m.ToolRequests...)
	}
	return m
}

var _ interfaces.ChannelRepository = (*MemoryChannelRepository)(nil)

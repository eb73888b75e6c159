package repositories_memory

import (
	"context"
	"sync"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/interfaces"
)

type MemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string][]*entities.Message
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[string][]*entities.Message),
	}
}

func (r *MemoryConversationRepository) GetConversation(ctx context.Context, channelID string) ([]*entities.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return copyHistory(r.conversations[channelID]), nil
}

func (r *MemoryConversationRepository) SaveConversation(ctx context.Context, channelID string, messages []*entities.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conversations[channelID] = copyHistory(messages)
	return nil
}

func (r *MemoryConversationRepository) DeleteConversation(ctx context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conversations, channelID)
	return nil
}

func copyHistory(messages []*entities.Message) []*entities.Message {
	out := make([]*entities.Message, len(messages))
	for i, msg := range messages {
		m := copyMessage(*msg)
		out[i] = &m
	}
	return out
}

var _ interfaces.ConversationRepository = (*MemoryConversationRepository)(nil)

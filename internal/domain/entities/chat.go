package entities

import (
	"time"

	"github.com/google/uuid"
)

// Channel is a named container for one conversation.
type Channel struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	MessageCount int       `json:"message_count" bson:"-"`
	Messages     []Message `json:"-" bson:"messages"`
}

func NewChannel(name string) *Channel {
	return &Channel{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
		Messages:  make([]Message, 0),
	}
}

// SyncCount recalculates MessageCount from the transcript.
func (c *Channel) SyncCount() {
	c.MessageCount = len(c.Messages)
}

// Conversation is the full model history of a channel.
type Conversation struct {
	ChannelID string     `json:"channel_id" bson:"_id"`
	Messages  []*Message `json:"messages" bson:"messages"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
	RoleTool      MessageRole = "tool"
)

// ToolCall is a tool request issued by the language model.
type ToolCall struct {
	ID        string         `json:"id" bson:"id"`
	Name      string         `json:"name" bson:"name"`
	Arguments map[string]any `json:"arguments" bson:"arguments"`
}

// ToolInvocation is the record of one tool call within a turn, as shown to clients.
type ToolInvocation struct {
	ToolName  string         `json:"tool_name" bson:"tool_name"`
	Arguments map[string]any `json:"arguments" bson:"arguments"`
	Result    *string        `json:"result" bson:"result,omitempty"`
}

// Message is a single entry of a transcript or of a model conversation.
// Role is the kind discriminator: ToolRequests is only set on assistant
// messages of a model conversation, ToolCallID and ToolName only on tool
// messages, ToolCalls only on assistant messages of a channel transcript.
type Message struct {
	ID           string           `json:"id" bson:"id"`
	Role         MessageRole      `json:"role" bson:"role"`
	Content      string           `json:"content" bson:"content"`
	ToolCalls    []ToolInvocation `json:"tool_calls,omitempty" bson:"tool_calls,omitempty"`
	ToolRequests []ToolCall       `json:"-" bson:"tool_requests,omitempty"`
	ToolCallID   string           `json:"-" bson:"tool_call_id,omitempty"`
	ToolName     string           `json:"-" bson:"tool_name,omitempty"`
	Timestamp    time.Time        `json:"timestamp" bson:"timestamp"`
}

func NewMessage(role MessageRole, content string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewToolRequestMessage creates the assistant message that carries the model's tool calls.
func NewToolRequestMessage(content string, calls []ToolCall) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.ToolRequests = calls
	return msg
}

// NewToolResultMessage creates the tool message answering the call with the given id.
func NewToolResultMessage(callID, toolName, content string) *Message {
	msg := NewMessage(RoleTool, content)
	msg.ToolCallID = callID
	msg.ToolName = toolName
	return msg
}

func (m *Message) HasToolRequests() bool {
	return m.Role == RoleAssistant && len(m.ToolRequests) > 0
}

// CloneMessages returns a shallow copy of the slice so callers can append freely.
func CloneMessages(messages []*Message) []*Message {
	out := make([]*Message, len(messages))
	copy(out, messages)
	return out
}

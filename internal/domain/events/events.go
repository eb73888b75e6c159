package events

import (
	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/kelindar/event"
)

// Event types
const (
	ToolCallEventType   uint32 = 1
	TranscriptEventType uint32 = 2
	ClearedEventType    uint32 = 3
)

// ToolCallEventData wraps the ToolCallEvent for publishing
type ToolCallEventData struct {
	Event *entities.ToolCallEvent
}

// TranscriptEventData announces messages appended to a channel transcript
type TranscriptEventData struct {
	ChannelID string
	Messages  []entities.Message
}

// ClearedEventData announces that a channel transcript was cleared or deleted
type ClearedEventData struct {
	ChannelID string
	Deleted   bool
}

func (t ToolCallEventData) Type() uint32 {
	return ToolCallEventType
}

func (m TranscriptEventData) Type() uint32 {
	return TranscriptEventType
}

func (c ClearedEventData) Type() uint32 {
	return ClearedEventType
}

// PublishToolCallEvent publishes a tool call event
func PublishToolCallEvent(toolEvent *entities.ToolCallEvent) {
	event.Emit(ToolCallEventData{Event: toolEvent})
}

// SubscribeToToolCallEvents subscribes to tool call events
func SubscribeToToolCallEvents(handler func(data ToolCallEventData)) func() {
	return event.On(handler)
}

func PublishTranscriptEvent(channelID string, messages ...entities.Message) {
	event.Emit(TranscriptEventData{ChannelID: channelID, Messages: messages})
}

func SubscribeToTranscriptEvents(handler func(data TranscriptEventData)) func() {
	return event.On(handler)
}

func PublishClearedEvent(channelID string, deleted bool) {
	event.Emit(ClearedEventData{ChannelID: channelID, Deleted: deleted})
}

func SubscribeToClearedEvents(handler func(data ClearedEventData)) func() {
	return event.On(handler)
}

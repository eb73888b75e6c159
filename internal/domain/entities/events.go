package entities

import (
	"time"

	"github.com/google/uuid"
)

type ToolCallPhase string

const (
	ToolCallStarted  ToolCallPhase = "started"
	ToolCallFinished ToolCallPhase = "finished"
)

// ToolCallEvent represents an event when a tool is called
type ToolCallEvent struct {
	ID         string         `json:"id"`
	Phase      ToolCallPhase  `json:"phase"`
	ChannelID  string         `json:"channel_id"`
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	Arguments  map[string]any `json:"arguments"`
	Result     string         `json:"result"`
	Error      string         `json:"error,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewToolCallEvent creates a new tool call event
func NewToolCallEvent(channelID, toolCallID, toolName string, arguments map[string]any, result, errorMsg string) *ToolCallEvent {
	return &ToolCallEvent{
		ID:         uuid.New().String(),
		Phase:      ToolCallFinished,
		ChannelID:  channelID,
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Arguments:  arguments,
		Result:     result,
		Error:      errorMsg,
		Timestamp:  time.Now(),
	}
}

// NewToolCallStartedEvent announces a tool call before it runs.
func NewToolCallStartedEvent(channelID, toolCallID, toolName string, arguments map[string]any) *ToolCallEvent {
	return &ToolCallEvent{
		ID:         uuid.New().String(),
		Phase:      ToolCallStarted,
		ChannelID:  channelID,
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Arguments:  arguments,
		Timestamp:  time.Now(),
	}
}

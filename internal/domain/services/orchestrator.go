package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/events"
	"github.com/drujensen/wearables/internal/domain/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxRounds   = 10
	DefaultTurnTimeout = 120 * time.Second

	// MaxResultLength bounds the tool result echoed back to API clients.
	MaxResultLength = 500
)

const DefaultSystemPrompt = `You are a helpful AI assistant for wearables and health tracking data.
You have access to a database containing the user's fitness and health metrics from their wearable device.

You can help users with:
- Daily step counts and activity levels
- Sleep quality and patterns
- Heart rate data and trends
- Workout and exercise history
- Weekly summaries of all metrics
- Device and profile information
- Custom date range queries

IMPORTANT INSTRUCTIONS:
- NEVER mention the names of tools, functions, or technical implementation details (like "activity_history_tool", "daily_steps_tool", etc.)
- When you need to check data, simply say you're checking or reviewing the data, not which tool you're using
- Be natural and conversational - users don't need to know the technical details of how you retrieve information
- Instead of "I'll use the activity_history_tool", say "Let me check your activity history" or "I'll review your recent activities"
- Instead of "using the sleep_data_tool", say "Let me look at your sleep data" or "Checking your sleep records"
- Focus on the information and insights, not the mechanics of how you obtain them

Be friendly, informative, and provide insights when relevant. When users ask vague questions,
check the appropriate data or ask for clarification. Always format data clearly and highlight important trends.`

type OrchestratorState string

const (
	StateAwaitingModel  OrchestratorState = "AWAITING_MODEL"
	StateExecutingTools OrchestratorState = "EXECUTING_TOOLS"
	StateDone           OrchestratorState = "DONE"
)

// TurnResult is the outcome of one completed turn.
type TurnResult struct {
	FinalText   string
	History     []*entities.Message
	Invocations []entities.ToolInvocation
	Rounds      int
}

type Orchestrator interface {
	// RunTurn appends userText to a copy of history and drives the model until
	// it produces a final answer. history is never modified.
	RunTurn(ctx context.Context, history []*entities.Message, userText string) (*TurnResult, error)
	Graph() *StateGraph
}

type OrchestratorOptions struct {
	MaxRounds    int
	TurnTimeout  time.Duration
	SystemPrompt string
	// HistoryTokenLimit caps the prompt sent to the model. Zero disables
	// trimming, as does a nil CountTokens.
	HistoryTokenLimit int
	CountTokens       func(string) int
}

type orchestrator struct {
	model  interfaces.AIModelIntegration
	tools  interfaces.ToolExecutor
	specs  []*entities.ToolSpec
	known  map[string]struct{}
	opts   OrchestratorOptions
	logger *zap.Logger
}

func NewOrchestrator(model interfaces.AIModelIntegration, tools interfaces.ToolExecutor, opts OrchestratorOptions, logger *zap.Logger) (*orchestrator, error) {
	if model == nil {
		return nil, errors.UnavailableErrorf("AI model integration is required")
	}
	if tools == nil {
		return nil, errors.UnavailableErrorf("tool executor is required")
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}

	specs := tools.Specs()
	known := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		known[spec.Name] = struct{}{}
	}

	return &orchestrator{
		model:  model,
		tools:  tools,
		specs:  specs,
		known:  known,
		opts:   opts,
		logger: logger,
	}, nil
}

func (o *orchestrator) Graph() *StateGraph {
	return orchestratorGraph()
}

func (o *orchestrator) RunTurn(ctx context.Context, history []*entities.Message, userText string) (*TurnResult, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, errors.ValidationErrorf("message content is required")
	}

	if o.opts.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.TurnTimeout)
		defer cancel()
	}

	messages := entities.CloneMessages(history)
	if !hasSystemMessage(messages) {
		messages = append([]*entities.Message{entities.NewSystemMessage(o.opts.SystemPrompt)}, messages...)
	}
	turnStart := len(messages)
	messages = append(messages, entities.NewUserMessage(userText))

	channelID := ChannelIDFromContext(ctx)
	result := &TurnResult{}
	seenCalls := make(map[string]struct{})
	state := StateAwaitingModel
	var reply *entities.Message

	for state != StateDone {
		switch state {
		case StateAwaitingModel:
			if err := o.turnError(ctx); err != nil {
				return nil, err
			}

			result.Rounds++
			o.logger.Debug("Requesting model response",
				zap.String("channel_id", channelID),
				zap.Int("round", result.Rounds),
				zap.Int("messages", len(messages)))

			resp, err := o.model.GenerateResponse(ctx, o.window(messages, turnStart), o.specs)
			if err != nil {
				if turnErr := o.turnError(ctx); turnErr != nil {
					return nil, turnErr
				}
				o.logger.Error("Model request failed", zap.String("channel_id", channelID), zap.Error(err))
				return nil, errors.InternalErrorf("failed to generate AI response: %v", err)
			}
			if resp == nil {
				resp = entities.NewAssistantMessage("")
			}
			reply = resp

			if len(reply.ToolRequests) == 0 {
				state = StateDone
				continue
			}
			if result.Rounds >= o.opts.MaxRounds {
				o.logger.Warn("Tool loop exceeded",
					zap.String("channel_id", channelID),
					zap.Int("max_rounds", o.opts.MaxRounds))
				return nil, errors.ToolLoopErrorf(result.Rounds, "tool-loop exceeded: model still requested tools after %d rounds", result.Rounds)
			}
			state = StateExecutingTools

		case StateExecutingTools:
			calls := make([]entities.ToolCall, len(reply.ToolRequests))
			for i, call := range reply.ToolRequests {
				if _, dup := seenCalls[call.ID]; call.ID == "" || dup {
					call.ID = "call_" + uuid.New().String()
				}
				seenCalls[call.ID] = struct{}{}
				if call.Arguments == nil {
					call.Arguments = map[string]any{}
				}
				calls[i] = call
			}
			messages = append(messages, entities.NewToolRequestMessage(reply.Content, calls))

			for _, call := range calls {
				events.PublishToolCallEvent(entities.NewToolCallStartedEvent(channelID, call.ID, call.Name, call.Arguments))
				content, failed := o.executeTool(ctx, call)
				messages = append(messages, entities.NewToolResultMessage(call.ID, call.Name, content))

				truncated := truncateResult(content)
				result.Invocations = append(result.Invocations, entities.ToolInvocation{
					ToolName:  call.Name,
					Arguments: call.Arguments,
					Result:    &truncated,
				})

				errMsg := ""
				if failed {
					errMsg = content
				}
				events.PublishToolCallEvent(entities.NewToolCallEvent(channelID, call.ID, call.Name, call.Arguments, truncated, errMsg))
			}
			state = StateAwaitingModel
		}
	}

	messages = append(messages, entities.NewAssistantMessage(reply.Content))
	result.FinalText = reply.Content
	result.History = messages

	o.logger.Info("Turn complete",
		zap.String("channel_id", channelID),
		zap.Int("rounds", result.Rounds),
		zap.Int("tool_calls", len(result.Invocations)))

	return result, nil
}

// executeTool runs one call and always yields text for the conversation.
// failed reports whether the text narrates an error.
func (o *orchestrator) executeTool(ctx context.Context, call entities.ToolCall) (content string, failed bool) {
	if _, ok := o.known[call.Name]; !ok {
		o.logger.Warn("Model requested unknown tool", zap.String("tool", call.Name), zap.String("tool_call_id", call.ID))
		return fmt.Sprintf("Error: unknown tool '%s'", call.Name), true
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Tool panicked", zap.String("tool", call.Name), zap.Any("panic", r))
			content = fmt.Sprintf("Error executing tool: %v", r)
			failed = true
		}
	}()

	start := time.Now()
	out, err := o.tools.Execute(ctx, call.Name, call.Arguments)
	if err != nil {
		o.logger.Warn("Tool execution failed", zap.String("tool", call.Name), zap.Error(err))
		return fmt.Sprintf("Error executing tool: %v", err), true
	}

	o.logger.Debug("Tool executed",
		zap.String("tool", call.Name),
		zap.String("tool_call_id", call.ID),
		zap.Duration("took", time.Since(start)))
	return out, false
}

func (o *orchestrator) turnError(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return errors.TimeoutErrorf("turn exceeded the %s timeout", o.opts.TurnTimeout)
	default:
		return errors.CanceledErrorf("message processing was canceled")
	}
}

// window returns the messages sent to the model. Older exchanges are dropped
// whole, each starting at a user message, until the prompt fits
// HistoryTokenLimit. System messages and the current turn are always kept.
func (o *orchestrator) window(messages []*entities.Message, turnStart int) []*entities.Message {
	if o.opts.HistoryTokenLimit <= 0 || o.opts.CountTokens == nil {
		return messages
	}

	budget := o.opts.HistoryTokenLimit
	for _, msg := range messages {
		if msg.Role == entities.RoleSystem {
			budget -= o.messageTokens(msg)
		}
	}
	used := 0
	for _, msg := range messages[turnStart:] {
		used += o.messageTokens(msg)
	}

	start := turnStart
	for i := turnStart - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Role == entities.RoleSystem {
			continue
		}
		used += o.messageTokens(msg)
		if used > budget {
			break
		}
		if msg.Role == entities.RoleUser {
			start = i
		}
	}

	dropped := 0
	for _, msg := range messages[:start] {
		if msg.Role != entities.RoleSystem {
			dropped++
		}
	}
	if dropped == 0 {
		return messages
	}

	out := make([]*entities.Message, 0, len(messages)-dropped)
	for _, msg := range messages[:start] {
		if msg.Role == entities.RoleSystem {
			out = append(out, msg)
		}
	}
	out = append(out, messages[start:]...)
	o.logger.Debug("Trimmed history for prompt",
		zap.Int("dropped", dropped),
		zap.Int("token_limit", o.opts.HistoryTokenLimit))
	return out
}

func (o *orchestrator) messageTokens(msg *entities.Message) int {
	n := o.opts.CountTokens(msg.Content)
	for _, call := range msg.ToolRequests {
		n += o.opts.CountTokens(call.Name + fmt.Sprint(call.Arguments))
	}
	return n
}

func hasSystemMessage(messages []*entities.Message) bool {
	for _, msg := range messages {
		if msg.Role == entities.RoleSystem {
			return true
		}
	}
	return false
}

func truncateResult(s string) string {
	if utf8.RuneCountInString(s) <= MaxResultLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxResultLength])
}

type channelIDKey struct{}

// WithChannelID tags ctx with the channel a turn belongs to.
func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelIDKey{}, channelID)
}

func ChannelIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(channelIDKey{}).(string)
	return id
}

package services

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestTools() *fakeTools {
	return &fakeTools{handlers: map[string]func(map[string]any) (string, error){
		"daily_steps_tool": func(args map[string]any) (string, error) {
			return "On 2024-06-01: 10,234 steps", nil
		},
		"sleep_data_tool": func(args map[string]any) (string, error) {
			return "", stderrors.New("database is locked")
		},
		"device_info_tool": func(args map[string]any) (string, error) {
			panic("boom")
		},
		"long_tool": func(args map[string]any) (string, error) {
			return strings.Repeat("é", 600), nil
		},
	}}
}

func newTestOrchestrator(t *testing.T, model *scriptedModel, opts OrchestratorOptions) *orchestrator {
	t.Helper()
	o, err := NewOrchestrator(model, newTestTools(), opts, zap.NewNop())
	require.NoError(t, err)
	return o
}

func TestNewOrchestratorRequiresModel(t *testing.T) {
	_, err := NewOrchestrator(nil, newTestTools(), OrchestratorOptions{}, zap.NewNop())

	var unavailable *errors.UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestRunTurnFinalAnswerWithoutTools(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{entities.NewAssistantMessage("Hello!")}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	result, err := o.RunTurn(context.Background(), nil, "hi")

	require.NoError(t, err)
	assert.Equal(t, "Hello!", result.FinalText)
	assert.Equal(t, 1, result.Rounds)
	assert.Empty(t, result.Invocations)
	require.Len(t, result.History, 3)
	assert.Equal(t, entities.RoleSystem, result.History[0].Role)
	assert.Equal(t, DefaultSystemPrompt, result.History[0].Content)
	assert.Equal(t, entities.RoleUser, result.History[1].Role)
	assert.Equal(t, "hi", result.History[1].Content)
	assert.Equal(t, entities.RoleAssistant, result.History[2].Role)

	require.Len(t, model.seen, 1)
	assert.Len(t, model.seen[0], 2)
}

func TestRunTurnExecutesToolChain(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{
		toolReply(entities.ToolCall{ID: "call_1", Name: "daily_steps_tool", Arguments: map[string]any{"date": "2024-06-01"}}),
		entities.NewAssistantMessage("You walked 10,234 steps."),
	}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	result, err := o.RunTurn(context.Background(), nil, "How many steps on June 1st?")

	require.NoError(t, err)
	assert.Equal(t, "You walked 10,234 steps.", result.FinalText)
	assert.Equal(t, 2, result.Rounds)

	require.Len(t, result.Invocations, 1)
	inv := result.Invocations[0]
	assert.Equal(t, "daily_steps_tool", inv.ToolName)
	assert.Equal(t, "2024-06-01", inv.Arguments["date"])
	require.NotNil(t, inv.Result)
	assert.Equal(t, "On 2024-06-01: 10,234 steps", *inv.Result)

	// system, user, assistant tool request, tool result, final
	require.Len(t, result.History, 5)
	request := result.History[2]
	assert.True(t, request.HasToolRequests())
	toolMsg := result.History[3]
	assert.Equal(t, entities.RoleTool, toolMsg.Role)
	assert.Equal(t, request.ToolRequests[0].ID, toolMsg.ToolCallID)
	assert.Equal(t, "daily_steps_tool", toolMsg.ToolName)

	// the second round sees the tool result
	require.Len(t, model.seen, 2)
	assert.Len(t, model.seen[1], 4)
}

func TestRunTurnUnknownToolCompletes(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	model := &scriptedModel{replies: []*entities.Message{
		toolReply(entities.ToolCall{ID: "call_1", Name: "weather_tool"}),
		entities.NewAssistantMessage("Sorry, I can't do that."),
	}}
	o, err := NewOrchestrator(model, newTestTools(), OrchestratorOptions{}, zap.New(core))
	require.NoError(t, err)

	result, err := o.RunTurn(context.Background(), nil, "weather?")

	require.NoError(t, err)
	assert.Equal(t, "Sorry, I can't do that.", result.FinalText)
	require.Len(t, result.Invocations, 1)
	assert.Contains(t, *result.Invocations[0].Result, "unknown tool 'weather_tool'")
	assert.Equal(t, 1, logs.FilterMessage("Model requested unknown tool").Len())
}

func TestRunTurnToolFaultsAreNarrated(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{
		toolReply(
			entities.ToolCall{ID: "call_1", Name: "sleep_data_tool"},
			entities.ToolCall{ID: "call_2", Name: "device_info_tool"},
		),
		entities.NewAssistantMessage("Something went wrong."),
	}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	result, err := o.RunTurn(context.Background(), nil, "sleep and device?")

	require.NoError(t, err)
	require.Len(t, result.Invocations, 2)
	assert.Equal(t, "Error executing tool: database is locked", *result.Invocations[0].Result)
	assert.Equal(t, "Error executing tool: boom", *result.Invocations[1].Result)
	assert.Equal(t, "Something went wrong.", result.FinalText)
}

func TestRunTurnEmptyReplyIsFinal(t *testing.T) {
	model := &scriptedModel{}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	result, err := o.RunTurn(context.Background(), nil, "hi")

	require.NoError(t, err)
	assert.Equal(t, "", result.FinalText)
	assert.Equal(t, 1, result.Rounds)
}

func TestRunTurnToolLoopCap(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{
		toolReply(entities.ToolCall{ID: "call_1", Name: "daily_steps_tool"}),
	}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{MaxRounds: 3})

	result, err := o.RunTurn(context.Background(), nil, "loop forever")

	assert.Nil(t, result)
	var loopErr *errors.ToolLoopError
	require.ErrorAs(t, err, &loopErr)
	assert.Equal(t, 3, loopErr.Rounds)
	assert.Equal(t, 3, model.rounds())
}

func TestRunTurnRepeatedCallIDsStayUnique(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{
		toolReply(entities.ToolCall{ID: "call_1", Name: "daily_steps_tool"}),
		toolReply(entities.ToolCall{ID: "call_1", Name: "daily_steps_tool"}),
		entities.NewAssistantMessage("done"),
	}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	result, err := o.RunTurn(context.Background(), nil, "steps twice")

	require.NoError(t, err)
	ids := map[string]bool{}
	for _, msg := range result.History {
		if msg.Role == entities.RoleTool {
			assert.False(t, ids[msg.ToolCallID], "duplicate call id %s", msg.ToolCallID)
			ids[msg.ToolCallID] = true
		}
	}
	assert.Len(t, ids, 2)
}

func TestRunTurnTimeout(t *testing.T) {
	model := &scriptedModel{block: true}
	o := newTestOrchestrator(t, model, OrchestratorOptions{TurnTimeout: 20 * time.Millisecond})

	_, err := o.RunTurn(context.Background(), nil, "hi")

	var timeoutErr *errors.TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunTurnCanceled(t *testing.T) {
	model := &scriptedModel{block: true}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.RunTurn(ctx, nil, "hi")

	var canceledErr *errors.CanceledError
	assert.ErrorAs(t, err, &canceledErr)
	assert.Equal(t, 0, model.rounds())
}

func TestRunTurnModelFailure(t *testing.T) {
	model := &scriptedModel{err: stderrors.New("401 unauthorized")}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	_, err := o.RunTurn(context.Background(), nil, "hi")

	var internalErr *errors.InternalError
	require.ErrorAs(t, err, &internalErr)
	assert.Contains(t, err.Error(), "401 unauthorized")
}

func TestRunTurnRejectsEmptyText(t *testing.T) {
	model := &scriptedModel{}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	_, err := o.RunTurn(context.Background(), nil, "   ")

	var validationErr *errors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, model.rounds())
}

func TestRunTurnKeepsPriorHistory(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{entities.NewAssistantMessage("second answer")}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})
	history := []*entities.Message{
		entities.NewSystemMessage("custom prompt"),
		entities.NewUserMessage("first"),
		entities.NewAssistantMessage("first answer"),
	}

	result, err := o.RunTurn(context.Background(), history, "second")

	require.NoError(t, err)
	assert.Len(t, history, 3)
	require.Len(t, result.History, 5)
	assert.Equal(t, "custom prompt", result.History[0].Content)
	systemCount := 0
	for _, msg := range result.History {
		if msg.Role == entities.RoleSystem {
			systemCount++
		}
	}
	assert.Equal(t, 1, systemCount)
}

func TestRunTurnTrimsPromptToTokenLimit(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{entities.NewAssistantMessage("done")}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{
		HistoryTokenLimit: 8,
		CountTokens:       func(s string) int { return len(strings.Fields(s)) },
	})
	history := []*entities.Message{
		entities.NewSystemMessage("sys"),
		entities.NewUserMessage("a a a a a"),
		entities.NewAssistantMessage("b b b b b"),
		entities.NewUserMessage("c c"),
		entities.NewAssistantMessage("d d"),
	}

	result, err := o.RunTurn(context.Background(), history, "e e")

	require.NoError(t, err)
	require.Len(t, model.seen, 1)
	prompt := model.seen[0]
	require.Len(t, prompt, 4)
	assert.Equal(t, "sys", prompt[0].Content)
	assert.Equal(t, "c c", prompt[1].Content)
	assert.Equal(t, "e e", prompt[3].Content)
	assert.Len(t, result.History, 7)
}

func TestRunTurnNeverTrimsCurrentTurn(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{entities.NewAssistantMessage("done")}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{
		HistoryTokenLimit: 1,
		CountTokens:       func(s string) int { return len(strings.Fields(s)) },
	})
	history := []*entities.Message{
		entities.NewUserMessage("old question"),
		entities.NewAssistantMessage("old answer"),
	}

	_, err := o.RunTurn(context.Background(), history, "a much longer new question")

	require.NoError(t, err)
	prompt := model.seen[0]
	require.Len(t, prompt, 2)
	assert.Equal(t, entities.RoleSystem, prompt[0].Role)
	assert.Equal(t, "a much longer new question", prompt[1].Content)
}

func TestRunTurnTruncatesInvocationResult(t *testing.T) {
	model := &scriptedModel{replies: []*entities.Message{
		toolReply(entities.ToolCall{ID: "call_1", Name: "long_tool"}),
		entities.NewAssistantMessage("ok"),
	}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	result, err := o.RunTurn(context.Background(), nil, "long")

	require.NoError(t, err)
	assert.Equal(t, MaxResultLength, len([]rune(*result.Invocations[0].Result)))
	assert.Equal(t, 600, len([]rune(result.History[3].Content)))
}

func TestRunTurnPublishesToolStartAndFinish(t *testing.T) {
	var mu sync.Mutex
	var phases []entities.ToolCallPhase
	unsubscribe := events.SubscribeToToolCallEvents(func(data events.ToolCallEventData) {
		if data.Event.ChannelID != "tool-events" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, data.Event.Phase)
	})
	defer unsubscribe()

	model := &scriptedModel{replies: []*entities.Message{
		toolReply(entities.ToolCall{ID: "call_1", Name: "daily_steps_tool", Arguments: map[string]any{"date": "2024-06-01"}}),
		entities.NewAssistantMessage("You walked 10,234 steps."),
	}}
	o := newTestOrchestrator(t, model, OrchestratorOptions{})

	_, err := o.RunTurn(WithChannelID(context.Background(), "tool-events"), nil, "steps?")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(phases) == 2
	}, time.Second, 10*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []entities.ToolCallPhase{entities.ToolCallStarted, entities.ToolCallFinished}, phases)
}

func TestChannelIDFromContext(t *testing.T) {
	assert.Equal(t, "", ChannelIDFromContext(context.Background()))
	assert.Equal(t, "abc", ChannelIDFromContext(WithChannelID(context.Background(), "abc")))
}

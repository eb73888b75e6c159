package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.uber.org/zap"
)

const maxAttempts = 3

// OpenAIIntegration speaks the chat-completions wire format shared by
// OpenAI, Groq and other compatible providers.
type OpenAIIntegration struct {
	endpoint    string
	apiKey      string
	model       string
	provider    string
	temperature float64
	httpClient  *http.Client
	retryDelay  time.Duration
	logger      *zap.Logger
}

func NewOpenAIIntegration(baseURL, apiKey, model, provider string, temperature float64, logger *zap.Logger) (*OpenAIIntegration, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	return &OpenAIIntegration{
		endpoint:    strings.TrimRight(baseURL, "/") + "/chat/completions",
		apiKey:      apiKey,
		model:       model,
		provider:    provider,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: 300 * time.Second},
		retryDelay:  time.Second,
		logger:      logger,
	}, nil
}

func (m *OpenAIIntegration) ModelName() string {
	return m.model
}

func (m *OpenAIIntegration) ProviderType() string {
	return m.provider
}

type chatFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatFunctionCall `json:"function"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []chatMessage    `json:"messages"`
	Tools       []map[string]any `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
	Temperature float64          `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		FinishReason string      `json:"finish_reason"`
		Message      chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func convertToChatMessages(messages []*entities.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, msg := range messages {
		apiMsg := chatMessage{Role: string(msg.Role), Content: msg.Content}
		switch {
		case msg.Role == entities.RoleAssistant && msg.HasToolRequests():
			for _, call := range msg.ToolRequests {
				args, _ := json.Marshal(call.Arguments)
				apiMsg.ToolCalls = append(apiMsg.ToolCalls, chatToolCall{
					ID:       call.ID,
					Type:     "function",
					Function: chatFunctionCall{Name: call.Name, Arguments: string(args)},
				})
			}
		case msg.Role == entities.RoleTool:
			apiMsg.ToolCallID = msg.ToolCallID
			apiMsg.Name = msg.ToolName
		}
		out = append(out, apiMsg)
	}
	return out
}

func convertToChatTools(specs []*entities.ToolSpec) []map[string]any {
	tools := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        spec.Name,
				"description": spec.Description,
				"parameters":  jsonSchema(spec),
			},
		})
	}
	return tools
}

// jsonSchema renders the parameters of spec as a JSON schema object.
func jsonSchema(spec *entities.ToolSpec) map[string]any {
	properties := make(map[string]any, len(spec.Parameters))
	for _, param := range spec.Parameters {
		property := map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			property["enum"] = param.Enum
		}
		if param.Default != nil {
			property["default"] = param.Default
		}
		properties[param.Name] = property
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   spec.RequiredParameters(),
	}
}

func (m *OpenAIIntegration) GenerateResponse(ctx context.Context, messages []*entities.Message, tools []*entities.ToolSpec) (*entities.Message, error) {
	reqBody := chatRequest{
		Model:       m.model,
		Messages:    convertToChatMessages(messages),
		Temperature: m.temperature,
	}
	if len(tools) > 0 {
		reqBody.Tools = convertToChatTools(tools)
		reqBody.ToolChoice = "auto"
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	body, err := m.post(ctx, jsonBody)
	if err != nil {
		return nil, err
	}

	var responseBody chatResponse
	if err := json.Unmarshal(body, &responseBody); err != nil {
		return nil, fmt.Errorf("error decoding response: %v", err)
	}
	if len(responseBody.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := responseBody.Choices[0]
	m.logger.Debug("Model response",
		zap.String("provider", m.provider),
		zap.String("finish_reason", choice.FinishReason),
		zap.Int("tool_calls", len(choice.Message.ToolCalls)),
		zap.Int("prompt_tokens", responseBody.Usage.PromptTokens),
		zap.Int("completion_tokens", responseBody.Usage.CompletionTokens))

	if len(choice.Message.ToolCalls) == 0 {
		return entities.NewAssistantMessage(choice.Message.Content), nil
	}

	calls := make([]entities.ToolCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		args := map[string]any{}
		if strings.TrimSpace(tc.Function.Arguments) != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				m.logger.Warn("Malformed tool arguments, using defaults",
					zap.String("tool", tc.Function.Name),
					zap.String("arguments", tc.Function.Arguments),
					zap.Error(err))
				args = map[string]any{}
			}
		}
		calls = append(calls, entities.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: args})
	}
	return entities.NewToolRequestMessage(choice.Message.Content, calls), nil
}

// post sends body and retries transport errors and 429s with a linear backoff.
func (m *OpenAIIntegration) post(ctx context.Context, jsonBody []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * m.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("error creating request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+m.apiKey)

		resp, err := m.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.logger.Warn("Error making request, retrying", zap.Error(err), zap.Int("attempt", attempt+1))
			lastErr = fmt.Errorf("error making request: %v", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading response: %v", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			m.logger.Warn("Rate limited, retrying", zap.Int("attempt", attempt+1))
			lastErr = fmt.Errorf("rate limit exceeded")
			continue
		case resp.StatusCode != http.StatusOK:
			m.logger.Error("Unexpected status code", zap.Int("status", resp.StatusCode), zap.String("body", string(body)))
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}
		return body, nil
	}
	return nil, lastErr
}

var _ interfaces.AIModelIntegration = (*OpenAIIntegration)(nil)

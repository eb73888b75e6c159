package integrations

import (
	"context"
	"fmt"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GoogleIntegration drives Gemini models through the genai SDK.
type GoogleIntegration struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func NewGoogleIntegration(ctx context.Context, apiKey, model string, temperature float64, logger *zap.Logger) (*GoogleIntegration, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GoogleIntegration{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		logger:      logger,
	}, nil
}

func (m *GoogleIntegration) ModelName() string {
	return m.model
}

func (m *GoogleIntegration) ProviderType() string {
	return ProviderGoogle
}

func (m *GoogleIntegration) GenerateResponse(ctx context.Context, messages []*entities.Message, tools []*entities.ToolSpec) (*entities.Message, error) {
	system, contents := convertToGenAIContents(messages)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(m.temperature),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: convertToFunctionDeclarations(tools)}}
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	functionCalls := resp.FunctionCalls()
	m.logger.Debug("Model response",
		zap.String("provider", ProviderGoogle),
		zap.Int("tool_calls", len(functionCalls)))

	if len(functionCalls) == 0 {
		return entities.NewAssistantMessage(resp.Text()), nil
	}

	calls := make([]entities.ToolCall, 0, len(functionCalls))
	for _, fc := range functionCalls {
		id := fc.ID
		if id == "" {
			id = "call_" + uuid.New().String()
		}
		args := fc.Args
		if args == nil {
			args = map[string]any{}
		}
		calls = append(calls, entities.ToolCall{ID: id, Name: fc.Name, Arguments: args})
	}
	return entities.NewToolRequestMessage("", calls), nil
}

// convertToGenAIContents splits out the system text and maps the rest of
// the history onto Gemini turns.
func convertToGenAIContents(messages []*entities.Message) (string, []*genai.Content) {
	var system string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case entities.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case entities.RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case entities.RoleAssistant:
			parts := make([]*genai.Part, 0, len(msg.ToolRequests)+1)
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolRequests {
				part := genai.NewPartFromFunctionCall(call.Name, call.Arguments)
				part.FunctionCall.ID = call.ID
				parts = append(parts, part)
			}
			if len(parts) == 0 {
				parts = append(parts, genai.NewPartFromText(""))
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
		case entities.RoleTool:
			part := genai.NewPartFromFunctionResponse(msg.ToolName, map[string]any{"output": msg.Content})
			part.FunctionResponse.ID = msg.ToolCallID
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
		}
	}
	return system, contents
}

func convertToFunctionDeclarations(specs []*entities.ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		decl := &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
		}
		// Gemini rejects an OBJECT schema without properties.
		if len(spec.Parameters) == 0 {
			decls = append(decls, decl)
			continue
		}

		properties := make(map[string]*genai.Schema, len(spec.Parameters))
		for _, param := range spec.Parameters {
			properties[param.Name] = &genai.Schema{
				Type:        genAIType(param.Type),
				Description: param.Description,
				Enum:        param.Enum,
			}
		}
		decl.Parameters = &genai.Schema{
			Type:       genai.TypeObject,
			Properties: properties,
			Required:   spec.RequiredParameters(),
		}
		decls = append(decls, decl)
	}
	return decls
}

func genAIType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

var _ interfaces.AIModelIntegration = (*GoogleIntegration)(nil)

package apicontrollers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/services"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	gfmext "github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

type ChatController struct {
	logger      *zap.Logger
	chatService services.ChatService
	markdown    goldmark.Markdown
}

func NewChatController(logger *zap.Logger, chatService services.ChatService) *ChatController {
	return &ChatController{
		logger:      logger,
		chatService: chatService,
		markdown:    goldmark.New(goldmark.WithExtensions(gfmext.GFM)),
	}
}

// RegisterRoutes registers all chat-related routes with Echo
func (c *ChatController) RegisterRoutes(e *echo.Group) {
	e.POST("/chat/message", c.SendMessage)
	e.GET("/chat/history/:channel_id", c.GetHistory)
	e.DELETE("/chat/history/:channel_id", c.ClearHistory)
	e.GET("/chat/history/:channel_id/transcript", c.GetTranscript)
}

type ChatRequest struct {
	Message   string `json:"message"`
	ChannelID string `json:"channel_id"`
}

type ChatResponse struct {
	Message   *entities.Message         `json:"message"`
	ToolCalls []entities.ToolInvocation `json:"tool_calls,omitempty"`
}

type HistoryResponse struct {
	ChannelID string             `json:"channel_id"`
	Messages  []entities.Message `json:"messages"`
}

// SendMessage runs one turn and returns the assistant reply.
func (c *ChatController) SendMessage(ctx echo.Context) error {
	var input ChatRequest
	if err := ctx.Bind(&input); err != nil {
		return handleError(ctx, c.logger, errors.ValidationErrorf("Invalid request body"))
	}

	reply, err := c.chatService.SendMessage(ctx.Request().Context(), input.ChannelID, input.Message)
	if err != nil {
		return handleError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, ChatResponse{
		Message:   reply,
		ToolCalls: reply.ToolCalls,
	})
}

func (c *ChatController) GetHistory(ctx echo.Context) error {
	channelID := ctx.Param("channel_id")
	messages, err := c.chatService.GetHistory(ctx.Request().Context(), channelID)
	if err != nil {
		return handleError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, HistoryResponse{ChannelID: channelID, Messages: messages})
}

func (c *ChatController) ClearHistory(ctx echo.Context) error {
	if err := c.chatService.ClearHistory(ctx.Request().Context(), ctx.Param("channel_id")); err != nil {
		return handleError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"message": "History cleared successfully",
	})
}

var transcriptTemplate = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Transcript {{.ChannelID}}</title></head>
<body>
{{range .Entries}}<div class="message {{.Role}}">
<div class="meta">{{.Role}} &middot; {{.Timestamp}}</div>
<div class="content">{{.Body}}</div>
</div>
{{end}}</body>
</html>
`))

type transcriptEntry struct {
	Role      string
	Timestamp string
	Body      template.HTML
}

// GetTranscript renders the channel transcript as HTML. Assistant replies
// are treated as markdown, user text is escaped.
func (c *ChatController) GetTranscript(ctx echo.Context) error {
	channelID := ctx.Param("channel_id")
	messages, err := c.chatService.GetHistory(ctx.Request().Context(), channelID)
	if err != nil {
		return handleError(ctx, c.logger, err)
	}

	entries := make([]transcriptEntry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, transcriptEntry{
			Role:      string(msg.Role),
			Timestamp: msg.Timestamp.Format("2006-01-02 15:04:05"),
			Body:      c.renderBody(msg),
		})
	}

	var buf bytes.Buffer
	if err := transcriptTemplate.Execute(&buf, struct {
		ChannelID string
		Entries   []transcriptEntry
	}{channelID, entries}); err != nil {
		return handleError(ctx, c.logger, errors.InternalErrorf("failed to render transcript: %v", err))
	}
	return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (c *ChatController) renderBody(msg entities.Message) template.HTML {
	escaped := template.HTML("<p>" + template.HTMLEscapeString(msg.Content) + "</p>")
	if msg.Role != entities.RoleAssistant {
		return escaped
	}
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(msg.Content), &buf); err != nil {
		c.logger.Warn("Failed to render markdown", zap.String("message_id", msg.ID), zap.Error(err))
		return escaped
	}
	return template.HTML(buf.String())
}

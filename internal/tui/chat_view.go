package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/services"
)

type ChatView struct {
	chatService  services.ChatService
	channel      *entities.Channel
	messages     []entities.Message
	activity     []string
	viewport     viewport.Model
	textarea     textarea.Model
	spinner      spinner.Model
	userStyle    lipgloss.Style
	asstStyle    lipgloss.Style
	toolStyle    lipgloss.Style
	err          error
	cancel       context.CancelFunc
	isProcessing bool
	startTime    time.Time
	focused      string // "textarea" or "viewport"
	width        int
	height       int
}

func NewChatView(chatService services.ChatService) ChatView {
	ta := textarea.New()
	ta.Placeholder = "Ask about your steps, sleep, heart rate..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.SetWidth(30)
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ChatView{
		chatService: chatService,
		textarea:    ta,
		viewport:    viewport.New(30, 5),
		spinner:     s,
		userStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		asstStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		toolStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		focused:     "textarea",
		width:       30,
		height:      5,
	}
}

func (c *ChatView) SetHistory(channel *entities.Channel, messages []entities.Message) {
	c.channel = channel
	c.messages = messages
	c.activity = nil
	c.refresh()
}

func (c *ChatView) refresh() {
	content := "How can I help you today?"
	if len(c.messages) > 0 || len(c.activity) > 0 {
		content = renderTranscript(c.messages, c.userStyle, c.asstStyle, c.toolStyle)
		for _, line := range c.activity {
			content += c.toolStyle.Render(line) + "\n"
		}
	}
	c.viewport.SetContent(lipgloss.NewStyle().Width(c.viewport.Width).Render(content))
	c.viewport.GotoBottom()
}

func renderTranscript(messages []entities.Message, userStyle, asstStyle, toolStyle lipgloss.Style) string {
	var sb strings.Builder
	for _, message := range messages {
		switch message.Role {
		case entities.RoleUser:
			sb.WriteString(userStyle.Render("You: ") + message.Content + "\n")
		case entities.RoleAssistant:
			for _, call := range message.ToolCalls {
				sb.WriteString(toolStyle.Render("  ↳ checked "+describeCall(call.ToolName, call.Arguments)) + "\n")
			}
			sb.WriteString(asstStyle.Render("Assistant: ") + message.Content + "\n")
		}
	}
	return sb.String()
}

// describeCall formats a tool call as name(k=v, ...) with sorted keys.
func describeCall(name string, args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func (c ChatView) Init() tea.Cmd {
	return textarea.Blink
}

func (c ChatView) Update(msg tea.Msg) (ChatView, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if c.isProcessing {
			if m.Type == tea.KeyEsc && c.cancel != nil {
				c.cancel()
				c.isProcessing = false
				c.activity = nil
				c.err = fmt.Errorf("request cancelled")
			}
			return c, nil
		}

		switch m.String() {
		case "ctrl+c":
			return c, tea.Quit
		case "ctrl+p":
			return c, func() tea.Msg { return startChannelsMsg{} }
		case "f1":
			return c, func() tea.Msg { return startHelpMsg{} }
		case "ctrl+l":
			if c.channel != nil {
				return c, clearHistoryCmd(c.chatService, c.channel.ID)
			}
			return c, nil
		case "enter":
			if c.focused != "textarea" {
				return c, nil
			}
			input := strings.TrimSpace(c.textarea.Value())
			if input == "" {
				c.err = fmt.Errorf("message cannot be empty")
				return c, nil
			}
			if c.channel == nil {
				c.err = fmt.Errorf("no active channel")
				return c, nil
			}
			c.textarea.Reset()
			c.err = nil
			c.messages = append(c.messages, *entities.NewUserMessage(input))
			c.refresh()
			ctx, cancel := context.WithCancel(context.Background())
			c.cancel = cancel
			c.isProcessing = true
			c.startTime = time.Now()
			return c, tea.Batch(sendMessageCmd(ctx, c.chatService, c.channel, input), c.spinner.Tick)
		case "tab", "shift+tab":
			if c.focused == "textarea" {
				c.focused = "viewport"
				c.textarea.Blur()
				return c, nil
			}
			c.focused = "textarea"
			c.textarea.Focus()
			return c, textarea.Blink
		case "j", "down":
			if c.focused == "viewport" {
				c.viewport.ScrollDown(1)
				return c, nil
			}
		case "k", "up":
			if c.focused == "viewport" {
				c.viewport.ScrollUp(1)
				return c, nil
			}
		}
		if c.focused == "textarea" {
			var cmd tea.Cmd
			c.textarea, cmd = c.textarea.Update(m)
			return c, cmd
		}

	case spinner.TickMsg:
		if c.isProcessing {
			var cmd tea.Cmd
			c.spinner, cmd = c.spinner.Update(m)
			return c, cmd
		}

	case toolCallEventMsg:
		if c.isProcessing && c.channel != nil && m.ChannelID == c.channel.ID && m.Phase == entities.ToolCallStarted {
			c.activity = append(c.activity, "  ↳ checking "+describeCall(m.ToolName, m.Arguments))
			c.refresh()
		}
		return c, nil

	case updatedHistoryMsg:
		c.isProcessing = false
		c.cancel = nil
		c.SetHistory(m.channel, m.messages)
		return c, nil

	case historyClearedMsg:
		c.err = nil
		c.messages = nil
		c.activity = nil
		c.refresh()
		return c, nil

	case errMsg:
		c.isProcessing = false
		c.cancel = nil
		c.activity = nil
		c.err = m
		return c, nil

	case tea.WindowSizeMsg:
		c.width = m.Width
		c.height = m.Height
		innerWidth := c.width - 4
		innerHeight := c.height - 4

		c.viewport.Width = innerWidth
		// textarea (3), status line (1), error (1) and borders (2)
		c.viewport.Height = innerHeight - 3 - 1 - 1 - 2
		c.textarea.SetWidth(innerWidth)
		c.refresh()
		return c, nil

	case tea.MouseMsg:
		switch m.Button {
		case tea.MouseButtonWheelUp:
			c.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			c.viewport.ScrollDown(3)
		}
		return c, nil
	}

	return c, nil
}

func (c ChatView) View() string {
	focusedBorder := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("6"))
	unfocusedBorder := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("8"))

	outerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color("4")).
		Width(c.width - 2).
		Height(c.height - 2)

	var sb strings.Builder

	vpStyle := unfocusedBorder
	taStyle := unfocusedBorder
	if c.focused == "viewport" {
		vpStyle = focusedBorder
	} else {
		taStyle = focusedBorder
	}
	sb.WriteString(vpStyle.Width(c.width - 4).Height(c.viewport.Height).Render(c.viewport.View()))
	sb.WriteString(taStyle.Width(c.width - 4).Height(c.textarea.Height()).Render(c.textarea.View()))

	if c.isProcessing {
		elapsed := time.Since(c.startTime).Round(time.Second)
		sb.WriteString("\n" + c.spinner.View() + fmt.Sprintf(" Checking your data... (%ds)", int(elapsed.Seconds())))
	} else {
		name := "no channel"
		if c.channel != nil {
			name = "#" + c.channel.Name
		}
		status := name + " · Ctrl+P channels, Ctrl+L clear, F1 help, Ctrl+C exit"
		sb.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render(status))
	}

	if c.err != nil {
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Render("\n" + c.err.Error()))
	}

	return outerStyle.Render(sb.String())
}

func sendMessageCmd(ctx context.Context, cs services.ChatService, channel *entities.Channel, input string) tea.Cmd {
	return func() tea.Msg {
		if _, err := cs.SendMessage(ctx, channel.ID, input); err != nil {
			return errMsg(err)
		}
		messages, err := cs.GetHistory(ctx, channel.ID)
		if err != nil {
			return errMsg(err)
		}
		return updatedHistoryMsg{channel: channel, messages: messages}
	}
}

func clearHistoryCmd(cs services.ChatService, channelID string) tea.Cmd {
	return func() tea.Msg {
		if err := cs.ClearHistory(context.Background(), channelID); err != nil {
			return errMsg(err)
		}
		return historyClearedMsg{}
	}
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/events"
	"github.com/drujensen/wearables/internal/domain/services"
)

const helpText = `Wearables Assistant

Ask in plain language about your steps, sleep, heart rate,
workouts, weekly summary or device.

  Enter     send message
  Tab       switch focus between transcript and input
  j/k       scroll the transcript
  Ctrl+P    switch or create channels
  Ctrl+L    clear this channel's history
  Esc       cancel a running request
  Ctrl+C    quit

Press Esc to return.`

type TUI struct {
	chatService    services.ChatService
	channelService services.ChannelService

	chatView    ChatView
	channelView ChannelView
	size        tea.WindowSizeMsg

	state string
}

func NewTUI(chatService services.ChatService, channelService services.ChannelService) TUI {
	return TUI{
		chatService:    chatService,
		channelService: channelService,
		chatView:       NewChatView(chatService),
		channelView:    NewChannelView(channelService),
		state:          "chat/view",
	}
}

func (t TUI) Init() tea.Cmd {
	return tea.Batch(t.chatView.Init(), openDefaultChannelCmd(t.chatService, t.channelService))
}

func (t TUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.size = msg
		var chatCmd, channelCmd tea.Cmd
		t.chatView, chatCmd = t.chatView.Update(msg)
		t.channelView, channelCmd = t.channelView.Update(msg)
		return t, tea.Batch(chatCmd, channelCmd)

	case startChannelsMsg:
		t.state = "channels/list"
		return t, t.channelView.Init()
	case channelSelectedMsg:
		t.state = "chat/view"
		return t, loadHistoryCmd(t.chatService, msg.channel)
	case channelsCanceledMsg:
		t.state = "chat/view"
		return t, nil

	case startHelpMsg:
		t.state = "chat/help"
		return t, nil
	case helpCanceledMsg:
		t.state = "chat/view"
		return t, nil

	case toolCallEventMsg, updatedHistoryMsg, historyClearedMsg:
		var cmd tea.Cmd
		t.chatView, cmd = t.chatView.Update(msg)
		return t, cmd
	}

	switch t.state {
	case "channels/list":
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
			return t, tea.Quit
		}
		var cmd tea.Cmd
		t.channelView, cmd = t.channelView.Update(msg)
		return t, cmd
	case "chat/help":
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "ctrl+c":
				return t, tea.Quit
			case "esc", "q":
				return t, func() tea.Msg { return helpCanceledMsg{} }
			}
		}
		return t, nil
	default:
		var cmd tea.Cmd
		t.chatView, cmd = t.chatView.Update(msg)
		return t, cmd
	}
}

func (t TUI) View() string {
	switch t.state {
	case "channels/list":
		return t.channelView.View()
	case "chat/help":
		return lipgloss.NewStyle().Padding(1, 2).Render(helpText)
	default:
		return t.chatView.View()
	}
}

// Run drives the console client until the user quits or ctx is done.
func Run(ctx context.Context, chatService services.ChatService, channelService services.ChannelService) error {
	p := tea.NewProgram(NewTUI(chatService, channelService), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	unsubscribe := events.SubscribeToToolCallEvents(func(data events.ToolCallEventData) {
		p.Send(toolCallEventMsg(data.Event))
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func openDefaultChannelCmd(chatService services.ChatService, channelService services.ChannelService) tea.Cmd {
	return func() tea.Msg {
		channel, err := channelService.EnsureDefaultChannel(context.Background())
		if err != nil {
			return errMsg(err)
		}
		return loadHistoryCmd(chatService, channel)()
	}
}

func loadHistoryCmd(chatService services.ChatService, channel *entities.Channel) tea.Cmd {
	return func() tea.Msg {
		messages, err := chatService.GetHistory(context.Background(), channel.ID)
		if err != nil {
			return errMsg(err)
		}
		return updatedHistoryMsg{channel: channel, messages: messages}
	}
}

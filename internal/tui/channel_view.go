package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/services"
	"github.com/dustin/go-humanize"
)

type channelItem struct {
	channel *entities.Channel
}

func (i channelItem) Title() string { return "#" + i.channel.Name }

func (i channelItem) Description() string {
	return fmt.Sprintf("%s messages · created %s",
		humanize.Comma(int64(i.channel.MessageCount)),
		humanize.Time(i.channel.CreatedAt))
}

func (i channelItem) FilterValue() string { return i.channel.Name }

// ChannelView lists channels and creates new ones.
type ChannelView struct {
	channelService services.ChannelService
	list           list.Model
	input          textinput.Model
	creating       bool
	err            error
}

func NewChannelView(channelService services.ChannelService) ChannelView {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("6")).Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("7"))
	delegate.SetHeight(2)

	l := list.New(nil, delegate, 100, 10)
	l.Title = "Channels"
	l.SetShowStatusBar(false)
	l.SetShowFilter(false)

	ti := textinput.New()
	ti.Placeholder = "Channel name"
	ti.CharLimit = services.MaxChannelName

	return ChannelView{
		channelService: channelService,
		list:           l,
		input:          ti,
	}
}

func (v ChannelView) Init() tea.Cmd {
	return fetchChannelsCmd(v.channelService)
}

func (v ChannelView) Update(msg tea.Msg) (ChannelView, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		v.list.SetSize(m.Width-4, m.Height-4)
		return v, nil

	case channelsFetchedMsg:
		items := make([]list.Item, len(m))
		for i, channel := range m {
			items[i] = channelItem{channel: channel}
		}
		v.list.SetShowPagination(len(items) > 10)
		return v, v.list.SetItems(items)

	case errMsg:
		v.err = m
		return v, nil

	case tea.KeyMsg:
		if v.creating {
			switch m.String() {
			case "esc":
				v.creating = false
				v.input.Blur()
				return v, nil
			case "enter":
				name := v.input.Value()
				v.creating = false
				v.input.Reset()
				v.input.Blur()
				return v, createChannelCmd(v.channelService, name)
			}
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(m)
			return v, cmd
		}

		switch m.String() {
		case "esc":
			return v, func() tea.Msg { return channelsCanceledMsg{} }
		case "n":
			v.creating = true
			v.err = nil
			return v, v.input.Focus()
		case "enter":
			if selected, ok := v.list.SelectedItem().(channelItem); ok {
				return v, func() tea.Msg { return channelSelectedMsg{channel: selected.channel} }
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v ChannelView) View() string {
	view := v.list.View()
	if v.creating {
		view += "\n" + v.input.View()
	}
	instructions := "j/k to navigate, Enter to open, n for a new channel, Esc to go back"
	view += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render(instructions)
	if v.err != nil {
		view += lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Render("\n" + v.err.Error())
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(view)
}

func fetchChannelsCmd(cs services.ChannelService) tea.Cmd {
	return func() tea.Msg {
		channels, err := cs.ListChannels(context.Background())
		if err != nil {
			return errMsg(err)
		}
		return channelsFetchedMsg(channels)
	}
}

func createChannelCmd(cs services.ChannelService, name string) tea.Cmd {
	return func() tea.Msg {
		channel, err := cs.CreateChannel(context.Background(), name)
		if err != nil {
			return errMsg(err)
		}
		return channelSelectedMsg{channel: channel}
	}
}

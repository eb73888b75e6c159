package tui

import (
	"github.com/drujensen/wearables/internal/domain/entities"
)

type (
	updatedHistoryMsg struct {
		channel  *entities.Channel
		messages []entities.Message
	}
	historyClearedMsg struct{}
	toolCallEventMsg  *entities.ToolCallEvent
)

type (
	startChannelsMsg    struct{}
	channelsFetchedMsg  []*entities.Channel
	channelSelectedMsg  struct{ channel *entities.Channel }
	channelsCanceledMsg struct{}
)

type (
	startHelpMsg    struct{}
	helpCanceledMsg struct{}
)

type errMsg error

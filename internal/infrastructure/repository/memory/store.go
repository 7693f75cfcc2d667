package memory

import (
	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/message"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/playerstats"
	"github.com/riskibarqy/teamflow/internal/domain/teamfile"
)

func NewPlayerSlot(seed []player.Player) *Slot[player.Player] {
	return NewSlot(seed, nil)
}

func NewEventSlot(seed []event.Event) *Slot[event.Event] {
	return NewSlot(seed, event.Event.Clone)
}

func NewMessageSlot(seed []message.Message) *Slot[message.Message] {
	return NewSlot(seed, nil)
}

func NewFileSlot(seed []teamfile.File) *Slot[teamfile.File] {
	return NewSlot(seed, teamfile.File.Clone)
}

func NewStatsSlot(seed []playerstats.Record) *Slot[playerstats.Record] {
	return NewSlot(seed, playerstats.Record.Clone)
}

package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/teamflow/internal/domain/message"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/playerstats"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	"github.com/riskibarqy/teamflow/internal/infrastructure/repository/memory"
	recordmock "github.com/riskibarqy/teamflow/internal/mocks/domain/record"
)

func TestDashboardService_Get(t *testing.T) {
	t.Parallel()

	roster, events := attendanceFixture()
	svc := NewDashboardService(
		memory.NewPlayerSlot(roster),
		memory.NewEventSlot(events),
		memory.NewMessageSlot(messageFixture()),
		memory.NewStatsSlot([]playerstats.Record{
			{PlayerID: "p1", GameID: "e1", Points: ptr(12)},
			{PlayerID: "p2", GameID: "e1", Points: ptr(20)},
		}),
		newTestClock(),
		time.UTC,
	)

	got, err := svc.Get(t.Context())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if got.Summary.TeamSize != 3 || got.Summary.TotalEvents != 3 || got.Summary.Games != 2 || got.Summary.Practices != 1 {
		t.Fatalf("unexpected summary: %+v", got.Summary)
	}
	if len(got.UpcomingEvents) != 1 || got.UpcomingEvents[0].ID != "e3" {
		t.Fatalf("unexpected upcoming events: %+v", got.UpcomingEvents)
	}
	if len(got.RecentMessages) != 3 || got.RecentMessages[0].ID != "m2" {
		t.Fatalf("unexpected recent messages: %+v", got.RecentMessages)
	}
	if len(got.TopScorers) != 2 || got.TopScorers[0].PlayerID != "p2" {
		t.Fatalf("unexpected top scorers: %+v", got.TopScorers)
	}
}

func TestDashboardService_FailsWhenASlotIsUnavailable(t *testing.T) {
	t.Parallel()

	roster := recordmock.NewSlot[player.Player](t)
	roster.On("Read", mock.Anything).Return(nil, record.ErrUnavailable).Once()

	svc := NewDashboardService(
		roster,
		memory.NewEventSlot(nil),
		memory.NewMessageSlot([]message.Message{}),
		memory.NewStatsSlot(nil),
		newTestClock(),
		time.UTC,
	)

	_, err := svc.Get(t.Context())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

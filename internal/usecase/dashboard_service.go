package usecase

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/teamflow/internal/domain/attendance"
	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/message"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/playerstats"
)

const (
	dashboardUpcomingEvents = 3
	dashboardRecentMessages = 3
	dashboardTopScorers     = 5
)

type Dashboard struct {
	Summary        attendance.Summary
	UpcomingEvents []event.Event
	RecentMessages []message.Message
	TopScorers     []playerstats.ScorerTotal
}

type DashboardService struct {
	roster   player.Repository
	events   event.Repository
	messages message.Repository
	stats    playerstats.Repository
	clock    clockwork.Clock
	location *time.Location
}

func NewDashboardService(
	roster player.Repository,
	events event.Repository,
	messages message.Repository,
	stats playerstats.Repository,
	clock clockwork.Clock,
	location *time.Location,
) *DashboardService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if location == nil {
		location = time.UTC
	}
	return &DashboardService{
		roster:   roster,
		events:   events,
		messages: messages,
		stats:    stats,
		clock:    clock,
		location: location,
	}
}

// Get loads the four slots concurrently and fails if any read fails.
func (s *DashboardService) Get(ctx context.Context) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	var (
		roster   []player.Player
		events   []event.Event
		messages []message.Message
		stats    []playerstats.Record
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		items, err := s.roster.Read(ctx)
		if err != nil {
			return storeError("read roster", err)
		}
		roster = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.events.Read(ctx)
		if err != nil {
			return storeError("read events", err)
		}
		events = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.messages.Read(ctx)
		if err != nil {
			return storeError("read messages", err)
		}
		messages = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.stats.Read(ctx)
		if err != nil {
			return storeError("read player stats", err)
		}
		stats = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return Dashboard{}, err
	}

	recent := message.SortNewestFirst(messages)
	if len(recent) > dashboardRecentMessages {
		recent = recent[:dashboardRecentMessages]
	}

	return Dashboard{
		Summary:        attendance.Summarize(len(roster), events),
		UpcomingEvents: event.Upcoming(events, s.clock.Now(), s.location, dashboardUpcomingEvents),
		RecentMessages: recent,
		TopScorers:     playerstats.TopScorers(stats, dashboardTopScorers),
	}, nil
}

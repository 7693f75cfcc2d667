package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/teamflow/internal/domain/attendance"
	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

const (
	defaultAttendanceWorkers = 8
	DefaultParticipationRows = 10
)

// PlayerAttendance pairs a rostered player with their attendance record.
type PlayerAttendance struct {
	Player player.Player
	Rate   attendance.PlayerRate
}

type AttendanceService struct {
	roster   player.Repository
	events   event.Repository
	clock    clockwork.Clock
	location *time.Location
	pool     *ants.Pool
	logger   *logging.Logger
}

func NewAttendanceService(
	roster player.Repository,
	events event.Repository,
	clock clockwork.Clock,
	location *time.Location,
	workers int,
	logger *logging.Logger,
) *AttendanceService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if location == nil {
		location = time.UTC
	}
	if workers <= 0 {
		workers = defaultAttendanceWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	// Without a pool the rates are computed inline.
	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Warn("attendance worker pool unavailable", "workers", workers, "error", err)
	}

	return &AttendanceService{
		roster:   roster,
		events:   events,
		clock:    clock,
		location: location,
		pool:     pool,
		logger:   logger,
	}
}

// Close releases the worker pool. Calls after Close fail to compute player rates.
func (s *AttendanceService) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// PlayerRates returns one row per rostered player, in roster order.
func (s *AttendanceService) PlayerRates(ctx context.Context) ([]PlayerAttendance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AttendanceService.PlayerRates")
	defer span.End()

	roster, err := s.roster.Read(ctx)
	if err != nil {
		return nil, storeError("read roster", err)
	}
	events, err := s.events.Read(ctx)
	if err != nil {
		return nil, storeError("read events", err)
	}

	rows := make([]PlayerAttendance, len(roster))
	if len(roster) == 0 {
		return rows, nil
	}

	if s.pool == nil {
		for i, p := range roster {
			rows[i] = PlayerAttendance{Player: p, Rate: attendance.RateFor(p.ID, events)}
		}
		return rows, nil
	}

	var workers sync.WaitGroup
	for i, p := range roster {
		workers.Add(1)
		if err := s.pool.Submit(func() {
			defer workers.Done()
			rows[i] = PlayerAttendance{
				Player: p,
				Rate:   attendance.RateFor(p.ID, events),
			}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit attendance task: %w", err)
		}
	}
	workers.Wait()

	s.logger.DebugContext(ctx, "attendance computed", "players", len(rows), "events", len(events))
	return rows, nil
}

// PlayerRate reports false when the player is not on the roster.
func (s *AttendanceService) PlayerRate(ctx context.Context, playerID string) (PlayerAttendance, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AttendanceService.PlayerRate")
	defer span.End()

	playerID, err := requireID("player id", playerID)
	if err != nil {
		return PlayerAttendance{}, false, err
	}

	roster, err := s.roster.Read(ctx)
	if err != nil {
		return PlayerAttendance{}, false, storeError("read roster", err)
	}
	p, ok := record.Find(roster, byPlayerID(playerID))
	if !ok {
		return PlayerAttendance{}, false, nil
	}

	events, err := s.events.Read(ctx)
	if err != nil {
		return PlayerAttendance{}, false, storeError("read events", err)
	}
	return PlayerAttendance{Player: p, Rate: attendance.RateFor(playerID, events)}, true, nil
}

// Participation summarises responses to the most recent past events.
func (s *AttendanceService) Participation(ctx context.Context, limit int) ([]attendance.EventParticipation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AttendanceService.Participation")
	defer span.End()

	roster, err := s.roster.Read(ctx)
	if err != nil {
		return nil, storeError("read roster", err)
	}
	events, err := s.events.Read(ctx)
	if err != nil {
		return nil, storeError("read events", err)
	}

	past := event.Past(events, s.clock.Now(), s.location, listLimit(limit, DefaultParticipationRows))
	return attendance.Participation(past, len(roster)), nil
}

package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

func attendanceFixture() ([]player.Player, []event.Event) {
	roster := []player.Player{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Beto"}, {ID: "p3", Name: "Chloe"}}
	events := []event.Event{
		{ID: "e1", Type: event.TypeGame, Date: "2025-03-01", Time: "10:00", Availability: map[string]event.Status{
			"p1": event.StatusAvailable, "p2": event.StatusUnavailable,
		}},
		{ID: "e2", Type: event.TypePractice, Date: "2025-03-05", Time: "18:00", Availability: map[string]event.Status{
			"p1": event.StatusMaybe, "p2": event.StatusAvailable, "p3": event.StatusAvailable,
		}},
		{ID: "e3", Type: event.TypeGame, Date: "2025-04-01", Time: "10:00", Availability: map[string]event.Status{}},
	}
	return roster, events
}

func newAttendanceServiceForTest(t *testing.T, workers int) *AttendanceService {
	t.Helper()

	roster, events := attendanceFixture()
	svc := NewAttendanceService(
		memory.NewPlayerSlot(roster),
		memory.NewEventSlot(events),
		newTestClock(),
		time.UTC,
		workers,
		logging.NewNop(),
	)
	t.Cleanup(svc.Close)
	return svc
}

func TestAttendanceService_PlayerRatesKeepRosterOrder(t *testing.T) {
	t.Parallel()

	svc := newAttendanceServiceForTest(t, 2)
	rows, err := svc.PlayerRates(t.Context())
	if err != nil {
		t.Fatalf("player rates: %v", err)
	}

	want := map[string]struct{ responded, rate int }{
		"p1": {responded: 2, rate: 50},
		"p2": {responded: 2, rate: 50},
		"p3": {responded: 1, rate: 100},
	}
	if len(rows) != 3 || rows[0].Player.ID != "p1" || rows[1].Player.ID != "p2" || rows[2].Player.ID != "p3" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	for _, row := range rows {
		w := want[row.Player.ID]
		if row.Rate.Responded != w.responded || row.Rate.Rate != w.rate {
			t.Fatalf("unexpected rate for %s: %+v", row.Player.ID, row.Rate)
		}
	}
}

func TestAttendanceService_PlayerRatesEmptyRoster(t *testing.T) {
	t.Parallel()

	svc := NewAttendanceService(memory.NewPlayerSlot(nil), memory.NewEventSlot(nil), newTestClock(), time.UTC, 0, logging.NewNop())
	t.Cleanup(svc.Close)
	rows, err := svc.PlayerRates(t.Context())
	if err != nil {
		t.Fatalf("player rates: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

func TestAttendanceService_PlayerRate(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	svc := newAttendanceServiceForTest(t, 4)

	row, ok, err := svc.PlayerRate(ctx, "p3")
	if err != nil || !ok {
		t.Fatalf("player rate: ok=%v err=%v", ok, err)
	}
	if row.Rate.Rate != 100 || row.Player.Name != "Chloe" {
		t.Fatalf("unexpected row: %+v", row)
	}

	if _, ok, err := svc.PlayerRate(ctx, "ghost"); err != nil || ok {
		t.Fatalf("unknown player: ok=%v err=%v", ok, err)
	}
}

func TestAttendanceService_ParticipationUsesPastEvents(t *testing.T) {
	t.Parallel()

	svc := newAttendanceServiceForTest(t, 4)
	rows, err := svc.Participation(t.Context(), 0)
	if err != nil {
		t.Fatalf("participation: %v", err)
	}
	if len(rows) != 2 || rows[0].Event.ID != "e2" || rows[1].Event.ID != "e1" {
		t.Fatalf("unexpected participation rows: %+v", rows)
	}
	if rows[0].ResponseRate != 100 || rows[1].ResponseRate != 67 {
		t.Fatalf("unexpected response rates: %d %d", rows[0].ResponseRate, rows[1].ResponseRate)
	}
	if rows[1].Tally.NoResponse != 1 {
		t.Fatalf("unexpected tally: %+v", rows[1].Tally)
	}
}

func TestAttendanceService_ReusesPoolAcrossCalls(t *testing.T) {
	t.Parallel()

	svc := newAttendanceServiceForTest(t, 2)
	pool := svc.pool
	if pool == nil || pool.Cap() != 2 {
		t.Fatalf("expected a pool of 2 workers, got %v", pool)
	}

	for i := 0; i < 3; i++ {
		rows, err := svc.PlayerRates(t.Context())
		if err != nil {
			t.Fatalf("player rates call %d: %v", i, err)
		}
		if len(rows) != 3 {
			t.Fatalf("call %d: expected 3 rows, got %d", i, len(rows))
		}
	}
	if svc.pool != pool || pool.IsClosed() {
		t.Fatalf("expected the same open pool after repeated calls")
	}

	svc.Close()
	if !pool.IsClosed() {
		t.Fatalf("expected Close to release the pool")
	}
	if _, err := svc.PlayerRates(t.Context()); err == nil {
		t.Fatalf("expected an error after Close")
	}
}

func TestAttendanceService_PlayerRatesWithoutPool(t *testing.T) {
	t.Parallel()

	svc := newAttendanceServiceForTest(t, 2)
	svc.Close()
	svc.pool = nil

	rows, err := svc.PlayerRates(t.Context())
	if err != nil {
		t.Fatalf("player rates: %v", err)
	}
	if len(rows) != 3 || rows[2].Player.ID != "p3" || rows[2].Rate.Rate != 100 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	idgen "github.com/riskibarqy/teamflow/internal/platform/id"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

type CreateEventInput struct {
	Title    string
	Type     event.Type
	Date     string
	Time     string
	Location string
	Opponent string
	Notes    string
}

type EventService struct {
	events   event.Repository
	roster   player.Repository
	idGen    idgen.Generator
	clock    clockwork.Clock
	location *time.Location
	logger   *logging.Logger
}

// NewEventService builds the schedule service. location is the team timezone
// used to interpret event dates and times; nil means UTC.
func NewEventService(
	events event.Repository,
	roster player.Repository,
	idGen idgen.Generator,
	clock clockwork.Clock,
	location *time.Location,
	logger *logging.Logger,
) *EventService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EventService{
		events:   events,
		roster:   roster,
		idGen:    idGen,
		clock:    clock,
		location: location,
		logger:   logger,
	}
}

// List returns the events matching filter in chronological order.
func (s *EventService) List(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.List")
	defer span.End()

	items, err := s.events.Read(ctx)
	if err != nil {
		return nil, storeError("read events", err)
	}
	return event.SortChronological(record.Filter(items, filter.Match)), nil
}

func (s *EventService) Upcoming(ctx context.Context, limit int) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Upcoming")
	defer span.End()

	items, err := s.events.Read(ctx)
	if err != nil {
		return nil, storeError("read events", err)
	}
	return event.Upcoming(items, s.clock.Now(), s.location, listLimit(limit, event.DefaultListLimit)), nil
}

func (s *EventService) Past(ctx context.Context, limit int) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Past")
	defer span.End()

	items, err := s.events.Read(ctx)
	if err != nil {
		return nil, storeError("read events", err)
	}
	return event.Past(items, s.clock.Now(), s.location, listLimit(limit, event.DefaultListLimit)), nil
}

func (s *EventService) GetByID(ctx context.Context, eventID string) (event.Event, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetByID")
	defer span.End()

	eventID, err := requireID("event id", eventID)
	if err != nil {
		return event.Event{}, false, err
	}

	items, err := s.events.Read(ctx)
	if err != nil {
		return event.Event{}, false, storeError("read events", err)
	}
	item, ok := record.Find(items, byEventID(eventID))
	return item, ok, nil
}

// Create schedules a new event with an empty availability map.
func (s *EventService) Create(ctx context.Context, input CreateEventInput) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Create")
	defer span.End()

	id, err := s.idGen.NewID()
	if err != nil {
		return event.Event{}, fmt.Errorf("generate event id: %w", err)
	}

	created := event.Event{
		ID:           id,
		Title:        input.Title,
		Type:         input.Type,
		Date:         input.Date,
		Time:         input.Time,
		Location:     input.Location,
		Opponent:     input.Opponent,
		Notes:        input.Notes,
		Availability: map[string]event.Status{},
	}

	if err := s.events.Write(ctx, func(current []event.Event) []event.Event {
		return append(current, created)
	}); err != nil {
		return event.Event{}, storeError("write events", err)
	}

	s.logger.InfoContext(ctx, "event scheduled",
		"event_id", created.ID,
		"type", created.Type,
		"date", created.Date,
	)
	return created.Clone(), nil
}

// Update merges u into the event. Availability is left untouched.
func (s *EventService) Update(ctx context.Context, eventID string, u event.Update) (event.Event, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Update")
	defer span.End()

	eventID, err := requireID("event id", eventID)
	if err != nil {
		return event.Event{}, false, err
	}

	return s.replace(ctx, eventID, func(e event.Event) event.Event { return e.ApplyUpdate(u) })
}

func (s *EventService) Delete(ctx context.Context, eventID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Delete")
	defer span.End()

	eventID, err := requireID("event id", eventID)
	if err != nil {
		return false, err
	}

	var removed bool
	if err := s.events.Write(ctx, func(current []event.Event) []event.Event {
		var next []event.Event
		next, removed = record.RemoveAll(current, byEventID(eventID))
		return next
	}); err != nil {
		return false, storeError("write events", err)
	}

	if removed {
		s.logger.InfoContext(ctx, "event deleted", "event_id", eventID)
	}
	return removed, nil
}

// RecordAvailability upserts the player's response on the event. Unknown
// player ids are accepted; an unknown event reports false.
func (s *EventService) RecordAvailability(ctx context.Context, eventID, playerID string, status event.Status) (event.Event, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RecordAvailability")
	defer span.End()

	eventID, err := requireID("event id", eventID)
	if err != nil {
		return event.Event{}, false, err
	}
	playerID, err = requireID("player id", playerID)
	if err != nil {
		return event.Event{}, false, err
	}

	updated, ok, err := s.replace(ctx, eventID, func(e event.Event) event.Event {
		return event.RecordAvailability(e, playerID, status)
	})
	if err != nil || !ok {
		return updated, ok, err
	}

	s.logger.DebugContext(ctx, "availability recorded",
		"event_id", eventID,
		"player_id", playerID,
		"status", status,
	)
	return updated, true, nil
}

// AvailabilityStats tallies the event's responses against the current roster.
func (s *EventService) AvailabilityStats(ctx context.Context, eventID string) (event.Tally, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.AvailabilityStats")
	defer span.End()

	item, ok, err := s.GetByID(ctx, eventID)
	if err != nil || !ok {
		return event.Tally{}, ok, err
	}

	roster, err := s.roster.Read(ctx)
	if err != nil {
		return event.Tally{}, false, storeError("read roster", err)
	}
	return event.TallyWithRoster(item, len(roster)), true, nil
}

func (s *EventService) replace(ctx context.Context, eventID string, fn func(event.Event) event.Event) (event.Event, bool, error) {
	var (
		updated event.Event
		found   bool
	)
	if err := s.events.Write(ctx, func(current []event.Event) []event.Event {
		var next []event.Event
		next, updated, found = record.ReplaceFirst(current, byEventID(eventID), fn)
		return next
	}); err != nil {
		return event.Event{}, false, storeError("write events", err)
	}
	if !found {
		return event.Event{}, false, nil
	}
	return updated.Clone(), true, nil
}

func byEventID(id string) func(event.Event) bool {
	return func(e event.Event) bool { return e.ID == id }
}

func listLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

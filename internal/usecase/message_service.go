package usecase

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/teamflow/internal/domain/message"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	idgen "github.com/riskibarqy/teamflow/internal/platform/id"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

const DefaultRecentMessages = 10

type CreateMessageInput struct {
	Sender     string
	Content    string
	Recipients message.Audience
}

type MessageService struct {
	messages message.Repository
	idGen    idgen.Generator
	clock    clockwork.Clock
	logger   *logging.Logger
}

func NewMessageService(messages message.Repository, idGen idgen.Generator, clock clockwork.Clock, logger *logging.Logger) *MessageService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MessageService{
		messages: messages,
		idGen:    idGen,
		clock:    clock,
		logger:   logger,
	}
}

// List returns matching messages newest first. A limit of zero or less
// returns every match.
func (s *MessageService) List(ctx context.Context, filter message.Filter, limit int) ([]message.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessageService.List")
	defer span.End()

	items, err := s.messages.Read(ctx)
	if err != nil {
		return nil, storeError("read messages", err)
	}

	out := message.SortNewestFirst(record.Filter(items, filter.Match))
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MessageService) Recent(ctx context.Context, limit int) ([]message.Message, error) {
	return s.List(ctx, message.Filter{}, listLimit(limit, DefaultRecentMessages))
}

func (s *MessageService) ListByRecipients(ctx context.Context, recipients message.Audience) ([]message.Message, error) {
	return s.List(ctx, message.Filter{Recipients: recipients}, 0)
}

func (s *MessageService) GetByID(ctx context.Context, messageID string) (message.Message, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessageService.GetByID")
	defer span.End()

	messageID, err := requireID("message id", messageID)
	if err != nil {
		return message.Message{}, false, err
	}

	items, err := s.messages.Read(ctx)
	if err != nil {
		return message.Message{}, false, storeError("read messages", err)
	}
	item, ok := record.Find(items, byMessageID(messageID))
	return item, ok, nil
}

// Create posts a message stamped with the current time.
func (s *MessageService) Create(ctx context.Context, input CreateMessageInput) (message.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessageService.Create")
	defer span.End()

	id, err := s.idGen.NewID()
	if err != nil {
		return message.Message{}, fmt.Errorf("generate message id: %w", err)
	}

	created := message.Message{
		ID:         id,
		Sender:     input.Sender,
		Content:    input.Content,
		Timestamp:  s.clock.Now().UTC(),
		Recipients: input.Recipients,
	}

	if err := s.messages.Write(ctx, func(current []message.Message) []message.Message {
		return append(current, created)
	}); err != nil {
		return message.Message{}, storeError("write messages", err)
	}

	s.logger.InfoContext(ctx, "message posted",
		"message_id", created.ID,
		"recipients", created.Recipients,
	)
	return created, nil
}

func (s *MessageService) Delete(ctx context.Context, messageID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessageService.Delete")
	defer span.End()

	messageID, err := requireID("message id", messageID)
	if err != nil {
		return false, err
	}

	var removed bool
	if err := s.messages.Write(ctx, func(current []message.Message) []message.Message {
		var next []message.Message
		next, removed = record.RemoveAll(current, byMessageID(messageID))
		return next
	}); err != nil {
		return false, storeError("write messages", err)
	}
	return removed, nil
}

// UnreadCount always reports zero.
// TODO: track per-member read receipts so unread counts can be derived.
func (s *MessageService) UnreadCount(ctx context.Context) (int, error) {
	_, span := startUsecaseSpan(ctx, "usecase.MessageService.UnreadCount")
	defer span.End()
	return 0, nil
}

func byMessageID(id string) func(message.Message) bool {
	return func(m message.Message) bool { return m.ID == id }
}

package postgres

import (
	"bytes"
	"context"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	"github.com/valyala/bytebufferpool"
)

// Slot stores one record collection as a jsonb document in record_slots.
// Writes lock the row for the duration of the transform.
type Slot[T any] struct {
	db  *sqlx.DB
	key string
}

func NewSlot[T any](db *sqlx.DB, key string) *Slot[T] {
	return &Slot[T]{db: db, key: key}
}

func (s *Slot[T]) Read(ctx context.Context) ([]T, error) {
	var row slotRow
	err := withStatementRetry(func() error {
		return s.db.GetContext(ctx, &row, selectSlotSQL, s.key)
	})
	if isNotFound(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "select slot %s", s.key), record.ErrUnavailable)
	}

	return decodeSlot[T](s.key, row.Payload)
}

func (s *Slot[T]) Write(ctx context.Context, fn func([]T) []T) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Mark(crerr.Wrapf(err, "begin slot %s tx", s.key), record.ErrUnavailable)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, ensureSlotSQL, s.key); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "ensure slot %s", s.key), record.ErrUnavailable)
	}

	var row slotRow
	if err := tx.GetContext(ctx, &row, lockSlotSQL, s.key); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "lock slot %s", s.key), record.ErrUnavailable)
	}

	current, err := decodeSlot[T](s.key, row.Payload)
	if err != nil {
		return err
	}

	next := fn(current)

	payload, err := encodeSlot(s.key, next)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, updateSlotSQL, s.key, payload); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "update slot %s", s.key), record.ErrUnavailable)
	}
	if err := tx.Commit(); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "commit slot %s", s.key), record.ErrUnavailable)
	}

	return nil
}

// encodeSlot returns the payload as text. With binary_parameters=yes lib/pq
// sends []byte arguments in binary format, which jsonb_recv rejects.
func encodeSlot[T any](key string, items []T) (string, error) {
	if items == nil {
		items = []T{}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(items); err != nil {
		return "", crerr.Wrapf(err, "encode slot %s", key)
	}
	return string(bytes.TrimSpace(buf.B)), nil
}

func decodeSlot[T any](key string, payload []byte) ([]T, error) {
	items := []T{}
	if len(payload) == 0 {
		return items, nil
	}
	if err := sonic.Unmarshal(payload, &items); err != nil {
		return nil, crerr.Wrapf(err, "decode slot %s", key)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Ping is used by readiness checks.
func Ping(ctx context.Context, db *sqlx.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return crerr.Mark(crerr.Wrap(err, "ping postgres"), record.ErrUnavailable)
	}
	return nil
}

var _ record.Slot[struct{}] = (*Slot[struct{}])(nil)

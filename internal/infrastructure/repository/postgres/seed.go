package postgres

import (
	"context"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/teamflow/internal/domain/record"
	"github.com/riskibarqy/teamflow/internal/infrastructure/repository/memory"
)

const seedSlotSQL = `
UPDATE record_slots
SET payload = CAST(:payload AS jsonb), version = 1, updated_at = NOW()
WHERE slot_key = :slot_key AND version = 0`

// BootstrapSeed fills slots that have never been written with the seed
// content. Slots with any history are left alone, so it is safe on every boot.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, seed memory.Seed) (int, error) {
	docs := []struct {
		key   string
		items any
		empty bool
	}{
		{key: record.KeyRoster, items: seed.Players, empty: len(seed.Players) == 0},
		{key: record.KeyEvents, items: seed.Events, empty: len(seed.Events) == 0},
		{key: record.KeyMessages, items: seed.Messages, empty: len(seed.Messages) == 0},
		{key: record.KeyTeamFiles, items: seed.Files, empty: len(seed.Files) == 0},
		{key: record.KeyPlayerStats, items: seed.Stats, empty: len(seed.Stats) == 0},
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, crerr.Mark(crerr.Wrap(err, "begin seed tx"), record.ErrUnavailable)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	seeded := 0
	for _, doc := range docs {
		if doc.empty {
			continue
		}

		payload, err := sonic.Marshal(doc.items)
		if err != nil {
			return 0, crerr.Wrapf(err, "encode seed slot %s", doc.key)
		}
		if _, err := tx.ExecContext(ctx, ensureSlotSQL, doc.key); err != nil {
			return 0, crerr.Mark(crerr.Wrapf(err, "ensure seed slot %s", doc.key), record.ErrUnavailable)
		}

		sqlQuery, args, err := sqlx.Named(seedSlotSQL, map[string]any{
			"slot_key": doc.key,
			"payload":  string(payload),
		})
		if err != nil {
			return 0, crerr.Wrapf(err, "bind seed slot %s query", doc.key)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...)
		if err != nil {
			return 0, crerr.Mark(crerr.Wrapf(err, "seed slot %s", doc.key), record.ErrUnavailable)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seeded++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, crerr.Mark(crerr.Wrap(err, "commit seed tx"), record.ErrUnavailable)
	}

	return seeded, nil
}

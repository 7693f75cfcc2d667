package postgres

import "time"

type slotRow struct {
	Key       string    `db:"slot_key"`
	Payload   []byte    `db:"payload"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	selectSlotSQL = `
SELECT slot_key, payload, version, updated_at
FROM record_slots
WHERE slot_key = $1`

	lockSlotSQL = selectSlotSQL + `
FOR UPDATE`

	ensureSlotSQL = `
INSERT INTO record_slots (slot_key, payload)
VALUES ($1, '[]'::jsonb)
ON CONFLICT (slot_key) DO NOTHING`

	updateSlotSQL = `
UPDATE record_slots
SET payload = $2::jsonb, version = version + 1, updated_at = NOW()
WHERE slot_key = $1`
)

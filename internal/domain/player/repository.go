package player

import "github.com/riskibarqy/teamflow/internal/domain/record"

// Repository is the roster slot.
type Repository = record.Slot[Player]

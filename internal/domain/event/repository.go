package event

import "github.com/riskibarqy/teamflow/internal/domain/record"

// Repository is the events slot.
type Repository = record.Slot[Event]

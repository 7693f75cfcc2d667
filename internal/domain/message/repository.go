package message

import "github.com/riskibarqy/teamflow/internal/domain/record"

// Repository is the messages slot.
type Repository = record.Slot[Message]

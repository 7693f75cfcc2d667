package playerstats

import "github.com/riskibarqy/teamflow/internal/domain/record"

// Repository is the player stats slot.
type Repository = record.Slot[Record]

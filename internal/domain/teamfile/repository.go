package teamfile

import "github.com/riskibarqy/teamflow/internal/domain/record"

// Repository is the team files slot.
type Repository = record.Slot[File]

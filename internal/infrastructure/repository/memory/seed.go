package memory

import (
	"fmt"
	"os"
	"time"

	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/message"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/playerstats"
	"github.com/riskibarqy/teamflow/internal/domain/teamfile"
	"gopkg.in/yaml.v3"
)

// Seed is the initial content of every slot.
type Seed struct {
	Players  []player.Player      `yaml:"players"`
	Events   []event.Event        `yaml:"events"`
	Messages []message.Message    `yaml:"messages"`
	Files    []teamfile.File      `yaml:"files"`
	Stats    []playerstats.Record `yaml:"stats"`
}

func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed yaml: %w", err)
	}
	for i := range seed.Events {
		if seed.Events[i].Availability == nil {
			seed.Events[i].Availability = map[string]event.Status{}
		}
	}
	return seed, nil
}

const (
	SeedPlayerAna   = "0190a3b2-0000-7000-8000-000000000001"
	SeedPlayerBeto  = "0190a3b2-0000-7000-8000-000000000002"
	SeedPlayerChloe = "0190a3b2-0000-7000-8000-000000000003"
	SeedPlayerDev   = "0190a3b2-0000-7000-8000-000000000004"

	SeedGameOpener = "0190a3b2-0000-7000-8000-000000000101"
)

// DefaultSeed is the demo team used when no seed file is configured.
func DefaultSeed() Seed {
	postedAt := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

	return Seed{
		Players: []player.Player{
			{ID: SeedPlayerAna, Name: "Ana Reyes", JerseyNumber: "7", Position: "Guard", Email: "ana@example.com", Phone: "555-0101", EmergencyContact: "Luis Reyes", EmergencyPhone: "555-0111"},
			{ID: SeedPlayerBeto, Name: "Beto Silva", JerseyNumber: "10", Position: "Forward", Email: "beto@example.com", Phone: "555-0102", EmergencyContact: "Maria Silva", EmergencyPhone: "555-0112"},
			{ID: SeedPlayerChloe, Name: "Chloe Park", JerseyNumber: "23", Position: "Center", Email: "chloe@example.com", Phone: "555-0103", EmergencyContact: "Jin Park", EmergencyPhone: "555-0113"},
			{ID: SeedPlayerDev, Name: "Dev Patel", JerseyNumber: "4", Position: "Guard", Email: "dev@example.com", Phone: "555-0104", EmergencyContact: "Asha Patel", EmergencyPhone: "555-0114"},
		},
		Events: []event.Event{
			{
				ID:       SeedGameOpener,
				Title:    "Season opener",
				Type:     event.TypeGame,
				Date:     "2024-06-01",
				Time:     "18:00",
				Location: "Central Gym",
				Opponent: "Riverside Hawks",
				Availability: map[string]event.Status{
					SeedPlayerAna:   event.StatusAvailable,
					SeedPlayerBeto:  event.StatusMaybe,
					SeedPlayerChloe: event.StatusAvailable,
				},
			},
			{
				ID:           "0190a3b2-0000-7000-8000-000000000102",
				Title:        "Shooting drills",
				Type:         event.TypePractice,
				Date:         "2024-06-04",
				Time:         "17:30",
				Location:     "Central Gym",
				Availability: map[string]event.Status{SeedPlayerDev: event.StatusUnavailable},
			},
		},
		Messages: []message.Message{
			{ID: "0190a3b2-0000-7000-8000-000000000201", Sender: "Coach Kim", Content: "Welcome to the new season. First practice is on Tuesday.", Timestamp: postedAt, Recipients: message.AudienceAll},
		},
		Stats: []playerstats.Record{
			{PlayerID: SeedPlayerAna, GameID: SeedGameOpener, Points: intPtr(18), Assists: intPtr(6), Rebounds: intPtr(3)},
			{PlayerID: SeedPlayerChloe, GameID: SeedGameOpener, Points: intPtr(12), Rebounds: intPtr(11)},
		},
	}
}

func intPtr(v int) *int {
	return &v
}

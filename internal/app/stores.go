package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/teamflow/internal/config"
	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/message"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/playerstats"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	"github.com/riskibarqy/teamflow/internal/domain/teamfile"
	repocache "github.com/riskibarqy/teamflow/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/teamflow/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/teamflow/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/teamflow/internal/platform/cache"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

// stores holds one slot per record collection.
type stores struct {
	roster   player.Repository
	events   event.Repository
	messages message.Repository
	files    teamfile.Repository
	stats    playerstats.Repository
	ping     func(context.Context) error
	close    func() error
}

func openStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (stores, error) {
	var (
		out stores
		err error
	)

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		out, err = openPostgresStores(ctx, cfg, logger)
	default:
		out, err = openMemoryStores(cfg, logger)
	}
	if err != nil {
		return stores{}, err
	}

	if cfg.CacheEnabled {
		shared := basecache.NewStore[any](basecache.Options{TTL: cfg.CacheTTL})
		out.roster = repocache.NewSlot(out.roster, shared, record.KeyRoster, nil)
		out.events = repocache.NewSlot(out.events, shared, record.KeyEvents, event.Event.Clone)
		out.messages = repocache.NewSlot(out.messages, shared, record.KeyMessages, nil)
		out.files = repocache.NewSlot(out.files, shared, record.KeyTeamFiles, teamfile.File.Clone)
		out.stats = repocache.NewSlot(out.stats, shared, record.KeyPlayerStats, playerstats.Record.Clone)
		logger.Info("record cache enabled", "ttl", cfg.CacheTTL.String())
	}

	return out, nil
}

func openMemoryStores(cfg config.Config, logger *logging.Logger) (stores, error) {
	seed := memory.DefaultSeed()
	if cfg.StoreSeedFile != "" {
		loaded, err := memory.LoadSeedFile(cfg.StoreSeedFile)
		if err != nil {
			return stores{}, err
		}
		seed = loaded
	}

	logger.Info("memory store ready",
		"seed_file", cfg.StoreSeedFile,
		"players", len(seed.Players),
		"events", len(seed.Events),
	)

	return stores{
		roster:   memory.NewPlayerSlot(seed.Players),
		events:   memory.NewEventSlot(seed.Events),
		messages: memory.NewMessageSlot(seed.Messages),
		files:    memory.NewFileSlot(seed.Files),
		stats:    memory.NewStatsSlot(seed.Stats),
		ping:     func(context.Context) error { return nil },
		close:    func() error { return nil },
	}, nil
}

func openPostgresStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (stores, error) {
	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return stores{}, err
	}

	// The demo roster never lands in a real database; only an explicit seed
	// file does.
	if cfg.StoreSeedFile != "" {
		seed, err := memory.LoadSeedFile(cfg.StoreSeedFile)
		if err != nil {
			_ = db.Close()
			return stores{}, err
		}
		seeded, err := postgres.BootstrapSeed(ctx, db, seed)
		if err != nil {
			_ = db.Close()
			return stores{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		logger.Info("postgres seed applied", "seed_file", cfg.StoreSeedFile, "seeded_slots", seeded)
	}

	logger.Info("postgres store ready",
		"db_name", postgres.DatabaseName(cfg.DBURL),
		"max_open_conns", cfg.DBMaxOpenConns,
	)

	return stores{
		roster:   postgres.NewSlot[player.Player](db, record.KeyRoster),
		events:   postgres.NewSlot[event.Event](db, record.KeyEvents),
		messages: postgres.NewSlot[message.Message](db, record.KeyMessages),
		files:    postgres.NewSlot[teamfile.File](db, record.KeyTeamFiles),
		stats:    postgres.NewSlot[playerstats.Record](db, record.KeyPlayerStats),
		ping:     func(ctx context.Context) error { return postgres.Ping(ctx, db) },
		close:    db.Close,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open(
		"postgres",
		postgres.NormalizeURL(cfg.DBURL, cfg.DBPgBouncer),
		otelsql.WithDBName(postgres.DatabaseName(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}

	if err := postgres.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

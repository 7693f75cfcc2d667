// Command migration manages the record_slots schema and can bootstrap slots
// from a YAML seed file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/riskibarqy/teamflow/db"
	"github.com/riskibarqy/teamflow/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/teamflow/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

const seedTimeout = 30 * time.Second

var errUsage = errors.New("usage")

type migrateFunc func(m *migrate.Migrate, args []string, logger *logging.Logger) error

// schemaCommands operate on the migrator. seed is handled separately because
// it writes slot payloads rather than schema.
var schemaCommands = map[string]struct {
	usage string
	run   migrateFunc
}{
	"up":      {usage: "up", run: runUp},
	"down":    {usage: "down [steps]", run: runDown},
	"version": {usage: "version", run: runVersion},
	"force":   {usage: "force <version>", run: runForce},
	"goto":    {usage: "goto <version>", run: runGoto},
}

func main() {
	_ = godotenv.Load()

	logger := logging.NewJSON(logging.LevelInfo).Named("migration")
	code := 0
	if err := run(os.Args[1:], logger); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
			code = 2
		} else {
			logger.Error("migration failed", "error", err)
			code = 1
		}
	}
	_ = logger.Sync()
	os.Exit(code)
}

func run(args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	dbURL = postgres.NormalizeURL(dbURL, envBool("DB_PGBOUNCER"))

	name := strings.ToLower(strings.TrimSpace(args[0]))
	if name == "seed" {
		return runSeed(dbURL, args[1:], logger)
	}
	if name == "migrate" {
		name = "goto"
	}
	cmd, ok := schemaCommands[name]
	if !ok {
		return errUsage
	}

	m, source, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer closeMigrator(m, logger)

	return cmd.run(m, args[1:], logger.With("source", source))
}

func runUp(m *migrate.Migrate, _ []string, logger *logging.Logger) error {
	if err := ignoreNoChange(m.Up(), logger); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func runDown(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	steps := 1
	if len(args) > 0 {
		n, err := parseUintArg("down steps", args[0])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("down steps must be > 0")
		}
		steps = int(n)
	}
	if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
		return err
	}
	logger.Info("migrations rolled back", "steps", steps)
	return nil
}

func runVersion(m *migrate.Migrate, _ []string, _ *logging.Logger) error {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("version: none")
		fmt.Println("dirty: false")
		return nil
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
	return nil
}

func runForce(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("force requires a version argument")
	}
	version, err := parseUintArg("version", args[0])
	if err != nil {
		return err
	}
	if err := m.Force(int(version)); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	logger.Info("forced migration version", "version", version)
	return nil
}

func runGoto(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("goto requires a target version argument")
	}
	target, err := parseUintArg("target version", args[0])
	if err != nil {
		return err
	}
	if err := ignoreNoChange(m.Migrate(target), logger); err != nil {
		return err
	}
	logger.Info("migrated to version", "version", target)
	return nil
}

// runSeed writes a seed file into slots that have never been written. The
// schema must already be migrated.
func runSeed(dbURL string, args []string, logger *logging.Logger) error {
	path := strings.TrimSpace(os.Getenv("STORE_SEED_FILE"))
	if len(args) > 0 {
		path = strings.TrimSpace(args[0])
	}
	if path == "" {
		return fmt.Errorf("seed requires a file argument or STORE_SEED_FILE")
	}

	seed, err := memory.LoadSeedFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	conn, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close()

	seeded, err := postgres.BootstrapSeed(ctx, conn, seed)
	if err != nil {
		return fmt.Errorf("bootstrap seed: %w", err)
	}
	logger.Info("seed applied", "seed_file", path, "seeded_slots", seeded)
	return nil
}

// newMigrator reads migrations from MIGRATIONS_DIR when set, otherwise from
// the files embedded in the binary.
func newMigrator(dbURL string) (*migrate.Migrate, string, error) {
	if dir := resolveMigrationsDir(); dir != "" {
		sourceURL := "file://" + filepath.ToSlash(dir)
		m, err := migrate.New(sourceURL, dbURL)
		if err != nil {
			return nil, "", fmt.Errorf("create migrator: %w", err)
		}
		return m, sourceURL, nil
	}

	src, err := iofs.New(db.Migrations, db.MigrationsDir)
	if err != nil {
		return nil, "", fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, "", fmt.Errorf("create migrator: %w", err)
	}
	return m, "embedded", nil
}

func parseUintArg(name, raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return uint(value), nil
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func closeMigrator(m *migrate.Migrate, logger *logging.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db", "error", dbErr)
	}
}

// resolveMigrationsDir returns MIGRATIONS_DIR as an absolute path when it
// names an existing directory.
func resolveMigrationsDir() string {
	raw := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if raw == "" {
		return ""
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return ""
	}
	return abs
}

func envBool(key string) bool {
	ok, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && ok
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	usages := make([]string, 0, len(schemaCommands)+1)
	for _, cmd := range schemaCommands {
		usages = append(usages, cmd.usage)
	}
	usages = append(usages, "seed [file]")
	sort.Strings(usages)

	fmt.Fprintf(os.Stderr, "usage: %s <command> [args]\ncommands:\n", name)
	for _, u := range usages {
		fmt.Fprintf(os.Stderr, "  %s %s\n", name, u)
	}
}

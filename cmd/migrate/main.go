package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/litepolis/litepolis-database-go/internal/actor"
	"github.com/litepolis/litepolis-database-go/internal/config"
	"github.com/litepolis/litepolis-database-go/internal/database"
	"github.com/litepolis/litepolis-database-go/internal/repository"
)

func main() {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	cfg := config.Load(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Bootstrap(ctx, db, logger); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	if cfg.MigrationsDir == "" {
		return
	}

	act := actor.New(db, logger)
	if err := recordMigrations(ctx, act.Migrations, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.MigrationsDir).Msg("failed to record migrations")
	}
}

// recordMigrations walks the migration files in name order, records the
// content hash of each new one, and re-verifies files already on record so
// drift shows up in the logs.
func recordMigrations(ctx context.Context, migrations repository.MigrationRepository, dir string, logger zerolog.Logger) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(paths)

	for _, path := range paths {
		name := filepath.Base(path)
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		ok, err := migrations.VerifyIntegrity(ctx, name, content)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if _, err := migrations.Create(ctx, repository.CreateMigrationRecordParams{
				ID:   name,
				Hash: repository.HashMigrationContent(content),
			}); err != nil {
				return err
			}
			logger.Info().Str("migration", name).Msg("migration recorded")
		case err != nil:
			return err
		case !ok:
			logger.Error().Str("migration", name).Msg("migration content drifted from recorded hash")
		default:
			logger.Debug().Str("migration", name).Msg("migration unchanged")
		}
	}
	return nil
}

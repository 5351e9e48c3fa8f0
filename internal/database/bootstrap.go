package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

const (
	readinessRetries = 15
	readinessDelay   = time.Second
)

// Bootstrap ensures every table exists (create-if-absent, idempotent) and
// blocks until each one answers a probe query. Engines that apply schema
// changes asynchronously keep reporting transient errors for a while after
// DDL; those are retried with a bounded budget before declaring failure.
// Transient infrastructure errors are retried here and only here, never by
// the entity repositories.
func Bootstrap(ctx context.Context, db *gorm.DB, logger zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	for _, table := range tableNames() {
		if err := waitForTable(ctx, db, table, logger); err != nil {
			return err
		}
	}

	logger.Info().Int("tables", len(tableNames())).Msg("schema bootstrap complete")
	return nil
}

func tableNames() []string {
	type namer interface{ TableName() string }

	all := models.All()
	names := make([]string, 0, len(all))
	for _, model := range all {
		names = append(names, model.(namer).TableName())
	}
	return names
}

func waitForTable(ctx context.Context, db *gorm.DB, table string, logger zerolog.Logger) error {
	var lastErr error
	for attempt := 1; attempt <= readinessRetries; attempt++ {
		err := db.WithContext(ctx).Exec(fmt.Sprintf("SELECT 1 FROM %s LIMIT 0", table)).Error
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Warn().
			Str("table", table).
			Int("attempt", attempt).
			Int("retries", readinessRetries).
			Err(err).
			Msg("table not ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readinessDelay):
		}
	}
	return fmt.Errorf("table %s did not become ready after %d attempts: %w", table, readinessRetries, lastErr)
}

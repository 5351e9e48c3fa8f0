package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/litepolis/litepolis-database-go/internal/observability"
)

// Pool sizing mirrors the engine settings this layer has always run with:
// five resident connections with headroom for ten more under burst.
const (
	maxIdleConns    = 5
	maxOpenConns    = 15
	connMaxIdleTime = 30 * time.Second
)

// Connect establishes the shared PostgreSQL connection pool. This is the
// single initialization point; every repository receives the returned handle
// by injection and never reconnects on its own.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if err := db.Use(observability.NewQueryMetrics()); err != nil {
		return nil, fmt.Errorf("failed to install query metrics: %w", err)
	}

	return db, nil
}

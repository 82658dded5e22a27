// Package db opens the ledger database and runs its migrations.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

const (
	sqliteScheme = "sqlite://"
	sqliteDriver = "sqlite"
	pgDriver     = "postgres"
)

// Database wraps the GORM database connection.
type Database struct {
	db     *gorm.DB
	driver string
}

// Open connects to the database named by cfg.URL. postgres:// and
// postgresql:// URLs use the postgres driver; sqlite://<dsn> opens a local
// sqlite file, which is meant for development and operator tooling.
func Open(cfg *config.DatabaseConfig) (*Database, error) {
	dialector, driver, err := dialectorFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if driver == sqliteDriver {
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection established",
		"driver", driver,
		"max_open_conns", sqlDB.Stats().MaxOpenConnections,
	)

	return &Database{db: db, driver: driver}, nil
}

func dialectorFor(url string) (gorm.Dialector, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), pgDriver, nil
	case strings.HasPrefix(url, sqliteScheme):
		dsn := strings.TrimPrefix(url, sqliteScheme)
		if dsn == "" {
			return nil, "", fmt.Errorf("sqlite database url needs a path: %q", url)
		}
		return sqlite.Open(dsn), sqliteDriver, nil
	default:
		return nil, "", fmt.Errorf("unsupported database url %q: want postgres:// or sqlite://", url)
	}
}

// DB returns the underlying GORM database instance.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Driver names the SQL driver in use.
func (d *Database) Driver() string {
	return d.driver
}

// Close closes the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	slog.Info("Database connection closed")
	return nil
}

// Migrate runs GORM auto-migration for every ledger model, then creates the
// indexes auto-migration cannot express.
func (d *Database) Migrate() error {
	models := model.All()
	if err := d.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return model.CreateIndexes(d.db, models...)
}

// Package directory is a company-directory MCP tool server backed by SQLite.
package directory

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"

	"github.com/XSAM/otelsql"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// InitDB opens the SQLite database, runs migrations and registers the
// *sql.DB in the dependency container.
type InitDB struct {
	db                 *sql.DB
	metricRegistration metric.Registration
	Logger             *log.Logger `resolve:""`
	DBPath             string      `config:"DIRECTORY_DB_PATH" default:"company.db"`
}

// Initialize sets up the database connection and applies migrations.
func (di *InitDB) Initialize(ctx context.Context) (context.Context, error) {
	dbSystemAttributes := otelsql.WithAttributes(
		semconv.DBSystemNameSqlite,
	)

	var err error
	di.db, err = otelsql.Open("sqlite3", di.DBPath, dbSystemAttributes)
	if err != nil {
		return ctx, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids lock errors.
	di.db.SetMaxOpenConns(1)

	di.metricRegistration, err = otelsql.RegisterDBStatsMetrics(
		di.db,
		dbSystemAttributes,
	)
	if err != nil {
		return ctx, fmt.Errorf("failed to register db stats metrics: %w", err)
	}

	if err := di.runMigrations(); err != nil {
		return ctx, fmt.Errorf("failed to run migrations: %w", err)
	}

	depend.Register(di.db)

	return ctx, nil
}

func (di *InitDB) runMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(di.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	di.Logger.Println("InitDB: migrations applied successfully")
	return nil
}

// Close shuts down the database connection.
func (di *InitDB) Close() {
	if di.metricRegistration != nil {
		if err := di.metricRegistration.Unregister(); err != nil {
			di.Logger.Printf("Error unregistering db stats metrics: %v", err)
		}
	}
	if di.db == nil {
		return
	}
	if err := di.db.Close(); err != nil {
		di.Logger.Printf("Error closing database: %v", err)
	}
}

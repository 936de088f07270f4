package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator applies the embedded schema migrations
type Migrator struct {
	dsn    string
	logger zerolog.Logger
}

// NewMigrator creates a new migrator for the given postgres:// DSN
func NewMigrator(dsn string, logger zerolog.Logger) *Migrator {
	return &Migrator{
		dsn:    dsn,
		logger: logger,
	}
}

// Up applies every pending migration. A schema that is already current is
// not an error.
func (m *Migrator) Up() error {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	mg, err := migrate.NewWithSourceInstance("iofs", source, m.dsn)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer mg.Close()

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	m.logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database migrations applied")
	return nil
}

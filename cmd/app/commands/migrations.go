package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/piivault/internal/database"
)

// MigrationsPath returns the migration source URL for a database driver.
func MigrationsPath(driver string) string {
	if driver == database.DriverMySQL {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}

// RunMigrations applies every pending migration, or rolls back the last rollback
// migrations when rollback is positive. The MySQL connection string needs
// multiStatements=true.
//
// Rolling back past 000003 drops the encrypted contacts columns; run it only before
// backfill has cleared the plaintext ones.
func RunMigrations(logger *slog.Logger, driver, connectionString string, rollback int) error {
	if rollback < 0 {
		return fmt.Errorf("rollback must not be negative, got: %d", rollback)
	}

	m, err := migrate.New(MigrationsPath(driver), connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if rollback > 0 {
		logger.Info("rolling back database migrations", slog.String("driver", driver), slog.Int("steps", rollback))
		err = m.Steps(-rollback)
	} else {
		logger.Info("running database migrations", slog.String("driver", driver))
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("database has no migrations applied")
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	default:
		logger.Info("migrations completed", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	return nil
}

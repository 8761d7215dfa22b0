package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/linkvault/internal/app"
	"github.com/allisson/linkvault/internal/database"
)

// migrationSource returns the migrations directory URL and the migrate database
// URL for driver. ok is false for ledger drivers without a SQL schema.
func migrationSource(driver, connectionString string) (source, databaseURL string, ok bool, err error) {
	switch driver {
	case app.DriverPostgres:
		return "file://migrations/postgresql", connectionString, true, nil
	case app.DriverMySQL:
		if !strings.HasPrefix(connectionString, "mysql://") {
			connectionString = "mysql://" + connectionString
		}
		return "file://migrations/mysql", connectionString, true, nil
	case app.DriverSQLite:
		path := strings.TrimPrefix(database.SQLiteDSN(connectionString), "file:")
		return "file://migrations/sqlite3", "sqlite3://" + path, true, nil
	case app.DriverMemory, app.DriverMongoDB:
		return "", "", false, nil
	default:
		return "", "", false, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// RunMigrations applies every pending migration for the configured ledger driver.
// The memory and mongodb drivers have no schema and are a no-op.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	source, databaseURL, ok, err := migrationSource(driver, connectionString)
	if err != nil {
		return err
	}
	if !ok {
		logger.Info("driver has no sql schema, nothing to migrate", slog.String("driver", driver))
		return nil
	}

	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

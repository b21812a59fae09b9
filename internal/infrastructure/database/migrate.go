package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	iofs "github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"agenthub/services/agent-api/internal/infrastructure/logger"
	"agenthub/services/agent-api/migrations"
)

// AutoMigrate applies the SQL migrations bundled with the binary. A dirty
// migration record left by a crashed run is forced back to its version so
// the next attempt can re-apply it.
func AutoMigrate(gormDB *gorm.DB) (err error) {
	log := logger.GetLogger()

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migration directory: %w", err)
	}
	log.Info().Int("files", len(entries)).Msg("Loaded bundled migrations")

	// The migration driver pins its search_path to the service schema,
	// which therefore has to exist first. Creation may be denied on
	// shared databases where another role owns the schema.
	if schemaErr := gormDB.Exec("CREATE SCHEMA IF NOT EXISTS " + schemaName).Error; schemaErr != nil {
		log.Warn().Err(schemaErr).Msg("Could not ensure schema, assuming it exists")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("retrieve sql db: %w", err)
	}

	conn, err := sqlDB.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("acquire dedicated connection: %w", err)
	}

	driver, err := postgres.WithConnection(context.Background(), conn, &postgres.Config{
		MigrationsTable: "schema_migrations",
		SchemaName:      schemaName,
	})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("initialize postgres driver: %w", err)
	}
	defer func() {
		if closeErr := driver.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close migration connection: %w", closeErr)
		}
	}()

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	defer func() {
		if closeErr := source.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close migration source: %w", closeErr)
		}
	}()

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	version, dirty, versionErr := migrator.Version()
	switch {
	case errors.Is(versionErr, migrate.ErrNilVersion):
		log.Info().Msg("No migrations applied yet")
	case versionErr != nil:
		log.Warn().Err(versionErr).Msg("Could not read migration version")
	case dirty:
		log.Warn().Uint("version", version).Msg("Clearing dirty migration state")
		if forceErr := migrator.Force(int(version)); forceErr != nil {
			return fmt.Errorf("force version %d to clear dirty state: %w", version, forceErr)
		}
	}

	if upErr := migrator.Up(); upErr != nil {
		if !errors.Is(upErr, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations: %w", upErr)
		}
		log.Info().Uint("version", version).Msg("Schema already up to date")
		return nil
	}

	if applied, _, readErr := migrator.Version(); readErr == nil {
		log.Info().Uint("version", applied).Msg("Migrations applied")
	}
	return nil
}

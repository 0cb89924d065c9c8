package iocache

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/whodunit/schema"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable keeps the schema version apart from other tools sharing the database.
const migrationsTable = "whodunit_schema_migrations"

// migrationResult describes what a migration run did.
type migrationResult struct {
	From    uint
	To      uint
	Changed bool
}

// MigrateOwners runs database migrations for the owner store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateOwners(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	res, err := runMigrations(backend, connStr, targetVersion)
	if err != nil {
		return err
	}
	if !res.Changed {
		fmt.Printf("No migration needed. Database is already at version %d\n", res.To)
		return nil
	}
	fmt.Printf("Successfully migrated from version %d to version %d\n", res.From, res.To)
	return nil
}

// runMigrations applies the embedded migrations on a dedicated connection.
func runMigrations(backend schema.DatabaseBackend, connStr string, targetVersion int) (migrationResult, error) {
	var res migrationResult

	db, _, err := openDB(backend, connStr)
	if err != nil {
		return res, err
	}
	defer func() { _ = db.Close() }()

	// Create a migrate driver instance
	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = pgx.WithInstance(db, &pgx.Config{MigrationsTable: migrationsTable})
	default:
		return res, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return res, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return res, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return res, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "whodunit", driver)
	if err != nil {
		return res, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return res, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return res, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}
	res.From = currentVersion

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		res.To = currentVersion
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to migrate owner cache: %w", err)
	}

	res.Changed = true
	newVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return res, fmt.Errorf("failed to get new migration version: %w", err)
	}
	res.To = newVersion
	return res, nil
}

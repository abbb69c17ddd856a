package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/scanreport/schema"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// MigrationResult describes what a migration call did.
type MigrationResult struct {
	FromVersion uint
	ToVersion   uint
	Changed     bool
}

// migrationDir returns the embedded directory holding the backend's migrations.
func migrationDir(backend schema.DatabaseBackend) (fs.FS, error) {
	var dir string
	switch backend {
	case schema.SQLiteBackend:
		dir = "migrations/sqlite"
	case schema.MySQLBackend:
		dir = "migrations/mysql"
	case schema.PostgreSQLBackend:
		dir = "migrations/postgres"
	default:
		return nil, fmt.Errorf("migrations are not supported for backend: %s", backend)
	}
	return fs.Sub(migrationsFS, dir)
}

// ensureHistoryTables applies every up migration directly. The statements
// are idempotent, so this is safe on databases managed by MigrateHistory.
func ensureHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	dir, err := migrationDir(backend)
	if err != nil {
		return err
	}
	names, err := fs.Glob(dir, "*.up.sql")
	if err != nil {
		return err
	}
	slices.Sort(names)
	for _, name := range names {
		stmt, err := fs.ReadFile(dir, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.Exec(strings.TrimSpace(string(stmt))); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
	}
	return nil
}

// MigrateHistory runs database migrations for the history store.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations.
//   - If targetVersion > 0, it migrates to the specified version.
func MigrateHistory(backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	var result MigrationResult
	if backend == schema.NoneBackend {
		return result, fmt.Errorf("migrations are not supported for NoneBackend")
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return result, err
	}
	defer func() { _ = db.Close() }()

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		return result, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	dir, err := migrationDir(backend)
	if err != nil {
		return result, err
	}
	sourceDriver, err := iofs.New(dir, ".")
	if err != nil {
		return result, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "scanreport", driver)
	if err != nil {
		return result, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return result, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}
	result.FromVersion = current

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		result.ToVersion = current
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to migrate from version %d: %w", current, err)
	}

	result.Changed = true
	if v, _, verr := m.Version(); verr == nil {
		result.ToVersion = v
	}
	return result, nil
}

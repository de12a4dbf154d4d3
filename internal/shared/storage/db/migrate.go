package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrationFiles embed.FS

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

// RunMigrations applies the embedded SQL migrations for driver via goose.
// Every migration is create-if-absent, so running it on each start is safe.
// If database is nil, it's a no-op.
func RunMigrations(ctx context.Context, database *sql.DB, driver string) error {
	if database == nil {
		return nil
	}
	dialect, dir, err := gooseDialect(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", driver, err)
	}
	return nil
}

func gooseDialect(driver string) (dialect string, dir string, err error) {
	switch driver {
	case DriverPostgres:
		return "postgres", "migrations/postgres", nil
	case DriverSQLite:
		return "sqlite3", "migrations/sqlite", nil
	case DriverMySQL:
		return "mysql", "migrations/mysql", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

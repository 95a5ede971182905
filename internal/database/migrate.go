package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// NewMigrator creates a migrator for the backend behind db.
// The migrator owns a dedicated connection; Close it when done.
func NewMigrator(db *DB) (*migrate.Migrate, error) {
	conn, err := sql.Open(db.DriverName(), db.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}

	var (
		driver migratedb.Driver
		dir    string
	)
	switch db.env {
	case Development:
		driver, err = sqlite3.WithInstance(conn, &sqlite3.Config{})
		dir = "migrations/sqlite"
	case Production:
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
		dir = "migrations/postgres"
	default:
		err = fmt.Errorf("unsupported environment %q", db.env)
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	src, err := iofs.New(migrations, dir)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.DriverName(), driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// Migrate applies all pending migrations. It is safe to call on every start:
// an up-to-date schema is left untouched.
func Migrate(db *DB) error {
	m, err := NewMigrator(db)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

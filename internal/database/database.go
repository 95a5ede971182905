package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/motivationmailer/mailer/internal/config"
)

// DB wraps the SQL connection for either backend.
// Repositories write "?" placeholders and call Rebind for the active dialect.
type DB struct {
	*sqlx.DB
	env Environment
	dsn string
}

// Open connects to the backend selected by cfg.Environment and applies the schema migrations.
// Configuration problems are reported as *ConfigError before any connection is attempted.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return db, nil
}

// Connect resolves cfg.Environment to a backend and connects without touching the schema
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	env, err := ParseEnvironment(cfg.Environment)
	if err != nil {
		return nil, err
	}

	var db *DB
	switch env {
	case Development:
		db, err = NewSQLite(ctx, cfg.File)
	case Production:
		db, err = NewPostgres(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Environment returns the environment the connection was opened for
func (d *DB) Environment() Environment {
	return d.env
}

// HealthCheck verifies the database connection is healthy
func (d *DB) HealthCheck(ctx context.Context) error {
	return d.PingContext(ctx)
}

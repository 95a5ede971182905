package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/motivationmailer/mailer/internal/config"
)

const defaultConnectTimeout = 5 * time.Second

// NewPostgres creates a new PostgreSQL connection from cfg.URI
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, &ConfigError{Field: "database.uri", Reason: "must be set in production"}
	}

	db, err := sql.Open("postgres", cfg.URI)
	if err != nil {
		return nil, &ConfigError{Field: "database.uri", Reason: err.Error()}
	}

	// Configure connection pool
	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 5
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, &ConnectionError{Backend: "postgres", Err: err}
	}

	return &DB{
		DB:  sqlx.NewDb(db, "postgres"),
		env: Production,
		dsn: cfg.URI,
	}, nil
}

package database

import (
	"errors"
	"fmt"
	"strings"
)

// Environment is the logical deployment environment that selects the storage backend
type Environment string

const (
	// Development stores subscribers in an embedded SQLite file
	Development Environment = "development"
	// Production stores subscribers in PostgreSQL
	Production Environment = "production"
)

// Database errors
var (
	ErrInvalidConfig = errors.New("invalid database configuration")
	ErrConnection    = errors.New("database connection failed")
)

// ConfigError reports a database setting that prevents startup
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid database configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// ConnectionError reports a backend that could not be reached
type ConnectionError struct {
	Backend string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Backend, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}

// ParseEnvironment resolves an environment tag, case-insensitively.
// Accepted tags are "development"/"dev" and "production"/"prod".
func ParseEnvironment(tag string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "development", "dev":
		return Development, nil
	case "production", "prod":
		return Production, nil
	default:
		return "", &ConfigError{
			Field:  "database.environment",
			Reason: fmt.Sprintf("unknown environment %q (supported: development, dev, production, prod)", tag),
		}
	}
}

package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/motivationmailer/mailer/internal/config"
	"github.com/motivationmailer/mailer/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// One PostgreSQL container is shared by the package and started on first use
var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgURI       string
	pgErr       error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
	}
	os.Exit(code)
}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "mailer",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "mailer",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := c.Host(ctx)
	if err != nil {
		return c, "", err
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return c, "", err
	}

	uri := fmt.Sprintf("postgres://mailer:test@%s:%s/mailer?sslmode=disable", host, port.Port())
	return c, uri, nil
}

func openSQLite(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Environment: "dev",
		File:        filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	return db
}

func openPostgres(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL backend in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgOnce.Do(func() {
		pgContainer, pgURI, pgErr = startPostgres(ctx)
	})
	require.NoError(t, pgErr)

	db, err := database.Open(ctx, config.DatabaseConfig{
		Environment:    "prod",
		URI:            pgURI,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `TRUNCATE subscribers, pending_quotes RESTART IDENTITY`)
	require.NoError(t, err)
	return db
}

// forEachBackend runs fn against a fresh, empty store on every backend
func forEachBackend(t *testing.T, fn func(t *testing.T, uow *UnitOfWork)) {
	backends := []struct {
		name string
		open func(t *testing.T) *database.DB
	}{
		{"sqlite", openSQLite},
		{"postgres", openPostgres},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			db := b.open(t)
			t.Cleanup(func() { db.Close() })
			fn(t, NewUnitOfWork(db))
		})
	}
}

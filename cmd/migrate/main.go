package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/motivationmailer/mailer/internal/config"
	"github.com/motivationmailer/mailer/internal/database"
	"github.com/motivationmailer/mailer/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configDir     string
	dbEnvironment string
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Database migration tool for Motivation Mailer",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	RunE:  runUp,
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback the last migration",
	RunE:  runDown,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE:  runStatus,
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new migration file pair for every backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml")
	rootCmd.PersistentFlags().StringVarP(&dbEnvironment, "database", "D", "", "database environment ('development' or 'production')")
	createCmd.Flags().StringVar(&migrationsDir, "dir", "internal/database/migrations", "root of the per-backend migration directories")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(createCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getMigrator(ctx context.Context) (*migrate.Migrate, *database.DB, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbEnvironment != "" {
		cfg.Database.Environment = dbEnvironment
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	m, err := database.NewMigrator(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return m, db, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	log := logger.New("info", "console")
	log.Info().Msg("running migrations...")

	m, db, err := getMigrator(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Str("environment", string(db.Environment())).Msg("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	log := logger.New("info", "console")
	log.Info().Msg("rolling back last migration...")

	m, db, err := getMigrator(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	log.Info().Str("environment", string(db.Environment())).Msg("rollback completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	m, db, err := getMigrator(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()
	defer m.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database environment: %s\n", db.Environment())

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(out, "No migrations have been applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}

	fmt.Fprintf(out, "Current version: %d\n", version)
	fmt.Fprintf(out, "Dirty: %v\n", dirty)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := strings.ReplaceAll(strings.TrimSpace(args[0]), " ", "_")
	if name == "" {
		return errors.New("migration name must not be empty")
	}

	backends := []string{"sqlite", "postgres"}

	// Both backends share one version sequence
	version := 0
	for _, backend := range backends {
		v, err := nextVersion(filepath.Join(migrationsDir, backend))
		if err != nil {
			return err
		}
		version = max(version, v)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Created migration files:")
	for _, backend := range backends {
		dir := filepath.Join(migrationsDir, backend)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create migrations directory: %w", err)
		}

		upFile := filepath.Join(dir, fmt.Sprintf("%06d_%s.up.sql", version, name))
		downFile := filepath.Join(dir, fmt.Sprintf("%06d_%s.down.sql", version, name))

		if err := os.WriteFile(upFile, []byte("-- Add migration SQL here\n"), 0644); err != nil {
			return fmt.Errorf("failed to create up migration: %w", err)
		}
		if err := os.WriteFile(downFile, []byte("-- Add rollback SQL here\n"), 0644); err != nil {
			return fmt.Errorf("failed to create down migration: %w", err)
		}

		fmt.Fprintf(out, "  %s\n  %s\n", upFile, downFile)
	}
	return nil
}

// nextVersion returns one past the number of up migrations in dir
func nextVersion(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	version := 1
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".up.sql") {
			version++
		}
	}
	return version, nil
}

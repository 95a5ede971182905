package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/motivationmailer/mailer/internal/config"
	"github.com/motivationmailer/mailer/internal/database"
	"github.com/motivationmailer/mailer/internal/logger"
	"github.com/motivationmailer/mailer/internal/repository"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configDir string
	database  string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "mailer",
		Short: "Send quotes fetched from ZenQuotes to the subscribers stored in a database",
		Long: "Motivation Mailer sends quotes fetched from the ZenQuotes API (https://zenquotes.io/)\n" +
			"to email addresses stored in a SQLite (development) or PostgreSQL (production) database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config", "", "directory containing config.yaml")
	root.PersistentFlags().StringVarP(&opts.database, "database", "D", "", "database environment ('development' or 'production')")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newStatusCmd(opts),
		newAddCmd(opts),
		newDeleteCmd(opts),
		newSendCmd(opts),
		newHealthCmd(opts),
		newConfigureCmd(),
	)

	return root
}

// app holds the dependencies of a command that touches the store
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
	uow *repository.UnitOfWork
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.database != "" {
		cfg.Database.Environment = o.database
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// setup loads configuration and opens the store selected by it
func (o *globalOptions) setup(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format).WithRunID(uuid.NewString())
	log.Debug().Str("command", cmd.Name()).Msg("starting")

	db, err := database.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("environment", string(db.Environment())).Msg("connected to database")

	return &app{
		cfg: cfg,
		log: log,
		db:  db,
		uow: repository.NewUnitOfWork(db),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close database")
	}
}

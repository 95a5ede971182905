package main

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/motivationmailer/mailer/internal/database"
	"github.com/motivationmailer/mailer/internal/logger"
	"github.com/spf13/cobra"
)

// healthReport is printed by the health command
type healthReport struct {
	Status      string            `json:"status"`
	Environment string            `json:"environment"`
	Services    map[string]string `json:"services"`
}

func newHealthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the database and the optional Redis lock store are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			env, err := database.ParseEnvironment(cfg.Database.Environment)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			log := logger.New(cfg.Log.Level, cfg.Log.Format).WithRunID(uuid.NewString())
			services := make(map[string]string)

			// Check the subscriber store without touching the schema
			db, err := database.Connect(ctx, cfg.Database)
			if err == nil {
				err = db.HealthCheck(ctx)
				db.Close()
			}
			if err != nil {
				log.Warn().Err(err).Msg("database health check failed")
				services["database"] = "unhealthy"
			} else {
				services["database"] = "healthy"
			}

			// Check Redis
			if cfg.Redis.Enabled {
				rdb, err := database.NewRedis(cfg.Redis)
				if err == nil {
					err = rdb.HealthCheck(ctx)
					rdb.Close()
				}
				if err != nil {
					log.Warn().Err(err).Msg("redis health check failed")
					services["redis"] = "unhealthy"
				} else {
					services["redis"] = "healthy"
				}
			}

			status := "healthy"
			for _, s := range services {
				if s == "unhealthy" {
					status = "degraded"
					break
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(healthReport{
				Status:      status,
				Environment: string(env),
				Services:    services,
			}); err != nil {
				return err
			}

			if status != "healthy" {
				return errors.New("one or more services are unhealthy")
			}
			return nil
		},
	}
}

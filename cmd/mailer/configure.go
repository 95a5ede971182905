package main

import (
	"errors"
	"fmt"

	"github.com/motivationmailer/mailer/internal/config"
	"github.com/motivationmailer/mailer/internal/database"
	"github.com/spf13/cobra"
)

// Keys written to the .env file, kept compatible with existing deployments
const (
	envSenderAddress  = "GMAIL_ADDRESS"
	envSenderPassword = "GMAIL_PASSWORD"
	envDatabase       = "DB_CONFIG"
)

func newConfigureCmd() *cobra.Command {
	var (
		envFile  string
		address  string
		password string
		dbTag    string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Save sender credentials and the database environment to the .env file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]string)
			if address != "" {
				values[envSenderAddress] = address
			}
			if password != "" {
				values[envSenderPassword] = password
			}
			if dbTag != "" {
				env, err := database.ParseEnvironment(dbTag)
				if err != nil {
					return err
				}
				values[envDatabase] = string(env)
			}
			if len(values) == 0 {
				return errors.New("nothing to configure: pass --email, --password or --db")
			}

			if err := config.SaveEnv(envFile, values); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if v, ok := values[envSenderAddress]; ok {
				fmt.Fprintf(out, "Sender address set to %s\n", v)
			}
			if _, ok := values[envSenderPassword]; ok {
				fmt.Fprintln(out, "Sender password updated")
			}
			if v, ok := values[envDatabase]; ok {
				fmt.Fprintf(out, "Database environment set to %s\n", v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", config.EnvFile, "path of the .env file to update")
	cmd.Flags().StringVarP(&address, "email", "e", "", "sender email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "sender password or app password")
	cmd.Flags().StringVar(&dbTag, "db", "", "database environment ('development' or 'production')")

	return cmd
}

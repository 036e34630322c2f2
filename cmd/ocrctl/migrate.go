package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocr-backend/internal/shared/storage/db"
)

func newMigrateCmd(e env, databaseURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url := e.loadConfig().DatabaseURL
			if *databaseURL != "" {
				url = *databaseURL
			}
			conn, err := db.Connect(cmd.Context(), url, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer conn.Close()

			if err := db.RunMigrations(cmd.Context(), conn); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", conn.Dialect)
			return nil
		},
	}
}

package main

import (
	"github.com/spf13/cobra"

	"census/internal/platform/database"
)

func newSchemaCmd(c *cli) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the database schema, or drop it with --down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(cmd.Context(), c.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if down {
				return database.Rollback(db, c.logger)
			}
			return database.Migrate(db, c.logger)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "revert every migration")
	return cmd
}

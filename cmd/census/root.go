package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"census/internal/platform/config"
	"census/internal/platform/logger"
)

// cli carries what every subcommand needs once the root has loaded it.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "census",
		Short:         "Citizen import service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger.New(cfg.Log)
			slog.SetDefault(c.logger)
			return nil
		},
	}
	root.AddCommand(
		newServeCmd(c),
		newSchemaCmd(c),
		newLoadCmd(c),
		newGenCmd(),
	)
	return root
}

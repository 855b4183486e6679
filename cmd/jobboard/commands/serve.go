package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ncobase/jobboard/config"
	"github.com/ncobase/jobboard/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(confPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Args:    cobra.NoArgs,
		Short:   "Start the API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, cleanup, err := bootstrap(*confPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// only the log level is applied without a restart
			config.Watch(cfg, func(c *config.Config) {
				log.SetLevel(logrus.Level(c.Logger.Level))
				log.Info(context.Background(), "configuration reloaded", "log_level", c.Logger.Level)
			}, func(err error) {
				log.Error(context.Background(), "failed to reload configuration", "error", err)
			})

			srv, err := server.New(ctx, cfg, log)
			if err != nil {
				log.Error(ctx, "failed to create server", "error", err)
				return err
			}
			return srv.Run(ctx)
		},
	}
}

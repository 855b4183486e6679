package commands

import (
	"context"
	"time"

	"github.com/ncobase/jobboard/internal/data"
	"github.com/spf13/cobra"
)

func newIndexesCommand(confPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Args:  cobra.NoArgs,
		Short: "Create the database indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, cleanup, err := bootstrap(*confPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			d, err := data.New(ctx, cfg.Data, log)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.EnsureIndexes(ctx); err != nil {
				return err
			}
			log.Info(ctx, "indexes created", "driver", cfg.Data.Driver)
			return nil
		},
	}
}

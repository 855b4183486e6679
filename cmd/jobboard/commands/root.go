// Package commands implements the jobboard command line.
package commands

import (
	"fmt"

	"github.com/ncobase/jobboard/config"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var confPath string

	rootCmd := &cobra.Command{
		Use:           "jobboard",
		Short:         "Job board API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&confPath, "conf", "c", "", "path to the configuration file")

	rootCmd.AddCommand(
		newServeCommand(&confPath),
		newIndexesCommand(&confPath),
		newAdminCommand(&confPath),
		newVersionCommand(),
	)
	return rootCmd
}

// bootstrap loads the configuration and initializes the standard logger.
func bootstrap(confPath string) (*config.Config, *logger.Logger, func(), error) {
	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetVersion(version.Version)
	return cfg, logger.StdLogger(), cleanup, nil
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/jobboard/internal/server"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/spf13/cobra"
)

func newAdminCommand(confPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Args:  cobra.NoArgs,
		Short: "Administrator accounts",
	}
	cmd.AddCommand(newAdminCreateCommand(confPath))
	return cmd
}

func newAdminCreateCommand(confPath *string) *cobra.Command {
	req := &structs.CreateAdminRequest{}

	cmd := &cobra.Command{
		Use:   "create",
		Args:  cobra.NoArgs,
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, cleanup, err := bootstrap(*confPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			srv, err := server.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer srv.Close(context.Background())

			user, err := srv.Service().User.CreateAdmin(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s <%s>\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

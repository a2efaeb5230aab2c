package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/loginapi/internal/client"
)

// whoamiCmd is the dashboard: the stored user plus a round trip that
// proves the token is still accepted.
func whoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			e.session.Store.Navigate(client.ViewDashboard)

			data, err := e.session.Gateway.Data(cmd.Context())
			if err != nil {
				return err
			}

			snap := e.session.Store.Snapshot()
			printUser(cmd.OutOrStdout(), snap.User)
			fmt.Fprintf(cmd.OutOrStdout(), "server:   %s (%s)\n", data.Message, data.Data.Timestamp)
			return nil
		},
	}
}

func dataCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "data",
		Short: "Call the protected data endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			data, err := e.session.Gateway.Data(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nuserId:    %s\nemail:     %s\ntimestamp: %s\n",
				data.Message, data.Data.UserID, data.Data.Email, data.Data.Timestamp)
			return nil
		},
	}
}

package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tokengate",
		Short: "Cookie-based username/password authentication service",
		Long: `tokengate issues short-lived access tokens and long-lived refresh tokens
as HttpOnly cookies after checking a username and password.

Configuration is read from config/config.yaml and overridden by environment
variables (for example SECRETKEY_TOKEN, STORAGE_DRIVER, HTTP_PORT).
Running without a subcommand is the same as "serve".`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd())

	return rootCmd
}

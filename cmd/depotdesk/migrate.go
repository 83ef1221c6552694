package main

import (
	"fmt"

	"github.com/depotdesk/depotdesk/internal/server"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables and seed access policies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := loadConfig()
		if err != nil {
			return err
		}

		if _, _, err := server.Prepare(appCfg); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed")
		return nil
	},
}

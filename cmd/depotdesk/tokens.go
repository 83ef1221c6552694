package main

import (
	"fmt"

	"github.com/depotdesk/depotdesk/internal/auth/blacklist"
	"github.com/depotdesk/depotdesk/internal/db"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage revoked refresh tokens",
}

var tokensPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete blacklist entries whose tokens have expired",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := loadConfig()
		if err != nil {
			return err
		}
		if appCfg.Database.LogLevel == "" {
			appCfg.Database.LogLevel = appCfg.Log.Level
		}

		database, err := db.New(appCfg.Database)
		if err != nil {
			return err
		}
		if err := db.Migrate(database); err != nil {
			return err
		}

		store, err := blacklist.New(appCfg.Auth.Blacklist.Type, appCfg.Auth.Blacklist.ValkeyAddr, database)
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.Purge(cmd.Context())
		if err != nil {
			return fmt.Errorf("purge failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", removed)
		return nil
	},
}

func init() {
	tokensCmd.AddCommand(tokensPurgeCmd)
}

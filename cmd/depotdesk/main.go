package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/depotdesk/depotdesk/docs" // Load swagger docs
)

// Version is set via ldflags at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "depotdesk",
	Short: "depotdesk - administrative backend for warehouses and catalog data",
	Long:  `depotdesk serves the admin API and provides operator commands for migrations, users and token housekeeping.`,
	Example: `  # Run the API server
  depotdesk serve --port 8000

  # Provision the first platform admin
  depotdesk user create --email ops@example.com --name Ops --role platform_admin

  # Show the effective configuration
  depotdesk config show --format toml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "server", Title: "Server Commands:"},
		&cobra.Group{ID: "admin", Title: "Admin Commands:"},
	)

	serveCmd.GroupID = "server"
	migrateCmd.GroupID = "server"

	userCmd.GroupID = "admin"
	tokensCmd.GroupID = "admin"
	configCmd.GroupID = "admin"

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

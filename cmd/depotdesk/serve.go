package main

import (
	"fmt"
	"os"

	"github.com/depotdesk/depotdesk/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

// @title depotdesk API
// @version 1.0
// @description Administrative backend for warehouses, announcements and catalog categories
// @host localhost:8000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the depotdesk API server",
	Long: `Start the depotdesk API server.

Examples:
  depotdesk serve                 # Listen on the configured port
  depotdesk serve --port 8080     # Override port

Environment variables:
  DEPOTDESK_SERVER_PORT               Server port (default: 8000)
  DEPOTDESK_DATABASE_DRIVER           Database driver: sqlite, postgres
  DEPOTDESK_DATABASE_DSN              Database connection string
  DEPOTDESK_AUTH_JWT_SECRET           JWT signing secret
  DEPOTDESK_AUTH_BLACKLIST_TYPE       Token blacklist: database, valkey, memory
  ADMIN_EMAIL                         Bootstrap admin email
  ADMIN_PASSWORD                      Bootstrap admin password`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := server.Config{
		Port:    servePort,
		Version: Version,
	}

	if err := server.RunWithSignalHandling(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

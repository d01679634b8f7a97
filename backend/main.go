package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"printshop/m/internal/config"
	"printshop/m/internal/logging"
)

var (
	cfg     config.Config
	logger  *zap.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "printshop",
	Short: "Print shop storefront and admin inventory API",
	Long: `printshop serves the storefront, custom print order intake and the
admin inventory API backed by SQLite or PostgreSQL.

Run without a subcommand to start the HTTP server.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.New(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&inventorySeed, "inventory-csv", "assets/inventory.csv", "inventory seed file")
	rootCmd.PersistentFlags().StringVar(&catalogSeed, "catalog", "assets/catalog.yaml", "product catalog seed file")

	serveCmd.Flags().BoolVar(&seedOnStart, "seed", true, "load seed files before serving")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (defaults to ADMIN_EMAIL)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (defaults to ADMIN_PASSWORD)")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

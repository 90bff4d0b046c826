// Command repairctl runs catalog and submission maintenance tasks against
// the configured database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repairdesk/internal/config"
	"repairdesk/internal/database"
	"repairdesk/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "repairctl",
	Short:         "Maintenance tasks for the repairdesk catalog",
	Long:          "repairctl imports device catalogs and exports repair requests using the same configuration as the API server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDatabase loads configuration, initializes logging and returns a
// migrated database manager. Callers close the manager.
func openDatabase() (*database.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogFile)

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		_ = dbManager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return dbManager, nil
}

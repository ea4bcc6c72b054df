package main

import (
	"farmq-backend/internal/config"
	"farmq-backend/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "farmctl",
		Short: "Operator tooling for the FarmQ backend",
		Long: `farmctl runs maintenance tasks against the FarmQ database.

It reads the same environment as the server (DATABASE_DSN, DB_CONNECT_TIMEOUT),
including an optional .env file in the working directory.

EXAMPLES:

  farmctl migrate
  farmctl export --email farmer@example.com --out report.xlsx
  farmctl crops`,
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCmd(), newExportCmd(), newCropsCmd())
	return root
}

// connect reuses an already opened database or opens the configured one.
func connect() (*gorm.DB, error) {
	if database.DB != nil {
		return database.DB, nil
	}
	cfg := config.Load()
	db, err := database.Open(cfg.DatabaseDSN, cfg.DBConnectTimeout)
	if err != nil {
		return nil, err
	}
	database.DB = db
	return db, nil
}

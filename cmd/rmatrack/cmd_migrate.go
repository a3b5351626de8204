package main

import (
	"fmt"
	"rmatrack/cmd/migration/initialize"
	"rmatrack/cmd/migration/seed"
	"rmatrack/internal/app"
	"rmatrack/internal/logger"

	"github.com/spf13/cobra"
)

var migrateFlags struct {
	seed bool
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and optionally load sample cases",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateFlags.seed, "seed", false, "import sample cases into an empty database")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	log := logger.New("migration")

	application, err := app.NewWithoutCache()
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	defer application.Close()

	if err := initialize.InitializeTables(application.Database, application.Config, log); err != nil {
		return err
	}

	if migrateFlags.seed {
		if err := seed.Seed(
			cmd.Context(),
			application.CaseRepo,
			application.ReturnsController,
			application.Config,
			log,
		); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"rmatrack/internal/app"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Replace the stored cases with a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	defer file.Close()

	application, err := app.NewWithoutCache()
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	defer application.Close()

	stats, err := application.ReturnsController.ImportSheet(cmd.Context(), filepath.Base(args[0]), file)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cases from %d rows\n", stats.CasesProduced, stats.TotalRowsSeen)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"rmatrack/internal/app"
	. "rmatrack/internal/models"
	"rmatrack/internal/reporting"

	"github.com/spf13/cobra"
)

var statsFlags struct {
	json bool
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard figures for the stored cases",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsFlags.json, "json", false, "print the summary as JSON")
}

func runStats(cmd *cobra.Command, _ []string) error {
	application, err := app.NewWithoutCache()
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	defer application.Close()

	summary, err := application.ReturnsController.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	status, err := application.ReturnsController.Status(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statsFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"dashboard": summary, "status": status})
	}

	printStats(out, summary, status)
	return nil
}

func printStats(out io.Writer, summary reporting.Summary, status SystemStatus) {
	fmt.Fprintf(out, "Cases:               %d\n", status.CaseCount)
	fmt.Fprintf(out, "Test results:        %d\n", status.OutcomeCount)
	if status.LastUpload != nil {
		fmt.Fprintf(out, "Last import:         %s (%d cases, %s)\n",
			status.LastUpload.Filename,
			status.LastUpload.CasesProduced,
			status.LastUpload.ImportedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Pending tests:       %d\n", summary.Pending)
	fmt.Fprintf(out, "More testing:        %d\n", summary.MoreTestingRequired)
	fmt.Fprintf(out, "Physical damage:     %d\n", summary.PhysicalDamage)
	fmt.Fprintf(out, "No issues found:     %d\n", summary.NoIssuesFound)
	fmt.Fprintf(out, "Replacements:        %d\n", summary.Replacement)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total forms:         %d\n", summary.TotalForms)
	fmt.Fprintf(out, "Completed tests:     %d\n", summary.CompletedTests)
	fmt.Fprintf(out, "Avg resolution days: %d\n", summary.AverageResolutionDays)
	fmt.Fprintf(out, "Resolution rate:     %d%%\n", summary.ResolutionRatePercent)
	fmt.Fprintf(out, "Success rate:        %d%%\n", summary.SuccessRatePercent)
}

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/realf/photos-takeout/internal/config"
	"github.com/realf/photos-takeout/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past batch runs",
		Long: `History lists the batch runs recorded in the local run database.

Every 'photos-takeout run' invocation stores its report, so history answers
which directories were processed when, how many archives each run covered,
and whether a run failed and on which archive.

Examples:
  # List the most recent runs
  photos-takeout history

  # List up to 50 runs
  photos-takeout history --limit 50

  # Print the full stored report of run 3 as JSON
  photos-takeout history --id 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of runs to list")
	cmd.Flags().Int64P("id", "i", 0,
		"Print the full stored report of a single run as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("failed to open history database (no runs recorded yet?): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if runID > 0 {
		report, err := db.GetRun(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", runID, err)
		}
		if report == nil {
			return fmt.Errorf("run %d not found", runID)
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tELAPSED\tDIR\tARCHIVES\tSTATUS")
	for _, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "failed"
			if r.FailedArchive != "" {
				status = "failed: " + r.FailedArchive
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			r.ID,
			r.StartedAt.Format(time.DateTime),
			r.Elapsed.Round(time.Millisecond),
			r.WorkDir,
			r.ArchiveCount,
			status,
		)
	}
	return w.Flush()
}

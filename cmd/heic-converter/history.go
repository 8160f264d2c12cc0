// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/heic-converter/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `History shows the most recent conversion runs recorded in the local
history database. Use --run with a run ID to list the files that failed in
that run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of runs to show")
	historyCmd.Flags().Int64("run", 0, "show the failed files of this run")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetInt64("run")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := history.Open(viper.GetString("history.path"))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	w := cmd.OutOrStdout()

	if runID > 0 {
		failures, err := store.Failures(ctx, runID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(w, failures)
		}
		if len(failures) == 0 {
			fmt.Fprintf(w, "No failed files recorded for run %d.\n", runID)
			return nil
		}
		for _, f := range failures {
			fmt.Fprintf(w, "%s: %s\n", f.SourcePath, f.Error)
		}
		return nil
	}

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, runs)
	}
	formatRuns(w, runs)
	return nil
}

func formatRuns(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-6s  %-9s  %-6s  %-8s  %s\n",
		"ID", "Started", "Total", "Converted", "Errors", "Duration", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-5d  %-20s  %-6d  %-9d  %-6d  %-8s  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Total, r.Converted, r.Errors, r.Duration.Round(100*time.Millisecond), r.InputDir)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

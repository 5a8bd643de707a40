package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"submerge/internal/store"
)

// runView is the JSON form of a stored run.
type runView struct {
	ID                string       `json:"id"`
	Status            store.Status `json:"status"`
	Label             string       `json:"label"`
	Original          string       `json:"original"`
	Modified          string       `json:"modified"`
	Backend           string       `json:"backend"`
	Lookahead         int          `json:"lookahead"`
	EvaluateFinalLine bool         `json:"evaluate_final_line"`
	OriginalLines     int          `json:"original_lines"`
	ModifiedLines     int          `json:"modified_lines"`
	RecordCount       int          `json:"record_count"`
	UnmatchedCount    int          `json:"unmatched_count"`
	Error             string       `json:"error,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	FinishedAt        *time.Time   `json:"finished_at,omitempty"`
	Records           []recordView `json:"records,omitempty"`
}

func newRunView(run *store.Run) runView {
	return runView{
		ID:                run.ID,
		Status:            run.Status,
		Label:             run.Label,
		Original:          run.OriginalPath,
		Modified:          run.ModifiedPath,
		Backend:           run.Backend,
		Lookahead:         run.Lookahead,
		EvaluateFinalLine: run.EvaluateFinalLine,
		OriginalLines:     run.OriginalLines,
		ModifiedLines:     run.ModifiedLines,
		RecordCount:       run.RecordCount,
		UnmatchedCount:    run.UnmatchedCount,
		Error:             run.ErrorMessage,
		CreatedAt:         run.CreatedAt,
		FinishedAt:        run.FinishedAt,
	}
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored alignment runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsRemoveCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			runs, err := store.OpenReadOnly(cfg)
			if errors.Is(err, store.ErrRunNotFound) {
				if jsonOutput {
					return writeJSON(cmd, []runView{})
				}
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer runs.Close()

			list, err := runs.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				views := make([]runView, 0, len(list))
				for _, run := range list {
					views = append(views, newRunView(run))
				}
				return writeJSON(cmd, views)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, run := range list {
				rows = append(rows, []string{
					shortID(run.ID),
					string(run.Status),
					run.Label,
					fmt.Sprintf("%d/%d", run.OriginalLines, run.ModifiedLines),
					fmt.Sprintf("%d", run.RecordCount),
					fmt.Sprintf("%d", run.UnmatchedCount),
					run.CreatedAt.Local().Format("2006-01-02 15:04"),
					formatDuration(run.Duration()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "Label", "Lines", "Records", "Unmatched", "Created", "Took"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignRight},
			))

			stats, err := runs.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatStats(stats))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var withDiff bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a run and its records",
		Long:  "Show accepts a full run id or any unique prefix of one.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runs, err := store.OpenReadOnly(cfg)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer runs.Close()

			run, err := runs.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			records, err := runs.Records(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			views := viewsFromStored(records)

			if jsonOutput {
				view := newRunView(run)
				view.Records = views
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:        %s\n", run.ID)
			fmt.Fprintf(out, "Status:     %s\n", run.Status)
			fmt.Fprintf(out, "Original:   %s (%d lines)\n", run.OriginalPath, run.OriginalLines)
			fmt.Fprintf(out, "Modified:   %s (%d lines)\n", run.ModifiedPath, run.ModifiedLines)
			fmt.Fprintf(out, "Backend:    %s\n", run.Backend)
			fmt.Fprintf(out, "Lookahead:  %d\n", run.Lookahead)
			fmt.Fprintf(out, "Final line: %s\n", yesNo(run.EvaluateFinalLine))
			fmt.Fprintf(out, "Created:    %s\n", run.CreatedAt.Local().Format(time.RFC3339))
			if run.FinishedAt != nil {
				fmt.Fprintf(out, "Took:       %s\n", formatDuration(run.Duration()))
			}
			if run.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:      %s\n", run.ErrorMessage)
			}
			if len(views) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderRecords(views, cellWidth(out), withDiff))
			fmt.Fprintf(out, "%d records, %d unmatched\n", run.RecordCount, run.UnmatchedCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	cmd.Flags().BoolVar(&withDiff, "diff", false, "Add a word diff of each original/modified pair")
	return cmd
}

func newRunsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored run and its records",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runs, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer runs.Close()

			run, err := runs.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := runs.DeleteRun(cmd.Context(), run.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed run %s\n", run.ID)
			return nil
		},
	}
}

func formatStats(stats map[store.Status]int) string {
	parts := make([]string, 0, len(stats))
	total := 0
	for _, status := range store.AllStatuses() {
		if n := stats[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", status, n))
			total += n
		}
	}
	if total == 0 {
		return "0 runs"
	}
	return fmt.Sprintf("%d runs (%s)", total, strings.Join(parts, " "))
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

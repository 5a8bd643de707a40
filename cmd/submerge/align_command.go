package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"submerge/internal/align"
	"submerge/internal/config"
	"submerge/internal/logging"
	"submerge/internal/services"
	"submerge/internal/store"
	"submerge/internal/subtitles"
	"submerge/internal/textutil"
)

type alignOptions struct {
	lookahead         int
	backend           string
	jsonOutput        bool
	noStore           bool
	evaluateFinalLine bool
	tracePath         string
}

// alignResult is the JSON document printed by `align --json`.
type alignResult struct {
	RunID    string        `json:"run_id,omitempty"`
	Original string        `json:"original"`
	Modified string        `json:"modified"`
	Backend  string        `json:"backend"`
	Summary  align.Summary `json:"summary"`
	Records  []recordView  `json:"records"`
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var opts alignOptions

	cmd := &cobra.Command{
		Use:   "align <original> <modified>",
		Short: "Align a modified subtitle track against its original",
		Long: `Align loads both tracks (ASS/SSA or SRT), keeps the configured dialogue
styles, orders events by start time and maps every original line to the
modified line(s) it became.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, logger, err := ctx.logger()
			if err != nil {
				return err
			}
			cfg := *base
			if cmd.Flags().Changed("lookahead") {
				cfg.Alignment.LookaheadRange = opts.lookahead
			}
			if cmd.Flags().Changed("evaluate-final-line") {
				cfg.Alignment.EvaluateFinalLine = opts.evaluateFinalLine
			}
			if backend := strings.TrimSpace(opts.backend); backend != "" && backend != cfg.Semantic.Backend {
				if err := cfg.UseBackend(backend); err != nil {
					return fmt.Errorf("--backend: %w", err)
				}
			}
			if opts.tracePath != "" {
				trace, err := os.Create(opts.tracePath)
				if err != nil {
					return fmt.Errorf("open trace file: %w", err)
				}
				defer trace.Close()
				logger = logging.TeeLogger(logger, logging.NewTraceHandler(trace))
			}
			return runAlign(cmd, &cfg, logger, args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVar(&opts.lookahead, "lookahead", 0, "Override alignment.lookahead_range")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Semantic backend (local or openai)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print records as JSON")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "Do not persist the run")
	cmd.Flags().BoolVar(&opts.evaluateFinalLine, "evaluate-final-line", false, "Also evaluate the last original line")
	cmd.Flags().StringVar(&opts.tracePath, "trace", "", "Write a debug-level JSON decision trace to this file")
	return cmd
}

func runAlign(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, originalPath, modifiedPath string, opts alignOptions) error {
	original, err := loadTexts(cfg, originalPath)
	if err != nil {
		return err
	}
	modified, err := loadTexts(cfg, modifiedPath)
	if err != nil {
		return err
	}

	runID := store.NewRunID()
	runCtx := services.WithRunID(cmd.Context(), runID)
	logger = logging.WithContext(runCtx, logger)

	var runs *store.Store
	if cfg.Store.Enabled && !opts.noStore {
		runs, err = store.Open(cfg)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer runs.Close()
		if _, err := runs.CreateRun(runCtx, runID, store.RunInput{
			Label:             runLabel(modifiedPath),
			OriginalPath:      originalPath,
			ModifiedPath:      modifiedPath,
			Backend:           cfg.Semantic.Backend,
			Lookahead:         cfg.Alignment.LookaheadRange,
			EvaluateFinalLine: cfg.Alignment.EvaluateFinalLine,
			OriginalLines:     len(original),
			ModifiedLines:     len(modified),
		}); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	records, err := alignTexts(runCtx, cfg, logger, original, modified)
	if err != nil {
		if runs != nil {
			// The run context may already be canceled; the status still has to land.
			if finishErr := runs.FinishRun(context.WithoutCancel(runCtx), runID, services.FailureStatus(err), err.Error()); finishErr != nil {
				logging.WarnWithContext(logger, "failed to record run failure", "run_finish_failed",
					logging.Error(finishErr),
					logging.String(logging.FieldImpact, "run stays listed as running"),
					logging.String(logging.FieldErrorHint, "inspect the run store with `submerge runs list`"),
				)
			}
		}
		return err
	}

	views := viewsFromRecords(records, original, modified)
	if runs != nil {
		if err := runs.CompleteRun(runCtx, runID, storedFromViews(views)); err != nil {
			return fmt.Errorf("store records: %w", err)
		}
	}

	result := alignResult{
		Original: originalPath,
		Modified: modifiedPath,
		Backend:  cfg.Semantic.Backend,
		Summary:  align.Summarize(records),
		Records:  views,
	}
	if runs != nil {
		result.RunID = runID
	}
	if opts.jsonOutput {
		return writeJSON(cmd, result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderRecords(views, cellWidth(out), false))
	if result.RunID != "" {
		fmt.Fprintf(out, "Run %s: %s\n", shortID(result.RunID), renderSummary(result.Summary))
	} else {
		fmt.Fprintln(out, renderSummary(result.Summary))
	}
	return nil
}

func alignTexts(ctx context.Context, cfg *config.Config, logger *slog.Logger, original, modified []string) ([]align.Record, error) {
	semantic, err := semanticScorer(cfg, logger)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cfg, semantic, logger)
	if err != nil {
		return nil, err
	}
	if err := semantic.Prime(services.WithStage(ctx, "prime"), append(append([]string(nil), original...), modified...)); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrExternalService, "semantic", "prime embeddings", "", err)
	}
	return engine.Run(services.WithStage(ctx, "align"), original, modified)
}

// loadTexts reads a subtitle file and returns the texts the aligner sees:
// configured styles only, ordered by start time.
func loadTexts(cfg *config.Config, path string) ([]string, error) {
	track, err := subtitles.Load(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "input", "load subtitles", "", err)
	}
	lines := subtitles.FilterByStyle(track.Lines, cfg.Input.Styles, cfg.Input.KeepComments)
	subtitles.SortByStart(lines)
	return subtitles.Texts(lines), nil
}

func runLabel(path string) string {
	base := filepath.Base(path)
	return textutil.SanitizeToken(strings.TrimSuffix(base, filepath.Ext(base)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

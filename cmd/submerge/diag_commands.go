package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"submerge/internal/similarity"
	"submerge/internal/textutil"
)

type scoreResult struct {
	Backend  string  `json:"backend"`
	Lexical  float64 `json:"lexical"`
	Semantic float64 `json:"semantic"`
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var backend string

	cmd := &cobra.Command{
		Use:   "score <a> <b>",
		Short: "Score a pair of lines with both similarity oracles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, logger, err := ctx.logger()
			if err != nil {
				return err
			}
			cfg := *base
			if backend = strings.TrimSpace(backend); backend != "" && backend != cfg.Semantic.Backend {
				if err := cfg.UseBackend(backend); err != nil {
					return fmt.Errorf("--backend: %w", err)
				}
			}
			semantic, err := semanticScorer(&cfg, logger)
			if err != nil {
				return err
			}

			lexical, err := similarity.NewLexical(logger).Similarity(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			semanticScore, err := semantic.Similarity(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("semantic similarity: %w", err)
			}

			result := scoreResult{Backend: cfg.Semantic.Backend, Lexical: lexical, Semantic: semanticScore}
			if jsonOutput {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Score", "Compared As"},
				[][]string{
					{"lexical", fmt.Sprintf("%.3f", lexical), pairForm(textutil.ForLexicalComparison, args[0], args[1])},
					{"semantic (" + cfg.Semantic.Backend + ")", fmt.Sprintf("%.3f", semanticScore), pairForm(textutil.ForSemanticComparison, args[0], args[1])},
				},
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print scores as JSON")
	cmd.Flags().StringVar(&backend, "backend", "", "Semantic backend (local or openai)")
	return cmd
}

func pairForm(normalize func(string) string, a, b string) string {
	return fmt.Sprintf("%q vs %q", normalize(a), normalize(b))
}

type splitsResult struct {
	Text       string     `json:"text"`
	Boundaries []int      `json:"boundaries"`
	SplitCount int        `json:"split_count"`
	Groups     [][]string `json:"groups"`
}

func newSplitsCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "splits <text>",
		Short:       "Show the split candidates generated for a line",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			result := splitsResult{
				Text:       text,
				Boundaries: textutil.Boundaries(text),
				SplitCount: textutil.SplitCount(text),
				Groups:     textutil.SplitGroups(text),
			}
			if result.Boundaries == nil {
				result.Boundaries = []int{}
			}
			if result.Groups == nil {
				result.Groups = [][]string{}
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Boundaries:  %v\n", result.Boundaries)
			fmt.Fprintf(out, "Split count: %d\n", result.SplitCount)
			if len(result.Groups) == 0 {
				fmt.Fprintln(out, "No split candidates")
				return nil
			}
			rows := make([][]string, 0, len(result.Groups))
			for i, group := range result.Groups {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					fmt.Sprintf("%d", len(group)),
					strings.Join(group, " | "),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Segments", "Candidate"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print candidates as JSON")
	return cmd
}

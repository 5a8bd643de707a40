package align

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"submerge/internal/logging"
)

// DefaultMaxParallel bounds concurrent similarity lookups within one step.
const DefaultMaxParallel = 6

// Config tunes an Engine.
type Config struct {
	// Lookahead bounds how many consecutive lines a split or merge candidate
	// may span. Must be at least 1.
	Lookahead int
	// EvaluateFinalLine also walks the last original line. By default it is
	// reported unmatched without being evaluated.
	EvaluateFinalLine bool
	// MaxParallel bounds concurrent similarity lookups within one step.
	MaxParallel int
	// OracleTimeout bounds each similarity call. Zero disables the bound.
	OracleTimeout time.Duration
}

// Engine owns the alignment walk.
type Engine struct {
	cfg      Config
	distance distanceAligner
	semantic semanticAligner
	logger   *slog.Logger
}

// NewEngine builds an engine scoring with lexical in the first pass and
// semantic in the fallback pass.
func NewEngine(lexical, semantic Scorer, cfg Config, logger *slog.Logger) (*Engine, error) {
	if cfg.Lookahead < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLookahead, cfg.Lookahead)
	}
	if lexical == nil || semantic == nil {
		return nil, fmt.Errorf("%w: scorer not configured", ErrOracleUnavailable)
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = DefaultMaxParallel
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "align")
	return &Engine{
		cfg: cfg,
		distance: distanceAligner{
			oracle: oracle{scorer: lexical, metric: "lexical", timeout: cfg.OracleTimeout, logger: logger},
			logger: logger,
		},
		semantic: semanticAligner{
			oracle:      oracle{scorer: semantic, metric: "semantic", timeout: cfg.OracleTimeout, logger: logger},
			maxParallel: cfg.MaxParallel,
			logger:      logger,
		},
		logger: logger,
	}, nil
}

// Run aligns modified against original. The records cover every original
// index exactly once, in order; insertions in the modified track appear as
// records with an empty original range. Any oracle failure aborts the run.
func (e *Engine) Run(ctx context.Context, original, modified []string) ([]Record, error) {
	logger := logging.WithContext(ctx, e.logger)
	started := time.Now()

	limit := len(original) - 1
	if e.cfg.EvaluateFinalLine {
		limit = len(original)
	}
	w := walk{
		original:  original,
		modified:  modified,
		lookahead: max(1, min(e.cfg.Lookahead, len(original))),
	}

	logger.Info("alignment started",
		logging.String(logging.FieldEventType, "alignment_start"),
		logging.Int("original_lines", len(original)),
		logging.Int("modified_lines", len(modified)),
		logging.Int("lookahead", w.lookahead),
		logging.Bool("evaluate_final_line", e.cfg.EvaluateFinalLine),
	)

	records := make([]Record, 0, len(original))
	budget := len(original) + len(modified)
	st := State{}
	for steps := 0; st.Position < limit; steps++ {
		if steps >= budget {
			return nil, fmt.Errorf("%w: %d steps at position %d", ErrStepBudgetExceeded, steps, st.Position)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, next, err := e.step(ctx, st, w)
		if err != nil {
			return nil, fmt.Errorf("align line %d: %w", st.Position, err)
		}
		if next.potential() <= st.potential() {
			return nil, fmt.Errorf("%w: state did not advance at position %d", ErrStepBudgetExceeded, st.Position)
		}
		records = append(records, rec)
		st = next
	}
	for p := st.Position; p < len(original); p++ {
		tail := State{Position: p, Offset: st.Offset}
		records = append(records, w.record(tail, tail.skip(), ActionNone, 0, PassEngine))
	}

	summary := Summarize(records)
	logger.Info("alignment completed",
		logging.String(logging.FieldEventType, "alignment_complete"),
		logging.Int("records", summary.Records),
		logging.Int("unmatched", summary.Unmatched),
		logging.Duration("duration", time.Since(started)),
	)
	return records, nil
}

// step resolves one position: out-of-range counterparts are skipped,
// otherwise the lexical pass runs, then the semantic pass, then the default
// advance.
func (e *Engine) step(ctx context.Context, st State, w walk) (Record, State, error) {
	mi := st.ModifiedIndex()
	if mi < 0 || mi >= len(w.modified) {
		e.logger.DebugContext(ctx, "counterpart out of range",
			logging.String(logging.FieldEventType, "alignment_skip"),
			logging.Int(logging.FieldPosition, st.Position),
			logging.Int(logging.FieldOffset, st.Offset),
		)
		next := st.skip()
		return w.record(st, next, ActionNone, 0, PassEngine), next, nil
	}

	out, err := e.distance.step(ctx, st, w)
	if err != nil {
		return Record{}, st, err
	}
	if out.resolved {
		return out.record, out.state, nil
	}
	st = out.state

	out, err = e.semantic.step(ctx, st, w)
	if err != nil {
		return Record{}, st, err
	}
	if out.resolved {
		return out.record, out.state, nil
	}

	next := st.advance()
	return w.record(st, next, ActionNone, out.score, PassEngine), next, nil
}

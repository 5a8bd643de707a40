package align

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"submerge/internal/logging"
	"submerge/internal/similarity"
)

// Scorer produces a similarity score in [0,1] for a pair of texts. Both
// similarity.Lexical and similarity.Semantic satisfy it.
type Scorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

type scoreFunc func(ctx context.Context, a, b string) (float64, error)

// oracle guards a Scorer: each call is bounded by timeout, failures are
// wrapped with ErrOracleUnavailable and NaN scores collapse to 0.
type oracle struct {
	scorer  Scorer
	metric  string
	timeout time.Duration
	logger  *slog.Logger
}

func (o oracle) score(ctx context.Context, a, b string) (float64, error) {
	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	raw, err := o.scorer.Similarity(callCtx, a, b)
	if err != nil {
		return 0, fmt.Errorf("%w: %s similarity: %w", ErrOracleUnavailable, o.metric, err)
	}
	score, valid := similarity.Sanitize(raw)
	if !valid {
		logging.WarnWithContext(logging.WithContext(ctx, o.logger), "similarity score was not a number", "similarity_nan",
			logging.String("metric", o.metric),
			logging.String(logging.FieldImpact, "pair treated as the lowest score"),
			logging.String(logging.FieldErrorHint, "check the embedding backend output"),
		)
	}
	return score, nil
}

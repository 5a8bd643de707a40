package similarity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hbollon/go-edlib"

	"submerge/internal/logging"
	"submerge/internal/textutil"
)

// Lexical scores pairs by normalized Levenshtein similarity over their
// lexical forms (lowercase letters and spaces only).
type Lexical struct {
	logger *slog.Logger
}

// NewLexical constructs a lexical scorer. A nil logger discards warnings.
func NewLexical(logger *slog.Logger) *Lexical {
	return &Lexical{logger: logging.NewComponentLogger(logger, "similarity")}
}

// Similarity implements Scorer.
func (l *Lexical) Similarity(ctx context.Context, a, b string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	left := textutil.ForLexicalComparison(a)
	right := textutil.ForLexicalComparison(b)
	if score, ok := trivialScore(left, right); ok {
		return score, nil
	}
	raw, err := edlib.StringsSimilarity(left, right, edlib.Levenshtein)
	if err != nil {
		return 0, fmt.Errorf("lexical similarity: %w", err)
	}
	score, valid := Sanitize(float64(raw))
	if !valid {
		logging.WarnWithContext(logging.WithContext(ctx, l.logger), "lexical similarity was not a number", "similarity_nan",
			logging.String("metric", "lexical"),
			logging.String(logging.FieldImpact, "pair scored as 0"),
		)
	}
	return score, nil
}

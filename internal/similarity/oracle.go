package similarity

import (
	"context"
	"math"
)

// Scorer produces a similarity score in [0,1] for a pair of texts.
type Scorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Sanitize clamps score into [0,1]. NaN maps to 0 and is reported as invalid
// so callers can log it.
func Sanitize(score float64) (float64, bool) {
	switch {
	case math.IsNaN(score):
		return 0, false
	case score < 0:
		return 0, true
	case score > 1:
		return 1, true
	default:
		return score, true
	}
}

// trivialScore resolves pairs whose score does not need a metric: identical
// texts score 1 and a pair with exactly one empty side scores 0.
func trivialScore(a, b string) (float64, bool) {
	switch {
	case a == b:
		return 1, true
	case a == "" || b == "":
		return 0, true
	default:
		return 0, false
	}
}

package align

import (
	"context"
	"sync/atomic"
)

// pairScorer scores identical texts 1, listed pairs (in either order) by the
// table and everything else 0.
type pairScorer struct {
	scores map[[2]string]float64
	err    error
	calls  atomic.Int64
}

func (p *pairScorer) Similarity(_ context.Context, a, b string) (float64, error) {
	p.calls.Add(1)
	if p.err != nil {
		return 0, p.err
	}
	if s, ok := p.scores[[2]string{a, b}]; ok {
		return s, nil
	}
	if s, ok := p.scores[[2]string{b, a}]; ok {
		return s, nil
	}
	if a == b {
		return 1, nil
	}
	return 0, nil
}

type scorerFunc func(ctx context.Context, a, b string) (float64, error)

func (f scorerFunc) Similarity(ctx context.Context, a, b string) (float64, error) {
	return f(ctx, a, b)
}

func fixedScore(score float64) scoreFunc {
	return func(context.Context, string, string) (float64, error) { return score, nil }
}

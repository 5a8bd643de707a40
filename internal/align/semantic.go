package align

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"submerge/internal/logging"
	"submerge/internal/textutil"
)

const (
	// semanticFloor is the best score below which only the look-back and
	// look-ahead signals are consulted.
	semanticFloor = 0.3
	// semanticStrong marks a split or merge reading as convincing on its own.
	semanticStrong = 0.8
	// semanticGain is the improvement a split or merge candidate needs over
	// the best so far; smaller steps are embedding noise.
	semanticGain        = 0.1
	insertionFactor     = 1.3
	splitSlack          = 0.2
	currentTolerance    = 0.005
	strongCurrentMargin = 0.1
	mergeMargin         = 0.1
)

// semanticSignals are the scores one semantic step decides on.
type semanticSignals struct {
	current float64
	split   splitResult
	merge   mergeResult
	// prev and next compare the original line with the modified lines around
	// its counterpart. Both are 0 when that line does not exist.
	prev float64
	next float64
	// prevSplit and prevSplitMerge are only computed after a split. They score
	// the last segment of the previous split, alone and joined with the
	// current original line, against the modified line before the
	// counterpart.
	prevSplit      float64
	prevSplitMerge float64
}

// semanticAligner resolves steps the lexical pass left open.
type semanticAligner struct {
	oracle      oracle
	maxParallel int
	logger      *slog.Logger
}

func (s semanticAligner) step(ctx context.Context, st State, w walk) (outcome, error) {
	signals, err := s.signals(ctx, st, w)
	if err != nil {
		return outcome{}, err
	}
	d := decideSemantic(st, signals)
	attrs := logging.DecisionAttrs("semantic_pass", d.action.String(), d.reason)
	attrs = append(attrs,
		logging.Int(logging.FieldPosition, st.Position),
		logging.Int(logging.FieldOffset, st.Offset),
		logging.Float64(logging.FieldScore, d.score),
		logging.Float64("current_score", signals.current),
		logging.Float64("split_score", signals.split.score),
		logging.Float64("merge_score", signals.merge.score),
		logging.Float64("prev_score", signals.prev),
		logging.Float64("next_score", signals.next),
	)
	s.logger.DebugContext(ctx, "semantic decision", logging.Args(attrs...)...)
	if !d.resolved {
		return outcome{state: st, score: d.score}, nil
	}
	return outcome{state: d.state, record: w.record(st, d.state, d.action, d.score, PassSemantic), score: d.score, resolved: true}, nil
}

// signals computes every score of a step. The lookups are independent and
// run concurrently; the step only proceeds once all of them are in.
func (s semanticAligner) signals(ctx context.Context, st State, w walk) (semanticSignals, error) {
	p, mi := st.Position, st.ModifiedIndex()
	line, target := w.original[p], w.modified[mi]
	score := s.oracle.score

	var sig semanticSignals
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.maxParallel, 1))

	g.Go(func() error {
		var err error
		sig.current, err = score(gctx, line, target)
		return err
	})
	g.Go(func() error {
		var err error
		sig.split, err = searchSplit(gctx, score, line, w.splitWindow(line, mi), semanticGain)
		return err
	})
	g.Go(func() error {
		var err error
		sig.merge, err = searchMerge(gctx, score, w.mergeWindow(p, target, true), target, mergeSearch{
			join:    ellipsisJoin,
			prepare: textutil.StripStyling,
			minGain: semanticGain,
		})
		return err
	})
	if mi > 0 {
		g.Go(func() error {
			var err error
			sig.prev, err = score(gctx, line, w.modified[mi-1])
			return err
		})
	}
	if mi+1 < len(w.modified) {
		g.Go(func() error {
			var err error
			sig.next, err = score(gctx, line, w.modified[mi+1])
			return err
		})
	}
	if st.PrevAction == ActionSplit && p > 0 && mi > 0 {
		g.Go(func() error {
			var err error
			sig.prevSplit, sig.prevSplitMerge, err = s.prevSplitScores(gctx, st, w)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return semanticSignals{}, err
	}
	return sig, nil
}

// prevSplitScores replays the previous line's split and checks whether its
// last segment reads better with the current original line appended.
func (s semanticAligner) prevSplitScores(ctx context.Context, st State, w walk) (float64, float64, error) {
	p, mi := st.Position, st.ModifiedIndex()
	prevLine := w.original[p-1]
	replay, err := searchSplit(ctx, s.oracle.score, prevLine, w.splitWindow(prevLine, p-1+st.PrevOffset), semanticGain)
	if err != nil {
		return 0, 0, err
	}
	if len(replay.segments) == 0 {
		return 0, 0, nil
	}
	last := replay.segments[len(replay.segments)-1]
	target := w.modified[mi-1]
	alone, err := s.oracle.score(ctx, last, target)
	if err != nil {
		return 0, 0, err
	}
	joined, err := s.oracle.score(ctx, last+" "+w.original[p], target)
	if err != nil {
		return 0, 0, err
	}
	return alone, joined, nil
}

// semanticDecision is the outcome of decideSemantic.
type semanticDecision struct {
	state    State
	action   Action
	score    float64
	reason   string
	resolved bool
}

// decideSemantic applies the semantic decision policy to the scores of one
// step. It is pure: the first matching rule wins.
func decideSemantic(st State, sig semanticSignals) semanticDecision {
	winner, best := pickBest(sig.current, sig.split.score, sig.merge.score)
	segments := len(sig.split.segments)
	reattach := st.PrevAction == ActionSplit && sig.prevSplitMerge > sig.prevSplit

	if best >= semanticFloor {
		switch {
		case sig.merge.score >= semanticStrong && sig.split.score >= semanticStrong:
			return semanticDecision{state: st.keep(), action: ActionKeep, score: (sig.merge.score + sig.split.score) / 2,
				reason: "split and merge readings both strong", resolved: true}
		case sig.next > best*insertionFactor:
			return semanticDecision{state: st.insertion(), action: ActionNext, score: sig.next,
				reason: "next modified line reads much closer", resolved: true}
		case sig.prev > best && reattach:
			return semanticDecision{state: st.reattach(), action: ActionPrev, score: sig.prev,
				reason: "previous split left this line behind", resolved: true}
		case len(sig.split.scores) > 1 && slices.Max(sig.split.scores) > best && sig.split.score > best-splitSlack:
			return semanticDecision{state: st.split(segments), action: ActionSplit, score: sig.split.score,
				reason: "a split segment beats every whole-line reading", resolved: true}
		}

		delta := best - sig.current
		switch {
		case winner == candidateCurrent || delta <= currentTolerance ||
			(sig.current >= semanticStrong && delta <= strongCurrentMargin):
			return semanticDecision{state: st.advance(), action: ActionMatch, score: sig.current,
				reason: "current pairing is adequate", resolved: true}
		case winner == candidateSplit:
			return semanticDecision{state: st.split(segments), action: ActionSplit, score: sig.split.score,
				reason: "split reading wins", resolved: true}
		case winner == candidateMerge && sig.merge.score-sig.current >= mergeMargin:
			return semanticDecision{state: st.merge(sig.merge.lines), action: ActionMerge, score: sig.merge.score,
				reason: "merge reading wins", resolved: true}
		}
		return semanticDecision{state: st, action: ActionNone, score: sig.current, reason: "merge gain too small"}
	}

	if sig.prev > semanticFloor && sig.prev > sig.next {
		if reattach {
			return semanticDecision{state: st.reattach(), action: ActionPrev, score: sig.prev,
				reason: "weak line belongs to the previous split", resolved: true}
		}
	} else if sig.next > semanticFloor {
		return semanticDecision{state: st.insertion(), action: ActionNext, score: sig.next,
			reason: "weak line matches the next modified line", resolved: true}
	}
	return semanticDecision{state: st, action: ActionNone, score: sig.current, reason: "no semantic counterpart"}
}

package align

import (
	"context"
	"log/slog"

	"submerge/internal/logging"
)

const (
	// distanceMatchThreshold accepts the current pairing outright.
	distanceMatchThreshold = 0.85
	// distanceFloor is the minimum best score the lexical pass acts on.
	distanceFloor = 0.6
)

// distanceAligner resolves steps with the lexical metric only.
type distanceAligner struct {
	oracle oracle
	logger *slog.Logger
}

func (d distanceAligner) step(ctx context.Context, st State, w walk) (outcome, error) {
	p, mi := st.Position, st.ModifiedIndex()
	line, target := w.original[p], w.modified[mi]

	current, err := d.oracle.score(ctx, line, target)
	if err != nil {
		return outcome{}, err
	}
	if current >= distanceMatchThreshold {
		next := st.advance()
		d.log(ctx, st, ActionMatch, current, "current pairing above match threshold")
		return outcome{state: next, record: w.record(st, next, ActionMatch, current, PassDistance), score: current, resolved: true}, nil
	}

	split, err := searchSplit(ctx, d.oracle.score, line, w.splitWindow(line, mi), 0)
	if err != nil {
		return outcome{}, err
	}
	merge, err := searchMerge(ctx, d.oracle.score, w.mergeWindow(p, target, false), target, mergeSearch{
		join:        spaceJoin,
		scoreSingle: true,
	})
	if err != nil {
		return outcome{}, err
	}

	winner, best := pickBest(current, split.score, merge.score)
	if best < distanceFloor {
		d.log(ctx, st, ActionNone, best, "best lexical score below floor")
		return outcome{state: st, score: current}, nil
	}

	var next State
	var action Action
	switch winner {
	case candidateSplit:
		next, action = st.split(2), ActionSplit
	case candidateMerge:
		next, action = st.merge(merge.lines), ActionMerge
	default:
		unresolved := st
		unresolved.PrevAction = ActionNone
		d.log(ctx, st, ActionNone, current, "current pairing is the best lexical reading")
		return outcome{state: unresolved, score: current}, nil
	}
	d.log(ctx, st, action, best, winner.String()+" reading wins")
	return outcome{state: next, record: w.record(st, next, action, best, PassDistance), score: best, resolved: true}, nil
}

func (d distanceAligner) log(ctx context.Context, st State, action Action, score float64, reason string) {
	attrs := logging.DecisionAttrs("distance_pass", action.String(), reason)
	attrs = append(attrs,
		logging.Int(logging.FieldPosition, st.Position),
		logging.Int(logging.FieldOffset, st.Offset),
		logging.Float64(logging.FieldScore, score),
	)
	d.logger.DebugContext(ctx, "distance decision", logging.Args(attrs...)...)
}

package align

// candidate names the reading that produced a step's best score.
type candidate uint8

const (
	candidateCurrent candidate = iota
	candidateSplit
	candidateMerge
)

func (c candidate) String() string {
	switch c {
	case candidateSplit:
		return "split"
	case candidateMerge:
		return "merge"
	default:
		return "current"
	}
}

// pickBest returns the winning reading in the order current, split, merge. A
// later reading only wins with a strictly greater score, so ties favour the
// current pairing.
func pickBest(current, split, merge float64) (candidate, float64) {
	winner, best := candidateCurrent, current
	if split > best {
		winner, best = candidateSplit, split
	}
	if merge > best {
		winner, best = candidateMerge, merge
	}
	return winner, best
}

package align

import (
	"context"
	"strings"

	"submerge/internal/textutil"
)

const ellipsis = "..."

// splitResult is the best segmentation of one original line against the
// modified lines that follow its counterpart.
type splitResult struct {
	score    float64
	scores   []float64
	segments []string
}

// searchSplit scores every segmentation of line against window, pairing
// segments and window lines in order. A segmentation's score is the sum of
// its paired scores divided by its segment count, so unpaired segments count
// as zero. A candidate replaces the best only when it improves on it by more
// than minGain.
func searchSplit(ctx context.Context, score scoreFunc, line string, window []string, minGain float64) (splitResult, error) {
	var best splitResult
	for _, group := range textutil.SplitGroups(line) {
		paired := min(len(group), len(window))
		scores := make([]float64, paired)
		var total float64
		for j := range paired {
			s, err := score(ctx, group[j], window[j])
			if err != nil {
				return splitResult{}, err
			}
			scores[j] = s
			total += s
		}
		mean := total / float64(len(group))
		if mean-best.score > minGain {
			best = splitResult{score: mean, scores: scores, segments: group}
		}
	}
	return best, nil
}

// mergeResult is the best run of consecutive original lines joined against
// one modified line. lines is at least 1.
type mergeResult struct {
	score float64
	lines int
}

// mergeSearch configures searchMerge for one pass.
type mergeSearch struct {
	// join appends the next original line to the accumulated text.
	join func(acc, next string) string
	// prepare is applied to every original line before joining.
	prepare func(string) string
	// scoreSingle scores the first line alone; otherwise the search starts
	// from zero.
	scoreSingle bool
	minGain     float64
}

// searchMerge grows a run of original lines and keeps the prefix length
// whose concatenation best matches target.
func searchMerge(ctx context.Context, score scoreFunc, lines []string, target string, opts mergeSearch) (mergeResult, error) {
	best := mergeResult{lines: 1}
	if len(lines) == 0 {
		return best, nil
	}
	prepare := opts.prepare
	if prepare == nil {
		prepare = func(s string) string { return s }
	}
	acc := prepare(lines[0])
	if opts.scoreSingle {
		s, err := score(ctx, acc, target)
		if err != nil {
			return mergeResult{}, err
		}
		best.score = s
	}
	for k := 1; k < len(lines); k++ {
		acc = opts.join(acc, prepare(lines[k]))
		s, err := score(ctx, acc, target)
		if err != nil {
			return mergeResult{}, err
		}
		if s-best.score > opts.minGain {
			best = mergeResult{score: s, lines: k + 1}
		}
	}
	return best, nil
}

func spaceJoin(acc, next string) string {
	return acc + " " + next
}

// ellipsisJoin fuses a trailing "..." with a leading "..." on the next line:
// "I was..." + "...going" becomes "I was going".
func ellipsisJoin(acc, next string) string {
	if strings.HasSuffix(acc, ellipsis) && strings.HasPrefix(next, ellipsis) {
		return strings.TrimSuffix(acc, ellipsis) + " " + strings.TrimPrefix(next, ellipsis)
	}
	return acc + " " + next
}

// splitWindow returns the modified lines a split of line starting at mi may
// cover.
func (w walk) splitWindow(line string, mi int) []string {
	return window(w.modified, mi, min(textutil.SplitCount(line), w.lookahead))
}

// mergeWindow returns the original lines, starting at p, that may be merged
// into the modified line target. The window is the largest of a length
// heuristic (1, or 2 when target's length is closer to two joined lines than
// to one), the split count of the original line, and the split count of
// target; it is capped by the lookahead and by the lines remaining. With
// continuation set, an original line trailing off with "..." or "," counts
// one extra split.
func (w walk) mergeWindow(p int, target string, continuation bool) []string {
	line := w.original[p]
	minimal := 1
	if p+1 < len(w.original) {
		joined := len(line) + len(w.original[p+1]) + 1
		if absDiff(len(target), joined) < absDiff(len(target), len(line)) {
			minimal = 2
		}
	}
	originalCount := textutil.SplitCount(line)
	if continuation && (strings.HasSuffix(line, ellipsis) || strings.HasSuffix(line, ",")) {
		originalCount++
	}
	n := max(minimal, originalCount, textutil.SplitCount(target))
	return window(w.original, p, min(n, w.lookahead))
}

func window(lines []string, start, n int) []string {
	if start < 0 || start >= len(lines) || n <= 0 {
		return nil
	}
	return lines[start:min(start+n, len(lines))]
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

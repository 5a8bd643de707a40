package textutil

import (
	"regexp"
	"slices"
	"strings"
)

// MaxSplitBoundaries caps how many boundaries SplitGroups enumerates. Lines
// with more boundaries only use the first MaxSplitBoundaries of them, which
// keeps the candidate set at 2^12-1 segmentations.
const MaxSplitBoundaries = 12

var punctuationRunPattern = regexp.MustCompile(`[?!,.:;]+`)

// Boundaries returns the byte offsets at which text may be cut. A run of
// sentence punctuation yields the offset just past the run, unless the run
// touches the start or end of text. A break marker yields the offset just
// past the marker unless an earlier boundary already sits on or right
// before the marker.
func Boundaries(text string) []int {
	var indices []int
	for _, loc := range punctuationRunPattern.FindAllStringIndex(text, -1) {
		if loc[0] == 0 || loc[1] == len(text) {
			continue
		}
		indices = append(indices, loc[1])
	}

	for from := 0; ; {
		i := strings.Index(text[from:], BreakMarker)
		if i < 0 {
			break
		}
		at := from + i
		adjacent := slices.Contains(indices, at) || (at > 0 && slices.Contains(indices, at-1))
		if !adjacent {
			indices = append(indices, at+len(BreakMarker))
		}
		from = at + len(BreakMarker)
	}

	slices.Sort(indices)
	return indices
}

// SplitCount returns the number of segments the line holds when cut at every
// boundary.
func SplitCount(text string) int {
	return len(Boundaries(text)) + 1
}

// SplitGroups enumerates every segmentation of text obtained by cutting at a
// non-empty subset of its boundaries. Segments are trimmed with break markers
// and whitespace runs collapsed; duplicate segmentations are removed and the
// result is sorted. A line without boundaries has no segmentations.
func SplitGroups(text string) [][]string {
	bounds := Boundaries(text)
	if len(bounds) > MaxSplitBoundaries {
		bounds = bounds[:MaxSplitBoundaries]
	}
	total := 1 << len(bounds)

	groups := make([][]string, 0, total-1)
	for mask := 1; mask < total; mask++ {
		segments := make([]string, 0, len(bounds)+1)
		last := 0
		for j, at := range bounds {
			if mask&(1<<j) == 0 {
				continue
			}
			segments = append(segments, cleanSegment(text[last:at]))
			last = at
		}
		segments = append(segments, cleanSegment(text[last:]))
		groups = append(groups, segments)
	}

	slices.SortFunc(groups, slices.Compare[[]string])
	return slices.CompactFunc(groups, slices.Equal[[]string])
}

func cleanSegment(segment string) string {
	return CollapseSpaces(strings.ReplaceAll(segment, BreakMarker, " "))
}

package align

import "fmt"

// Span is a half-open index range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of indices covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers nothing.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

func (s Span) String() string {
	switch {
	case s.Empty():
		return "-"
	case s.Len() == 1:
		return fmt.Sprintf("%d", s.Start)
	default:
		return fmt.Sprintf("%d-%d", s.Start, s.End-1)
	}
}

// Record maps a contiguous original range to a contiguous modified range.
type Record struct {
	Original Span    `json:"original"`
	Modified Span    `json:"modified"`
	Action   Action  `json:"action"`
	Score    float64 `json:"score"`
	Pass     Pass    `json:"pass"`
}

// Summary counts records per action.
type Summary struct {
	Records   int            `json:"records"`
	Unmatched int            `json:"unmatched"`
	ByAction  map[string]int `json:"by_action"`
}

// Summarize tallies records.
func Summarize(records []Record) Summary {
	summary := Summary{Records: len(records), ByAction: make(map[string]int)}
	for _, rec := range records {
		summary.ByAction[rec.Action.String()]++
		if rec.Action == ActionNone {
			summary.Unmatched++
		}
	}
	return summary
}

// walk is the read-only input of one run.
type walk struct {
	original  []string
	modified  []string
	lookahead int
}

func (w walk) originalSpan(start, end int) Span {
	return clipSpan(start, end, len(w.original))
}

func (w walk) modifiedSpan(start, end int) Span {
	return clipSpan(start, end, len(w.modified))
}

func clipSpan(start, end, limit int) Span {
	start = min(max(start, 0), limit)
	end = min(max(end, start), limit)
	return Span{Start: start, End: end}
}

// record derives the ranges of a resolution from the state before and after
// it. Next and Prev do not follow the before/after shape and are special-cased.
func (w walk) record(before, after State, action Action, score float64, pass Pass) Record {
	p, mi := before.Position, before.ModifiedIndex()
	rec := Record{Action: action, Score: score, Pass: pass}
	switch action {
	case ActionNext:
		rec.Original = w.originalSpan(p, p)
		rec.Modified = w.modifiedSpan(mi, mi+1)
	case ActionPrev:
		rec.Original = w.originalSpan(p, p+1)
		rec.Modified = w.modifiedSpan(mi-1, mi)
	case ActionNone:
		rec.Original = w.originalSpan(p, p+1)
		rec.Modified = w.modifiedSpan(mi, mi)
	default:
		rec.Original = w.originalSpan(p, after.Position)
		rec.Modified = w.modifiedSpan(mi, after.ModifiedIndex())
	}
	return rec
}

// outcome is the result of one aligner step. When resolved is false, state
// is what the next pass should start from and score is the current pairing's
// similarity.
type outcome struct {
	state    State
	record   Record
	score    float64
	resolved bool
}

package main

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"submerge/internal/align"
	"submerge/internal/store"
	"submerge/internal/textutil"
)

// recordView is the presentation form shared by fresh and stored records.
type recordView struct {
	Original     align.Span `json:"original"`
	Modified     align.Span `json:"modified"`
	Action       string     `json:"action"`
	Score        float64    `json:"score"`
	Pass         string     `json:"pass"`
	OriginalText string     `json:"original_text"`
	ModifiedText string     `json:"modified_text"`
}

func viewsFromRecords(records []align.Record, original, modified []string) []recordView {
	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, recordView{
			Original:     rec.Original,
			Modified:     rec.Modified,
			Action:       rec.Action.String(),
			Score:        rec.Score,
			Pass:         string(rec.Pass),
			OriginalText: joinRange(original, rec.Original),
			ModifiedText: joinRange(modified, rec.Modified),
		})
	}
	return views
}

func viewsFromStored(records []store.Record) []recordView {
	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, recordView{
			Original:     align.Span{Start: rec.OriginalStart, End: rec.OriginalEnd},
			Modified:     align.Span{Start: rec.ModifiedStart, End: rec.ModifiedEnd},
			Action:       rec.Action,
			Score:        rec.Score,
			Pass:         rec.Pass,
			OriginalText: rec.OriginalText,
			ModifiedText: rec.ModifiedText,
		})
	}
	return views
}

func storedFromViews(views []recordView) []store.Record {
	out := make([]store.Record, 0, len(views))
	for i, view := range views {
		out = append(out, store.Record{
			Seq:           i,
			OriginalStart: view.Original.Start,
			OriginalEnd:   view.Original.End,
			ModifiedStart: view.Modified.Start,
			ModifiedEnd:   view.Modified.End,
			Action:        view.Action,
			Score:         view.Score,
			Pass:          view.Pass,
			OriginalText:  view.OriginalText,
			ModifiedText:  view.ModifiedText,
		})
	}
	return out
}

// joinRange joins the lines covered by span with newlines.
func joinRange(lines []string, span align.Span) string {
	if span.Empty() || span.Start >= len(lines) {
		return ""
	}
	return strings.Join(lines[span.Start:min(span.End, len(lines))], "\n")
}

// displayText flattens a stored or raw subtitle text onto one line without
// override tags.
func displayText(value string) string {
	return textutil.ForSemanticComparison(strings.ReplaceAll(value, "\n", " "))
}

func renderRecords(views []recordView, width int, withDiff bool) string {
	headers := []string{"#", "Original", "Modified", "Action", "Score", "Pass", "Original Text", "Modified Text"}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
	if withDiff {
		headers = append(headers, "Diff")
		aligns = append(aligns, alignLeft)
	}
	rows := make([][]string, 0, len(views))
	for i, view := range views {
		original := displayText(view.OriginalText)
		modified := displayText(view.ModifiedText)
		row := []string{
			fmt.Sprintf("%d", i+1),
			view.Original.String(),
			view.Modified.String(),
			view.Action,
			fmt.Sprintf("%.3f", view.Score),
			view.Pass,
			truncateCell(original, width),
			truncateCell(modified, width),
		}
		if withDiff {
			row = append(row, truncateCell(wordDiff(original, modified), width))
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

func renderSummary(summary align.Summary) string {
	parts := make([]string, 0, len(summary.ByAction))
	for _, action := range align.Actions() {
		if n := summary.ByAction[action.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", action, n))
		}
	}
	line := fmt.Sprintf("%d records, %d unmatched", summary.Records, summary.Unmatched)
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, " ") + ")"
	}
	return line
}

// wordDiff marks removed words as [-word-] and added words as {+word+}.
func wordDiff(before, after string) string {
	if before == "" && after == "" {
		return ""
	}
	dmp := diffmatchpatch.New()
	left, right, words := dmp.DiffLinesToRunes(wordLines(before), wordLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(left, right, false), words)

	parts := make([]string, 0, len(diffs))
	for _, d := range diffs {
		text := strings.Join(strings.Fields(d.Text), " ")
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			parts = append(parts, text)
		case diffmatchpatch.DiffDelete:
			parts = append(parts, "[-"+text+"-]")
		case diffmatchpatch.DiffInsert:
			parts = append(parts, "{+"+text+"+}")
		}
	}
	return strings.Join(parts, " ")
}

// wordLines puts every word on its own line so the line-mode diff compares
// whole words.
func wordLines(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, "\n") + "\n"
}

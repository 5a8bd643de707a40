package main

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"submerge/internal/align"
	"submerge/internal/store"
)

func TestRunsListWithoutStore(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	out, _, err = runCLI(t, []string{"runs", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list --json: %v", err)
	}
	requireContains(t, out, "[]")
}

func TestRunsLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	out, _, err := runCLI(t, []string{"align", original, modified}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "Run ")

	_, _, err = runCLI(t, []string{"align", "--lookahead", "0", original, modified}, env.configPath)
	if !errors.Is(err, align.ErrInvalidLookahead) {
		t.Fatalf("expected invalid lookahead, got %v", err)
	}

	out, _, err = runCLI(t, []string{"runs", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	var runs []runView
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v\n%s", err, out)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	byStatus := make(map[store.Status]runView)
	for _, run := range runs {
		byStatus[run.Status] = run
	}
	completed, ok := byStatus[store.StatusCompleted]
	if !ok {
		t.Fatalf("no completed run in %+v", runs)
	}
	if completed.RecordCount != 3 || completed.UnmatchedCount != 1 || completed.Label != "modified" {
		t.Fatalf("completed run = %+v", completed)
	}
	rejected, ok := byStatus[store.StatusRejected]
	if !ok {
		t.Fatalf("no rejected run in %+v", runs)
	}
	if rejected.Error == "" || rejected.FinishedAt == nil {
		t.Fatalf("rejected run not finished: %+v", rejected)
	}

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list table: %v", err)
	}
	requireContains(t, out, shortID(completed.ID))
	requireContains(t, out, "2 runs (completed=1 rejected=1)")

	out, _, err = runCLI(t, []string{"runs", "show", "--json", completed.ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	var shown runView
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if shown.ID != completed.ID || len(shown.Records) != 3 {
		t.Fatalf("shown run = %+v", shown)
	}
	if shown.Records[1].OriginalText != "How are you?" || shown.Records[1].Action != "match" {
		t.Fatalf("record 1 = %+v", shown.Records[1])
	}

	out, _, err = runCLI(t, []string{"runs", "show", "--diff", completed.ID}, env.configPath)
	if err != nil {
		t.Fatalf("runs show --diff: %v", err)
	}
	requireContains(t, out, "Diff")
	requireContains(t, out, "Status:     completed")
	requireContains(t, out, "3 records, 1 unmatched")

	out, _, err = runCLI(t, []string{"runs", "rm", rejected.ID}, env.configPath)
	if err != nil {
		t.Fatalf("runs rm: %v", err)
	}
	requireContains(t, out, "Removed run "+rejected.ID)

	_, _, err = runCLI(t, []string{"runs", "show", rejected.ID}, env.configPath)
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Fatalf("expected run not found, got %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "-"},
		{1234567 * time.Nanosecond, "1ms"},
		{2345 * time.Millisecond, "2.3s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatStats(t *testing.T) {
	if got := formatStats(nil); got != "0 runs" {
		t.Fatalf("formatStats(nil) = %q", got)
	}
	got := formatStats(map[store.Status]int{store.StatusFailed: 2, store.StatusCompleted: 1})
	if want := "3 runs (completed=1 failed=2)"; got != want {
		t.Fatalf("formatStats = %q, want %q", got, want)
	}
}

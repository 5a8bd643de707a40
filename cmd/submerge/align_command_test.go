package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kr.dev/diff"

	"submerge/internal/align"
	"submerge/internal/logging"
	"submerge/internal/services"
	"submerge/internal/subtitles"
	"submerge/internal/testsupport"
)

func TestAlignCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	out, _, err := runCLI(t, []string{"align", "--no-store", original, modified}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "Hello there.")
	requireContains(t, out, "distance")
	requireContains(t, out, "3 records, 1 unmatched (none=1 match=2)")
}

func TestAlignCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	out, _, err := runCLI(t, []string{"align", "--json", "--no-store", original, modified}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var result alignResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if result.RunID != "" {
		t.Fatalf("run id %q reported for an unstored run", result.RunID)
	}
	want := []recordView{
		{Original: align.Span{Start: 0, End: 1}, Modified: align.Span{Start: 0, End: 1}, Action: "match", Score: 1, Pass: "distance", OriginalText: "Hello there.", ModifiedText: "Hello there."},
		{Original: align.Span{Start: 1, End: 2}, Modified: align.Span{Start: 1, End: 2}, Action: "match", Score: 1, Pass: "distance", OriginalText: "How are you?", ModifiedText: "How are you?"},
		{Original: align.Span{Start: 2, End: 3}, Modified: align.Span{Start: 2, End: 2}, Action: "none", Score: 0, Pass: "engine", OriginalText: "I am fine."},
	}
	diff.Test(t, t.Errorf, result.Records, want)
	if result.Summary.Unmatched != 1 || result.Summary.Records != 3 {
		t.Fatalf("summary = %+v", result.Summary)
	}
}

func TestAlignCommandEvaluateFinalLine(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	out, _, err := runCLI(t, []string{"align", "--json", "--no-store", "--evaluate-final-line", original, modified}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var result alignResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if result.Summary.Unmatched != 0 || result.Summary.ByAction["match"] != 3 {
		t.Fatalf("summary = %+v", result.Summary)
	}
}

func TestAlignCommandRejectsUnsupportedFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.writeFile(t, "original.txt", "Hello there.")
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	_, _, err := runCLI(t, []string{"align", original, modified}, env.configPath)
	if !errors.Is(err, subtitles.ErrUnsupportedFormat) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected unsupported format validation error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(env.stateDir, "runs.db")); statErr == nil {
		t.Fatal("run store created for rejected input")
	}
}

func TestAlignCommandWritesTrace(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)
	tracePath := filepath.Join(env.baseDir, "trace.jsonl")

	if _, _, err := runCLI(t, []string{"align", "--no-store", "--trace", tracePath, original, modified}, env.configPath); err != nil {
		t.Fatalf("align: %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	requireContains(t, string(data), "alignment_start")
	requireContains(t, string(data), "distance_pass")
	requireContains(t, string(data), "run_id")
}

func TestAlignCommandBackendValidation(t *testing.T) {
	env := setupCLITestEnv(t)
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	_, _, err := runCLI(t, []string{"align", "--no-store", "--backend", "openai", original, modified}, env.configPath)
	if err == nil {
		t.Fatal("expected missing api key error")
	}
	requireContains(t, err.Error(), "semantic.api_key")
}

func TestRunLabel(t *testing.T) {
	tests := map[string]string{
		"/tmp/Episode 01 [Fansub].ass": "episode_01__fansub",
		"show.srt":                     "show",
		"/tmp/.ass":                    "unknown",
	}
	for path, want := range tests {
		if got := runLabel(path); got != want {
			t.Errorf("runLabel(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestAlignCommandStoreDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStoreDisabled())
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	out, _, err := runCLI(t, []string{"align", original, modified}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if strings.Contains(out, "Run ") {
		t.Fatalf("run reported with the store disabled:\n%s", out)
	}
	if _, statErr := os.Stat(filepath.Join(env.stateDir, "runs.db")); statErr == nil {
		t.Fatal("run store created while disabled")
	}
}

func TestAlignCommandVerboseLogsToFile(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithLogDir())
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	if _, _, err := runCLI(t, []string{"--verbose", "align", "--no-store", original, modified}, env.configPath); err != nil {
		t.Fatalf("align: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(env.cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	requireContains(t, string(data), "alignment started")
	requireContains(t, string(data), "distance decision")
}

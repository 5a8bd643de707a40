package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"submerge/internal/config"
	"submerge/internal/logging"
	"submerge/internal/services"
)

func decodeJSONLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")
	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")
	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "align").Info("alignment finished",
		logging.Int("records", 12),
		logging.Float64(logging.FieldScore, 0.91234),
		logging.Bool("final_line", false),
		logging.String(logging.FieldRunID, "abc"),
	)

	out := buf.String()
	for _, want := range []string{"INFO [align] – alignment finished", "- Records: 12", "- Score: 0.912", "- Final Line: no", "+ 1 more field hidden"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	entries := decodeJSONLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry["msg"] != "json message" || entry["k"] != "v" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("visible")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected info level filtering, got %q", buf.String())
	}
}

func TestComponentLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{
		Format:          "json",
		Level:           "info",
		Writer:          &buf,
		ComponentLevels: map[string]string{"align": "debug", "store": "error"},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("root debug")
	logging.NewComponentLogger(logger, "align").Debug("align debug")
	logging.NewComponentLogger(logger, "store").Warn("store warn")
	logging.NewComponentLogger(logger, "cli").Info("cli info")

	var msgs []string
	for _, entry := range decodeJSONLines(t, &buf) {
		msgs = append(msgs, entry["msg"].(string))
	}
	if got := strings.Join(msgs, ","); got != "align debug,cli info" {
		t.Fatalf("unexpected messages: %q", got)
	}
}

func TestWithLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{
		Format:          "json",
		Level:           "info",
		Writer:          &buf,
		ComponentLevels: map[string]string{"align": "debug"},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	quiet := logging.WithLevelOverride(logging.NewComponentLogger(logger, "align"), slog.LevelWarn)
	quiet.Info("suppressed")
	quiet.Warn("kept")

	entries := decodeJSONLines(t, &buf)
	if len(entries) != 1 || entries[0]["msg"] != "kept" || entries[0]["component"] != "align" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-xyz")
	ctx = services.WithStage(ctx, "align")
	logging.WithContext(ctx, logger).Info("contextual log")

	entries := decodeJSONLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0][logging.FieldRunID] != "run-xyz" || entries[0][logging.FieldStage] != "align" {
		t.Fatalf("missing context fields: %v", entries[0])
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "score was NaN", "similarity_nan", logging.String(logging.FieldImpact, "treated as 0"))

	entry := decodeJSONLines(t, &buf)[0]
	if entry[logging.FieldEventType] != "similarity_nan" {
		t.Fatalf("unexpected event type: %v", entry)
	}
	if entry[logging.FieldImpact] != "treated as 0" {
		t.Fatalf("expected caller impact to win, got %v", entry[logging.FieldImpact])
	}
	if entry[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error hint, got %v", entry)
	}
}

func TestTeeLoggerCapturesTrace(t *testing.T) {
	var console, trace bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &console})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	tee := logging.TeeLogger(logger, logging.NewTraceHandler(&trace))
	logging.NewComponentLogger(tee, "align").Debug("step decided", logging.DecisionAttrs("distance_pass", "split", "split beats current")...)

	if strings.Contains(console.String(), "step decided") {
		t.Fatalf("debug line leaked to console: %q", console.String())
	}
	entries := decodeJSONLines(t, &trace)
	if len(entries) != 1 || entries[0][logging.FieldDecisionResult] != "split" || entries[0]["component"] != "align" {
		t.Fatalf("unexpected trace entries: %v", entries)
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected nop logger to be disabled")
	}
	logging.NewComponentLogger(nil, "x").Info("discarded")
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const runColumns = `id, status, label, original_path, modified_path, backend, lookahead,
    evaluate_final_line, original_lines, modified_lines, record_count, unmatched_count,
    error_message, created_at, finished_at`

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		evalFinal   int
		errorMsg    sql.NullString
		createdRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&status,
		&run.Label,
		&run.OriginalPath,
		&run.ModifiedPath,
		&run.Backend,
		&run.Lookahead,
		&evalFinal,
		&run.OriginalLines,
		&run.ModifiedLines,
		&run.RecordCount,
		&run.UnmatchedCount,
		&errorMsg,
		&createdRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.EvaluateFinalLine = evalFinal != 0
	run.ErrorMessage = errorMsg.String
	created, err := parseTimeString(createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for run %s: %w", run.ID, err)
	}
	run.CreatedAt = created
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CreateRun inserts a run in the running state. An empty id is replaced by a
// fresh one.
func (s *Store) CreateRun(ctx context.Context, id string, input RunInput) (*Run, error) {
	if strings.TrimSpace(input.OriginalPath) == "" || strings.TrimSpace(input.ModifiedPath) == "" {
		return nil, errors.New("run requires original and modified paths")
	}
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = NewRunID()
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	now := time.Now().UTC()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (
            id, status, label, original_path, modified_path, backend, lookahead,
            evaluate_final_line, original_lines, modified_lines, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		StatusRunning,
		input.Label,
		input.OriginalPath,
		input.ModifiedPath,
		input.Backend,
		input.Lookahead,
		boolToInt(input.EvaluateFinalLine),
		input.OriginalLines,
		input.ModifiedLines,
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{
		ID:                id,
		Status:            StatusRunning,
		Label:             input.Label,
		OriginalPath:      input.OriginalPath,
		ModifiedPath:      input.ModifiedPath,
		Backend:           input.Backend,
		Lookahead:         input.Lookahead,
		EvaluateFinalLine: input.EvaluateFinalLine,
		OriginalLines:     input.OriginalLines,
		ModifiedLines:     input.ModifiedLines,
		CreatedAt:         now,
	}, nil
}

// CompleteRun stores the records of a running run and marks it completed.
func (s *Store) CompleteRun(ctx context.Context, id string, records []Record) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		return s.completeRun(ctx, id, records)
	})
}

func (s *Store) completeRun(ctx context.Context, id string, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin complete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (
            run_id, seq, original_start, original_end, modified_start, modified_end,
            action, score, pass, original_text, modified_text
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	unmatched := 0
	for i, rec := range records {
		if rec.Action == "none" {
			unmatched++
		}
		if _, err := stmt.ExecContext(ctx,
			id, i,
			rec.OriginalStart, rec.OriginalEnd,
			rec.ModifiedStart, rec.ModifiedEnd,
			rec.Action, rec.Score, rec.Pass,
			rec.OriginalText, rec.ModifiedText,
		); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, record_count = ?, unmatched_count = ?, finished_at = ?
        WHERE id = ? AND status = ?`,
		StatusCompleted, len(records), unmatched, formatTime(time.Now()), id, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: no running run %s", ErrRunNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// FinishRun marks a running run with a terminal failure status.
func (s *Store) FinishRun(ctx context.Context, id string, status Status, message string) error {
	if !status.IsTerminal() || status == StatusCompleted {
		return fmt.Errorf("finish run: status %q is not a failure status", status)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE id = ? AND status = ?`,
		status, nullableString(strings.TrimSpace(message)), formatTime(time.Now()), id, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: no running run %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun looks a run up by full id or by a unique id prefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	ctx = ensureContext(ctx)
	key := strings.ToLower(strings.TrimSpace(idOrPrefix))
	prefix := likeSafe(key)
	if prefix == "" {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, idOrPrefix)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		key, prefix+"%", key,
	)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case found[0].ID == key || len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
	}
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Records returns the records of a run in order.
func (s *Store) Records(ctx context.Context, runID string) ([]Record, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, original_start, original_end, modified_start, modified_end,
            action, score, pass, original_text, modified_text
        FROM records WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.Seq,
			&rec.OriginalStart, &rec.OriginalEnd,
			&rec.ModifiedStart, &rec.ModifiedEnd,
			&rec.Action, &rec.Score, &rec.Pass,
			&rec.OriginalText, &rec.ModifiedText,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRun removes a run and its records.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// Stats counts runs per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// likeSafe drops LIKE wildcards from a user-supplied prefix.
func likeSafe(value string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(value)
}

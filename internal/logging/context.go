package logging

import (
	"context"
	"log/slog"

	"submerge/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for alignment run identifiers.
	FieldRunID = "run_id"
	// FieldStage is the standardized structured logging key for run stage names.
	FieldStage = "stage"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the decision being logged (e.g. distance_pass).
	FieldDecisionType   = "decision_type"
	FieldDecisionResult = "decision_result"
	FieldDecisionReason = "decision_reason"
	// FieldPosition and FieldOffset carry the alignment walk state.
	FieldPosition = "position"
	FieldOffset   = "offset"
	FieldAction   = "action"
	FieldScore    = "score"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

package store

import (
	"strings"
	"time"
)

// Status tracks the lifecycle of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	// StatusRejected marks runs refused before aligning (bad input or
	// configuration).
	StatusRejected Status = "rejected"
	StatusCanceled Status = "canceled"
)

var allStatuses = []Status{StatusRunning, StatusCompleted, StatusFailed, StatusRejected, StatusCanceled}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus converts a string to a Status, reporting whether it is known.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition is expected.
func (s Status) IsTerminal() bool {
	return s != StatusRunning
}

// RunInput describes a run about to start.
type RunInput struct {
	Label             string
	OriginalPath      string
	ModifiedPath      string
	Backend           string
	Lookahead         int
	EvaluateFinalLine bool
	OriginalLines     int
	ModifiedLines     int
}

// Run is a persisted alignment run.
type Run struct {
	ID                string
	Status            Status
	Label             string
	OriginalPath      string
	ModifiedPath      string
	Backend           string
	Lookahead         int
	EvaluateFinalLine bool
	OriginalLines     int
	ModifiedLines     int
	RecordCount       int
	UnmatchedCount    int
	ErrorMessage      string
	CreatedAt         time.Time
	FinishedAt        *time.Time
}

// Duration is the wall time of a finished run, or zero.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.CreatedAt)
}

// Record is one persisted alignment record with the texts it maps. Texts of
// multi-line ranges are joined with a newline.
type Record struct {
	Seq           int
	OriginalStart int
	OriginalEnd   int
	ModifiedStart int
	ModifiedEnd   int
	Action        string
	Score         float64
	Pass          string
	OriginalText  string
	ModifiedText  string
}

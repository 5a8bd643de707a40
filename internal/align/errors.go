package align

import "errors"

var (
	// ErrOracleUnavailable wraps every similarity failure. A run that sees it
	// is aborted; no partial records are returned.
	ErrOracleUnavailable = errors.New("similarity oracle unavailable")
	// ErrInvalidLookahead reports a lookahead range below 1.
	ErrInvalidLookahead = errors.New("lookahead range must be at least 1")
	// ErrStepBudgetExceeded reports a walk that failed to converge within
	// len(original)+len(modified) steps.
	ErrStepBudgetExceeded = errors.New("alignment step budget exceeded")
)

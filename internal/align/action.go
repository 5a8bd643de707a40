package align

import "fmt"

// Action classifies how an original range maps onto a modified range. The
// walk state reuses it to remember the previous resolution.
type Action uint8

const (
	// ActionNone marks an original line without a counterpart.
	ActionNone Action = iota
	// ActionMatch pairs one original line with one modified line.
	ActionMatch
	// ActionMerge pairs several original lines with one modified line.
	ActionMerge
	// ActionSplit pairs one original line with several modified lines.
	ActionSplit
	// ActionKeep keeps two original lines 1:1 when both a split and a merge
	// reading score high.
	ActionKeep
	// ActionNext records a line inserted in the modified track.
	ActionNext
	// ActionPrev attaches the current original line to the modified line
	// before its counterpart, undoing an eager split.
	ActionPrev
)

var actionNames = [...]string{
	ActionNone:  "none",
	ActionMatch: "match",
	ActionMerge: "merge",
	ActionSplit: "split",
	ActionKeep:  "keep",
	ActionNext:  "next",
	ActionPrev:  "prev",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction resolves the textual form produced by String.
func ParseAction(value string) (Action, error) {
	for i, name := range actionNames {
		if name == value {
			return Action(i), nil
		}
	}
	return ActionNone, fmt.Errorf("unknown alignment action %q", value)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if int(a) >= len(actionNames) {
		return nil, fmt.Errorf("unknown alignment action %d", uint8(a))
	}
	return []byte(actionNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Actions lists every action in declaration order.
func Actions() []Action {
	out := make([]Action, len(actionNames))
	for i := range actionNames {
		out[i] = Action(i)
	}
	return out
}

// Pass names the part of the engine that produced a record.
type Pass string

const (
	PassDistance Pass = "distance"
	PassSemantic Pass = "semantic"
	// PassEngine marks records emitted without a resolution (skips, default
	// advances and the unevaluated final line).
	PassEngine Pass = "engine"
)

package align

// State is the walk position. It is a value: every transition returns a new
// State and leaves the receiver untouched.
type State struct {
	// Position indexes the original track.
	Position int
	// Offset maps Position onto the modified track.
	Offset int
	// PrevOffset is Offset as it was before the most recent split, merge or
	// insertion.
	PrevOffset int
	// PrevAction is the most recent resolution (None, Merge, Split, Next or
	// Prev).
	PrevAction Action
}

// ModifiedIndex is the index of the hypothesized counterpart.
func (s State) ModifiedIndex() int {
	return s.Position + s.Offset
}

// potential strictly increases with every transition below, which bounds the
// walk: 2*Position+Offset equals Position+ModifiedIndex.
func (s State) potential() int {
	return 2*s.Position + s.Offset
}

// advance moves to the next original line and forgets the previous action.
// Direct matches and unresolved lines both take this transition.
func (s State) advance() State {
	s.Position++
	s.PrevAction = ActionNone
	return s
}

// skip passes over an original line whose counterpart lies outside the
// modified track. PrevAction is retained.
func (s State) skip() State {
	s.Position++
	return s
}

// split consumes one original line spread over segments modified lines.
func (s State) split(segments int) State {
	s.PrevOffset = s.Offset
	s.Offset += segments - 1
	s.Position++
	s.PrevAction = ActionSplit
	return s
}

// merge consumes lines original lines joined into one modified line.
func (s State) merge(lines int) State {
	s.PrevOffset = s.Offset
	s.Offset -= lines - 1
	s.Position += lines
	s.PrevAction = ActionMerge
	return s
}

// keep consumes two original lines that stay paired 1:1.
func (s State) keep() State {
	s.Position += 2
	s.PrevAction = ActionNone
	return s
}

// insertion steps over a modified line with no original counterpart.
func (s State) insertion() State {
	s.PrevOffset = s.Offset
	s.Offset++
	s.PrevAction = ActionNext
	return s
}

// reattach pairs the current original line with the modified line before
// its counterpart.
func (s State) reattach() State {
	s.Offset--
	s.Position++
	s.PrevAction = ActionPrev
	return s
}

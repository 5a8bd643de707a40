package subtitles

import (
	"errors"
	"slices"
	"time"
)

// ErrUnsupportedFormat reports a file extension no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// Format names a subtitle container.
type Format string

const (
	FormatASS Format = "ass"
	FormatSRT Format = "srt"
)

// DefaultStyle is assigned to lines from formats without styles.
const DefaultStyle = "Default"

// Line is one subtitle event. Text keeps override tags and break markers.
type Line struct {
	// Index is the position of the event in its source file.
	Index     int
	Text      string
	IsComment bool
	Style     string
	Name      string
	Start     time.Duration
	End       time.Duration
}

// Track is a loaded subtitle file.
type Track struct {
	Path   string
	Format Format
	Lines  []Line
}

// FilterByStyle keeps lines whose style is listed. Comment lines are dropped
// unless keepComments is set. An empty style list keeps every style.
func FilterByStyle(lines []Line, styles []string, keepComments bool) []Line {
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.IsComment && !keepComments {
			continue
		}
		if len(styles) > 0 && !slices.Contains(styles, line.Style) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// SortByStart orders lines by start time in place. Lines starting together
// keep their file order.
func SortByStart(lines []Line) {
	slices.SortStableFunc(lines, func(a, b Line) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
}

// Texts returns the text of each line.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.Text
	}
	return out
}

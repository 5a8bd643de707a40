package subtitles

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var defaultEventFormat = []string{"layer", "start", "end", "style", "name", "marginl", "marginr", "marginv", "effect", "text"}

// ParseASS reads the Dialogue and Comment events of an ASS/SSA script. Other
// sections are ignored. Without a Format line the v4+ field order applies.
func ParseASS(r io.Reader) ([]Line, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ass: %w", err)
	}

	var lines []Line
	inEvents := false
	format := defaultEventFormat
	for n, raw := range strings.Split(normalizeNewlines(data), "\n") {
		row := strings.TrimSpace(raw)
		if strings.HasPrefix(row, "[") && strings.HasSuffix(row, "]") {
			inEvents = strings.EqualFold(row, "[Events]")
			continue
		}
		if !inEvents || row == "" || strings.HasPrefix(row, ";") {
			continue
		}
		key, value, ok := strings.Cut(row, ":")
		if !ok {
			continue
		}
		switch key = strings.TrimSpace(key); key {
		case "Format":
			format = parseEventFormat(value)
		case "Dialogue", "Comment":
			line, err := parseEvent(value, format)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
			line.Index = len(lines)
			line.IsComment = key == "Comment"
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func parseEventFormat(value string) []string {
	fields := strings.Split(value, ",")
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, strings.ToLower(strings.TrimSpace(field)))
	}
	return out
}

// parseEvent maps the comma-separated values onto format. Text is the last
// field and may itself contain commas.
func parseEvent(value string, format []string) (Line, error) {
	fields := strings.SplitN(value, ",", len(format))
	if len(fields) < len(format) {
		return Line{}, fmt.Errorf("event has %d fields, format expects %d", len(fields), len(format))
	}
	var line Line
	hasText := false
	for i, name := range format {
		field := fields[i]
		var err error
		switch name {
		case "start":
			line.Start, err = parseASSTime(field)
		case "end":
			line.End, err = parseASSTime(field)
		case "style":
			line.Style = strings.TrimSpace(field)
		case "name", "actor":
			line.Name = strings.TrimSpace(field)
		case "text":
			line.Text = field
			hasText = true
		}
		if err != nil {
			return Line{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	if !hasText {
		return Line{}, fmt.Errorf("format has no text field")
	}
	return line, nil
}

// parseASSTime parses H:MM:SS.cc. Any number of fractional digits is
// accepted; digits past milliseconds are dropped.
func parseASSTime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	hms := strings.Split(value, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	secText, fracText, _ := strings.Cut(hms[2], ".")
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(secText)
	if errH != nil || errM != nil || errS != nil || hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	millis, err := fractionMillis(fracText)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

func fractionMillis(frac string) (int, error) {
	if frac == "" {
		return 0, nil
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	value, err := strconv.Atoi(frac)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid fraction %q", frac)
	}
	return value, nil
}

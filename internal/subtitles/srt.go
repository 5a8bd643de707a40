package subtitles

import (
	"fmt"
	"io"
	"strings"
	"time"

	"submerge/internal/textutil"
)

// ParseSRT reads SRT cues. Malformed blocks are skipped. Multi-line cue text
// is joined with the ASS break marker and every line gets DefaultStyle.
func ParseSRT(r io.Reader) ([]Line, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}

	content := strings.TrimSpace(normalizeNewlines(data))
	if content == "" {
		return nil, nil
	}

	// Split by double newlines (cue separator)
	blocks := strings.Split(content, "\n\n")
	var lines []Line

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		rows := strings.Split(block, "\n")
		if len(rows) < 3 {
			continue
		}

		// First row is the cue number
		var index int
		if _, err := fmt.Sscanf(rows[0], "%d", &index); err != nil {
			continue
		}

		start, end, ok := parseSRTTiming(rows[1])
		if !ok {
			continue
		}

		lines = append(lines, Line{
			Index: len(lines),
			Text:  strings.Join(rows[2:], textutil.BreakMarker),
			Style: DefaultStyle,
			Start: start,
			End:   end,
		})
	}

	return lines, nil
}

// parseSRTTiming reads "start --> end", ignoring trailing position hints.
func parseSRTTiming(row string) (time.Duration, time.Duration, bool) {
	startText, rest, ok := strings.Cut(row, "-->")
	if !ok {
		return 0, 0, false
	}
	endFields := strings.Fields(rest)
	if len(endFields) == 0 {
		return 0, 0, false
	}
	start, err := parseSRTTimestamp(startText)
	if err != nil {
		return 0, 0, false
	}
	end, err := parseSRTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

func parseSRTTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// Normalize comma to period so the ASS clock parser applies
	value = strings.ReplaceAll(value, ",", ".")
	if !strings.Contains(value, ".") {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return parseASSTime(value)
}

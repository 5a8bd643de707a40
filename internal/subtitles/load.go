package subtitles

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a subtitle file, choosing the parser by extension.
func Load(path string) (*Track, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	lines, err := Parse(format, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &Track{Path: path, Format: format, Lines: lines}, nil
}

// Parse reads a track in the given format.
func Parse(format Format, r io.Reader) ([]Line, error) {
	switch format {
	case FormatASS:
		return ParseASS(r)
	case FormatSRT:
		return ParseSRT(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func formatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ass", ".ssa":
		return FormatASS, nil
	case ".srt":
		return FormatSRT, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// normalizeNewlines strips a UTF-8 byte order mark and converts CRLF and CR
// line endings to LF.
func normalizeNewlines(data []byte) string {
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

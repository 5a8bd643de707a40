package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"submerge/internal/config"
)

// LogFileName is the file written inside the configured log directory.
const LogFileName = "submerge.log"

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	// Writer, when set, replaces OutputPaths.
	Writer      io.Writer
	Development bool
	// ComponentLevels maps component names to their own minimum level.
	ComponentLevels map[string]string
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := ParseLevel(opts.Level)
	components := make(map[string]slog.Level, len(opts.ComponentLevels))
	floor := level
	for name, value := range opts.ComponentLevels {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		componentLevel := ParseLevel(value)
		components[name] = componentLevel
		floor = min(floor, componentLevel)
	}

	output := opts.Writer
	if output == nil {
		var err error
		output, err = openWriters(defaultSlice(opts.OutputPaths, []string{"stderr"}))
		if err != nil {
			return nil, err
		}
	}

	// The base handler admits the most verbose configured level; the override
	// layer narrows it back down per component.
	levelVar := new(slog.LevelVar)
	levelVar.Set(floor)
	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(output, levelVar, addSource)
	case "console":
		handler = newPrettyHandler(output, levelVar, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(newLevelOverrideHandler(handler, level, components)), nil
}

// NewFromConfig creates a logger using application config defaults.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"})
	}

	outputPaths := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		outputPaths = append(outputPaths, filepath.Join(cfg.Paths.LogDir, LogFileName))
	}

	return New(Options{
		Level:           cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		OutputPaths:     outputPaths,
		ComponentLevels: cfg.Logging.ComponentLevels,
	})
}

// ParseLevel maps a level name to its slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), value...)
}

func openWriters(paths []string) (io.Writer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer

	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

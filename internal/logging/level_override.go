package logging

import (
	"context"
	"log/slog"
	"strings"
)

// levelOverrideHandler enforces a per-logger minimum level while delegating
// output to the wrapped handler (which should be configured with the most
// verbose level needed globally). Attaching a component attribute switches
// the minimum to that component's configured level, if any.
type levelOverrideHandler struct {
	next       slog.Handler
	level      slog.Level
	components map[string]slog.Level
}

func newLevelOverrideHandler(next slog.Handler, level slog.Level, components map[string]slog.Level) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	return &levelOverrideHandler{next: next, level: level, components: components}
}

func (h *levelOverrideHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.level {
		return false
	}
	return h.next.Enabled(ctx, level)
}

func (h *levelOverrideHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.level {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *levelOverrideHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	level := h.level
	for _, attr := range attrs {
		if attr.Key != FieldComponent {
			continue
		}
		name := strings.ToLower(attr.Value.Resolve().String())
		if componentLevel, ok := h.components[name]; ok {
			level = componentLevel
		}
	}
	return &levelOverrideHandler{
		next:       h.next.WithAttrs(attrs),
		level:      level,
		components: h.components,
	}
}

func (h *levelOverrideHandler) WithGroup(name string) slog.Handler {
	return &levelOverrideHandler{
		next:       h.next.WithGroup(name),
		level:      h.level,
		components: h.components,
	}
}

func (h *levelOverrideHandler) CloneWithLevel(level slog.Level) slog.Handler {
	return &levelOverrideHandler{
		next:       h.next,
		level:      level,
		components: h.components,
	}
}

// WithLevelOverride returns a logger that enforces the provided minimum level
// while preserving existing attributes and handler wiring. The wrapped handler
// must still admit the level for records to pass.
func WithLevelOverride(logger *slog.Logger, level slog.Level) *slog.Logger {
	if logger == nil {
		return slog.New(newLevelOverrideHandler(nil, level, nil))
	}
	if cloner, ok := logger.Handler().(interface{ CloneWithLevel(slog.Level) slog.Handler }); ok {
		return slog.New(cloner.CloneWithLevel(level))
	}
	return slog.New(newLevelOverrideHandler(logger.Handler(), level, nil))
}

package logging

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

var infoHighlightKeys = []string{
	FieldEventType,
	FieldDecisionType,
	FieldDecisionResult,
	FieldDecisionReason,
	FieldAction,
	FieldScore,
	FieldPosition,
	FieldOffset,
	"original_lines",
	"modified_lines",
	"records",
	"unmatched",
	"backend",
	"model",
	"duration",
	"error",
	FieldErrorHint,
	FieldImpact,
}

// selectInfoFields returns formatted info-level fields and a count of hidden entries.
// Highlighted keys come first; limit=0 means no limit.
func selectInfoFields(attrs []kv, limit int) ([]infoField, int) {
	if len(attrs) == 0 {
		return nil, 0
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, infoAttrLimit)
	hidden := 0

	add := func(idx int) {
		used[idx] = true
		attr := attrs[idx]
		if skipInfoKey(attr.key) {
			return
		}
		if isDebugOnlyKey(attr.key) {
			hidden++
			return
		}
		val := formatValueForKey(attr.key, attr.value)
		if shouldHideInfoValue(attr.key, val) || (limit > 0 && len(result) >= limit) {
			hidden++
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: val})
	}

	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if !used[idx] && attr.key == key {
				add(idx)
				break
			}
		}
	}
	for idx := range attrs {
		if !used[idx] {
			add(idx)
		}
	}
	return result, hidden
}

// formatValueForKey applies display formatting based on the key name.
func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	switch {
	case isScoreKey(key) && v.Kind() == slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', 3, 64)
	case v.Kind() == slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	return attrString(v)
}

func isScoreKey(key string) bool {
	return key == FieldScore || strings.HasSuffix(key, "_score") || strings.HasSuffix(key, "_similarity")
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldStage:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	if key == FieldRunID {
		return true
	}
	if strings.HasSuffix(key, "_id") {
		return true
	}
	return strings.Contains(key, "_path") || strings.Contains(key, "_dir")
}

func shouldHideInfoValue(key, value string) bool {
	switch key {
	case "error", FieldErrorHint:
		return false
	}
	return len(value) > 120
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldDecisionType:
		return "Decision"
	case FieldDecisionResult:
		return "Result"
	case FieldDecisionReason:
		return "Reason"
	case FieldErrorHint:
		return "Hint"
	case "original_lines":
		return "Original"
	case "modified_lines":
		return "Modified"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	if key == "" {
		return ""
	}
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	if len(parts) == 0 {
		return strings.ToUpper(key[:1]) + strings.ToLower(key[1:])
	}
	for i, part := range parts {
		parts[i] = capitalizeASCII(part)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	switch len(value) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(value)
	default:
		lower := strings.ToLower(value)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}

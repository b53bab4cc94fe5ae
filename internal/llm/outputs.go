package llm

import (
	"fmt"
	"strconv"
	"strings"
)

// Outputs is the loosely typed field map returned by a Completer. Its
// accessors apply the same lenient coercion rules everywhere: numbers may
// arrive as strings, booleans as "True"/"false", and lists as delimited
// free text. A missing or uncoercible field yields the caller's default,
// never an error.
type Outputs map[string]any

// String returns the named field as a trimmed string, or def when absent
// or empty.
func (o Outputs) String(name, def string) string {
	v, ok := o[name]
	if !ok || v == nil {
		return def
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return def
	}
	return s
}

// Int returns the named field as an int, tolerating float64 (the JSON
// default) and numeric strings.
func (o Outputs) Int(name string, def int) int {
	v, ok := o[name]
	if !ok || v == nil {
		return def
	}

	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the named field as a bool, tolerating the string spellings
// models actually produce.
func (o Outputs) Bool(name string, def bool) bool {
	v, ok := o[name]
	if !ok || v == nil {
		return def
	}

	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes":
			return true
		case "false", "no":
			return false
		}
	}
	return def
}

// StringList returns the named field as a string list. A list-shaped output
// that arrived as free text is reconstructed with SplitList.
func (o Outputs) StringList(name string) []string {
	v, ok := o[name]
	if !ok || v == nil {
		return []string{}
	}

	switch val := v.(type) {
	case []string:
		return val
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s := strings.TrimSpace(fmt.Sprint(item))
			if s != "" {
				items = append(items, s)
			}
		}
		return items
	case string:
		return SplitList(val)
	default:
		return []string{}
	}
}

// Map returns the named field as a nested object, or an empty map when the
// field is absent or has a different shape.
func (o Outputs) Map(name string) map[string]any {
	v, ok := o[name]
	if !ok || v == nil {
		return map[string]any{}
	}

	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// MapList returns the named field as a list of objects, dropping entries
// of any other shape.
func (o Outputs) MapList(name string) []map[string]any {
	v, ok := o[name]
	if !ok || v == nil {
		return []map[string]any{}
	}

	raw, ok := v.([]any)
	if !ok {
		return []map[string]any{}
	}

	items := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

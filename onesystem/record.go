package onesystem

import (
	"strconv"
	"strings"
)

// Record is one course-arrangement row as returned by the portal. The API is
// loosely typed – numbers arrive as numbers or strings, fields go missing –
// so all access goes through accessors that coerce and report absence rather
// than panic. Coercion failures read as absent.
type Record map[string]any

// Str returns the trimmed string value of a field, or "" when the field is
// absent, null or not a string.
func (r Record) Str(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r[key].(string)
	return strings.TrimSpace(s)
}

// Int coerces a field to int64. JSON numbers are truncated, numeric strings
// parsed; anything else reads as absent.
func (r Record) Int(key string) (int64, bool) {
	if r == nil {
		return 0, false
	}
	switch v := r[key].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Raw returns the field value untouched for SQL literal passthrough, or nil
// when absent. Numeric counters (period, weekHour, credits, …) keep whatever
// the API sent.
func (r Record) Raw(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// List returns the field as a slice, or nil when it is absent or not a list.
func (r Record) List(key string) []any {
	if r == nil {
		return nil
	}
	v, _ := r[key].([]any)
	return v
}

// Children returns the field as a slice of nested records, skipping entries
// that are not objects.
func (r Record) Children(key string) []Record {
	items := r.List(key)
	if len(items) == 0 {
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Package changes computes field-level change records between two snapshots of
// the same entity, as stored in the activity-history log.
package changes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/assetdesk/internal/model"
)

// FieldFunc diffs a single key with custom rules.
type FieldFunc func(s *Schema, key string, oldVal, newVal any) []model.Change

// Schema describes how snapshots of one entity kind are compared.
type Schema struct {
	Name string

	// Ignore lists keys that are never compared.
	Ignore map[string]bool

	// DateFields lists keys whose values are rendered with FormatDate.
	DateFields map[string]bool

	// Labels maps keys to display labels. Unlisted keys are used as-is.
	Labels map[string]string

	// Fields holds per-key differs that replace the default comparison.
	Fields map[string]FieldFunc

	// FormatDate renders a date value for display.
	FormatDate func(string) string
}

// Diff returns the changes between oldData and newData. Keys are visited in
// sorted order. Identical snapshots produce no changes.
func (s *Schema) Diff(oldData, newData map[string]any) []model.Change {
	var out []model.Change
	for _, key := range unionKeys(oldData, newData) {
		if s.Ignore[key] {
			continue
		}
		oldVal, newVal := oldData[key], newData[key]
		if fn, ok := s.Fields[key]; ok {
			out = append(out, fn(s, key, oldVal, newVal)...)
			continue
		}
		if c, ok := s.compare(key, s.label(key), oldVal, newVal); ok {
			out = append(out, c)
		}
	}
	changesComputed.WithLabelValues(s.Name).Inc()
	return out
}

// DiffJSON decodes two JSON objects and diffs them.
func (s *Schema) DiffJSON(oldData, newData []byte) ([]model.Change, error) {
	o, err := decodeObject(oldData)
	if err != nil {
		return nil, fmt.Errorf("decoding old data: %w", err)
	}
	n, err := decodeObject(newData)
	if err != nil {
		return nil, fmt.Errorf("decoding new data: %w", err)
	}
	return s.Diff(o, n), nil
}

// compare is the default rule: string-coerced values are compared and, when
// they differ, rendered as dates or raw values. A missing value and an empty
// one compare equal.
func (s *Schema) compare(key, label string, oldVal, newVal any) (model.Change, bool) {
	o, n := stringify(oldVal), stringify(newVal)
	if o == n {
		return model.Change{}, false
	}
	if s.DateFields[key] && s.FormatDate != nil {
		return model.Change{Field: label, OldValue: s.FormatDate(o), NewValue: s.FormatDate(n)}, true
	}
	return model.Change{Field: label, OldValue: display(oldVal), NewValue: display(newVal)}, true
}

func (s *Schema) label(key string) string {
	if l, ok := s.Labels[key]; ok {
		return l
	}
	return key
}

func decodeObject(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func unionKeys(a, b map[string]any) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for _, m := range []map[string]any{a, b} {
		for k := range m {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// stringify coerces a decoded JSON value to a string for comparison.
func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
	return fmt.Sprint(v)
}

// display renders a value, using "-" for empty and falsy values.
func display(v any) string {
	if falsy(v) {
		return "-"
	}
	return stringify(v)
}

func falsy(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	case float64:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	}
	return false
}

// parseDate accepts the timestamp layouts produced by the API and its clients.
func parseDate(s string) (time.Time, bool) {
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

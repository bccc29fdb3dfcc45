package changes

import (
	"time"

	"github.com/erazemk/assetdesk/internal/model"
)

// AssetDateLayout renders asset timestamps.
const AssetDateLayout = "1/2/2006, 3:04:05 PM"

// NewAssetSchema returns the schema for product snapshots with dates shown in loc.
func NewAssetSchema(loc *time.Location) *Schema {
	if loc == nil {
		loc = time.UTC
	}
	return &Schema{
		Name:   "asset",
		Ignore: map[string]bool{"products": true},
		DateFields: map[string]bool{
			"updatedAt":       true,
			"createdAt":       true,
			"acquisitionDate": true,
			"deletedAt":       true,
		},
		Fields: map[string]FieldFunc{
			"attributes": diffAttributes,
		},
		FormatDate: func(s string) string {
			if s == "" {
				return "-"
			}
			t, ok := parseDate(s)
			if !ok {
				return s
			}
			return t.In(loc).Format(AssetDateLayout)
		},
	}
}

// AssetChanges diffs two product snapshots with dates in UTC.
func AssetChanges(oldData, newData map[string]any) []model.Change {
	return NewAssetSchema(time.UTC).Diff(oldData, newData)
}

// diffAttributes reports attributes that were added or changed. Attributes
// that disappear from the new snapshot are not reported. A key repeated on
// either side takes its last value.
func diffAttributes(_ *Schema, _ string, oldVal, newVal any) []model.Change {
	_, previous := attributeValues(oldVal)
	keys, current := attributeValues(newVal)

	var out []model.Change
	for _, key := range keys {
		old, ok := previous[key]
		if ok && old == current[key] {
			continue
		}
		out = append(out, model.Change{
			Field:    "Attribute: " + key,
			OldValue: display(old),
			NewValue: display(current[key]),
		})
	}
	return out
}

// attributeValues returns the attribute keys in first-seen order and the
// last value of each.
func attributeValues(v any) ([]string, map[string]string) {
	var keys []string
	values := make(map[string]string)
	for _, a := range asList(v) {
		attr := asMap(a)
		key := stringify(attr["key"])
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = stringify(attr["value"])
	}
	return keys, values
}

package store

import (
	"encoding/json"
	"reflect"
)

// LegacyActivityPlaceholder fills the activity of an item synthesized from
// an old flat record that had none.
const LegacyActivityPlaceholder = "Untitled"

// legacyFields are the flat per-date fields that predate itemized dates.
var legacyFields = []string{"time", "location", "activity", "cost", "paidBy"}

// MigrateDates upgrades a raw date collection to the itemized shape. It
// returns the input unchanged and false when nothing needed upgrading, so
// running it on its own output is a no-op.
func MigrateDates(raw []byte, newID func() string) ([]byte, bool, error) {
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, err
	}

	changed := false
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		if r == nil {
			changed = true
			continue
		}
		m := migrateDateRecord(r, newID)
		if !reflect.DeepEqual(m, r) {
			changed = true
		}
		out = append(out, m)
	}
	if !changed {
		return raw, false, nil
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func migrateDateRecord(r map[string]any, newID func() string) map[string]any {
	m := make(map[string]any, len(r)+3)
	for k, v := range r {
		m[k] = v
	}

	if items, ok := r["items"].([]any); ok && len(items) > 0 {
		defaultArray(m, "miscExpenses")
		defaultArray(m, "tags")
		return m
	}

	item := map[string]any{"id": newID()}
	for _, f := range legacyFields {
		if v, ok := r[f]; ok && v != nil {
			item[f] = v
		}
		delete(m, f)
	}
	if _, ok := item["activity"]; !ok {
		item["activity"] = LegacyActivityPlaceholder
	}

	m["items"] = []any{item}
	m["miscExpenses"] = []any{}
	if v, ok := r["notes"]; !ok || v == nil {
		m["notes"] = ""
	}
	keepArray(m, "photos")
	keepArray(m, "tags")
	return m
}

// defaultArray sets key to [] when it is missing or null.
func defaultArray(m map[string]any, key string) {
	if v, ok := m[key]; !ok || v == nil {
		m[key] = []any{}
	}
}

// keepArray sets key to [] unless it already holds an array.
func keepArray(m map[string]any, key string) {
	if _, ok := m[key].([]any); !ok {
		m[key] = []any{}
	}
}

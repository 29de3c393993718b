// Package adapt contains the pure response adapters that turn arbitrary
// backend payload shapes into canonical entities. Field access goes through
// an ordered resolver: for each field an adapter lists candidate key
// spellings in priority order and takes the first present, non-null value.
// Adapters never fail; unresolvable fields get documented defaults.
package adapt

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// asMap coerces a raw decoded payload into a map. Returns nil for anything
// that is not an object; adapters then fall through to defaults.
func asMap(raw any) map[string]any {
	switch m := raw.(type) {
	case map[string]any:
		return m
	case json.RawMessage:
		var out map[string]any
		if err := json.Unmarshal(m, &out); err == nil {
			return out
		}
		return nil
	case []byte:
		var out map[string]any
		if err := json.Unmarshal(m, &out); err == nil {
			return out
		}
		return nil
	default:
		return nil
	}
}

// pick returns the first present, non-nil value among keys.
func pick(m map[string]any, keys ...string) (any, bool) {
	if m == nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// pickString resolves the first candidate to a string. Numbers are
// stringified; empty string counts as absent.
func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := pick(m, k)
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return formatNumber(s)
		case bool:
			return strconv.FormatBool(s)
		}
	}
	return ""
}

// pickInt resolves the first candidate to a non-negative integer.
// Numeric-looking strings are parsed; anything unresolvable yields 0 so
// downstream arithmetic never needs nil checks.
func pickInt(m map[string]any, keys ...string) int64 {
	for _, k := range keys {
		v, ok := pick(m, k)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n < 0 {
				return 0
			}
			return int64(n)
		case string:
			if parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				if parsed < 0 {
					return 0
				}
				return parsed
			}
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil && parsed >= 0 {
				return int64(parsed)
			}
		}
	}
	return 0
}

// pickBool resolves the first candidate to a bool, accepting "true"/"false"
// strings and 0/1 numbers.
func pickBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		v, ok := pick(m, k)
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case float64:
			return b != 0
		case string:
			if parsed, err := strconv.ParseBool(strings.ToLower(b)); err == nil {
				return parsed
			}
		}
	}
	return false
}

// pickID resolves an identity reference that may arrive as a bare number, a
// numeric string, a UUID string, or an object carrying its own id field.
// The result is a single opaque string; "" when unresolvable.
func pickID(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := pick(m, k)
		if !ok {
			continue
		}
		if id := idOf(v); id != "" {
			return id
		}
	}
	return ""
}

func idOf(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return formatNumber(id)
	case map[string]any:
		return pickID(id, "id", "_id", "uuid", "userId", "user_id")
	default:
		return ""
	}
}

// pickMap resolves the first candidate that is a nested object.
func pickMap(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		v, ok := pick(m, k)
		if !ok {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			return nested
		}
	}
	return nil
}

// pickList resolves the first candidate that is an array.
func pickList(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		v, ok := pick(m, k)
		if !ok {
			continue
		}
		if list, ok := v.([]any); ok {
			return list
		}
	}
	return nil
}

// timeLayouts are tried in order for string timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// pickTime resolves the first candidate to a time.Time. String values are
// parsed against common layouts; numbers are taken as unix seconds (or
// milliseconds when too large for seconds). Zero time when unresolvable.
func pickTime(m map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		v, ok := pick(m, k)
		if !ok {
			continue
		}
		switch ts := v.(type) {
		case string:
			for _, layout := range timeLayouts {
				if parsed, err := time.Parse(layout, ts); err == nil {
					return parsed
				}
			}
		case float64:
			if ts <= 0 {
				continue
			}
			// Millisecond stamps are 13 digits; second stamps are 10.
			if ts > 1e12 {
				return time.UnixMilli(int64(ts)).UTC()
			}
			return time.Unix(int64(ts), 0).UTC()
		}
	}
	return time.Time{}
}

// formatNumber renders a JSON number without a trailing ".0" for integers.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

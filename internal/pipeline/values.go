package pipeline

import (
	"encoding/json"
	"fmt"
)

// coerceNumber converts a decoded JSON value into a float64 for the
// ranked map, returning 0 on failure (spec.md §4.4 step 8: "coerce the
// value to a number (zero on failure)").
func coerceNumber(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case int:
		return float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// stringifyFacetValue renders a decoded JSON value as the string the
// facets store hashes, for the scalar value types faceting supports.
func stringifyFacetValue(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return fmt.Sprintf("%v", t), true
	case json.Number:
		return t.String(), true
	case bool:
		return fmt.Sprintf("%v", t), true
	default:
		return "", false
	}
}

// decodeFieldValue decodes a raw JSON field value into a plain interface{}.
func decodeFieldValue(raw []byte) interface{} {
	var v interface{}
	_ = json.Unmarshal(raw, &v)
	return v
}

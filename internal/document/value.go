// Package document models parsed semi-structured values and the schema
// errors produced while decoding targeting rules from them.
//
// A Value follows the shapes encoding/json produces when decoding into any:
//
//	nil, bool, float64, string, []any, map[string]any
//
// Values are treated as immutable once normalized; nothing in this module
// mutates a Value after Normalize returns it.
package document

import (
	"encoding/json"
	"fmt"
)

// Value is a parsed JSON-like value. Only the six JSON shapes listed in the
// package comment are valid; Normalize enforces that.
type Value = any

// Normalize converts v into canonical Value shapes. Integer kinds and
// json.Number collapse to float64, lists and maps are rebuilt recursively.
// Unsupported Go types are rejected rather than silently carried along.
func Normalize(v any) (Value, error) {
	switch val := v.(type) {
	case nil, bool, float64, string:
		return val, nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return f, nil
	case []any:
		list := make([]any, len(val))
		for i, item := range val {
			norm, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			list[i] = norm
		}
		return list, nil
	case []string:
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = item
		}
		return list, nil
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			norm, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			m[k] = norm
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// FromJSON parses raw JSON into a normalized Value.
func FromJSON(data []byte) (Value, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return Normalize(v)
}

// Equal reports type-sensitive deep equality between two Values.
// A number never equals the string rendering of the same number.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, item := range av {
			other, exists := bv[k]
			if !exists || !Equal(item, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsNull reports whether v is the explicit null value.
func IsNull(v Value) bool {
	return v == nil
}

// Lookup returns the entry for key when v is a map. Non-map values and
// missing keys report ok == false; absence never errors.
func Lookup(v Value, key string) (Value, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	child, exists := m[key]
	return child, exists
}

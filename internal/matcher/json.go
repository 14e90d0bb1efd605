package matcher

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"

	"github.com/shobhitraaj/skytarget/internal/document"
)

// Wire keys (string values kept literal for clean JSON serialization).
const (
	keyEquals    = "equals"
	keyIsPresent = "is_present"
	keyAtLeast   = "at_least"
	keyAtMost    = "at_most"
	keyRangeType = "type"
	keyOneOf     = "one_of"

	rangeTypeNumber  = "number"
	rangeTypeVersion = "version"

	keyMatcherKey   = "key"
	keyMatcherScope = "scope"
	keyMatcherValue = "value"
)

// ParseValueMatcher decodes a ValueMatcherObj fragment. The range type is
// selected by the explicit "type" field (defaulting to "number"); it is
// never inferred from the matched key name.
func ParseValueMatcher(v document.Value, path string) (ValueMatcher, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, document.NewParseError(document.ErrTypeMismatch, path, "value matcher must be an object, got %T", v)
	}
	if len(obj) == 0 {
		return nil, document.NewParseError(document.ErrMissingField, path, "value matcher is empty")
	}

	switch {
	case hasKey(obj, keyEquals):
		return Equals{Expected: obj[keyEquals]}, nil

	case hasKey(obj, keyIsPresent):
		b, ok := obj[keyIsPresent].(bool)
		if !ok {
			return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyIsPresent), "is_present must be a boolean")
		}
		return Presence{Present: b}, nil

	case hasKey(obj, keyOneOf):
		list, ok := obj[keyOneOf].([]any)
		if !ok {
			return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyOneOf), "one_of must be a list")
		}
		return OneOf{Values: list}, nil

	case hasKey(obj, keyAtLeast) || hasKey(obj, keyAtMost) || hasKey(obj, keyRangeType):
		return parseRange(obj, path)

	default:
		return nil, document.NewParseError(document.ErrUnknownKey, path, "unsupported comparison kind %q", firstKey(obj))
	}
}

func parseRange(obj map[string]any, path string) (ValueMatcher, error) {
	rangeType := rangeTypeNumber
	if raw, ok := obj[keyRangeType]; ok {
		s, isString := raw.(string)
		if !isString {
			return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyRangeType), "type must be a string")
		}
		rangeType = s
	}

	switch rangeType {
	case rangeTypeNumber:
		min, err := numberBound(obj, keyAtLeast, path)
		if err != nil {
			return nil, err
		}
		max, err := numberBound(obj, keyAtMost, path)
		if err != nil {
			return nil, err
		}
		return NumberRange{Min: min, Max: max}, nil

	case rangeTypeVersion:
		min, err := versionBound(obj, keyAtLeast, path)
		if err != nil {
			return nil, err
		}
		max, err := versionBound(obj, keyAtMost, path)
		if err != nil {
			return nil, err
		}
		return VersionRange{Min: min, Max: max}, nil

	default:
		return nil, document.NewParseError(document.ErrUnknownKey, joinPath(path, keyRangeType), "unsupported range type %q", rangeType)
	}
}

func numberBound(obj map[string]any, key, path string) (*float64, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	n, isNumber := raw.(float64)
	if !isNumber {
		return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, key), "%s must be a number", key)
	}
	return &n, nil
}

func versionBound(obj map[string]any, key, path string) (*semver.Version, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := versionString(raw)
	if !ok {
		return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, key), "%s must be a version string or number", key)
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, document.NewParseError(document.ErrMalformedSchema, joinPath(path, key), "invalid version %q", s)
	}
	return v, nil
}

// ParseKeyedMatcher decodes a matcher leaf: {"key": ..., "scope": ...?, "value": ...}.
func ParseKeyedMatcher(obj map[string]any, path string) (KeyedMatcher, error) {
	rawKey, ok := obj[keyMatcherKey]
	if !ok {
		return KeyedMatcher{}, document.NewParseError(document.ErrMissingField, path, "matcher requires a key")
	}
	key, ok := rawKey.(string)
	if !ok {
		return KeyedMatcher{}, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyMatcherKey), "key must be a string")
	}

	scope := ""
	if rawScope, exists := obj[keyMatcherScope]; exists {
		scope, ok = rawScope.(string)
		if !ok {
			return KeyedMatcher{}, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyMatcherScope), "scope must be a string")
		}
	}

	rawValue, ok := obj[keyMatcherValue]
	if !ok {
		return KeyedMatcher{}, document.NewParseError(document.ErrMissingField, path, "matcher requires a value")
	}
	inner, err := ParseValueMatcher(rawValue, joinPath(path, keyMatcherValue))
	if err != nil {
		return KeyedMatcher{}, err
	}

	return KeyedMatcher{Scope: scope, Key: key, Matcher: inner}, nil
}

// MarshalJSON implements json.Marshaler.
func (m Equals) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{keyEquals: m.Expected})
}

// MarshalJSON implements json.Marshaler.
func (m Presence) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{keyIsPresent: m.Present})
}

// MarshalJSON implements json.Marshaler. The explicit type field keeps an
// unbounded range parseable, and keeps number and version ranges distinct
// on the wire.
func (m NumberRange) MarshalJSON() ([]byte, error) {
	obj := map[string]any{keyRangeType: rangeTypeNumber}
	if m.Min != nil {
		obj[keyAtLeast] = *m.Min
	}
	if m.Max != nil {
		obj[keyAtMost] = *m.Max
	}
	return json.Marshal(obj)
}

// MarshalJSON implements json.Marshaler. Versions serialize with their
// original spelling so partial versions like "1.2" survive a round trip.
func (m VersionRange) MarshalJSON() ([]byte, error) {
	obj := map[string]any{keyRangeType: rangeTypeVersion}
	if m.Min != nil {
		obj[keyAtLeast] = m.Min.Original()
	}
	if m.Max != nil {
		obj[keyAtMost] = m.Max.Original()
	}
	return json.Marshal(obj)
}

// MarshalJSON implements json.Marshaler.
func (m OneOf) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{keyOneOf: m.Values})
}

// MarshalJSON implements json.Marshaler.
func (m KeyedMatcher) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		keyMatcherKey:   m.Key,
		keyMatcherValue: m.Matcher,
	}
	if m.Scope != "" {
		obj[keyMatcherScope] = m.Scope
	}
	return json.Marshal(obj)
}

func hasKey(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}

func firstKey(obj map[string]any) string {
	for k := range obj {
		return k
	}
	return ""
}

func joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}

// Package matcher implements typed value matchers: the leaf comparisons a
// predicate tree applies to a single document value.
//
// Matching is total and fail-closed: a missing value, a wrongly-typed value,
// or a malformed version string never satisfies a constraint and never
// produces an error.
package matcher

import (
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/shobhitraaj/skytarget/internal/document"
)

// ValueMatcher evaluates a single document value against one typed rule.
// The value is optional: ok reports whether the key was present at all.
// The variant set is closed; parse performs the one key-driven dispatch.
type ValueMatcher interface {
	Evaluate(value document.Value, ok bool) bool

	valueMatcher()
}

// Equals matches when the value is present and type-sensitively equal to
// the expected value.
type Equals struct {
	Expected document.Value
}

func (Equals) valueMatcher() {}

// Evaluate implements ValueMatcher.
func (m Equals) Evaluate(value document.Value, ok bool) bool {
	return ok && document.Equal(value, m.Expected)
}

// Presence matches on whether the key exists with a non-null value.
// Present=false is the one matcher satisfied by an absent key.
type Presence struct {
	Present bool
}

func (Presence) valueMatcher() {}

// Evaluate implements ValueMatcher.
func (m Presence) Evaluate(value document.Value, ok bool) bool {
	present := ok && !document.IsNull(value)
	return present == m.Present
}

// NumberRange matches numbers within inclusive bounds. A nil bound is
// unbounded on that end.
type NumberRange struct {
	Min *float64
	Max *float64
}

func (NumberRange) valueMatcher() {}

// Evaluate implements ValueMatcher.
func (m NumberRange) Evaluate(value document.Value, ok bool) bool {
	if !ok {
		return false
	}
	n, isNumber := value.(float64)
	if !isNumber {
		return false
	}
	if m.Min != nil && n < *m.Min {
		return false
	}
	if m.Max != nil && n > *m.Max {
		return false
	}
	return true
}

// VersionRange matches dotted version values within inclusive bounds,
// ordered numerically per component (1.2.3 < 1.10.0). Missing components
// compare as zero. A nil bound is unbounded on that end.
type VersionRange struct {
	Min *semver.Version
	Max *semver.Version
}

func (VersionRange) valueMatcher() {}

// Evaluate implements ValueMatcher.
func (m VersionRange) Evaluate(value document.Value, ok bool) bool {
	if !ok {
		return false
	}
	raw, ok := versionString(value)
	if !ok {
		return false
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return false
	}
	if m.Min != nil && v.LessThan(m.Min) {
		return false
	}
	if m.Max != nil && v.GreaterThan(m.Max) {
		return false
	}
	return true
}

// versionString renders a document value as a candidate version string.
// Integer version codes are supported alongside dotted strings.
func versionString(value document.Value) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// OneOf matches when the value type-sensitively equals any member of the
// set. An empty set matches nothing.
type OneOf struct {
	Values []document.Value
}

func (OneOf) valueMatcher() {}

// Evaluate implements ValueMatcher.
func (m OneOf) Evaluate(value document.Value, ok bool) bool {
	if !ok {
		return false
	}
	for _, candidate := range m.Values {
		if document.Equal(value, candidate) {
			return true
		}
	}
	return false
}

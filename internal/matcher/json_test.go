package matcher

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/shobhitraaj/skytarget/internal/document"
)

func parseMatcherJSON(t *testing.T, raw string) (ValueMatcher, error) {
	t.Helper()
	v, err := document.FromJSON([]byte(raw))
	if err != nil {
		t.Fatalf("FromJSON(%s) error: %v", raw, err)
	}
	return ParseValueMatcher(v, "")
}

func TestParseValueMatcher(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ValueMatcher
	}{
		{name: "equals", raw: `{"equals": "vip"}`, want: Equals{Expected: "vip"}},
		{name: "equals null", raw: `{"equals": null}`, want: Equals{}},
		{name: "is_present", raw: `{"is_present": false}`, want: Presence{Present: false}},
		{name: "number range both bounds", raw: `{"at_least": 10, "at_most": 20}`, want: NumberRange{Min: floatPtr(10), Max: floatPtr(20)}},
		{name: "number range min only", raw: `{"at_least": 5}`, want: NumberRange{Min: floatPtr(5)}},
		{name: "explicit number type", raw: `{"type": "number"}`, want: NumberRange{}},
		{name: "one_of", raw: `{"one_of": ["a", 2]}`, want: OneOf{Values: []document.Value{"a", float64(2)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMatcherJSON(t, tt.raw)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parsed %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseValueMatcher_VersionRange(t *testing.T) {
	got, err := parseMatcherJSON(t, `{"type": "version", "at_least": "1.2", "at_most": "2.0.0"}`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	vr, ok := got.(VersionRange)
	if !ok {
		t.Fatalf("parsed %T, want VersionRange", got)
	}
	if vr.Min.Original() != "1.2" || vr.Max.Original() != "2.0.0" {
		t.Fatalf("bounds = %q..%q", vr.Min.Original(), vr.Max.Original())
	}

	// Integer bounds are accepted for version ranges.
	got, err = parseMatcherJSON(t, `{"type": "version", "at_least": 2}`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if vr := got.(VersionRange); vr.Min.Major() != 2 {
		t.Fatalf("Min = %v, want 2.0.0", vr.Min)
	}
}

func TestParseValueMatcher_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind document.ErrorKind
	}{
		{name: "not an object", raw: `["equals"]`, wantKind: document.ErrTypeMismatch},
		{name: "empty object", raw: `{}`, wantKind: document.ErrMissingField},
		{name: "unknown kind", raw: `{"approximately": 5}`, wantKind: document.ErrUnknownKey},
		{name: "is_present wrong type", raw: `{"is_present": "yes"}`, wantKind: document.ErrTypeMismatch},
		{name: "one_of wrong type", raw: `{"one_of": "a"}`, wantKind: document.ErrTypeMismatch},
		{name: "number bound wrong type", raw: `{"at_least": "ten"}`, wantKind: document.ErrTypeMismatch},
		{name: "unknown range type", raw: `{"type": "date", "at_least": 1}`, wantKind: document.ErrUnknownKey},
		{name: "malformed version bound", raw: `{"type": "version", "at_least": "x.y"}`, wantKind: document.ErrMalformedSchema},
		{name: "version bound wrong type", raw: `{"type": "version", "at_least": true}`, wantKind: document.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMatcherJSON(t, tt.raw)
			var pe *document.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if pe.Kind != tt.wantKind {
				t.Fatalf("Kind = %s, want %s (err: %v)", pe.Kind, tt.wantKind, pe)
			}
		})
	}
}

func TestParseKeyedMatcher(t *testing.T) {
	v, err := document.FromJSON([]byte(`{"key": "version", "scope": "app", "value": {"at_least": 10}}`))
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}
	got, err := ParseKeyedMatcher(v.(map[string]any), "")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := KeyedMatcher{Scope: "app", Key: "version", Matcher: NumberRange{Min: floatPtr(10)}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parsed %#v, want %#v", got, want)
	}

	errCases := []struct {
		name     string
		raw      string
		wantKind document.ErrorKind
	}{
		{name: "missing key", raw: `{"value": {"equals": 1}}`, wantKind: document.ErrMissingField},
		{name: "key wrong type", raw: `{"key": 1, "value": {"equals": 1}}`, wantKind: document.ErrTypeMismatch},
		{name: "scope wrong type", raw: `{"key": "k", "scope": 2, "value": {"equals": 1}}`, wantKind: document.ErrTypeMismatch},
		{name: "missing value", raw: `{"key": "k"}`, wantKind: document.ErrMissingField},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			v, err := document.FromJSON([]byte(tt.raw))
			if err != nil {
				t.Fatalf("FromJSON error: %v", err)
			}
			_, err = ParseKeyedMatcher(v.(map[string]any), "")
			var pe *document.ParseError
			if !errors.As(err, &pe) || pe.Kind != tt.wantKind {
				t.Fatalf("err = %v, want kind %s", err, tt.wantKind)
			}
		})
	}
}

func TestValueMatcher_RoundTrip(t *testing.T) {
	matchers := []ValueMatcher{
		Equals{Expected: "vip"},
		Equals{Expected: float64(3)},
		Presence{Present: true},
		Presence{Present: false},
		NumberRange{Min: floatPtr(1.5)},
		NumberRange{Min: floatPtr(5), Max: floatPtr(10)},
		NumberRange{},
		VersionRange{Min: mustVersion(t, "1.2"), Max: mustVersion(t, "2.0.0")},
		VersionRange{Max: mustVersion(t, "10")},
		OneOf{Values: []document.Value{"a", float64(1), true}},
	}

	for _, m := range matchers {
		data, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal %#v: %v", m, err)
		}
		got, err := parseMatcherJSON(t, string(data))
		if err != nil {
			t.Fatalf("reparse of %s: %v", data, err)
		}
		if !reflect.DeepEqual(got, m) {
			t.Fatalf("round trip changed %#v into %#v (wire %s)", m, got, data)
		}
	}
}

func TestKeyedMatcher_RoundTrip(t *testing.T) {
	m := KeyedMatcher{Scope: "app", Key: "version", Matcher: NumberRange{Min: floatPtr(10), Max: floatPtr(20)}}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	v, err := document.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}
	got, err := ParseKeyedMatcher(v.(map[string]any), "")
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip changed %#v into %#v", m, got)
	}
}

package tagselector

import (
	"encoding/json"
	"fmt"

	"github.com/shobhitraaj/skytarget/internal/document"
)

const (
	keyTag = "tag"
	keyAnd = "and"
	keyOr  = "or"
	keyNot = "not"
)

// Parse decodes raw JSON into a tag selector tree. Failures surface as
// *document.ParseError values carrying the offending path.
func Parse(data []byte) (Selector, error) {
	v, err := document.FromJSON(data)
	if err != nil {
		return nil, document.NewParseError(document.ErrMalformedSchema, "", "invalid JSON: %v", err)
	}
	return ParseValue(v, "")
}

// ParseValue decodes an already-parsed document fragment rooted at path.
func ParseValue(v document.Value, path string) (Selector, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, document.NewParseError(document.ErrTypeMismatch, path, "tag selector must be an object, got %T", v)
	}

	switch {
	case hasKey(obj, keyTag):
		name, ok := obj[keyTag].(string)
		if !ok {
			return nil, document.NewParseError(document.ErrTypeMismatch, joinPath(path, keyTag), "tag must be a string")
		}
		return Tag{Name: name}, nil

	case hasKey(obj, keyAnd):
		children, err := parseChildren(obj[keyAnd], joinPath(path, keyAnd))
		if err != nil {
			return nil, err
		}
		return And{Children: children}, nil

	case hasKey(obj, keyOr):
		children, err := parseChildren(obj[keyOr], joinPath(path, keyOr))
		if err != nil {
			return nil, err
		}
		return Or{Children: children}, nil

	case hasKey(obj, keyNot):
		child, err := ParseValue(obj[keyNot], joinPath(path, keyNot))
		if err != nil {
			return nil, err
		}
		return Not{Child: child}, nil

	default:
		if len(obj) == 0 {
			return nil, document.NewParseError(document.ErrMissingField, path, "tag selector is empty")
		}
		return nil, document.NewParseError(document.ErrUnknownKey, path, "unknown selector %q", firstKey(obj))
	}
}

func parseChildren(v document.Value, path string) ([]Selector, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, document.NewParseError(document.ErrTypeMismatch, path, "combinator value must be a list, got %T", v)
	}
	children := make([]Selector, 0, len(list))
	for i, item := range list {
		child, err := ParseValue(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// MarshalJSON implements json.Marshaler.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{keyTag: t.Name})
}

// MarshalJSON implements json.Marshaler.
func (a And) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Selector{keyAnd: nonNil(a.Children)})
}

// MarshalJSON implements json.Marshaler.
func (o Or) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Selector{keyOr: nonNil(o.Children)})
}

// MarshalJSON implements json.Marshaler.
func (n Not) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Selector{keyNot: n.Child})
}

func nonNil(children []Selector) []Selector {
	if children == nil {
		return []Selector{}
	}
	return children
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

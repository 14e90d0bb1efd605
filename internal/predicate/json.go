package predicate

import (
	"encoding/json"
	"fmt"

	"github.com/shobhitraaj/skytarget/internal/document"
	"github.com/shobhitraaj/skytarget/internal/matcher"
)

const (
	keyAnd = "and"
	keyOr  = "or"
	keyNot = "not"
	keyKey = "key"
)

// Parse decodes raw JSON into a predicate tree. Parsing is atomic: it either
// fails with a *document.ParseError carrying the offending path, or returns
// a fully valid immutable tree.
func Parse(data []byte) (Node, error) {
	v, err := document.FromJSON(data)
	if err != nil {
		return nil, document.NewParseError(document.ErrMalformedSchema, "", "invalid JSON: %v", err)
	}
	return ParseValue(v, "")
}

// ParseValue decodes an already-parsed document fragment rooted at path.
func ParseValue(v document.Value, path string) (Node, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, document.NewParseError(document.ErrTypeMismatch, path, "predicate node must be an object, got %T", v)
	}

	switch {
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

	case hasKey(obj, keyKey):
		m, err := matcher.ParseKeyedMatcher(obj, path)
		if err != nil {
			return nil, err
		}
		return Match{Matcher: m}, nil

	default:
		if len(obj) == 0 {
			return nil, document.NewParseError(document.ErrMissingField, path, "predicate node is empty")
		}
		return nil, document.NewParseError(document.ErrUnknownKey, path, "unknown combinator %q", firstKey(obj))
	}
}

func parseChildren(v document.Value, path string) ([]Node, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, document.NewParseError(document.ErrTypeMismatch, path, "combinator value must be a list, got %T", v)
	}
	children := make([]Node, 0, len(list))
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
func (n Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Matcher)
}

// MarshalJSON implements json.Marshaler.
func (n And) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Node{keyAnd: nonNil(n.Children)})
}

// MarshalJSON implements json.Marshaler.
func (n Or) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Node{keyOr: nonNil(n.Children)})
}

// MarshalJSON implements json.Marshaler.
func (n Not) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Node{keyNot: n.Child})
}

func nonNil(children []Node) []Node {
	if children == nil {
		return []Node{}
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

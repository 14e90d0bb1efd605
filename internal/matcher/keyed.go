package matcher

import "github.com/shobhitraaj/skytarget/internal/document"

// KeyedMatcher binds a ValueMatcher to a key path inside a document map.
// Navigation descends into Scope first (when set), then Key. A missing
// segment propagates as an absent value, never as an error, so only
// Presence{Present: false} can be satisfied by absence.
type KeyedMatcher struct {
	Scope   string
	Key     string
	Matcher ValueMatcher
}

// Evaluate looks up the matcher's key path in doc and applies the inner
// value matcher to whatever it finds.
func (m KeyedMatcher) Evaluate(doc document.Value) bool {
	root := doc
	if m.Scope != "" {
		scoped, ok := document.Lookup(doc, m.Scope)
		if !ok {
			return m.Matcher.Evaluate(nil, false)
		}
		root = scoped
	}
	value, ok := document.Lookup(root, m.Key)
	return m.Matcher.Evaluate(value, ok)
}

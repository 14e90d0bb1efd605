// Package predicate implements the boolean predicate tree evaluated against
// a document value: AND/OR/NOT combinators over keyed value matchers.
//
// Trees are immutable once parsed and safe for concurrent evaluation; the
// parse/serialize pair satisfies a round-trip law (parsing a serialized tree
// yields a structurally equal tree).
package predicate

import (
	"github.com/shobhitraaj/skytarget/internal/document"
	"github.com/shobhitraaj/skytarget/internal/matcher"
)

// Node is one node of a predicate tree. The combinator set is closed:
// Match, And, Or, Not.
type Node interface {
	// Evaluate reports whether doc satisfies this subtree. Evaluation is
	// total: it never errors and never panics on malformed documents.
	Evaluate(doc document.Value) bool

	node()
}

// Match delegates to a keyed value matcher.
type Match struct {
	Matcher matcher.KeyedMatcher
}

func (Match) node() {}

// Evaluate implements Node.
func (n Match) Evaluate(doc document.Value) bool {
	return n.Matcher.Evaluate(doc)
}

// And is true iff every child is true. An empty AND is vacuously true.
type And struct {
	Children []Node
}

func (And) node() {}

// Evaluate implements Node. Children are checked left to right and the
// scan stops at the first false child.
func (n And) Evaluate(doc document.Value) bool {
	for _, child := range n.Children {
		if !child.Evaluate(doc) {
			return false
		}
	}
	return true
}

// Or is true iff any child is true. An empty OR is false.
type Or struct {
	Children []Node
}

func (Or) node() {}

// Evaluate implements Node. Children are checked left to right and the
// scan stops at the first true child.
func (n Or) Evaluate(doc document.Value) bool {
	for _, child := range n.Children {
		if child.Evaluate(doc) {
			return true
		}
	}
	return false
}

// Not negates its child.
type Not struct {
	Child Node
}

func (Not) node() {}

// Evaluate implements Node.
func (n Not) Evaluate(doc document.Value) bool {
	return !n.Child.Evaluate(doc)
}

// Package tagselector implements boolean selection over a set of channel
// tags: AND/OR/NOT combinators whose leaves are exact, case-sensitive tag
// membership tests. It is structurally similar to package predicate but
// needs no key navigation or value-matcher polymorphism, so it carries its
// own schema and its own variant set.
package tagselector

// TagSet is the set of tags a selector is evaluated against.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from individual tags.
func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

// Contains reports exact membership.
func (s TagSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Selector is one node of a tag selector tree. The variant set is closed:
// Tag, And, Or, Not.
type Selector interface {
	// Evaluate reports whether tags satisfies this subtree.
	Evaluate(tags TagSet) bool

	selector()
}

// Tag matches when the tag is a member of the evaluated set.
type Tag struct {
	Name string
}

func (Tag) selector() {}

// Evaluate implements Selector.
func (t Tag) Evaluate(tags TagSet) bool {
	return tags.Contains(t.Name)
}

// And is true iff every child is true. An empty AND is vacuously true.
type And struct {
	Children []Selector
}

func (And) selector() {}

// Evaluate implements Selector.
func (a And) Evaluate(tags TagSet) bool {
	for _, child := range a.Children {
		if !child.Evaluate(tags) {
			return false
		}
	}
	return true
}

// Or is true iff any child is true. An empty OR is false.
type Or struct {
	Children []Selector
}

func (Or) selector() {}

// Evaluate implements Selector.
func (o Or) Evaluate(tags TagSet) bool {
	for _, child := range o.Children {
		if child.Evaluate(tags) {
			return true
		}
	}
	return false
}

// Not negates its child.
type Not struct {
	Child Selector
}

func (Not) selector() {}

// Evaluate implements Selector.
func (n Not) Evaluate(tags TagSet) bool {
	return !n.Child.Evaluate(tags)
}

package parttree

import "strings"

// Tag is a bitset of category labels attached to a tree node. Membership in
// a logical category is set intersection, never position in the tree, so a
// node can simultaneously be a grouping unit and carry the object or image
// marker.
type Tag uint32

const (
	TagRoot Tag = 1 << iota
	TagGroup
	TagElement
	TagLens
	TagMirror
	TagThinLens
	TagSpace
	TagAirgap
	TagAssembly
	TagDummyIfc
	TagIfc
	TagGap
	TagProfile
	TagThic
	TagSurface
	TagObject
	TagImage
	TagStop
)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{TagRoot, "root"},
	{TagGroup, "group"},
	{TagElement, "element"},
	{TagLens, "lens"},
	{TagMirror, "mirror"},
	{TagThinLens, "thinlens"},
	{TagSpace, "space"},
	{TagAirgap, "airgap"},
	{TagDummyIfc, "dummyifc"},
	{TagAssembly, "assembly"},
	{TagIfc, "ifc"},
	{TagGap, "gap"},
	{TagProfile, "p"},
	{TagThic, "t"},
	{TagSurface, "surface"},
	{TagObject, "object"},
	{TagImage, "image"},
	{TagStop, "stop"},
}

// Has reports whether any of the labels in q are present.
func (t Tag) Has(q Tag) bool { return t&q != 0 }

// With returns t with the labels in q added.
func (t Tag) With(q Tag) Tag { return t | q }

// Without returns t with the labels in q removed.
func (t Tag) Without(q Tag) Tag { return t &^ q }

// Strings returns the individual label names, in declaration order.
func (t Tag) Strings() []string {
	var out []string
	for _, tn := range tagNames {
		if t&tn.tag != 0 {
			out = append(out, tn.name)
		}
	}
	return out
}

func (t Tag) String() string {
	names := t.Strings()
	if len(names) == 0 {
		return ""
	}
	return "#" + strings.Join(names, "#")
}

// ParseTags converts label names back into a Tag set. Unknown names are
// ignored so newer payloads degrade instead of failing.
func ParseTags(names []string) Tag {
	var t Tag
	for _, name := range names {
		for _, tn := range tagNames {
			if tn.name == name {
				t |= tn.tag
				break
			}
		}
	}
	return t
}

// TagFilter is a predicate over tag sets: at least one label of Any must be
// present and no label of None may be.
type TagFilter struct {
	Any  Tag
	None Tag
}

// Matches applies the filter to a tag set.
func (f TagFilter) Matches(t Tag) bool {
	return t.Has(f.Any) && !t.Has(f.None)
}

// DefaultParentFilter selects the grouping ancestors used when resolving
// the owning part of an interface or gap.
var DefaultParentFilter = TagFilter{Any: TagElement | TagSpace | TagDummyIfc}

// reorderFilter selects the ancestors considered when canonicalizing
// sibling order from the sequence.
var reorderFilter = TagFilter{Any: TagElement | TagSpace | TagAirgap | TagDummyIfc | TagGroup}

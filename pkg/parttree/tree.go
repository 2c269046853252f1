package parttree

import (
	"github.com/optikit/optikit/pkg/sequence"
)

// Tree is the owning structure for the part hierarchy: a root node plus an
// identity index so lookups do not scan the whole tree on every
// reconciliation step.
type Tree struct {
	Root *Node

	index map[any]*Node
}

// New returns a tree holding only the root node. The root is created once
// per model and never destroyed.
func New() *Tree {
	return &Tree{
		Root:  NewNode("root", nil, TagRoot|TagGroup),
		index: make(map[any]*Node),
	}
}

// IsEmpty reports whether the tree holds nothing but the root.
func (t *Tree) IsEmpty() bool {
	return len(t.Root.children) == 0
}

// Node returns the node paired with id, or nil.
func (t *Tree) Node(id any) *Node {
	if id == nil {
		return nil
	}
	return t.index[id]
}

// NodeByName returns the first node with the given name in preorder, or
// nil.
func (t *Tree) NodeByName(name string) *Node {
	return t.Root.FindName(name)
}

// ObjByName returns the identity paired with the named node.
func (t *Tree) ObjByName(name string) (any, bool) {
	n := t.NodeByName(name)
	if n == nil {
		return nil, false
	}
	return n.ID, true
}

// NodesWithTags returns the nodes matching f, in preorder.
func (t *Tree) NodesWithTags(f TagFilter) []*Node {
	return NodesUnder(t.Root, f)
}

// NodesUnder returns the nodes of root's subtree matching f, in preorder.
func NodesUnder(root *Node, f TagFilter) []*Node {
	var out []*Node
	root.Walk(func(n *Node) {
		if f.Matches(n.Tags) {
			out = append(out, n)
		}
	})
	return out
}

// FilterNodes returns the members of list matching f, preserving order.
func FilterNodes(list []*Node, f TagFilter) []*Node {
	var out []*Node
	for _, n := range list {
		if f.Matches(n.Tags) {
			out = append(out, n)
		}
	}
	return out
}

// InitFromSequence creates one interface leaf and one gap leaf per
// sequence position, attached directly under root. Run once, only when the
// tree is empty; parts built later adopt these leaves through the AddPart
// de-duplication pass.
func (t *Tree) InitFromSequence(seq *sequence.Model) {
	if !t.IsEmpty() {
		return
	}
	for i, ifc := range seq.Ifcs {
		n := NewNode(ifcName(i), ifc, TagIfc)
		n.AttachTo(t.Root)
		t.index[n.ID] = n
		if i < len(seq.Gaps) {
			key := sequence.GapKey{Gap: seq.Gaps[i], ZDir: seq.ZDirAt(i)}
			g := NewNode(gapName(i), key, TagGap)
			g.AttachTo(t.Root)
			t.index[g.ID] = g
		}
	}
}

// ReorderFromSequence rebuilds sibling order at every grouping node to
// match ascending sequence order. For each interface and gap, the path to
// root is filtered down to grouping-type nodes and each parent/child pair
// on it is recorded in first-seen order; the recorded lists then replace
// the groups' child lists. Children of a grouping node not reached by any
// sequence entry are dropped from the tree. Re-run after every structural
// change; running it twice in a row is a no-op.
func (t *Tree) ReorderFromSequence(seq *sequence.Model) {
	groups := make(map[*Node][]*Node)
	var order []*Node

	parsePath := func(path []*Node) {
		for i := 1; i < len(path); i++ {
			parent, node := path[i-1], path[i]
			kids, seen := groups[parent]
			if !seen {
				order = append(order, parent)
			}
			if !containsNode(kids, node) {
				groups[parent] = append(kids, node)
			}
		}
	}

	for i, ifc := range seq.Ifcs {
		if n := t.Node(ifc); n != nil {
			parsePath(FilterNodes(n.PathToRoot(), reorderFilter))
		}
		if i < len(seq.Gaps) {
			key := sequence.GapKey{Gap: seq.Gaps[i], ZDir: seq.ZDirAt(i)}
			if n := t.Node(key); n != nil {
				parsePath(FilterNodes(n.PathToRoot(), reorderFilter))
			}
		}
	}

	for _, group := range order {
		kids := groups[group]
		for _, c := range group.Children() {
			if !containsNode(kids, c) {
				t.unindexSubtree(c)
			}
		}
		group.SetChildren(kids)
	}
}

// AddPart attaches a part's node subtree under root. Before attaching, any
// node elsewhere in the tree sharing an identity with a leaf of the
// incoming subtree is detached, so each identity is represented by exactly
// one node at any time.
func (t *Tree) AddPart(part *Node) *Node {
	for _, leaf := range part.Leaves() {
		if leaf.ID == nil {
			continue
		}
		if dup := t.index[leaf.ID]; dup != nil && dup != leaf {
			dup.Detach()
			t.unindexSubtree(dup)
		}
	}
	part.AttachTo(t.Root)
	t.indexSubtree(part)
	return part
}

// RemovePart detaches the part's node and returns its orphaned children.
// The orphans stay indexed; callers must re-home the ones that survive
// (typically as leaves directly under root) or discard them with
// DropSubtree before the next reorder.
func (t *Tree) RemovePart(n *Node) []*Node {
	orphans := append([]*Node(nil), n.Children()...)
	for _, c := range orphans {
		c.Detach()
	}
	n.Detach()
	if n.ID != nil && t.index[n.ID] == n {
		delete(t.index, n.ID)
	}
	return orphans
}

// Rehome attaches a detached subtree directly under root and ensures it is
// indexed.
func (t *Tree) Rehome(n *Node) {
	n.AttachTo(t.Root)
	t.indexSubtree(n)
}

// DropSubtree removes a detached subtree from the identity index.
func (t *Tree) DropSubtree(n *Node) {
	t.unindexSubtree(n)
}

// TrimBranch removes the leaf for id, then walks upward removing each
// ancestor while it has no remaining children, stopping at the first
// ancestor that still has other children under it.
func (t *Tree) TrimBranch(id any) {
	leaf := t.Node(id)
	if leaf == nil || leaf == t.Root {
		return
	}
	// climb to the highest ancestor that the removal leaves childless,
	// never past root
	for p := leaf.Parent(); p != nil && p != t.Root && len(p.Children()) == 1; p = leaf.Parent() {
		leaf = p
	}
	leaf.Detach()
	t.unindexSubtree(leaf)
}

// ResolveParent returns the nearest strict ancestor of id's node whose
// tags match f, or nil.
func (t *Tree) ResolveParent(id any, f TagFilter) *Node {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	return n.Ancestor(f)
}

// ParentObject returns the identity held by the resolved parent, along
// with the node itself.
func (t *Tree) ParentObject(id any, f TagFilter) (any, *Node) {
	p := t.ResolveParent(id, f)
	if p == nil {
		return nil, nil
	}
	return p.ID, p
}

// RetagObjectImage ensures exactly one eligible node carries the object
// tag (the grouping parent of the first sequence interface and gap) and
// exactly one carries the image tag (parent of the last). The pass is
// idempotent: it strips the tag from every other candidate.
func (t *Tree) RetagObjectImage(seq *sequence.Model) {
	if len(seq.Ifcs) == 0 {
		return
	}
	firstIfc, lastIfc := seq.Ifcs[0], seq.Ifcs[len(seq.Ifcs)-1]
	t.retag(TagObject, TagSpace|TagAirgap, firstIfc)
	t.retag(TagImage, TagSpace|TagAirgap, lastIfc)
	if len(seq.Gaps) > 0 {
		firstGap, lastGap := seq.Gaps[0], seq.Gaps[len(seq.Gaps)-1]
		t.retag(TagObject, TagDummyIfc|TagSurface, firstGap)
		t.retag(TagImage, TagDummyIfc|TagSurface, lastGap)
	}
}

// retag enforces single ownership of oiTag among the candidates matching
// it (excluding exclude), transferring it to the grouping parent of owner.
func (t *Tree) retag(oiTag, exclude Tag, owner any) {
	candidates := t.NodesWithTags(TagFilter{Any: oiTag, None: exclude})
	target := t.ResolveParent(owner, DefaultParentFilter)
	found := false
	for _, n := range candidates {
		if n != target {
			n.Tags = n.Tags.Without(oiTag)
		} else {
			found = true
		}
	}
	if !found && target != nil {
		target.Tags = target.Tags.With(oiTag)
	}
}

// Rebind changes a node's identity, keeping the index consistent.
func (t *Tree) Rebind(n *Node, id any) {
	if n.ID != nil && t.index[n.ID] == n {
		delete(t.index, n.ID)
	}
	n.ID = id
	if id != nil {
		t.index[id] = n
	}
}

func (t *Tree) indexSubtree(n *Node) {
	n.Walk(func(nd *Node) {
		if nd.ID != nil {
			t.index[nd.ID] = nd
		}
	})
}

func (t *Tree) unindexSubtree(n *Node) {
	n.Walk(func(nd *Node) {
		if nd.ID != nil && t.index[nd.ID] == nd {
			delete(t.index, nd.ID)
		}
	})
}

func containsNode(list []*Node, n *Node) bool {
	for _, m := range list {
		if m == n {
			return true
		}
	}
	return false
}

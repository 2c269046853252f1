// Package parttree implements the hierarchical overlay that groups
// sequence interfaces and gaps into physically meaningful parts. The tree
// is the freely mutable shared state between the sequence editor, the
// element registry and query code; it provides no locking of its own.
package parttree

import "fmt"

// Node is a lightweight tree vertex. ID is the identity of the domain
// object the node stands for: a live pointer (interface, profile, gap,
// part) or a comparable composite key such as sequence.GapKey. Identity is
// compared with ==, never by name.
type Node struct {
	ID   any
	Name string
	Tags Tag

	parent   *Node
	children []*Node
}

// NewNode returns a detached node.
func NewNode(name string, id any, tags Tag) *Node {
	return &Node{ID: id, Name: name, Tags: tags}
}

// Parent returns the node's parent, nil for the root or a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in sibling order. The slice is the
// node's own backing store; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// AttachTo makes n the last child of p, detaching it from any previous
// parent first.
func (n *Node) AttachTo(p *Node) {
	n.Detach()
	n.parent = p
	p.children = append(p.children, n)
}

// Detach removes n from its parent, keeping n's own subtree intact.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// SetChildren replaces the node's child list with cs, fixing up parent
// links. Used by the reorder pass to rewrite sibling order wholesale.
func (n *Node) SetChildren(cs []*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = append(n.children[:0:0], cs...)
	for _, c := range n.children {
		if old := c.parent; old != nil && old != n {
			c.Detach()
		}
		c.parent = n
	}
}

// PathToRoot returns the chain root..n, root first.
func (n *Node) PathToRoot() []*Node {
	var rev []*Node
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, cur)
	}
	path := make([]*Node, len(rev))
	for i, nd := range rev {
		path[len(rev)-1-i] = nd
	}
	return path
}

// Ancestor walks up the parent chain starting above n and returns the
// first node matching f, or nil.
func (n *Node) Ancestor(f TagFilter) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if f.Matches(p.Tags) {
			return p
		}
	}
	return nil
}

// Walk visits the subtree rooted at n in preorder.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.children {
		c.Walk(visit)
	}
}

// Preorder returns the subtree rooted at n as a preorder slice.
func (n *Node) Preorder() []*Node {
	var out []*Node
	n.Walk(func(nd *Node) { out = append(out, nd) })
	return out
}

// Leaves returns the leaf nodes of n's subtree in preorder.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(nd *Node) {
		if len(nd.children) == 0 {
			out = append(out, nd)
		}
	})
	return out
}

// FindName returns the first node in n's subtree with the given name, in
// preorder, or nil.
func (n *Node) FindName(name string) *Node {
	var found *Node
	n.Walk(func(nd *Node) {
		if found == nil && nd.Name == name {
			found = nd
		}
	})
	return found
}

func (n *Node) String() string {
	return fmt.Sprintf("%s%s", n.Name, n.Tags)
}

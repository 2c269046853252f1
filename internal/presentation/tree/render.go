// Package tree renders a part tree for the terminal and exports it as a
// Mermaid diagram.
package tree

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/optikit/optikit/pkg/parttree"
)

// Renderer writes an indented tree view with per-category colors. Colors
// degrade automatically on terminals without profile support.
type Renderer struct {
	profile termenv.Profile
	// ShowTags appends the tag set after each node name.
	ShowTags bool
}

// NewRenderer returns a renderer using the ambient terminal color profile.
func NewRenderer() *Renderer {
	return &Renderer{profile: termenv.ColorProfile()}
}

// Render writes the subtree rooted at n to w.
func (r *Renderer) Render(w io.Writer, n *parttree.Node) error {
	if err := r.renderNode(w, n, "", true, true); err != nil {
		return err
	}
	return nil
}

func (r *Renderer) renderNode(w io.Writer, n *parttree.Node, prefix string, last, isRoot bool) error {
	connector, childPrefix := "", ""
	if !isRoot {
		if last {
			connector = prefix + "└── "
			childPrefix = prefix + "    "
		} else {
			connector = prefix + "├── "
			childPrefix = prefix + "│   "
		}
	}
	label := r.colorize(n)
	if r.ShowTags {
		label += " " + r.dim(n.Tags.String())
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", connector, label); err != nil {
		return err
	}
	kids := n.Children()
	for i, c := range kids {
		if err := r.renderNode(w, c, childPrefix, i == len(kids)-1, false); err != nil {
			return err
		}
	}
	return nil
}

// Color scheme: grouping nodes get saturated colors, sequence leaves stay
// faint so the part structure dominates the view.
func (r *Renderer) colorize(n *parttree.Node) string {
	s := termenv.String(n.Name)
	switch {
	case n.Tags.Has(parttree.TagRoot):
		return s.Bold().String()
	case n.Tags.Has(parttree.TagAssembly):
		return s.Foreground(r.profile.Color("#c084fc")).Bold().String()
	case n.Tags.Has(parttree.TagObject | parttree.TagImage):
		return s.Foreground(r.profile.Color("#fbbf24")).String()
	case n.Tags.Has(parttree.TagSpace):
		return s.Foreground(r.profile.Color("#22d3ee")).String()
	case n.Tags.Has(parttree.TagDummyIfc):
		return s.Foreground(r.profile.Color("#f472b6")).String()
	case n.Tags.Has(parttree.TagElement):
		return s.Foreground(r.profile.Color("#4ade80")).String()
	case n.Tags.Has(parttree.TagIfc | parttree.TagGap):
		return s.Faint().String()
	default:
		return s.String()
	}
}

func (r *Renderer) dim(s string) string {
	return termenv.String(s).Faint().String()
}

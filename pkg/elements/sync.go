package elements

import (
	"strings"

	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

// SyncTreeNames refreshes node names and derived identities after
// out-of-band sequence edits: interface and gap leaves are renamed to
// their current positional names, gap keys pick up the current propagation
// direction, profile and thickness nodes are re-pointed at their parent
// part's current lists, and part nodes track their part's label.
func SyncTreeNames(t *parttree.Tree, seq *sequence.Model, reg *Registry) {
	t.Root.Walk(func(n *parttree.Node) {
		switch {
		case n.ID == nil:
			// root

		case n.Tags.Has(parttree.TagIfc):
			ifc, ok := n.ID.(*sequence.Interface)
			if !ok {
				return
			}
			idx := seq.IndexOfIfc(ifc)
			if idx < 0 {
				return
			}
			if strings.HasPrefix(n.Name, "tl") {
				n.Name = parttree.ThinLensName(idx)
			} else {
				n.Name = parttree.IfcName(idx)
			}

		case n.Tags.Has(parttree.TagGap):
			key, ok := n.ID.(sequence.GapKey)
			if !ok {
				return
			}
			idx := seq.IndexOfGap(key.Gap)
			if idx < 0 {
				return
			}
			if zdir := seq.ZDirAt(idx); zdir != key.ZDir {
				t.Rebind(n, sequence.GapKey{Gap: key.Gap, ZDir: zdir})
			}
			n.Name = parttree.GapName(idx)

		case n.Tags.Has(parttree.TagProfile):
			part := parentPart(n)
			if part == nil {
				return
			}
			if idx, ok := ordinal(n.Name, "p"); ok {
				if ps := part.Profiles(); idx < len(ps) {
					t.Rebind(n, ps[idx])
				}
			}

		case n.Tags.Has(parttree.TagThic):
			part := parentPart(n)
			if part == nil {
				return
			}
			if idx, ok := ordinal(n.Name, "t"); ok {
				if gs := part.InternalGaps(); idx < len(gs) {
					t.Rebind(n, gs[idx])
				}
			}

		default:
			if p, ok := n.ID.(Part); ok {
				n.Name = p.Label()
			}
		}
	})
}

// ordinal resolves a 1-based positional name ("p2", "t") to a 0-based
// list index; a bare prefix means the part has a single entry.
func ordinal(name, prefix string) (int, bool) {
	n, ok := parttree.ParseIndexedName(name, prefix)
	if !ok {
		return 0, false
	}
	if n == 0 {
		return 0, true
	}
	return n - 1, true
}

func parentPart(n *parttree.Node) Part {
	p := n.Parent()
	if p == nil {
		return nil
	}
	part, _ := p.ID.(Part)
	return part
}

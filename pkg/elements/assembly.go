package elements

import (
	"fmt"
	"sort"

	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

// Assembly groups existing parts into a larger unit (a barrel, a doublet
// cell). Unlike elements, assemblies do not own sequence entries; their
// signature is the union of their constituents'.
type Assembly struct {
	labeled
	Parts []Part
}

// NewAssembly groups the given parts.
func NewAssembly(parts ...Part) *Assembly {
	return &Assembly{Parts: parts}
}

func (a *Assembly) Signature(seq *sequence.Model) Signature {
	sig := Signature{Kind: KindAssembly}
	for _, p := range a.Parts {
		ps := p.Signature(seq)
		sig.Ifcs = append(sig.Ifcs, ps.Ifcs...)
		sig.Gaps = append(sig.Gaps, ps.Gaps...)
	}
	sort.Ints(sig.Ifcs)
	sort.Ints(sig.Gaps)
	return sig
}

// MakeTree builds the assembly node only; constituent part nodes are
// re-parented under it by the caller (the parts already live in the tree).
func (a *Assembly) MakeTree(seq *sequence.Model, zdir sequence.ZDir, extra parttree.Tag) *parttree.Node {
	return parttree.NewNode(a.label, a, parttree.TagGroup|parttree.TagAssembly|extra)
}

func (a *Assembly) SyncToSignature(seq *sequence.Model, sig Signature) error {
	return fmt.Errorf("elements: %s does not sync to signatures", KindAssembly)
}

func (a *Assembly) ReferenceIdx(seq *sequence.Model) int {
	ref := -1
	for _, p := range a.Parts {
		if idx := p.ReferenceIdx(seq); idx >= 0 && (ref < 0 || idx < ref) {
			ref = idx
		}
	}
	return ref
}

func (a *Assembly) Profiles() []*sequence.Profile { return nil }

func (a *Assembly) InternalGaps() []*sequence.Gap { return nil }

// ConstituentSignatures lists the structural signatures of the assembly's
// parts, keyed for diffing against parser output.
func (a *Assembly) ConstituentSignatures(seq *sequence.Model) []Signature {
	sigs := make([]Signature, 0, len(a.Parts))
	for _, p := range a.Parts {
		sigs = append(sigs, p.Signature(seq))
	}
	return sigs
}

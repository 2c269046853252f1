package elements

import (
	"fmt"

	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

func ifcAt(seq *sequence.Model, i int) (*sequence.Interface, error) {
	if i < 0 || i >= len(seq.Ifcs) {
		return nil, fmt.Errorf("elements: interface index %d out of range [0,%d)", i, len(seq.Ifcs))
	}
	return seq.Ifcs[i], nil
}

func gapAt(seq *sequence.Model, i int) (*sequence.Gap, error) {
	if i < 0 || i >= len(seq.Gaps) {
		return nil, fmt.Errorf("elements: gap index %d out of range [0,%d)", i, len(seq.Gaps))
	}
	return seq.Gaps[i], nil
}

// Element is a single lens: two refracting surfaces bounding one non-air
// gap.
type Element struct {
	labeled
	S1, S2  *sequence.Interface
	Gap     *sequence.Gap
	Sd      float64 // semi-diameter
	Flipped bool
}

// NewElement builds a lens element over the given surfaces and gap.
func NewElement(s1, s2 *sequence.Interface, g *sequence.Gap) *Element {
	sd := s1.SurfaceOD()
	if od := s2.SurfaceOD(); od > sd {
		sd = od
	}
	return &Element{S1: s1, S2: s2, Gap: g, Sd: sd}
}

func (e *Element) Signature(seq *sequence.Model) Signature {
	return Signature{
		Kind: KindElement,
		Ifcs: []int{seq.IndexOfIfc(e.S1), seq.IndexOfIfc(e.S2)},
		Gaps: []int{seq.IndexOfGap(e.Gap)},
	}
}

func (e *Element) MakeTree(seq *sequence.Model, zdir sequence.ZDir, extra parttree.Tag) *parttree.Node {
	root := parttree.NewNode(e.label, e, parttree.TagElement|parttree.TagLens|extra)

	p1 := parttree.NewNode(parttree.ProfileName(1), e.S1.Profile, parttree.TagProfile)
	p1.AttachTo(root)
	i1 := seq.IndexOfIfc(e.S1)
	parttree.NewNode(parttree.IfcName(i1), e.S1, parttree.TagIfc).AttachTo(p1)

	th := parttree.NewNode("t", e.Gap, parttree.TagThic)
	th.AttachTo(root)
	gi := seq.IndexOfGap(e.Gap)
	gapKey := sequence.GapKey{Gap: e.Gap, ZDir: zdir}
	parttree.NewNode(parttree.GapName(gi), gapKey, parttree.TagGap).AttachTo(th)

	p2 := parttree.NewNode(parttree.ProfileName(2), e.S2.Profile, parttree.TagProfile)
	p2.AttachTo(root)
	i2 := seq.IndexOfIfc(e.S2)
	parttree.NewNode(parttree.IfcName(i2), e.S2, parttree.TagIfc).AttachTo(p2)

	return root
}

func (e *Element) SyncToSignature(seq *sequence.Model, sig Signature) error {
	if sig.Kind != KindElement || len(sig.Ifcs) != 2 || len(sig.Gaps) != 1 {
		return fmt.Errorf("elements: %s cannot sync to signature %s", KindElement, sig)
	}
	s1, err := ifcAt(seq, sig.Ifcs[0])
	if err != nil {
		return err
	}
	s2, err := ifcAt(seq, sig.Ifcs[1])
	if err != nil {
		return err
	}
	g, err := gapAt(seq, sig.Gaps[0])
	if err != nil {
		return err
	}
	e.S1, e.S2, e.Gap = s1, s2, g
	if od := s1.SurfaceOD(); od > e.Sd {
		e.Sd = od
	}
	if od := s2.SurfaceOD(); od > e.Sd {
		e.Sd = od
	}
	return nil
}

func (e *Element) ReferenceIdx(seq *sequence.Model) int {
	return seq.IndexOfIfc(e.S1)
}

func (e *Element) Profiles() []*sequence.Profile {
	if e.Flipped {
		return []*sequence.Profile{e.S2.Profile, e.S1.Profile}
	}
	return []*sequence.Profile{e.S1.Profile, e.S2.Profile}
}

func (e *Element) InternalGaps() []*sequence.Gap {
	return []*sequence.Gap{e.Gap}
}

// CementedElement is a run of three or more surfaces with non-air gaps
// between every consecutive pair.
type CementedElement struct {
	labeled
	Ifcs    []*sequence.Interface
	Gaps    []*sequence.Gap // len(Gaps) == len(Ifcs)-1
	Flipped bool
}

// NewCementedElement builds a cemented group over the given run.
func NewCementedElement(ifcs []*sequence.Interface, gaps []*sequence.Gap) *CementedElement {
	return &CementedElement{Ifcs: ifcs, Gaps: gaps}
}

func (c *CementedElement) Signature(seq *sequence.Model) Signature {
	sig := Signature{Kind: KindCemented}
	for _, ifc := range c.Ifcs {
		sig.Ifcs = append(sig.Ifcs, seq.IndexOfIfc(ifc))
	}
	for _, g := range c.Gaps {
		sig.Gaps = append(sig.Gaps, seq.IndexOfGap(g))
	}
	return sig
}

func (c *CementedElement) MakeTree(seq *sequence.Model, zdir sequence.ZDir, extra parttree.Tag) *parttree.Node {
	root := parttree.NewNode(c.label, c, parttree.TagElement|parttree.TagLens|extra)
	for k, ifc := range c.Ifcs {
		p := parttree.NewNode(parttree.ProfileName(k+1), ifc.Profile, parttree.TagProfile)
		p.AttachTo(root)
		idx := seq.IndexOfIfc(ifc)
		parttree.NewNode(parttree.IfcName(idx), ifc, parttree.TagIfc).AttachTo(p)
		if k < len(c.Gaps) {
			th := parttree.NewNode(parttree.ThicknessName(k+1), c.Gaps[k], parttree.TagThic)
			th.AttachTo(root)
			gi := seq.IndexOfGap(c.Gaps[k])
			gapKey := sequence.GapKey{Gap: c.Gaps[k], ZDir: seq.ZDirAt(gi)}
			parttree.NewNode(parttree.GapName(gi), gapKey, parttree.TagGap).AttachTo(th)
		}
	}
	return root
}

func (c *CementedElement) SyncToSignature(seq *sequence.Model, sig Signature) error {
	if sig.Kind != KindCemented || len(sig.Ifcs) < 2 || len(sig.Gaps) != len(sig.Ifcs)-1 {
		return fmt.Errorf("elements: %s cannot sync to signature %s", KindCemented, sig)
	}
	ifcs := make([]*sequence.Interface, 0, len(sig.Ifcs))
	for _, i := range sig.Ifcs {
		ifc, err := ifcAt(seq, i)
		if err != nil {
			return err
		}
		ifcs = append(ifcs, ifc)
	}
	gaps := make([]*sequence.Gap, 0, len(sig.Gaps))
	for _, i := range sig.Gaps {
		g, err := gapAt(seq, i)
		if err != nil {
			return err
		}
		gaps = append(gaps, g)
	}
	c.Ifcs, c.Gaps = ifcs, gaps
	return nil
}

func (c *CementedElement) ReferenceIdx(seq *sequence.Model) int {
	if len(c.Ifcs) == 0 {
		return -1
	}
	return seq.IndexOfIfc(c.Ifcs[0])
}

func (c *CementedElement) Profiles() []*sequence.Profile {
	ps := make([]*sequence.Profile, len(c.Ifcs))
	for i, ifc := range c.Ifcs {
		if c.Flipped {
			ps[len(ps)-1-i] = ifc.Profile
		} else {
			ps[i] = ifc.Profile
		}
	}
	return ps
}

func (c *CementedElement) InternalGaps() []*sequence.Gap {
	return append([]*sequence.Gap(nil), c.Gaps...)
}

package elements

import (
	"fmt"

	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

// Mirror is a single reflective surface bounded by air.
type Mirror struct {
	labeled
	Ifc *sequence.Interface
	Sd  float64
}

// NewMirror builds a mirror part over the given surface.
func NewMirror(ifc *sequence.Interface) *Mirror {
	return &Mirror{Ifc: ifc, Sd: ifc.SurfaceOD()}
}

func (m *Mirror) Signature(seq *sequence.Model) Signature {
	return Signature{Kind: KindMirror, Ifcs: []int{seq.IndexOfIfc(m.Ifc)}}
}

func (m *Mirror) MakeTree(seq *sequence.Model, zdir sequence.ZDir, extra parttree.Tag) *parttree.Node {
	root := parttree.NewNode(m.label, m, parttree.TagElement|parttree.TagMirror|extra)
	p := parttree.NewNode("p", m.Ifc.Profile, parttree.TagProfile)
	p.AttachTo(root)
	idx := seq.IndexOfIfc(m.Ifc)
	parttree.NewNode(parttree.IfcName(idx), m.Ifc, parttree.TagIfc).AttachTo(p)
	return root
}

func (m *Mirror) SyncToSignature(seq *sequence.Model, sig Signature) error {
	if sig.Kind != KindMirror || len(sig.Ifcs) != 1 {
		return fmt.Errorf("elements: %s cannot sync to signature %s", KindMirror, sig)
	}
	ifc, err := ifcAt(seq, sig.Ifcs[0])
	if err != nil {
		return err
	}
	m.Ifc = ifc
	return nil
}

func (m *Mirror) ReferenceIdx(seq *sequence.Model) int { return seq.IndexOfIfc(m.Ifc) }

func (m *Mirror) Profiles() []*sequence.Profile { return []*sequence.Profile{m.Ifc.Profile} }

func (m *Mirror) InternalGaps() []*sequence.Gap { return nil }

// ThinElement wraps a thin-lens interface: a single surface carrying the
// whole power of an idealized element.
type ThinElement struct {
	labeled
	Ifc *sequence.Interface
}

// NewThinElement builds a thin element over the given thin-lens surface.
func NewThinElement(ifc *sequence.Interface) *ThinElement {
	return &ThinElement{Ifc: ifc}
}

func (te *ThinElement) Signature(seq *sequence.Model) Signature {
	return Signature{Kind: KindThin, Ifcs: []int{seq.IndexOfIfc(te.Ifc)}}
}

func (te *ThinElement) MakeTree(seq *sequence.Model, zdir sequence.ZDir, extra parttree.Tag) *parttree.Node {
	root := parttree.NewNode(te.label, te, parttree.TagElement|parttree.TagThinLens|extra)
	idx := seq.IndexOfIfc(te.Ifc)
	parttree.NewNode(parttree.ThinLensName(idx), te.Ifc, parttree.TagIfc).AttachTo(root)
	return root
}

func (te *ThinElement) SyncToSignature(seq *sequence.Model, sig Signature) error {
	if sig.Kind != KindThin || len(sig.Ifcs) != 1 {
		return fmt.Errorf("elements: %s cannot sync to signature %s", KindThin, sig)
	}
	ifc, err := ifcAt(seq, sig.Ifcs[0])
	if err != nil {
		return err
	}
	te.Ifc = ifc
	return nil
}

func (te *ThinElement) ReferenceIdx(seq *sequence.Model) int { return seq.IndexOfIfc(te.Ifc) }

func (te *ThinElement) Profiles() []*sequence.Profile { return nil }

func (te *ThinElement) InternalGaps() []*sequence.Gap { return nil }

// AirGap is the air space between elements.
type AirGap struct {
	labeled
	Gap *sequence.Gap
}

// NewAirGap builds an air-space part over the given gap.
func NewAirGap(g *sequence.Gap) *AirGap {
	return &AirGap{Gap: g}
}

func (a *AirGap) Signature(seq *sequence.Model) Signature {
	return Signature{Kind: KindAirGap, Gaps: []int{seq.IndexOfGap(a.Gap)}}
}

func (a *AirGap) MakeTree(seq *sequence.Model, zdir sequence.ZDir, extra parttree.Tag) *parttree.Node {
	root := parttree.NewNode(a.label, a, parttree.TagSpace|parttree.TagAirgap|extra)
	th := parttree.NewNode("t", a.Gap, parttree.TagThic)
	th.AttachTo(root)
	gi := seq.IndexOfGap(a.Gap)
	parttree.NewNode(parttree.GapName(gi), sequence.GapKey{Gap: a.Gap, ZDir: zdir}, parttree.TagGap).AttachTo(th)
	return root
}

func (a *AirGap) SyncToSignature(seq *sequence.Model, sig Signature) error {
	if sig.Kind != KindAirGap || len(sig.Gaps) != 1 {
		return fmt.Errorf("elements: %s cannot sync to signature %s", KindAirGap, sig)
	}
	g, err := gapAt(seq, sig.Gaps[0])
	if err != nil {
		return err
	}
	a.Gap = g
	return nil
}

func (a *AirGap) ReferenceIdx(seq *sequence.Model) int { return seq.IndexOfGap(a.Gap) }

func (a *AirGap) Profiles() []*sequence.Profile { return nil }

func (a *AirGap) InternalGaps() []*sequence.Gap { return []*sequence.Gap{a.Gap} }

// DummyInterface is a bookkeeping surface: object, image, or an
// intermediate reference such as the aperture stop.
type DummyInterface struct {
	labeled
	Ifc *sequence.Interface
	Sd  float64
}

// NewDummyInterface builds a dummy-interface part over the given surface.
func NewDummyInterface(ifc *sequence.Interface) *DummyInterface {
	return &DummyInterface{Ifc: ifc, Sd: ifc.SurfaceOD()}
}

func (d *DummyInterface) Signature(seq *sequence.Model) Signature {
	return Signature{Kind: KindDummyIfc, Ifcs: []int{seq.IndexOfIfc(d.Ifc)}}
}

func (d *DummyInterface) MakeTree(seq *sequence.Model, zdir sequence.ZDir, extra parttree.Tag) *parttree.Node {
	root := parttree.NewNode(d.label, d, parttree.TagDummyIfc|extra)
	p := parttree.NewNode("p", d.Ifc.Profile, parttree.TagProfile)
	p.AttachTo(root)
	idx := seq.IndexOfIfc(d.Ifc)
	parttree.NewNode(parttree.IfcName(idx), d.Ifc, parttree.TagIfc).AttachTo(p)
	return root
}

func (d *DummyInterface) SyncToSignature(seq *sequence.Model, sig Signature) error {
	if sig.Kind != KindDummyIfc || len(sig.Ifcs) != 1 {
		return fmt.Errorf("elements: %s cannot sync to signature %s", KindDummyIfc, sig)
	}
	ifc, err := ifcAt(seq, sig.Ifcs[0])
	if err != nil {
		return err
	}
	d.Ifc = ifc
	return nil
}

func (d *DummyInterface) ReferenceIdx(seq *sequence.Model) int { return seq.IndexOfIfc(d.Ifc) }

func (d *DummyInterface) Profiles() []*sequence.Profile { return []*sequence.Profile{d.Ifc.Profile} }

func (d *DummyInterface) InternalGaps() []*sequence.Gap { return nil }

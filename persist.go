package optikit

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/optikit/optikit/pkg/elements"
	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/reconcile"
	"github.com/optikit/optikit/pkg/sequence"
)

// docVersion identifies the persisted document layout.
const docVersion = 1

// modelDoc is the on-disk form of a model. The sequence is authoritative;
// parts and the tree are saved so identities and custom labels survive a
// round trip, but a document carrying only a sequence still loads (the
// grouping is rebuilt from scratch).
type modelDoc struct {
	Version  int       `yaml:"version"`
	Title    string    `yaml:"title,omitempty"`
	Note     string    `yaml:"note,omitempty"`
	Sequence seqDoc    `yaml:"sequence"`
	Parts    []partDoc `yaml:"parts,omitempty"`

	// Tree is decoded loosely and converted through DecodeRecord so both
	// current and legacy payload shapes restore.
	Tree any `yaml:"tree,omitempty"`
}

type seqDoc struct {
	Stop     int       `yaml:"stop"`
	Surfaces []surfDoc `yaml:"surfaces"`
}

type surfDoc struct {
	Label     string  `yaml:"label,omitempty"`
	Mode      string  `yaml:"mode"`
	Thin      bool    `yaml:"thin,omitempty"`
	Diameter  float64 `yaml:"diameter,omitempty"`
	Curvature float64 `yaml:"curvature,omitempty"`
	Gap       *gapDoc `yaml:"gap,omitempty"`
}

type gapDoc struct {
	Thickness float64 `yaml:"thickness"`
	Medium    string  `yaml:"medium"`
	Index     float64 `yaml:"index,omitempty"`
}

type partDoc struct {
	Kind    string   `yaml:"kind"`
	Label   string   `yaml:"label"`
	Key     string   `yaml:"key"`
	Ifcs    []int    `yaml:"ifcs,omitempty"`
	Gaps    []int    `yaml:"gaps,omitempty"`
	Members []string `yaml:"members,omitempty"`
	Flipped bool     `yaml:"flipped,omitempty"`
}

var modeNames = map[sequence.InteractMode]string{
	sequence.Transmit: "transmit",
	sequence.Reflect:  "reflect",
	sequence.Dummy:    "dummy",
}

func parseMode(s string) (sequence.InteractMode, error) {
	for mode, name := range modeNames {
		if name == s {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("optikit: unknown interact mode %q", s)
}

// Save writes the model as a yaml document.
func (m *Model) Save(w io.Writer) error {
	doc := modelDoc{
		Version:  docVersion,
		Title:    m.Title,
		Note:     m.Note,
		Sequence: seqDoc{Stop: m.Seq.Stop},
	}
	for i, ifc := range m.Seq.Ifcs {
		sd := surfDoc{
			Label:    ifc.Label,
			Mode:     modeNames[ifc.Mode],
			Thin:     ifc.Thin,
			Diameter: ifc.Diameter,
		}
		if ifc.Profile != nil {
			sd.Curvature = ifc.Profile.Curvature
		}
		if i < len(m.Seq.Gaps) {
			g := m.Seq.Gaps[i]
			gd := gapDoc{Thickness: g.Thickness, Medium: g.Medium.Name}
			if !g.Medium.IsAir() {
				gd.Index = g.Medium.Index
			}
			sd.Gap = &gd
		}
		doc.Sequence.Surfaces = append(doc.Sequence.Surfaces, sd)
	}
	for _, p := range m.Elements.Parts() {
		pd := partDoc{
			Kind:  string(elements.KindOf(p)),
			Label: p.Label(),
			Key:   p.Key(),
		}
		switch part := p.(type) {
		case *elements.Assembly:
			for _, member := range part.Parts {
				pd.Members = append(pd.Members, member.Key())
			}
		case *elements.Element:
			pd.Flipped = part.Flipped
		case *elements.CementedElement:
			pd.Flipped = part.Flipped
		}
		if _, isAsm := p.(*elements.Assembly); !isAsm {
			sig := p.Signature(m.Seq)
			pd.Ifcs = sig.Ifcs
			pd.Gaps = sig.Gaps
		}
		doc.Parts = append(doc.Parts, pd)
	}
	doc.Tree = m.Tree.Export(m.keyFor)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("optikit: encoding model: %w", err)
	}
	return enc.Close()
}

// keyFor maps a tree-node identity to its stable persisted key. Parts keep
// their registry key; sequence objects encode their position.
func (m *Model) keyFor(id any) string {
	switch v := id.(type) {
	case elements.Part:
		return v.Key()
	case *sequence.Interface:
		return fmt.Sprintf("i:%d", m.Seq.IndexOfIfc(v))
	case sequence.GapKey:
		return fmt.Sprintf("g:%d", m.Seq.IndexOfGap(v.Gap))
	case *sequence.Gap:
		return fmt.Sprintf("t:%d", m.Seq.IndexOfGap(v))
	case *sequence.Profile:
		for i, ifc := range m.Seq.Ifcs {
			if ifc.Profile == v {
				return fmt.Sprintf("p:%d", i)
			}
		}
		return ""
	default:
		return ""
	}
}

// Load reads a yaml document and rebuilds a live model. Saved identity
// keys are rebound against the reconstructed sequence and registry; nodes
// of legacy documents without keys are resolved through the positional
// name convention. A node resolvable by neither is a structural error.
func Load(r io.Reader, opts ...Option) (*Model, error) {
	var doc modelDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("optikit: decoding model: %w", err)
	}

	seq, err := loadSequence(doc.Sequence)
	if err != nil {
		return nil, err
	}

	m := New(opts...)
	m.Seq = seq
	m.Title = doc.Title
	m.Note = doc.Note

	if len(doc.Parts) == 0 {
		// Sequence-only document: regroup from scratch.
		if err := reconcile.GroupFromSequence(m.Seq, m.Elements, m.Tree); err != nil {
			return nil, err
		}
		m.UpdateModel()
		return m, nil
	}

	if err := loadParts(m, doc.Parts); err != nil {
		return nil, err
	}

	if doc.Tree == nil {
		for _, p := range m.Elements.Parts() {
			if _, isAsm := p.(*elements.Assembly); isAsm {
				continue
			}
			zdir := m.Seq.ZDirAt(p.ReferenceIdx(m.Seq))
			m.Tree.AddPart(p.MakeTree(m.Seq, zdir, 0))
		}
		m.UpdateModel()
		return m, nil
	}

	rec, err := parttree.DecodeRecord(doc.Tree)
	if err != nil {
		return nil, err
	}
	if err := m.loadTree(rec); err != nil {
		return nil, err
	}
	m.UpdateModel()
	return m, nil
}

func loadSequence(doc seqDoc) (*sequence.Model, error) {
	seq := sequence.New()
	for i, sd := range doc.Surfaces {
		mode, err := parseMode(sd.Mode)
		if err != nil {
			return nil, fmt.Errorf("surface %d: %w", i, err)
		}
		ifc := &sequence.Interface{
			Label:    sd.Label,
			Mode:     mode,
			Thin:     sd.Thin,
			Diameter: sd.Diameter,
			Profile:  &sequence.Profile{Curvature: sd.Curvature},
		}
		var g *sequence.Gap
		if sd.Gap != nil {
			medium := sequence.Air()
			if sd.Gap.Medium != "" && !strings.EqualFold(sd.Gap.Medium, "air") {
				medium = sequence.Medium{Name: sd.Gap.Medium, Index: sd.Gap.Index}
			}
			g = &sequence.Gap{Thickness: sd.Gap.Thickness, Medium: medium}
		}
		seq.Append(ifc, g)
	}
	seq.Stop = doc.Stop
	return seq, nil
}

func loadParts(m *Model, docs []partDoc) error {
	// Assemblies reference other parts by key, so they restore last.
	var asmDocs []partDoc
	for _, pd := range docs {
		if elements.Kind(pd.Kind) == elements.KindAssembly {
			asmDocs = append(asmDocs, pd)
			continue
		}
		sig := elements.Signature{Kind: elements.Kind(pd.Kind), Ifcs: pd.Ifcs, Gaps: pd.Gaps}
		p, err := elements.NewFromSignature(m.Seq, sig)
		if err != nil {
			return fmt.Errorf("optikit: restoring part %q: %w", pd.Label, err)
		}
		switch part := p.(type) {
		case *elements.Element:
			part.Flipped = pd.Flipped
		case *elements.CementedElement:
			part.Flipped = pd.Flipped
		}
		p.SetLabel(pd.Label)
		p.SetKey(pd.Key)
		m.Elements.Add(p)
	}
	for _, pd := range asmDocs {
		members := make([]elements.Part, 0, len(pd.Members))
		for _, key := range pd.Members {
			member, ok := m.Elements.PartByKey(key)
			if !ok {
				return fmt.Errorf("optikit: assembly %q references unknown part key %q", pd.Label, key)
			}
			members = append(members, member)
		}
		asm := elements.NewAssembly(members...)
		asm.SetLabel(pd.Label)
		asm.SetKey(pd.Key)
		m.Elements.Add(asm)
	}
	return nil
}

// loadTree rebuilds the part tree from its saved record and rebinds every
// node identity against the live sequence and registry.
func (m *Model) loadTree(rec parttree.NodeRecord) error {
	tree, keys := parttree.Import(rec)

	resolve := m.keyResolver()
	var unresolved []string
	for _, n := range tree.Root.Preorder() {
		if n == tree.Root {
			continue
		}
		if key, ok := keys[n]; ok {
			if id, found := resolve[key]; found {
				n.ID = id
				continue
			}
		}
		if id := m.resolveByName(tree, n); id != nil {
			n.ID = id
			continue
		}
		unresolved = append(unresolved, n.Name)
	}
	if len(unresolved) > 0 {
		return fmt.Errorf("optikit: restoring tree: %w: %s",
			ErrUnresolvedNode, strings.Join(unresolved, ", "))
	}
	tree.Reindex()
	m.Tree = tree
	return nil
}

// keyResolver inverts keyFor over the live model.
func (m *Model) keyResolver() map[string]any {
	res := make(map[string]any)
	for _, p := range m.Elements.Parts() {
		res[p.Key()] = p
	}
	for i, ifc := range m.Seq.Ifcs {
		res[fmt.Sprintf("i:%d", i)] = ifc
		res[fmt.Sprintf("p:%d", i)] = ifc.Profile
	}
	for i, g := range m.Seq.Gaps {
		res[fmt.Sprintf("g:%d", i)] = sequence.GapKey{Gap: g, ZDir: m.Seq.ZDirAt(i)}
		res[fmt.Sprintf("t:%d", i)] = g
	}
	return res
}

// resolveByName re-derives a node identity from the positional name
// convention used by documents predating id keys. Ancestors resolve before
// descendants in the restore walk, so a profile or thickness node can
// consult its enclosing part.
func (m *Model) resolveByName(tree *parttree.Tree, n *parttree.Node) any {
	if p, ok := m.Elements.PartByLabel(n.Name); ok {
		return p
	}
	if idx, ok := parttree.ParseIndexedName(n.Name, "tl"); ok && n.Name != "tl" {
		if idx >= 0 && idx < len(m.Seq.Ifcs) {
			return m.Seq.Ifcs[idx]
		}
		return nil
	}
	if idx, ok := parttree.ParseIndexedName(n.Name, "i"); ok && n.Name != "i" {
		if idx >= 0 && idx < len(m.Seq.Ifcs) {
			return m.Seq.Ifcs[idx]
		}
		return nil
	}
	if idx, ok := parttree.ParseIndexedName(n.Name, "g"); ok && n.Name != "g" {
		if idx >= 0 && idx < len(m.Seq.Gaps) {
			return sequence.GapKey{Gap: m.Seq.Gaps[idx], ZDir: m.Seq.ZDirAt(idx)}
		}
		return nil
	}
	part := enclosingPart(n)
	if part == nil {
		return nil
	}
	if ord, ok := parttree.ParseIndexedName(n.Name, "p"); ok {
		return nthOrNil(part.Profiles(), ord)
	}
	if ord, ok := parttree.ParseIndexedName(n.Name, "t"); ok {
		return nthOrNil(part.InternalGaps(), ord)
	}
	return nil
}

// enclosingPart returns the part held by the nearest ancestor whose
// identity has already been resolved to one.
func enclosingPart(n *parttree.Node) elements.Part {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if part, ok := p.ID.(elements.Part); ok {
			return part
		}
	}
	return nil
}

// nthOrNil returns items[ord-1]; a zero ordinal means the sole entry of a
// single-item part ("p", "t" without a number).
func nthOrNil[T any](items []T, ord int) any {
	if ord == 0 {
		ord = 1
	}
	if ord < 1 || ord > len(items) {
		return nil
	}
	return items[ord-1]
}

package sequence

import (
	"fmt"
	"strings"
)

// Model holds the ordered interface and gap lists. Invariant: there is one
// fewer gap than interfaces (the image surface has no following gap), and
// one direction entry per gap. Directions are derived from the interface
// modes and refreshed on every edit.
type Model struct {
	Ifcs []*Interface
	Gaps []*Gap

	// ZDirs[i] is the propagation direction through Gaps[i].
	ZDirs []ZDir

	// Stop is the index of the aperture stop surface, or -1.
	Stop int
}

// New returns an empty sequence model.
func New() *Model {
	return &Model{Stop: -1}
}

// NewObjectImage returns a model seeded with object and image dummy
// surfaces separated by an air gap, the minimal well-formed system.
func NewObjectImage() *Model {
	m := New()
	obj := &Interface{Label: "Obj", Mode: Dummy, Profile: &Profile{}}
	img := &Interface{Label: "Img", Mode: Dummy, Profile: &Profile{}}
	m.Ifcs = []*Interface{obj, img}
	m.Gaps = []*Gap{{Thickness: 1e10, Medium: Air()}}
	m.update()
	return m
}

// NumIfcs returns the number of interfaces.
func (m *Model) NumIfcs() int { return len(m.Ifcs) }

// Append adds an interface and its following gap at the end of the
// sequence. A nil gap terminates the sequence (image surface).
func (m *Model) Append(ifc *Interface, g *Gap) {
	m.Ifcs = append(m.Ifcs, ifc)
	if g != nil {
		m.Gaps = append(m.Gaps, g)
	}
	m.update()
}

// Insert places ifc and g at position idx, shifting later entries.
func (m *Model) Insert(idx int, ifc *Interface, g *Gap) error {
	if idx < 0 || idx > len(m.Ifcs) {
		return fmt.Errorf("sequence: insert index %d out of range [0,%d]", idx, len(m.Ifcs))
	}
	m.Ifcs = append(m.Ifcs, nil)
	copy(m.Ifcs[idx+1:], m.Ifcs[idx:])
	m.Ifcs[idx] = ifc
	if g != nil {
		gi := idx
		if gi > len(m.Gaps) {
			gi = len(m.Gaps)
		}
		m.Gaps = append(m.Gaps, nil)
		copy(m.Gaps[gi+1:], m.Gaps[gi:])
		m.Gaps[gi] = g
	}
	m.update()
	return nil
}

// Remove deletes the interface at idx and its following gap, if any.
func (m *Model) Remove(idx int) error {
	if idx < 0 || idx >= len(m.Ifcs) {
		return fmt.Errorf("sequence: remove index %d out of range [0,%d)", idx, len(m.Ifcs))
	}
	m.Ifcs = append(m.Ifcs[:idx], m.Ifcs[idx+1:]...)
	if idx < len(m.Gaps) {
		m.Gaps = append(m.Gaps[:idx], m.Gaps[idx+1:]...)
	}
	m.update()
	return nil
}

// IndexOfIfc returns the position of ifc, or -1.
func (m *Model) IndexOfIfc(ifc *Interface) int {
	for i, s := range m.Ifcs {
		if s == ifc {
			return i
		}
	}
	return -1
}

// IndexOfGap returns the position of g, or -1.
func (m *Model) IndexOfGap(g *Gap) int {
	for i, gp := range m.Gaps {
		if gp == g {
			return i
		}
	}
	return -1
}

// ZDirAt returns the propagation direction at gap index i. Indexes past the
// last gap report the final direction, so callers can ask for the direction
// "at" the image surface.
func (m *Model) ZDirAt(i int) ZDir {
	if len(m.ZDirs) == 0 {
		return ZDirForward
	}
	if i >= len(m.ZDirs) {
		i = len(m.ZDirs) - 1
	}
	if i < 0 {
		i = 0
	}
	return m.ZDirs[i]
}

// update recomputes the per-gap propagation directions. The direction
// flips after every reflecting surface.
func (m *Model) update() {
	m.ZDirs = m.ZDirs[:0]
	dir := ZDirForward
	for i := range m.Gaps {
		if m.Ifcs[i].Mode == Reflect {
			dir = -dir
		}
		m.ZDirs = append(m.ZDirs, dir)
	}
}

// SeqStr encodes the sequence as one symbol per entry, interfaces
// interleaved with gaps: d/i/r/t for dummy, transmit, reflect and thin-lens
// interfaces; a/g for air and non-air gaps. This compact form is the input
// to the grouping grammar.
func (m *Model) SeqStr() string {
	var sb strings.Builder
	for i, ifc := range m.Ifcs {
		switch {
		case ifc.Thin:
			sb.WriteByte('t')
		case ifc.Mode == Dummy:
			sb.WriteByte('d')
		case ifc.Mode == Reflect:
			sb.WriteByte('r')
		default:
			sb.WriteByte('i')
		}
		if i < len(m.Gaps) {
			if m.Gaps[i].Medium.IsAir() {
				sb.WriteByte('a')
			} else {
				sb.WriteByte('g')
			}
		}
	}
	return sb.String()
}

// Tfrm is a global coordinate transform, reduced here to the axial offset
// of a surface vertex.
type Tfrm struct {
	Z float64
}

// GlobalTransforms returns the cumulative transform at each interface.
// Reflections reverse the direction of accumulation.
func (m *Model) GlobalTransforms() []Tfrm {
	tfrms := make([]Tfrm, len(m.Ifcs))
	z := 0.0
	for i := range m.Ifcs {
		tfrms[i] = Tfrm{Z: z}
		if i < len(m.Gaps) {
			z += float64(m.ZDirs[i]) * m.Gaps[i].Thickness
		}
	}
	return tfrms
}

// PathSeg is one step of a traversal of the sequence in light-path order.
type PathSeg struct {
	Idx  int
	Ifc  *Interface
	Gap  *Gap // nil at the final surface
	Tfrm Tfrm
	ZDir ZDir
}

// Path returns the sequence in traversal order with per-step transforms and
// directions.
func (m *Model) Path() []PathSeg {
	tfrms := m.GlobalTransforms()
	segs := make([]PathSeg, 0, len(m.Ifcs))
	for i, ifc := range m.Ifcs {
		seg := PathSeg{Idx: i, Ifc: ifc, Tfrm: tfrms[i], ZDir: m.ZDirAt(i)}
		if i < len(m.Gaps) {
			seg.Gap = m.Gaps[i]
		}
		segs = append(segs, seg)
	}
	return segs
}

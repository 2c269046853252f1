package elements

import (
	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

// Part is a grouped physical unit spanning one or more sequence
// interfaces and gaps. Parts expose their structural signature for
// diffing, contribute their own node subtree to the part tree, and update
// in place when reclassified as modified.
type Part interface {
	// Label is the display name ("E1", "Object space"). Node names track
	// labels.
	Label() string
	SetLabel(string)

	// Key is the stable identity key used by tree serialization.
	Key() string
	SetKey(string)

	// Signature derives the part's current structural fingerprint from
	// the live sequence.
	Signature(seq *sequence.Model) Signature

	// MakeTree builds the part's node subtree: the part node itself plus
	// profile/thickness intermediates and interface/gap leaves. zdir is
	// the propagation direction at the part's reference position; extra
	// tags (object, image, stop) are added onto the part node.
	MakeTree(seq *sequence.Model, zdir sequence.ZDir, extra parttree.Tag) *parttree.Node

	// SyncToSignature rebinds the part to a new signature in place,
	// preserving externally-held references to the part itself.
	SyncToSignature(seq *sequence.Model, sig Signature) error

	// ReferenceIdx is the sequence position anchoring the part.
	ReferenceIdx(seq *sequence.Model) int

	// Profiles lists the part's constituent surface profiles, in order.
	Profiles() []*sequence.Profile

	// InternalGaps lists the gaps interior to the part (between cemented
	// surfaces, or the single gap of an air space).
	InternalGaps() []*sequence.Gap
}

// labeled carries the label/key bookkeeping shared by all concrete parts.
type labeled struct {
	label string
	key   string
}

func (l *labeled) Label() string     { return l.label }
func (l *labeled) SetLabel(s string) { l.label = s }
func (l *labeled) Key() string       { return l.key }
func (l *labeled) SetKey(s string)   { l.key = s }

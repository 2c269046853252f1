// Package sequence implements the flat, ground-truth ordering of optical
// interfaces and the gaps between them. It is the authoritative model that
// the part tree overlays; the tree is re-synchronized from it after edits.
package sequence

import (
	"strings"
)

// ZDir is the axial propagation direction of light through a gap.
type ZDir int

const (
	// ZDirForward propagates toward increasing z.
	ZDirForward ZDir = 1
	// ZDirReverse propagates toward decreasing z, after an odd number of
	// reflections.
	ZDirReverse ZDir = -1
)

// InteractMode describes how an interface acts on an incident ray.
type InteractMode int

const (
	// Transmit refracts the ray into the following gap.
	Transmit InteractMode = iota
	// Reflect reverses the axial direction of the ray.
	Reflect
	// Dummy marks a bookkeeping surface with no optical action
	// (object, image, stop).
	Dummy
)

// Profile is the surface shape of an interface. Profiles are referenced by
// pointer identity from part-tree nodes, so a profile must not be copied
// once it is attached to an interface.
type Profile struct {
	Curvature float64
}

// Interface is a single optical surface in the sequence.
type Interface struct {
	Label    string
	Mode     InteractMode
	Thin     bool // thin-lens surface, encoded distinctly for grouping
	Diameter float64
	Profile  *Profile
}

// NewInterface returns a transmitting interface with its own profile.
func NewInterface(cv float64) *Interface {
	return &Interface{Mode: Transmit, Profile: &Profile{Curvature: cv}}
}

// SurfaceOD returns the semi-diameter used for element sizing.
func (ifc *Interface) SurfaceOD() float64 {
	return ifc.Diameter / 2
}

// Medium is the material filling a gap.
type Medium struct {
	Name  string
	Index float64
}

// Air is the default inter-element medium.
func Air() Medium {
	return Medium{Name: "air", Index: 1.0}
}

// IsAir reports whether the medium is air. Grouping decisions hinge on
// air vs. non-air boundaries, not on the exact material.
func (m Medium) IsAir() bool {
	return strings.EqualFold(m.Name, "air")
}

// Gap is the space following an interface. Gaps have no intrinsic position
// or direction; a GapKey bundles the direction in when a gap is used as a
// tree-node identity.
type Gap struct {
	Thickness float64
	Medium    Medium
}

// GapKey is the composite identity of a gap node: the gap paired with the
// propagation direction through it. It is a comparable value type so it can
// key maps directly.
type GapKey struct {
	Gap  *Gap
	ZDir ZDir
}

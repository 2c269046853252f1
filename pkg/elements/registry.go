package elements

import (
	"fmt"
	"sort"

	"github.com/optikit/optikit/pkg/sequence"
)

var labelPrefix = map[Kind]string{
	KindElement:  "E",
	KindCemented: "CE",
	KindMirror:   "M",
	KindThin:     "TL",
	KindAirGap:   "AG",
	KindDummyIfc: "D",
	KindAssembly: "ASM",
}

// Registry is the element model: it owns the current set of parts.
// Enumeration order is insertion order, which the classifier relies on for
// its deterministic tie-breaks.
type Registry struct {
	parts []Part

	serial    map[Kind]int
	keySerial int
	byKey     map[string]Part
}

// NewRegistry returns an empty element model.
func NewRegistry() *Registry {
	return &Registry{
		serial: make(map[Kind]int),
		byKey:  make(map[string]Part),
	}
}

// Add registers a part, assigning a default label ("E1", "AG2") and a
// stable identity key when the part does not already carry them.
func (r *Registry) Add(p Part) {
	kind := kindOf(p)
	if p.Label() == "" {
		r.serial[kind]++
		p.SetLabel(fmt.Sprintf("%s%d", labelPrefix[kind], r.serial[kind]))
	}
	if p.Key() == "" {
		r.keySerial++
		p.SetKey(fmt.Sprintf("%s:%d", labelPrefix[kind], r.keySerial))
	}
	r.parts = append(r.parts, p)
	r.byKey[p.Key()] = p
}

// Remove unregisters a part. Removing an unknown part is a no-op.
func (r *Registry) Remove(p Part) {
	for i, q := range r.parts {
		if q == p {
			r.parts = append(r.parts[:i], r.parts[i+1:]...)
			delete(r.byKey, p.Key())
			return
		}
	}
}

// Parts returns the registered parts in insertion order. The slice is the
// registry's backing store; callers must not mutate it.
func (r *Registry) Parts() []Part { return r.parts }

// PartByLabel returns the part with the given display label.
func (r *Registry) PartByLabel(label string) (Part, bool) {
	for _, p := range r.parts {
		if p.Label() == label {
			return p, true
		}
	}
	return nil, false
}

// PartByKey returns the part with the given stable identity key.
func (r *Registry) PartByKey(key string) (Part, bool) {
	p, ok := r.byKey[key]
	return p, ok
}

// PartsForRange returns the parts whose structural interfaces all fall
// within the sequence index range [i1, i2], ordered by reference index.
func (r *Registry) PartsForRange(seq *sequence.Model, i1, i2 int) []Part {
	var out []Part
	for _, p := range r.parts {
		if _, isAsm := p.(*Assembly); isAsm {
			continue
		}
		sig := p.Signature(seq)
		if len(sig.Ifcs) == 0 && len(sig.Gaps) == 0 {
			continue
		}
		inRange := true
		for _, i := range sig.Ifcs {
			if i < i1 || i > i2 {
				inRange = false
				break
			}
		}
		for _, g := range sig.Gaps {
			if g < i1 || g >= i2 {
				inRange = false
				break
			}
		}
		if inRange {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].ReferenceIdx(seq) < out[b].ReferenceIdx(seq)
	})
	return out
}

// SigLists returns the signatures of the registered parts in insertion
// order plus a signature-key to part lookup.
func (r *Registry) SigLists(seq *sequence.Model) ([]Signature, map[string]Part) {
	sigs := make([]Signature, 0, len(r.parts))
	byKey := make(map[string]Part, len(r.parts))
	for _, p := range r.parts {
		if _, isAsm := p.(*Assembly); isAsm {
			continue
		}
		sig := p.Signature(seq)
		sigs = append(sigs, sig)
		byKey[sig.Key()] = p
	}
	return sigs, byKey
}

// kindOf maps a concrete part to its Kind.
func kindOf(p Part) Kind {
	switch p.(type) {
	case *Element:
		return KindElement
	case *CementedElement:
		return KindCemented
	case *Mirror:
		return KindMirror
	case *ThinElement:
		return KindThin
	case *AirGap:
		return KindAirGap
	case *DummyInterface:
		return KindDummyIfc
	case *Assembly:
		return KindAssembly
	default:
		return Kind(fmt.Sprintf("%T", p))
	}
}

// KindOf reports the Kind of a registered part type.
func KindOf(p Part) Kind { return kindOf(p) }

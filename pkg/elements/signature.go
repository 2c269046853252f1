// Package elements implements the part model: concrete grouped units
// (lens elements, mirrors, air gaps, dummy interfaces, cemented groups,
// assemblies), the registry that owns them, and the structural signatures
// used to diff groupings against the sequence.
package elements

import (
	"fmt"
	"sort"
	"strings"
)

// Kind names a concrete part type. It doubles as the factory index.
type Kind string

const (
	KindElement   Kind = "Element"
	KindCemented  Kind = "CementedElement"
	KindMirror    Kind = "Mirror"
	KindThin      Kind = "ThinElement"
	KindAirGap    Kind = "AirGap"
	KindDummyIfc  Kind = "DummyInterface"
	KindAssembly  Kind = "Assembly"
)

// Signature is the structural fingerprint of a grouping: its kind plus the
// sequence indices of the interfaces and gaps it spans. Two groupings are
// the same part iff their signatures are equal; they are the same part
// modified iff the kinds match and the first gap indices match.
type Signature struct {
	Kind Kind
	Ifcs []int
	Gaps []int
}

// Key returns a canonical string form usable as a map key (signatures
// carry slices and are not directly comparable).
func (s Signature) Key() string {
	var sb strings.Builder
	sb.WriteString(string(s.Kind))
	sb.WriteByte('|')
	writeIdxList(&sb, s.Ifcs)
	sb.WriteByte('|')
	writeIdxList(&sb, s.Gaps)
	return sb.String()
}

func writeIdxList(sb *strings.Builder, idxs []int) {
	for i, idx := range idxs {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(sb, "%d", idx)
	}
}

func (s Signature) String() string { return s.Key() }

// FirstIdx returns the part's leading structural index: the first
// interface index, or the first gap index for interface-less parts.
// Reconciliation processes additions in ascending FirstIdx order so that
// placement is reproducible.
func (s Signature) FirstIdx() int {
	if len(s.Ifcs) > 0 {
		return s.Ifcs[0]
	}
	if len(s.Gaps) > 0 {
		return s.Gaps[0]
	}
	return -1
}

// FirstGap returns the first gap index, or -1 for parts without gaps.
func (s Signature) FirstGap() int {
	if len(s.Gaps) > 0 {
		return s.Gaps[0]
	}
	return -1
}

// SortByFirstIdx orders signatures by their leading structural index.
func SortByFirstIdx(sigs []Signature) {
	sort.SliceStable(sigs, func(i, j int) bool {
		return sigs[i].FirstIdx() < sigs[j].FirstIdx()
	})
}

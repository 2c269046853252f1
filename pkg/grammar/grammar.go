// Package grammar parses the compact character encoding of a sequence
// into the list of structural signatures the sequence should contain if
// grouped ideally. The encoding interleaves interface symbols (d dummy,
// i transmit, r reflect, t thin lens) with gap symbols (a air, g non-air):
// "daigiad" is object dummy, air, a two-surface lens, air, image dummy.
package grammar

import (
	"fmt"

	"github.com/optikit/optikit/pkg/elements"
)

// Parse scans seqStr and returns the implied groupings in sequence order.
// An empty string yields no signatures. The scan recognizes:
//
//   - dummy or air-bounded transmitting surfaces -> DummyInterface
//   - air gaps -> AirGap
//   - air-bounded reflecting surfaces -> Mirror
//   - thin-lens surfaces -> ThinElement
//   - two-surface non-air runs -> Element
//   - longer non-air runs -> CementedElement
//   - a reflector buried in a non-air run folds the run at the reflector:
//     the forward sub-run defines the part and the reflected sub-run is
//     carried by the tree only, mirroring the physical light path.
func Parse(seqStr string) ([]elements.Signature, error) {
	if seqStr == "" {
		return nil, nil
	}
	ifcs, gaps, err := split(seqStr)
	if err != nil {
		return nil, err
	}

	var sigs []elements.Signature
	emitAirGap := func(gi int) {
		if gi < len(gaps) && gaps[gi] == 'a' {
			sigs = append(sigs, elements.Signature{Kind: elements.KindAirGap, Gaps: []int{gi}})
		}
	}

	n := len(ifcs)
	i := 0
	for i < n {
		inRun := i < len(gaps) && gaps[i] == 'g'

		switch {
		case ifcs[i] == 't':
			sigs = append(sigs, elements.Signature{Kind: elements.KindThin, Ifcs: []int{i}})
			emitAirGap(i)
			i++

		case ifcs[i] == 'd':
			airBefore := i == 0 || gaps[i-1] == 'a'
			if airBefore || i == n-1 {
				sigs = append(sigs, elements.Signature{Kind: elements.KindDummyIfc, Ifcs: []int{i}})
			}
			emitAirGap(i)
			i++

		case !inRun:
			// single surface bounded by air on both sides
			if ifcs[i] == 'r' {
				sigs = append(sigs, elements.Signature{Kind: elements.KindMirror, Ifcs: []int{i}})
			} else {
				sigs = append(sigs, elements.Signature{Kind: elements.KindDummyIfc, Ifcs: []int{i}})
			}
			emitAirGap(i)
			i++

		default:
			// non-air run: ifcs i..j with gaps i..j-1 all non-air
			j := i
			for j < len(gaps) && gaps[j] == 'g' {
				j++
			}
			end := j
			if m := buriedReflector(ifcs, i, j); m >= 0 {
				end = m
			}
			sigs = append(sigs, runSignature(i, end))
			emitAirGap(j)
			i = j + 1
		}
	}
	return sigs, nil
}

// buriedReflector returns the index of the first interior reflector of
// run i..j, or -1. A reflector at the run's end is a Mangin-style back
// mirror and does not fold the run.
func buriedReflector(ifcs []byte, i, j int) int {
	for m := i + 1; m < j; m++ {
		if ifcs[m] == 'r' {
			return m
		}
	}
	return -1
}

func runSignature(i, j int) elements.Signature {
	sig := elements.Signature{Kind: elements.KindElement}
	if j-i > 1 {
		sig.Kind = elements.KindCemented
	}
	for k := i; k <= j; k++ {
		sig.Ifcs = append(sig.Ifcs, k)
	}
	for k := i; k < j; k++ {
		sig.Gaps = append(sig.Gaps, k)
	}
	return sig
}

func split(seqStr string) (ifcs, gaps []byte, err error) {
	for k := 0; k < len(seqStr); k++ {
		c := seqStr[k]
		if k%2 == 0 {
			switch c {
			case 'd', 'i', 'r', 't':
				ifcs = append(ifcs, c)
			default:
				return nil, nil, fmt.Errorf("grammar: invalid interface symbol %q at %d", c, k)
			}
		} else {
			switch c {
			case 'a', 'g':
				gaps = append(gaps, c)
			default:
				return nil, nil, fmt.Errorf("grammar: invalid gap symbol %q at %d", c, k)
			}
		}
	}
	return ifcs, gaps, nil
}

package elements

import (
	"fmt"

	"github.com/optikit/optikit/pkg/sequence"
)

// Constructor builds a concrete part from a structural signature against
// the live sequence.
type Constructor func(seq *sequence.Model, sig Signature) (Part, error)

// factories is the kind-indexed part factory used by reconciliation when a
// new structural signature appears.
var factories = map[Kind]Constructor{
	KindElement: func(seq *sequence.Model, sig Signature) (Part, error) {
		if len(sig.Ifcs) != 2 || len(sig.Gaps) != 1 {
			return nil, fmt.Errorf("elements: malformed %s signature %s", sig.Kind, sig)
		}
		s1, err := ifcAt(seq, sig.Ifcs[0])
		if err != nil {
			return nil, err
		}
		s2, err := ifcAt(seq, sig.Ifcs[1])
		if err != nil {
			return nil, err
		}
		g, err := gapAt(seq, sig.Gaps[0])
		if err != nil {
			return nil, err
		}
		return NewElement(s1, s2, g), nil
	},
	KindCemented: func(seq *sequence.Model, sig Signature) (Part, error) {
		if len(sig.Ifcs) < 3 || len(sig.Gaps) != len(sig.Ifcs)-1 {
			return nil, fmt.Errorf("elements: malformed %s signature %s", sig.Kind, sig)
		}
		ifcs := make([]*sequence.Interface, 0, len(sig.Ifcs))
		for _, i := range sig.Ifcs {
			ifc, err := ifcAt(seq, i)
			if err != nil {
				return nil, err
			}
			ifcs = append(ifcs, ifc)
		}
		gaps := make([]*sequence.Gap, 0, len(sig.Gaps))
		for _, i := range sig.Gaps {
			g, err := gapAt(seq, i)
			if err != nil {
				return nil, err
			}
			gaps = append(gaps, g)
		}
		return NewCementedElement(ifcs, gaps), nil
	},
	KindMirror: func(seq *sequence.Model, sig Signature) (Part, error) {
		ifc, err := singleIfc(seq, sig)
		if err != nil {
			return nil, err
		}
		return NewMirror(ifc), nil
	},
	KindThin: func(seq *sequence.Model, sig Signature) (Part, error) {
		ifc, err := singleIfc(seq, sig)
		if err != nil {
			return nil, err
		}
		return NewThinElement(ifc), nil
	},
	KindAirGap: func(seq *sequence.Model, sig Signature) (Part, error) {
		if len(sig.Gaps) != 1 {
			return nil, fmt.Errorf("elements: malformed %s signature %s", sig.Kind, sig)
		}
		g, err := gapAt(seq, sig.Gaps[0])
		if err != nil {
			return nil, err
		}
		return NewAirGap(g), nil
	},
	KindDummyIfc: func(seq *sequence.Model, sig Signature) (Part, error) {
		ifc, err := singleIfc(seq, sig)
		if err != nil {
			return nil, err
		}
		return NewDummyInterface(ifc), nil
	},
}

func singleIfc(seq *sequence.Model, sig Signature) (*sequence.Interface, error) {
	if len(sig.Ifcs) != 1 {
		return nil, fmt.Errorf("elements: malformed %s signature %s", sig.Kind, sig)
	}
	return ifcAt(seq, sig.Ifcs[0])
}

// NewFromSignature instantiates the concrete part for sig via the
// kind-indexed factory.
func NewFromSignature(seq *sequence.Model, sig Signature) (Part, error) {
	ctor, ok := factories[sig.Kind]
	if !ok {
		return nil, fmt.Errorf("elements: no factory for kind %q", sig.Kind)
	}
	return ctor(seq, sig)
}

// Package reconcile keeps the element registry and part tree synchronized
// with the sequence: it classifies structural changes between what the
// sequence implies and what the tree currently contains, and applies the
// resulting diff.
package reconcile

import (
	"github.com/optikit/optikit/pkg/elements"
	"github.com/optikit/optikit/pkg/grammar"
	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

// ModifiedPair records a same-part-modified reclassification: the part
// currently registered under Old must be updated in place to New.
type ModifiedPair struct {
	Old, New elements.Signature
}

// Changes is the classified structural diff between the sequence's implied
// grouping and the registry's current grouping.
type Changes struct {
	Common   []elements.Signature
	Added    []elements.Signature
	Removed  []elements.Signature
	Modified []ModifiedPair

	// Parsed is the raw grouping list implied by the sequence; SeqStr is
	// the encoding it was parsed from.
	Parsed []elements.Signature
	SeqStr string

	// Current is the registry's grouping list; ByKey maps signature keys
	// back to live parts.
	Current []elements.Signature
	ByKey   map[string]elements.Part

	// Assemblies lists the signatures of assembly constituents present in
	// the tree, with their owning assemblies.
	Assemblies []elements.Signature
	AsmByKey   map[string]elements.Part
}

// IsConsistent reports whether the diff carries no structural change.
func (c *Changes) IsConsistent() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// Classify parses the sequence into its implied groupings and categorizes
// the differences against the registry. An empty sequence yields all-empty
// results without invoking the parser.
//
// The modified-pairing pass walks the added list in parsed order (outer)
// and the removed list in registry order (inner), pairing the first
// added/removed candidates whose kind and first gap index match. When
// several structurally similar parts change at once this first-match rule
// is the defined, deterministic tie-break; it can mis-pair, and callers
// get exactly the pairing this ordering implies.
func Classify(seq *sequence.Model, reg *elements.Registry, tree *parttree.Tree) (*Changes, error) {
	ch := &Changes{
		ByKey:    make(map[string]elements.Part),
		AsmByKey: make(map[string]elements.Part),
	}
	ch.SeqStr = seq.SeqStr()
	if ch.SeqStr == "" {
		return ch, nil
	}

	parsed, err := grammar.Parse(ch.SeqStr)
	if err != nil {
		return nil, err
	}
	ch.Parsed = parsed
	ch.Current, ch.ByKey = reg.SigLists(seq)

	parsedKeys := make(map[string]struct{}, len(parsed))
	for _, sig := range parsed {
		parsedKeys[sig.Key()] = struct{}{}
	}
	currentKeys := make(map[string]struct{}, len(ch.Current))
	for _, sig := range ch.Current {
		currentKeys[sig.Key()] = struct{}{}
	}

	for _, sig := range parsed {
		if _, ok := currentKeys[sig.Key()]; ok {
			ch.Common = append(ch.Common, sig)
		} else {
			ch.Added = append(ch.Added, sig)
		}
	}
	for _, sig := range ch.Current {
		if _, ok := parsedKeys[sig.Key()]; !ok {
			ch.Removed = append(ch.Removed, sig)
		}
	}

	ch.pairModified()
	ch.Assemblies, ch.AsmByKey = assemblySigLists(tree, seq)
	return ch, nil
}

// pairModified reclassifies matching added/removed signatures as modified,
// first match wins.
func (c *Changes) pairModified() {
	var added []elements.Signature
	for _, ae := range c.Added {
		paired := false
		for i, re := range c.Removed {
			if ae.Kind == re.Kind && ae.FirstGap() == re.FirstGap() {
				c.Modified = append(c.Modified, ModifiedPair{Old: re, New: ae})
				c.Removed = append(c.Removed[:i], c.Removed[i+1:]...)
				paired = true
				break
			}
		}
		if !paired {
			added = append(added, ae)
		}
	}
	c.Added = added
}

// assemblySigLists collects the structural signatures of all assembly
// constituents in the tree.
func assemblySigLists(tree *parttree.Tree, seq *sequence.Model) ([]elements.Signature, map[string]elements.Part) {
	var sigs []elements.Signature
	byKey := make(map[string]elements.Part)
	for _, n := range tree.NodesWithTags(parttree.TagFilter{Any: parttree.TagAssembly}) {
		asm, ok := n.ID.(*elements.Assembly)
		if !ok {
			continue
		}
		for _, sig := range asm.ConstituentSignatures(seq) {
			sigs = append(sigs, sig)
			byKey[sig.Key()] = asm
		}
	}
	return sigs, byKey
}

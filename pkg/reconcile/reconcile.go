package reconcile

import (
	"fmt"

	"github.com/optikit/optikit/pkg/elements"
	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

// Apply mutates the registry and tree to match a classified diff: added
// signatures are instantiated via the kind-indexed factory and attached,
// removed parts are unregistered and detached, modified parts update in
// place. Additions are processed in ascending order of their first
// structural index so placement is reproducible when several parts are
// added in one pass. Finishes with a reorder so sibling order matches the
// sequence again.
func Apply(ch *Changes, seq *sequence.Model, reg *elements.Registry, tree *parttree.Tree) error {
	if ch.IsConsistent() {
		return nil
	}

	added := append([]elements.Signature(nil), ch.Added...)
	elements.SortByFirstIdx(added)
	for _, sig := range added {
		p, err := elements.NewFromSignature(seq, sig)
		if err != nil {
			return err
		}
		reg.Add(p)
		zdir := seq.ZDirAt(p.ReferenceIdx(seq))
		tree.AddPart(p.MakeTree(seq, zdir, 0))
		partsAdded.WithLabelValues(string(sig.Kind)).Inc()
	}

	for _, sig := range ch.Removed {
		p, ok := ch.ByKey[sig.Key()]
		if !ok {
			return fmt.Errorf("reconcile: removed signature %s has no registered part", sig)
		}
		reg.Remove(p)
		if node := tree.Node(p); node != nil {
			rehomeOrphans(tree, seq, tree.RemovePart(node))
		}
		partsRemoved.WithLabelValues(string(sig.Kind)).Inc()
	}

	for _, pair := range ch.Modified {
		p, ok := ch.ByKey[pair.Old.Key()]
		if !ok {
			return fmt.Errorf("reconcile: modified signature %s has no registered part", pair.Old)
		}
		if err := p.SyncToSignature(seq, pair.New); err != nil {
			return err
		}
		// The part object is rebound in place; its node subtree may still
		// hold leaves for departed sequence objects, so rebuild it.
		if node := tree.Node(p); node != nil {
			rehomeOrphans(tree, seq, tree.RemovePart(node))
		}
		zdir := seq.ZDirAt(p.ReferenceIdx(seq))
		tree.AddPart(p.MakeTree(seq, zdir, 0))
		partsModified.WithLabelValues(string(pair.New.Kind)).Inc()
	}

	tree.ReorderFromSequence(seq)
	return nil
}

// Refresh runs classification and reconciliation as one unit and returns
// the classified diff that was applied.
func Refresh(seq *sequence.Model, reg *elements.Registry, tree *parttree.Tree) (*Changes, error) {
	ch, err := Classify(seq, reg, tree)
	if err != nil {
		return nil, err
	}
	if !ch.IsConsistent() {
		if err := Apply(ch, seq, reg, tree); err != nil {
			return ch, err
		}
	}
	refreshTotal.Inc()
	return ch, nil
}

// rehomeOrphans re-homes the leaves of detached part subtrees that still
// correspond to live sequence entries as direct children of root, and
// discards the rest.
func rehomeOrphans(tree *parttree.Tree, seq *sequence.Model, orphans []*parttree.Node) {
	for _, o := range orphans {
		for _, leaf := range o.Leaves() {
			if tree.Node(leaf.ID) == leaf && liveInSequence(seq, leaf.ID) {
				leaf.Detach()
				tree.Rehome(leaf)
			}
		}
		// An orphan that was itself a live leaf is attached under root now
		// and must not be dropped.
		if o.Parent() == nil {
			tree.DropSubtree(o)
		}
	}
}

func liveInSequence(seq *sequence.Model, id any) bool {
	switch v := id.(type) {
	case *sequence.Interface:
		return seq.IndexOfIfc(v) >= 0
	case *sequence.Gap:
		return seq.IndexOfGap(v) >= 0
	case sequence.GapKey:
		return seq.IndexOfGap(v.Gap) >= 0
	case *sequence.Profile:
		for _, ifc := range seq.Ifcs {
			if ifc.Profile == v {
				return true
			}
		}
	}
	return false
}

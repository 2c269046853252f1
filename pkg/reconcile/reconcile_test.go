package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optikit/optikit/pkg/elements"
	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

func singlet(t *testing.T) *sequence.Model {
	t.Helper()
	m := sequence.NewObjectImage()
	require.NoError(t, m.Insert(1, sequence.NewInterface(0.02),
		&sequence.Gap{Thickness: 4, Medium: sequence.Medium{Name: "N-BK7", Index: 1.5168}}))
	require.NoError(t, m.Insert(2, sequence.NewInterface(-0.02),
		&sequence.Gap{Thickness: 10, Medium: sequence.Air()}))
	return m
}

func grouped(t *testing.T, seq *sequence.Model) (*elements.Registry, *parttree.Tree) {
	t.Helper()
	reg := elements.NewRegistry()
	tree := parttree.New()
	require.NoError(t, GroupFromSequence(seq, reg, tree))
	return reg, tree
}

func labels(reg *elements.Registry) []string {
	var out []string
	for _, p := range reg.Parts() {
		out = append(out, p.Label())
	}
	return out
}

func TestGroupFromSequenceSinglet(t *testing.T) {
	seq := singlet(t)
	require.Equal(t, "daigiad", seq.SeqStr())
	reg, tree := grouped(t, seq)

	assert.ElementsMatch(t,
		[]string{"Object", "Object space", "E1", "Image space", "Image"},
		labels(reg))

	// five top-level parts in sequence order
	var names []string
	for _, c := range tree.Root.Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t,
		[]string{"Object", "Object space", "E1", "Image space", "Image"},
		names)

	// the element owns its surfaces
	e, ok := reg.PartByLabel("E1")
	require.True(t, ok)
	assert.Same(t, tree.Node(e), tree.ResolveParent(seq.Ifcs[1], parttree.DefaultParentFilter))
	assert.Same(t, tree.Node(e), tree.ResolveParent(seq.Ifcs[2], parttree.DefaultParentFilter))
}

func TestGroupFromSequenceCemented(t *testing.T) {
	seq := singlet(t)
	require.NoError(t, seq.Insert(2, sequence.NewInterface(0.0),
		&sequence.Gap{Thickness: 3, Medium: sequence.Medium{Name: "SF5", Index: 1.6727}}))
	require.Equal(t, "daigigiad", seq.SeqStr())

	reg, tree := grouped(t, seq)
	ce, ok := reg.PartByLabel("CE1")
	require.True(t, ok)
	assert.Equal(t, "CementedElement|1,2,3|1,2", ce.Signature(seq).Key())

	node := tree.Node(ce)
	require.NotNil(t, node)
	// p1 t1 p2 t2 p3
	assert.Len(t, node.Children(), 5)
}

func TestGroupFromSequenceStop(t *testing.T) {
	seq := singlet(t)
	require.NoError(t, seq.Insert(3, &sequence.Interface{Mode: sequence.Dummy, Profile: &sequence.Profile{}},
		&sequence.Gap{Thickness: 5, Medium: sequence.Air()}))
	seq.Stop = 3

	reg, _ := grouped(t, seq)
	stop, ok := reg.PartByLabel("Stop")
	require.True(t, ok)
	assert.Equal(t, elements.KindDummyIfc, elements.KindOf(stop))
}

func TestGroupFromSequenceBuriedReflector(t *testing.T) {
	seq := sequence.NewObjectImage()
	require.NoError(t, seq.Insert(1, sequence.NewInterface(0.01),
		&sequence.Gap{Thickness: 5, Medium: sequence.Medium{Name: "N-BK7", Index: 1.5168}}))
	require.NoError(t, seq.Insert(2, &sequence.Interface{Mode: sequence.Reflect, Profile: &sequence.Profile{}},
		&sequence.Gap{Thickness: 5, Medium: sequence.Medium{Name: "N-BK7", Index: 1.5168}}))
	require.NoError(t, seq.Insert(3, sequence.NewInterface(0.01),
		&sequence.Gap{Thickness: 20, Medium: sequence.Air()}))
	require.Equal(t, "daigrgiad", seq.SeqStr())

	reg, tree := grouped(t, seq)
	e, ok := reg.PartByLabel("E1")
	require.True(t, ok)
	assert.Equal(t, "Element|1,2|1", e.Signature(seq).Key())

	// the surface behind the reflector folds under the front profile
	node := tree.Node(e)
	require.NotNil(t, node)
	p1 := node.FindName("p1")
	require.NotNil(t, p1)
	assert.Len(t, p1.Children(), 2, "front surface plus the reflected exit surface")

	// both glass gaps ride on the thickness node
	th := node.FindName("t")
	require.NotNil(t, th)
	assert.Len(t, th.Children(), 2)
}

func TestClassifyConsistentAfterGrouping(t *testing.T) {
	seq := singlet(t)
	reg, tree := grouped(t, seq)

	ch, err := Classify(seq, reg, tree)
	require.NoError(t, err)
	assert.True(t, ch.IsConsistent())
	assert.Len(t, ch.Common, 5)
}

func TestClassifyEmptySequence(t *testing.T) {
	ch, err := Classify(sequence.New(), elements.NewRegistry(), parttree.New())
	require.NoError(t, err)
	assert.True(t, ch.IsConsistent())
	assert.Empty(t, ch.Parsed)
}

func TestPairModifiedFirstMatchOrder(t *testing.T) {
	// Two mirrors move at once. All four signatures share kind and first
	// gap index (-1 for gapless parts), so every pairing is a candidate;
	// the first-match rule must pair them in list order.
	ch := &Changes{
		Added: []elements.Signature{
			{Kind: elements.KindMirror, Ifcs: []int{2}},
			{Kind: elements.KindMirror, Ifcs: []int{5}},
		},
		Removed: []elements.Signature{
			{Kind: elements.KindMirror, Ifcs: []int{3}},
			{Kind: elements.KindMirror, Ifcs: []int{7}},
		},
	}
	ch.pairModified()

	require.Len(t, ch.Modified, 2)
	assert.Equal(t, []int{3}, ch.Modified[0].Old.Ifcs)
	assert.Equal(t, []int{2}, ch.Modified[0].New.Ifcs)
	assert.Equal(t, []int{7}, ch.Modified[1].Old.Ifcs)
	assert.Equal(t, []int{5}, ch.Modified[1].New.Ifcs)
	assert.Empty(t, ch.Added)
	assert.Empty(t, ch.Removed)
}

func TestRefreshInsertedMirror(t *testing.T) {
	seq := singlet(t)
	reg, tree := grouped(t, seq)
	before := len(reg.Parts())

	// split the image-side air space with a fold mirror
	require.NoError(t, seq.Insert(3, &sequence.Interface{Mode: sequence.Reflect, Profile: &sequence.Profile{}},
		&sequence.Gap{Thickness: 15, Medium: sequence.Air()}))

	ch, err := Refresh(seq, reg, tree)
	require.NoError(t, err)

	kinds := map[elements.Kind]int{}
	for _, sig := range ch.Added {
		kinds[sig.Kind]++
	}
	assert.Equal(t, 1, kinds[elements.KindMirror])
	assert.Equal(t, 1, kinds[elements.KindAirGap], "the split air space gains a second part")
	assert.Empty(t, ch.Removed)
	assert.Equal(t, before+2, len(reg.Parts()))

	ch, err = Classify(seq, reg, tree)
	require.NoError(t, err)
	assert.True(t, ch.IsConsistent(), "refresh converges in one pass")
}

func TestRefreshRemovedMirror(t *testing.T) {
	seq := singlet(t)
	require.NoError(t, seq.Insert(3, &sequence.Interface{Mode: sequence.Reflect, Profile: &sequence.Profile{}},
		&sequence.Gap{Thickness: 15, Medium: sequence.Air()}))
	reg, tree := grouped(t, seq)
	before := len(reg.Parts())

	require.NoError(t, seq.Remove(3))
	ch, err := Refresh(seq, reg, tree)
	require.NoError(t, err)

	kinds := map[elements.Kind]int{}
	for _, sig := range ch.Removed {
		kinds[sig.Kind]++
	}
	assert.Equal(t, 1, kinds[elements.KindMirror])
	assert.Equal(t, 1, kinds[elements.KindAirGap])
	assert.Empty(t, ch.Added)
	assert.Equal(t, before-2, len(reg.Parts()))

	ch, err = Classify(seq, reg, tree)
	require.NoError(t, err)
	assert.True(t, ch.IsConsistent())
}

func TestRefreshModifiedMirrorKeepsPart(t *testing.T) {
	seq := singlet(t)
	require.NoError(t, seq.Insert(3, &sequence.Interface{Mode: sequence.Reflect, Profile: &sequence.Profile{}},
		&sequence.Gap{Thickness: 15, Medium: sequence.Air()}))
	reg, tree := grouped(t, seq)

	mirror, ok := reg.PartByLabel("M1")
	require.True(t, ok)

	// replace the mirror surface with a fresh one at the same position
	require.NoError(t, seq.Remove(3))
	newIfc := &sequence.Interface{Mode: sequence.Reflect, Profile: &sequence.Profile{}}
	require.NoError(t, seq.Insert(3, newIfc,
		&sequence.Gap{Thickness: 15, Medium: sequence.Air()}))

	ch, err := Refresh(seq, reg, tree)
	require.NoError(t, err)

	require.Len(t, ch.Modified, 1)
	assert.Equal(t, elements.KindMirror, ch.Modified[0].New.Kind)

	// same registered part, rebound in place
	got, ok := reg.PartByLabel("M1")
	require.True(t, ok)
	assert.Same(t, mirror, got)
	assert.Same(t, newIfc, got.(*elements.Mirror).Ifc)

	// the tree follows: the new surface lives under the same part
	assert.Same(t, tree.Node(mirror),
		tree.ResolveParent(newIfc, parttree.DefaultParentFilter))

	ch, err = Classify(seq, reg, tree)
	require.NoError(t, err)
	assert.True(t, ch.IsConsistent())
}

func TestApplyConsistentIsNoOp(t *testing.T) {
	seq := singlet(t)
	reg, tree := grouped(t, seq)
	partsBefore := len(reg.Parts())

	ch, err := Classify(seq, reg, tree)
	require.NoError(t, err)
	require.NoError(t, Apply(ch, seq, reg, tree))
	assert.Equal(t, partsBefore, len(reg.Parts()))
}

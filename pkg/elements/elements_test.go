package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestSignatureKey(t *testing.T) {
	sig := Signature{Kind: KindCemented, Ifcs: []int{1, 2, 3}, Gaps: []int{1, 2}}
	assert.Equal(t, "CementedElement|1,2,3|1,2", sig.Key())
	assert.Equal(t, 1, sig.FirstIdx())
	assert.Equal(t, 1, sig.FirstGap())

	mirror := Signature{Kind: KindMirror, Ifcs: []int{4}}
	assert.Equal(t, "Mirror|4|", mirror.Key())
	assert.Equal(t, -1, mirror.FirstGap())

	airgap := Signature{Kind: KindAirGap, Gaps: []int{2}}
	assert.Equal(t, 2, airgap.FirstIdx())
}

func TestSortByFirstIdx(t *testing.T) {
	sigs := []Signature{
		{Kind: KindAirGap, Gaps: []int{5}},
		{Kind: KindElement, Ifcs: []int{1, 2}, Gaps: []int{1}},
		{Kind: KindMirror, Ifcs: []int{3}},
	}
	SortByFirstIdx(sigs)
	assert.Equal(t, KindElement, sigs[0].Kind)
	assert.Equal(t, KindMirror, sigs[1].Kind)
	assert.Equal(t, KindAirGap, sigs[2].Kind)
}

func TestElementMakeTree(t *testing.T) {
	seq := singlet(t)
	e := NewElement(seq.Ifcs[1], seq.Ifcs[2], seq.Gaps[1])
	e.SetLabel("E1")

	assert.Equal(t, "Element|1,2|1", e.Signature(seq).Key())
	assert.Equal(t, 1, e.ReferenceIdx(seq))

	root := e.MakeTree(seq, sequence.ZDirForward, 0)
	assert.Equal(t, "E1", root.Name)
	assert.True(t, root.Tags.Has(parttree.TagElement))
	require.Len(t, root.Children(), 3)

	p1 := root.Children()[0]
	assert.Equal(t, "p1", p1.Name)
	assert.Same(t, seq.Ifcs[1].Profile, p1.ID)
	require.Len(t, p1.Children(), 1)
	assert.Equal(t, "i1", p1.Children()[0].Name)

	th := root.Children()[1]
	assert.Equal(t, "t", th.Name)
	require.Len(t, th.Children(), 1)
	assert.Equal(t, "g1", th.Children()[0].Name)
	assert.Equal(t, sequence.GapKey{Gap: seq.Gaps[1], ZDir: sequence.ZDirForward},
		th.Children()[0].ID)
}

func TestElementSyncToSignature(t *testing.T) {
	seq := singlet(t)
	e := NewElement(seq.Ifcs[1], seq.Ifcs[2], seq.Gaps[1])

	// push the element one position down the sequence
	require.NoError(t, seq.Insert(1, sequence.NewInterface(0),
		&sequence.Gap{Thickness: 1, Medium: sequence.Air()}))
	sig := Signature{Kind: KindElement, Ifcs: []int{2, 3}, Gaps: []int{2}}
	require.NoError(t, e.SyncToSignature(seq, sig))
	assert.Same(t, seq.Ifcs[2], e.S1)
	assert.Same(t, seq.Ifcs[3], e.S2)
	assert.Same(t, seq.Gaps[2], e.Gap)

	assert.Error(t, e.SyncToSignature(seq, Signature{Kind: KindMirror, Ifcs: []int{1}}))
	assert.Error(t, e.SyncToSignature(seq, Signature{Kind: KindElement, Ifcs: []int{0, 99}, Gaps: []int{0}}))
}

func TestFlippedProfiles(t *testing.T) {
	seq := singlet(t)
	e := NewElement(seq.Ifcs[1], seq.Ifcs[2], seq.Gaps[1])

	ps := e.Profiles()
	require.Len(t, ps, 2)
	assert.Same(t, seq.Ifcs[1].Profile, ps[0])

	e.Flipped = true
	ps = e.Profiles()
	assert.Same(t, seq.Ifcs[2].Profile, ps[0])
}

func TestRegistryLabelsAndKeys(t *testing.T) {
	seq := singlet(t)
	reg := NewRegistry()

	e := NewElement(seq.Ifcs[1], seq.Ifcs[2], seq.Gaps[1])
	ag := NewAirGap(seq.Gaps[2])
	reg.Add(e)
	reg.Add(ag)

	assert.Equal(t, "E1", e.Label())
	assert.Equal(t, "AG1", ag.Label())
	assert.NotEmpty(t, e.Key())
	assert.NotEqual(t, e.Key(), ag.Key())

	// pre-set labels survive registration
	d := NewDummyInterface(seq.Ifcs[0])
	d.SetLabel("Object")
	reg.Add(d)
	assert.Equal(t, "Object", d.Label())

	got, ok := reg.PartByLabel("E1")
	require.True(t, ok)
	assert.Same(t, e, got)
	got, ok = reg.PartByKey(ag.Key())
	require.True(t, ok)
	assert.Same(t, ag, got)

	reg.Remove(e)
	assert.Len(t, reg.Parts(), 2)
	_, ok = reg.PartByKey(e.Key())
	assert.False(t, ok)
}

func TestPartsForRange(t *testing.T) {
	seq := singlet(t)
	reg := NewRegistry()
	e := NewElement(seq.Ifcs[1], seq.Ifcs[2], seq.Gaps[1])
	ag := NewAirGap(seq.Gaps[2])
	d := NewDummyInterface(seq.Ifcs[0])
	reg.Add(e)
	reg.Add(ag)
	reg.Add(d)

	got := reg.PartsForRange(seq, 1, 3)
	require.Len(t, got, 2)
	assert.Same(t, e, got[0])
	assert.Same(t, ag, got[1])

	got = reg.PartsForRange(seq, 1, 2)
	require.Len(t, got, 1)
	assert.Same(t, e, got[0])

	got = reg.PartsForRange(seq, 0, 0)
	require.Len(t, got, 1)
	assert.Same(t, d, got[0])
}

func TestSigListsSkipsAssemblies(t *testing.T) {
	seq := singlet(t)
	reg := NewRegistry()
	e := NewElement(seq.Ifcs[1], seq.Ifcs[2], seq.Gaps[1])
	reg.Add(e)
	reg.Add(NewAssembly(e))

	sigs, byKey := reg.SigLists(seq)
	require.Len(t, sigs, 1)
	assert.Equal(t, KindElement, sigs[0].Kind)
	assert.Same(t, e, byKey[sigs[0].Key()])
}

func TestAssemblySignatureIsSortedUnion(t *testing.T) {
	seq := singlet(t)
	e := NewElement(seq.Ifcs[1], seq.Ifcs[2], seq.Gaps[1])
	ag := NewAirGap(seq.Gaps[2])
	asm := NewAssembly(ag, e)

	sig := asm.Signature(seq)
	assert.Equal(t, []int{1, 2}, sig.Ifcs)
	assert.Equal(t, []int{1, 2}, sig.Gaps)
	assert.Equal(t, 1, asm.ReferenceIdx(seq))
	assert.Len(t, asm.ConstituentSignatures(seq), 2)
}

func TestNewFromSignature(t *testing.T) {
	seq := singlet(t)

	tests := []struct {
		sig     Signature
		want    Kind
		wantErr bool
	}{
		{Signature{Kind: KindElement, Ifcs: []int{1, 2}, Gaps: []int{1}}, KindElement, false},
		{Signature{Kind: KindMirror, Ifcs: []int{1}}, KindMirror, false},
		{Signature{Kind: KindAirGap, Gaps: []int{0}}, KindAirGap, false},
		{Signature{Kind: KindDummyIfc, Ifcs: []int{0}}, KindDummyIfc, false},
		{Signature{Kind: KindElement, Ifcs: []int{1}, Gaps: []int{1}}, "", true},
		{Signature{Kind: KindMirror, Ifcs: []int{42}}, "", true},
		{Signature{Kind: KindAssembly}, "", true},
		{Signature{Kind: "NoSuchKind"}, "", true},
	}
	for _, tt := range tests {
		p, err := NewFromSignature(seq, tt.sig)
		if tt.wantErr {
			assert.Error(t, err, "sig %s", tt.sig)
			continue
		}
		require.NoError(t, err, "sig %s", tt.sig)
		assert.Equal(t, tt.want, KindOf(p))
	}
}

func TestSyncTreeNames(t *testing.T) {
	seq := singlet(t)
	reg := NewRegistry()
	tr := parttree.New()

	e := NewElement(seq.Ifcs[1], seq.Ifcs[2], seq.Gaps[1])
	reg.Add(e)
	tr.AddPart(e.MakeTree(seq, seq.ZDirAt(1), 0))

	// shift everything down by one position
	require.NoError(t, seq.Insert(1, sequence.NewInterface(0),
		&sequence.Gap{Thickness: 1, Medium: sequence.Air()}))

	SyncTreeNames(tr, seq, reg)

	n := tr.Node(seq.Ifcs[2])
	require.NotNil(t, n)
	assert.Equal(t, "i2", n.Name)
	gn := tr.Node(sequence.GapKey{Gap: e.Gap, ZDir: seq.ZDirAt(2)})
	require.NotNil(t, gn)
	assert.Equal(t, "g2", gn.Name)

	e.SetLabel("Objective")
	SyncTreeNames(tr, seq, reg)
	assert.Equal(t, "Objective", tr.Node(e).Name)
}

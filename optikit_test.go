package optikit_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optikit/optikit"
	"github.com/optikit/optikit/pkg/sequence"
)

func singletSeq(t *testing.T) *sequence.Model {
	t.Helper()
	m := sequence.NewObjectImage()
	require.NoError(t, m.Insert(1, sequence.NewInterface(0.02),
		&sequence.Gap{Thickness: 4, Medium: sequence.Medium{Name: "N-BK7", Index: 1.5168}}))
	require.NoError(t, m.Insert(2, sequence.NewInterface(-0.02),
		&sequence.Gap{Thickness: 10, Medium: sequence.Air()}))
	return m
}

func rootChildNames(m *optikit.Model) []string {
	var out []string
	for _, c := range m.Tree.Root.Children() {
		out = append(out, c.Name)
	}
	return out
}

func TestNewIsEmptyButWellFormed(t *testing.T) {
	m := optikit.New(optikit.WithTitle("empty"))
	assert.Equal(t, "empty", m.Title)
	assert.Equal(t, "dad", m.Seq.SeqStr())
	assert.Empty(t, m.Elements.Parts())
	assert.True(t, m.Tree.IsEmpty())
}

func TestNewFromSequence(t *testing.T) {
	m, err := optikit.NewFromSequence(singletSeq(t))
	require.NoError(t, err)

	assert.True(t, m.IsConsistent())
	assert.Equal(t,
		[]string{"Object", "Object space", "E1", "Image space", "Image"},
		rootChildNames(m))
}

func TestRefreshAfterEdit(t *testing.T) {
	m, err := optikit.NewFromSequence(singletSeq(t))
	require.NoError(t, err)

	require.NoError(t, m.Seq.Insert(3,
		&sequence.Interface{Mode: sequence.Reflect, Profile: &sequence.Profile{}},
		&sequence.Gap{Thickness: 15, Medium: sequence.Air()}))
	assert.False(t, m.IsConsistent())

	ch, err := m.Refresh()
	require.NoError(t, err)
	assert.Len(t, ch.Added, 2)
	assert.True(t, m.IsConsistent())

	// node names track the shifted positions
	n := m.Tree.Node(m.Seq.Ifcs[4])
	require.NotNil(t, n)
	assert.Equal(t, "i4", n.Name)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := optikit.NewFromSequence(singletSeq(t), optikit.WithTitle("singlet"))
	require.NoError(t, err)
	m.Note = "round trip"

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	got, err := optikit.Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, "singlet", got.Title)
	assert.Equal(t, "round trip", got.Note)
	assert.Equal(t, m.Seq.SeqStr(), got.Seq.SeqStr())
	assert.Equal(t, rootChildNames(m), rootChildNames(got))
	assert.True(t, got.IsConsistent())

	// identity keys survive: same labels, same keys
	for _, p := range m.Elements.Parts() {
		q, ok := got.Elements.PartByKey(p.Key())
		require.True(t, ok, "part %s", p.Label())
		assert.Equal(t, p.Label(), q.Label())
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := optikit.Load(bytes.NewBufferString("::not yaml::"))
	assert.Error(t, err)

	_, err = optikit.Load(bytes.NewBufferString("version: 1\nsequence:\n  surfaces:\n    - mode: warp\n"))
	assert.Error(t, err)
}

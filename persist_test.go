package optikit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

func singletModel(t *testing.T) *Model {
	t.Helper()
	seq := sequence.NewObjectImage()
	require.NoError(t, seq.Insert(1, sequence.NewInterface(0.02),
		&sequence.Gap{Thickness: 4, Medium: sequence.Medium{Name: "N-BK7", Index: 1.5168}}))
	require.NoError(t, seq.Insert(2, sequence.NewInterface(-0.02),
		&sequence.Gap{Thickness: 10, Medium: sequence.Air()}))
	m, err := NewFromSequence(seq)
	require.NoError(t, err)
	return m
}

func saveDoc(t *testing.T, m *Model) modelDoc {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	var doc modelDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	return doc
}

func loadDoc(t *testing.T, doc modelDoc) (*Model, error) {
	t.Helper()
	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	return Load(bytes.NewReader(out))
}

func stripIDKeys(rec *parttree.NodeRecord) {
	rec.IDKey = ""
	for i := range rec.Children {
		stripIDKeys(&rec.Children[i])
	}
}

// Documents written before identity keys existed resolve every node
// through the positional name convention.
func TestLoadLegacyDocumentWithoutIDKeys(t *testing.T) {
	m := singletModel(t)
	doc := saveDoc(t, m)
	rec, err := parttree.DecodeRecord(doc.Tree)
	require.NoError(t, err)
	stripIDKeys(&rec)
	doc.Tree = rec

	got, err := loadDoc(t, doc)
	require.NoError(t, err)
	assert.True(t, got.IsConsistent())

	e, ok := got.Elements.PartByLabel("E1")
	require.True(t, ok)
	node := got.Tree.Node(e)
	require.NotNil(t, node)
	assert.Same(t, node, got.Tree.ResolveParent(got.Seq.Ifcs[1], parttree.DefaultParentFilter))
}

func TestLoadUnresolvedNodeFailsLoudly(t *testing.T) {
	m := singletModel(t)
	doc := saveDoc(t, m)
	rec, err := parttree.DecodeRecord(doc.Tree)
	require.NoError(t, err)
	stripIDKeys(&rec)
	rec.Children = append(rec.Children, parttree.NodeRecord{
		Name: "who-is-this",
		Tags: []string{"element"},
	})
	doc.Tree = rec

	_, err = loadDoc(t, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedNode))
	assert.Contains(t, err.Error(), "who-is-this")
}

func TestLoadSequenceOnlyDocumentRegroups(t *testing.T) {
	m := singletModel(t)
	doc := saveDoc(t, m)
	doc.Parts = nil
	doc.Tree = nil

	got, err := loadDoc(t, doc)
	require.NoError(t, err)
	assert.True(t, got.IsConsistent())
	assert.Len(t, got.Elements.Parts(), 5)
}

func TestLoadPartsWithoutTreeRebuilds(t *testing.T) {
	m := singletModel(t)
	doc := saveDoc(t, m)
	doc.Tree = nil

	got, err := loadDoc(t, doc)
	require.NoError(t, err)
	assert.True(t, got.IsConsistent())
	// saved labels survive even though the tree was rebuilt
	_, ok := got.Elements.PartByLabel("Image space")
	assert.True(t, ok)
}

func TestKeyForEncodesSequencePositions(t *testing.T) {
	m := singletModel(t)
	assert.Equal(t, "i:1", m.keyFor(m.Seq.Ifcs[1]))
	assert.Equal(t, "p:1", m.keyFor(m.Seq.Ifcs[1].Profile))
	assert.Equal(t, "t:1", m.keyFor(m.Seq.Gaps[1]))
	assert.Equal(t, "g:1", m.keyFor(sequence.GapKey{Gap: m.Seq.Gaps[1], ZDir: sequence.ZDirForward}))
	assert.Equal(t, "", m.keyFor(42))
}

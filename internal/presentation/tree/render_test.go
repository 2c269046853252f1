package tree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optikit/optikit/pkg/parttree"
)

func fixtureTree() *parttree.Tree {
	tr := parttree.New()
	e := parttree.NewNode("E1", "e1", parttree.TagElement|parttree.TagLens)
	p1 := parttree.NewNode("p1", "p1", parttree.TagProfile)
	p1.AttachTo(e)
	parttree.NewNode("i1", "i1", parttree.TagIfc).AttachTo(p1)
	tr.AddPart(e)

	ag := parttree.NewNode("Image space", "ag", parttree.TagSpace|parttree.TagAirgap|parttree.TagImage)
	th := parttree.NewNode("t", "t", parttree.TagThic)
	th.AttachTo(ag)
	parttree.NewNode("g2", "g2", parttree.TagGap).AttachTo(th)
	tr.AddPart(ag)
	return tr
}

func TestRenderShowsHierarchy(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer()
	require.NoError(t, r.Render(&buf, fixtureTree().Root))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 7)
	assert.Contains(t, lines[0], "root")
	assert.Contains(t, out, "E1")
	assert.Contains(t, out, "└── ")
	assert.Contains(t, out, "│   ")
}

func TestRenderShowTags(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer()
	r.ShowTags = true
	require.NoError(t, r.Render(&buf, fixtureTree().Root))
	assert.Contains(t, buf.String(), "#element#lens")
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(fixtureTree().Root)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `"E1"`)
	assert.Contains(t, out, `"Image space (image)"`)
	assert.Contains(t, out, "-->")
	assert.Contains(t, out, "class n2 element;")
	assert.Contains(t, out, "space;")
}

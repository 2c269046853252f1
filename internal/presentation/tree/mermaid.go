package tree

import (
	"fmt"
	"strings"

	"github.com/optikit/optikit/pkg/parttree"
)

// GenerateMermaid produces a Mermaid flowchart of the part hierarchy.
// It applies semantic shapes:
//   - Root / assembly: ((Circle))
//   - Element: [Rectangle]
//   - Air space: [/Parallelogram/]
//   - Interface and gap leaves: ([Stadium])
//
// The object, image and stop markers annotate the node label.
func GenerateMermaid(root *parttree.Node) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[*parttree.Node]string)
	serial := 0
	root.Walk(func(n *parttree.Node) {
		serial++
		ids[n] = fmt.Sprintf("n%d", serial)
	})

	root.Walk(func(n *parttree.Node) {
		opener, closer := "[", "]"
		switch {
		case n.Tags.Has(parttree.TagRoot | parttree.TagAssembly):
			opener, closer = "((", "))"
		case n.Tags.Has(parttree.TagSpace):
			opener, closer = "[/", "/]"
		case n.Tags.Has(parttree.TagIfc | parttree.TagGap):
			opener, closer = "([", "])"
		}
		label := n.Name
		if marks := markerSuffix(n.Tags); marks != "" {
			label += " " + marks
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n",
			ids[n], opener, escapeMermaidLabel(label), closer))
		if p := n.Parent(); p != nil {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", ids[p], ids[n]))
		}
	})

	sb.WriteString("\n    classDef element fill:#e8f5e9,stroke:#2e7d32,color:#000;\n")
	sb.WriteString("    classDef space fill:#e1f5fe,stroke:#01579b,color:#000;\n")
	root.Walk(func(n *parttree.Node) {
		switch {
		case n.Tags.Has(parttree.TagElement):
			sb.WriteString(fmt.Sprintf("    class %s element;\n", ids[n]))
		case n.Tags.Has(parttree.TagSpace):
			sb.WriteString(fmt.Sprintf("    class %s space;\n", ids[n]))
		}
	})

	return sb.String()
}

func markerSuffix(t parttree.Tag) string {
	var marks []string
	if t.Has(parttree.TagObject) {
		marks = append(marks, "(object)")
	}
	if t.Has(parttree.TagImage) {
		marks = append(marks, "(image)")
	}
	if t.Has(parttree.TagStop) {
		marks = append(marks, "(stop)")
	}
	return strings.Join(marks, " ")
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

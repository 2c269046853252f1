package parttree

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// NodeRecord is the persisted form of a node: name, tags and a stable
// identity key, with parent/child nesting mirroring the live tree. Legacy
// payloads carry no id_key; their identities are re-derived from the name
// convention during restore.
type NodeRecord struct {
	Name     string       `yaml:"name" mapstructure:"name"`
	Tags     []string     `yaml:"tags,omitempty" mapstructure:"tags"`
	IDKey    string       `yaml:"id_key,omitempty" mapstructure:"id_key"`
	Children []NodeRecord `yaml:"children,omitempty" mapstructure:"children"`
}

// DecodeRecord converts a loosely-typed payload (as produced by yaml or
// json unmarshaling into interface maps) into a NodeRecord.
func DecodeRecord(raw any) (NodeRecord, error) {
	var rec NodeRecord
	if err := mapstructure.Decode(raw, &rec); err != nil {
		return NodeRecord{}, fmt.Errorf("parttree: decoding node record: %w", err)
	}
	return rec, nil
}

// Export serializes the tree. keyFor maps a node identity to its stable
// key; an empty return omits the key (the node must then be resolvable by
// name convention on restore).
func (t *Tree) Export(keyFor func(id any) string) NodeRecord {
	return exportNode(t.Root, keyFor)
}

func exportNode(n *Node, keyFor func(id any) string) NodeRecord {
	rec := NodeRecord{Name: n.Name, Tags: n.Tags.Strings()}
	if n.ID != nil && keyFor != nil {
		rec.IDKey = keyFor(n.ID)
	}
	for _, c := range n.Children() {
		rec.Children = append(rec.Children, exportNode(c, keyFor))
	}
	return rec
}

// Import rebuilds a tree from its persisted form. Node identities are left
// nil; the returned key map records each node's saved id_key so a
// follow-up resolution pass can rebind identities against the live model
// and populate the identity index via Reindex.
func Import(rec NodeRecord) (*Tree, map[*Node]string) {
	keys := make(map[*Node]string)
	t := &Tree{
		Root:  importNode(rec, keys),
		index: make(map[any]*Node),
	}
	return t, keys
}

func importNode(rec NodeRecord, keys map[*Node]string) *Node {
	n := NewNode(rec.Name, nil, ParseTags(rec.Tags))
	if rec.IDKey != "" {
		keys[n] = rec.IDKey
	}
	for _, c := range rec.Children {
		importNode(c, keys).AttachTo(n)
	}
	return n
}

// Reindex rebuilds the identity index from the current node identities.
// Call after a restore pass has rebound node IDs.
func (t *Tree) Reindex() {
	t.index = make(map[any]*Node)
	t.indexSubtree(t.Root)
}

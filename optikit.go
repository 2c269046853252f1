package optikit

import (
	"log/slog"

	"github.com/optikit/optikit/internal/logging"
	"github.com/optikit/optikit/pkg/elements"
	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/reconcile"
	"github.com/optikit/optikit/pkg/sequence"
)

// Model ties the two representations of an optical system together: the
// flat sequence (ground truth), the element registry (grouped parts), and
// the part tree synchronizing the two. The model is freely mutable shared
// state; callers must not interleave sequence mutation with tree queries.
type Model struct {
	Seq      *sequence.Model
	Elements *elements.Registry
	Tree     *parttree.Tree

	Title string
	Note  string

	logger *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets a structured logger for the model. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithTitle sets the model's display title.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.Title = title
	}
}

// New returns an empty model: an object/image dummy sequence, no parts,
// and a tree holding only its root.
func New(opts ...Option) *Model {
	m := &Model{
		Seq:      sequence.NewObjectImage(),
		Elements: elements.NewRegistry(),
		Tree:     parttree.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	return m
}

// NewFromSequence builds a model over an existing sequence and runs the
// full first-time grouping.
func NewFromSequence(seq *sequence.Model, opts ...Option) (*Model, error) {
	m := New(opts...)
	m.Seq = seq
	if err := reconcile.GroupFromSequence(m.Seq, m.Elements, m.Tree); err != nil {
		return nil, err
	}
	m.Tree.RetagObjectImage(m.Seq)
	return m, nil
}

// Refresh runs classification, reconciliation and reorder as one unit,
// then refreshes tags and node names. Call after any out-of-band sequence
// edit; the tree is not trustworthy between the edit and the completion of
// this call.
func (m *Model) Refresh() (*reconcile.Changes, error) {
	ch, err := reconcile.Refresh(m.Seq, m.Elements, m.Tree)
	if err != nil {
		return ch, err
	}
	m.logger.Debug("refresh",
		"added", len(ch.Added),
		"removed", len(ch.Removed),
		"modified", len(ch.Modified))
	m.UpdateModel()
	return ch, nil
}

// UpdateModel re-establishes the bookkeeping invariants without
// reconciling: object/image tags, node names tracking labels and
// positions, and sibling order.
func (m *Model) UpdateModel() {
	m.Tree.RetagObjectImage(m.Seq)
	elements.SyncTreeNames(m.Tree, m.Seq, m.Elements)
	m.Tree.ReorderFromSequence(m.Seq)
}

// IsConsistent reports whether the tree and registry match the grouping
// the sequence currently implies. Purely advisory: it never mutates and
// never fails; callers decide whether to Refresh.
func (m *Model) IsConsistent() bool {
	ch, err := reconcile.Classify(m.Seq, m.Elements, m.Tree)
	if err != nil {
		m.logger.Warn("consistency check failed to parse sequence", "err", err)
		return false
	}
	return ch.IsConsistent()
}

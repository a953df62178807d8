package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: Synonym (#syn grammar production)
// ═══════════════════════════════════════════════════════════════════════════
// A thin domain wrapper around AtomicOrNode: every member of a synonym
// group is itself a Word node, and the group as a whole behaves exactly
// like an atomic Or except that its canonical key and display form report
// the group's original surface term rather than an anonymous "aor". Kept
// as a distinct NodeKind (rather than just constructing an AtomicOrNode
// directly) so validate.go and a future query-string renderer can tell a
// user-authored synonym expansion apart from a short-word rewrite that
// happens to produce the same shape.
// ═══════════════════════════════════════════════════════════════════════════

type SynonymNode struct {
	AtomicOrNode

	OriginalSurfaceForm string
}

func NewSynonymNode(surfaceForm string, members []NodeID) *SynonymNode {
	s := &SynonymNode{
		AtomicOrNode:         *NewAtomicOrNode(members),
		OriginalSurfaceForm: surfaceForm,
	}
	s.Kind = KindSynonym
	return s
}

func (n *SynonymNode) CanonicalKey(q *Query) string {
	return buildKey("syn", []string{escapeLiteral(n.OriginalSurfaceForm)}, childKeys(q, n.ChildIDs))
}

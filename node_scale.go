package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: Scale
// ═══════════════════════════════════════════════════════════════════════════
// A unary multiplier on its single child's score, for query-time field or
// clause boosting ("title match counts triple"). Boolean operations pass
// straight through to the child unchanged — scaling only has meaning for a
// ranking query.
// ═══════════════════════════════════════════════════════════════════════════

type ScaleNode struct {
	NodeBase
	Factor float64
}

func NewScaleNode(factor float64, child NodeID) *ScaleNode {
	return &ScaleNode{
		NodeBase: NodeBase{Kind: KindScale, ChildIDs: []NodeID{child}, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID},
		Factor:   factor,
	}
}

func (n *ScaleNode) child(q *Query) Node { return q.node(n.ChildIDs[0]) }

func (n *ScaleNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	return n.child(q).LowerBound(q, given, rough)
}

func (n *ScaleNode) Evaluate(q *Query, doc DocumentID) bool {
	return n.child(q).Evaluate(q, doc)
}

func (n *ScaleNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	return n.child(q).Reevaluate(q, doc)
}

func (n *ScaleNode) Locations(q *Query, doc DocumentID) (LocationListIterator, bool) {
	return n.child(q).Locations(q, doc)
}

func (n *ScaleNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	s, ok := n.child(q).EvaluateScore(q, doc)
	if !ok {
		return 0, false
	}
	return s * DocumentScore(n.Factor), true
}

func (n *ScaleNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.child(q).Retrieve(q, excludedIDs, maxID)
	child := n.child(q).Base()
	n.FirstStepBuf = append(n.FirstStepBuf[:0], child.FirstStepBuf...)
	if q.Ranking() {
		for i := range n.FirstStepBuf {
			n.FirstStepBuf[i].Partial *= DocumentScore(n.Factor)
		}
	}
	n.Retrieved = true
	n.EstimatedDF = child.EstimatedDF
	n.HasEstimatedDF = child.HasEstimatedDF
}

func (n *ScaleNode) DoSecondStep(q *Query) []ScoredHit {
	hits := n.child(q).DoSecondStep(q)
	out := make([]ScoredHit, len(hits))
	for i, h := range hits {
		out[i] = ScoredHit{Doc: h.Doc, Score: h.Score * DocumentScore(n.Factor)}
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *ScaleNode) CanonicalKey(q *Query) string {
	return buildKey("scale", []string{floatParam(n.Factor)}, childKeys(q, n.ChildIDs))
}

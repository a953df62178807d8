package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: AtomicOr
// ═══════════════════════════════════════════════════════════════════════════
// An Or the validator's flattening and OR-normal-form passes must treat as
// a single indivisible unit — its children never get hoisted into a
// surrounding Or, and it never gets expanded against a sibling And. A
// caller can build one for a short word (an Or of single-character
// matches standing in for an un-indexable short token; the validator has
// no such rewrite of its own), and it is what the Synonym node's underlying structure uses so a synonym
// group's members are scored together rather than diluted across a larger
// flattened tree.
// ═══════════════════════════════════════════════════════════════════════════

type AtomicOrNode struct {
	NodeBase
}

func NewAtomicOrNode(children []NodeID) *AtomicOrNode {
	return &AtomicOrNode{NodeBase: NodeBase{
		Kind: KindAtomicOr, ChildIDs: children,
		RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
		Combiner: DefaultOrCombiner(),
		Atomic:   true, FlattenBlocked: true,
	}}
}

func (n *AtomicOrNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	best := UpperBoundDocumentID
	found := false
	for _, id := range n.ChildIDs {
		got, ok := q.node(id).LowerBound(q, given, rough)
		if ok && got < best {
			best = got
			found = true
		}
	}
	if !found {
		return UpperBoundDocumentID, false
	}
	return best, true
}

func (n *AtomicOrNode) Evaluate(q *Query, doc DocumentID) bool {
	for _, id := range n.ChildIDs {
		if q.node(id).Evaluate(q, doc) {
			return true
		}
	}
	return false
}

func (n *AtomicOrNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	var tf TermFrequency
	matched := false
	for _, id := range n.ChildIDs {
		ok, childTF := q.node(id).Reevaluate(q, doc)
		if ok {
			matched = true
			tf += childTF
		}
	}
	return matched, tf
}

func (n *AtomicOrNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	var score DocumentScore
	first := true
	for _, id := range n.ChildIDs {
		s, ok := q.node(id).EvaluateScore(q, doc)
		if !ok {
			continue
		}
		if first {
			score = s
			first = false
			continue
		}
		score = n.Combiner.Combine(score, s)
	}
	return score, !first
}

func (n *AtomicOrNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.FirstStepBuf = n.FirstStepBuf[:0]
	excl := newSortedExcluded(excludedIDs, maxID)
	doc := UndefinedDocumentID
	for {
		got, ok := n.LowerBound(q, doc+1, false)
		if !ok || got > maxID {
			break
		}
		doc = got
		if excl.skip(doc) {
			continue
		}
		var partial DocumentScore
		if q.Ranking() {
			partial, ok = n.EvaluateScore(q, doc)
			if !ok {
				continue
			}
		}
		n.FirstStepBuf = append(n.FirstStepBuf, firstStepHit{Doc: doc, Partial: partial})
	}
	n.Retrieved = true
	df := uint64(len(n.FirstStepBuf))
	n.EstimatedDF = &df
	n.HasEstimatedDF = true
}

func (n *AtomicOrNode) DoSecondStep(q *Query) []ScoredHit {
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *AtomicOrNode) CanonicalKey(q *Query) string {
	return buildKey("aor", []string{combinerParam(n.Combiner)}, childKeys(q, n.ChildIDs))
}

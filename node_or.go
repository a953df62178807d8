package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: Or
// ═══════════════════════════════════════════════════════════════════════════
// lower_bound is the minimum of every child's lower_bound from the same
// starting point — any child matching is enough. Score combination applies
// the combiner pairwise over every child that matched the document, in
// child order, so an associative+commutative combiner (the default Sum)
// gives the same answer regardless of how OR-normal-form conversion
// reordered or regrouped the children; a non-associative combiner like
// WeightedSumCombiner is exactly why that conversion gates on
// Combiner.IsAssociative().
//
// ShortWordOr marks an Or standing for a term too short to index on its
// own (an Or of the individual characters/short tokens that make it up).
// The caller building the tree sets it; the validator does not create such
// Ors itself. The flatten pass never merges a ShortWordOr node into a
// surrounding Or, so that grouping is kept; FlattenBlocked stops
// flattening the same way for any Or.
// ═══════════════════════════════════════════════════════════════════════════

type OrNode struct {
	NodeBase
	ShortWordOr bool
}

func NewOrNode(children []NodeID) *OrNode {
	return &OrNode{NodeBase: NodeBase{
		Kind: KindOr, ChildIDs: children,
		RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
	}}
}

func (n *OrNode) recomputeSortFactor(q *Query) {
	var sum int64
	for _, id := range n.ChildIDs {
		sum += q.node(id).Base().SortFactor
	}
	n.SortFactor = sum
}

func (n *OrNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
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
		n.memoStore(given, 0, false)
		return UpperBoundDocumentID, false
	}
	n.memoStore(given, best, true)
	return best, true
}

func (n *OrNode) Evaluate(q *Query, doc DocumentID) bool {
	for _, id := range n.ChildIDs {
		if q.node(id).Evaluate(q, doc) {
			return true
		}
	}
	return false
}

func (n *OrNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
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

func (n *OrNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
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

func (n *OrNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
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

func (n *OrNode) DoSecondStep(q *Query) []ScoredHit {
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *OrNode) CanonicalKey(q *Query) string {
	return buildKey("or", []string{combinerParam(n.Combiner)}, childKeys(q, n.ChildIDs))
}

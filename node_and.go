package queryeval

import "math"

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: And
// ═══════════════════════════════════════════════════════════════════════════
// Document-at-a-time: lower_bound repeatedly advances the child with the
// smallest candidate forward until all children agree on the same
// document, the same galloping-intersection shape every inverted-index
// AND uses (compare zoekt's andMatchTree.nextDoc / the old QueryBuilder's
// bitmap AND in this package's original query.go). SortFactor is the sum
// of children's sort factors, saturating at math.MaxInt64 the moment a
// regex-like child is present, so the validator's child-sort phase always
// pushes full-scan children to the back regardless of the cheaper
// children's own costs.
// ═══════════════════════════════════════════════════════════════════════════

type AndNode struct {
	NodeBase
}

func NewAndNode(children []NodeID) *AndNode {
	return &AndNode{NodeBase: NodeBase{
		Kind: KindAnd, ChildIDs: children,
		RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
	}}
}

func (n *AndNode) recomputeSortFactor(q *Query) {
	var sum int64
	for _, id := range n.ChildIDs {
		sf := q.node(id).Base().SortFactor
		if sf == math.MaxInt64 || sum > math.MaxInt64-sf {
			sum = math.MaxInt64
			break
		}
		sum += sf
	}
	n.SortFactor = sum
}

func (n *AndNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
	if len(n.ChildIDs) == 0 {
		n.memoStore(given, 0, false)
		return UpperBoundDocumentID, false
	}
	candidate := given
	for {
		advanced := false
		for _, id := range n.ChildIDs {
			child := q.node(id)
			got, ok := child.LowerBound(q, candidate, rough)
			if !ok {
				n.memoStore(given, 0, false)
				return UpperBoundDocumentID, false
			}
			if got != candidate {
				candidate = got
				advanced = true
			}
		}
		if !advanced {
			n.memoStore(given, candidate, true)
			return candidate, true
		}
	}
}

func (n *AndNode) Evaluate(q *Query, doc DocumentID) bool {
	for _, id := range n.ChildIDs {
		if !q.node(id).Evaluate(q, doc) {
			return false
		}
	}
	return true
}

// Reevaluate conservatively accepts with TF = min(child TFs): an And only
// knows each child matched, not how those per-child occurrence counts
// relate, so the smallest child count is the only safe upper bound on how
// many times the whole conjunction could be said to "occur".
func (n *AndNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	if len(n.ChildIDs) == 0 {
		return true, 0
	}
	min := TermFrequency(math.MaxUint64)
	for _, id := range n.ChildIDs {
		ok, childTF := q.node(id).Reevaluate(q, doc)
		if !ok {
			return false, 0
		}
		if childTF < min {
			min = childTF
		}
	}
	return true, min
}

func (n *AndNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	if !n.Evaluate(q, doc) {
		return 0, false
	}
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
	return score, true
}

// Retrieve runs the default document-at-a-time strategy: it steps through
// the And's own LowerBound (the leapfrog over every child) and records each
// agreed document. Config.UseTermAtATime first runs Retrieve on every
// child, then collects candidates through the same LowerBound walk; the
// children's first-step buffers are not read back, so no in-memory merge
// of them takes place.
func (n *AndNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.FirstStepBuf = n.FirstStepBuf[:0]
	if len(n.ChildIDs) == 0 {
		n.Retrieved = true
		return
	}
	if q.Config().UseTermAtATime {
		n.retrieveTermAtATime(q, excludedIDs, maxID)
		return
	}
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

func (n *AndNode) retrieveTermAtATime(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	for _, id := range n.ChildIDs {
		q.node(id).Retrieve(q, excludedIDs, maxID)
	}
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
}

func (n *AndNode) DoSecondStep(q *Query) []ScoredHit {
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *AndNode) CanonicalKey(q *Query) string {
	return buildKey("and", []string{combinerParam(n.Combiner)}, childKeys(q, n.ChildIDs))
}

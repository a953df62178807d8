package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: End (#end[dist,calc] grammar production)
// ═══════════════════════════════════════════════════════════════════════════
// The mirror image of LocationOp: scores (or filters) a match by its
// distance from the END of the document rather than from the start, for
// "mentioned in the conclusion" style relevance. EndNode.EndNode in
// NodeBase additionally marks an OrderedDistanceNode that lost its last
// path position to stopword erasure during validation — the phrase still
// needs to know how far its last surviving term sits from the document's
// true end when computing within-distance-of-end scoring, and this is the
// node that answers that question for it.
// ═══════════════════════════════════════════════════════════════════════════

type EndNode struct {
	NodeBase

	MaxDistance int // reject a match further than this from the document's end
	Calc        PositionScoreCalculator
	Lengths     DocumentLengthSource
}

func NewEndNode(maxDistance int, calc PositionScoreCalculator, lengths DocumentLengthSource, child NodeID) *EndNode {
	return &EndNode{
		NodeBase:    NodeBase{Kind: KindEnd, ChildIDs: []NodeID{child}, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID},
		MaxDistance: maxDistance,
		Calc:        calc,
		Lengths:     lengths,
	}
}

func (n *EndNode) child(q *Query) Node { return q.node(n.ChildIDs[0]) }

func (n *EndNode) lastPosition(q *Query, doc DocumentID) (int, bool) {
	locs, ok := n.child(q).Locations(q, doc)
	if !ok || locs == nil {
		return 0, false
	}
	last := -1
	for locs.Next() {
		last = locs.CurrentLocation()
	}
	if last < 0 {
		return 0, false
	}
	return last, true
}

func (n *EndNode) distanceFromEnd(q *Query, doc DocumentID) (int, bool) {
	pos, ok := n.lastPosition(q, doc)
	if !ok {
		return 0, false
	}
	if n.Lengths == nil {
		return 0, false
	}
	length, ok := n.Lengths.Length(doc)
	if !ok {
		return 0, false
	}
	dist := int(length) - 1 - pos
	if dist < 0 {
		dist = 0
	}
	return dist, true
}

func (n *EndNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
	candidate := given
	for {
		got, ok := n.child(q).LowerBound(q, candidate, rough)
		if !ok {
			n.memoStore(given, 0, false)
			return UpperBoundDocumentID, false
		}
		if rough || n.Evaluate(q, got) {
			n.memoStore(given, got, true)
			return got, true
		}
		candidate = got + 1
	}
}

func (n *EndNode) Evaluate(q *Query, doc DocumentID) bool {
	if !n.child(q).Evaluate(q, doc) {
		return false
	}
	dist, ok := n.distanceFromEnd(q, doc)
	if !ok {
		return true // no length data: degrade to plain child match, don't filter
	}
	return dist <= n.MaxDistance
}

func (n *EndNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	if !n.Evaluate(q, doc) {
		return false, 0
	}
	return n.child(q).Reevaluate(q, doc)
}

func (n *EndNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	if !n.Evaluate(q, doc) {
		return 0, false
	}
	dist, ok := n.distanceFromEnd(q, doc)
	if !ok || n.Calc == nil {
		return 1, true
	}
	return n.Calc.ScoreAt(dist, 0), true
}

func (n *EndNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
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

func (n *EndNode) DoSecondStep(q *Query) []ScoredHit {
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *EndNode) CanonicalKey(q *Query) string {
	name := ""
	if n.Calc != nil {
		name = n.Calc.Name()
	}
	return buildKey("end", []string{intParam(n.MaxDistance), name}, childKeys(q, n.ChildIDs))
}

package queryeval

import "fmt"

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: AndNot
// ═══════════════════════════════════════════════════════════════════════════
// Exactly two children: ChildIDs[0] is the positive operand, ChildIDs[1]
// the excluded one. LowerBound, Evaluate and Reevaluate are a plain set
// difference in both modes, so Retrieve never yields a document the
// excluded operand matches, in Ranking mode as in Boolean mode.
// EvaluateScore itself does not veto: for any document the positive
// operand scores, it passes the excluded operand's score (0 if it doesn't
// match) through the ScoreNegator and combines that with the positive
// operand's score.
// ═══════════════════════════════════════════════════════════════════════════

type AndNotNode struct {
	NodeBase
}

func NewAndNotNode(positive, excluded NodeID) *AndNotNode {
	return &AndNotNode{NodeBase: NodeBase{
		Kind: KindAndNot, ChildIDs: []NodeID{positive, excluded},
		RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
		Combiner: DefaultAndNotCombiner(),
		Negator:  DefaultNegator(),
	}}
}

func (n *AndNotNode) CheckChildCount() error {
	if len(n.ChildIDs) != 2 {
		return &ValidateError{Kind: KindAndNot, Reason: fmt.Sprintf("AndNot requires exactly 2 children, got %d", len(n.ChildIDs))}
	}
	return nil
}

func (n *AndNotNode) positive(q *Query) Node { return q.node(n.ChildIDs[0]) }
func (n *AndNotNode) excluded(q *Query) Node { return q.node(n.ChildIDs[1]) }

func (n *AndNotNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
	candidate := given
	for {
		got, ok := n.positive(q).LowerBound(q, candidate, rough)
		if !ok {
			n.memoStore(given, 0, false)
			return UpperBoundDocumentID, false
		}
		if n.excluded(q).Evaluate(q, got) {
			candidate = got + 1
			continue
		}
		n.memoStore(given, got, true)
		return got, true
	}
}

func (n *AndNotNode) Evaluate(q *Query, doc DocumentID) bool {
	return n.positive(q).Evaluate(q, doc) && !n.excluded(q).Evaluate(q, doc)
}

func (n *AndNotNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	ok, tf := n.positive(q).Reevaluate(q, doc)
	if !ok {
		return false, 0
	}
	if excluded, _ := n.excluded(q).Reevaluate(q, doc); excluded {
		return false, 0
	}
	return true, tf
}

func (n *AndNotNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	posScore, ok := n.positive(q).EvaluateScore(q, doc)
	if !ok {
		return 0, false
	}
	var negScore DocumentScore
	if s, matched := n.excluded(q).EvaluateScore(q, doc); matched {
		negScore = s
	}
	return n.Combiner.Combine(posScore, n.Negator.Apply(negScore)), true
}

func (n *AndNotNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
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

func (n *AndNotNode) DoSecondStep(q *Query) []ScoredHit {
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *AndNotNode) CanonicalKey(q *Query) string {
	return buildKey("andnot",
		[]string{combinerParam(n.Combiner), negatorParam(n.Negator)},
		childKeys(q, n.ChildIDs))
}

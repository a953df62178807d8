package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: LocationOp (#location[pos,calc] grammar production)
// ═══════════════════════════════════════════════════════════════════════════
// Wraps a single child and scores a match by where in the document it
// occurs rather than by how often: an early hit (low position) counts for
// more than a late one, the standard "title/lead-paragraph boost" signal.
// Boolean evaluation passes through to the child unchanged; only
// EvaluateScore/Retrieve consult position.
// ═══════════════════════════════════════════════════════════════════════════

// PositionScoreCalculator maps a match's position (and the document's total
// length, when known) to a weight.
type PositionScoreCalculator interface {
	ScoreAt(position int, docLength int) DocumentScore
	Name() string
}

// LinearDecayPositionCalculator weights position 0 at 1.0, decaying
// linearly to a floor by HalfLife positions in.
type LinearDecayPositionCalculator struct {
	HalfLife int
	Floor    DocumentScore
}

func (c LinearDecayPositionCalculator) ScoreAt(position int, docLength int) DocumentScore {
	if c.HalfLife <= 0 {
		return 1
	}
	decay := DocumentScore(position) / DocumentScore(c.HalfLife)
	score := 1 - decay
	if score < c.Floor {
		return c.Floor
	}
	return score
}

func (c LinearDecayPositionCalculator) Name() string { return "lineardecay" }

type LocationOpNode struct {
	NodeBase
	Calc PositionScoreCalculator
}

func NewLocationOpNode(calc PositionScoreCalculator, child NodeID) *LocationOpNode {
	return &LocationOpNode{
		NodeBase: NodeBase{Kind: KindLocationOp, ChildIDs: []NodeID{child}, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID},
		Calc:     calc,
	}
}

func (n *LocationOpNode) child(q *Query) Node { return q.node(n.ChildIDs[0]) }

func (n *LocationOpNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	return n.child(q).LowerBound(q, given, rough)
}

func (n *LocationOpNode) Evaluate(q *Query, doc DocumentID) bool {
	return n.child(q).Evaluate(q, doc)
}

func (n *LocationOpNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	return n.child(q).Reevaluate(q, doc)
}

func (n *LocationOpNode) firstPosition(q *Query, doc DocumentID) (int, bool) {
	locs, ok := n.child(q).Locations(q, doc)
	if !ok || locs == nil {
		return 0, false
	}
	if !locs.Next() {
		return 0, false
	}
	return locs.CurrentLocation(), true
}

func (n *LocationOpNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	if !n.child(q).Evaluate(q, doc) {
		return 0, false
	}
	pos, ok := n.firstPosition(q, doc)
	if !ok {
		return 0, true
	}
	return n.Calc.ScoreAt(pos, 0), true
}

func (n *LocationOpNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.child(q).Retrieve(q, excludedIDs, maxID)
	childBuf := n.child(q).Base().FirstStepBuf
	n.FirstStepBuf = n.FirstStepBuf[:0]
	for _, hit := range childBuf {
		partial := hit.Partial
		if q.Ranking() {
			if pos, ok := n.firstPosition(q, hit.Doc); ok {
				partial = n.Calc.ScoreAt(pos, 0)
			}
		}
		n.FirstStepBuf = append(n.FirstStepBuf, firstStepHit{Doc: hit.Doc, Partial: partial, TF: hit.TF})
	}
	n.Retrieved = true
	child := n.child(q).Base()
	n.EstimatedDF = child.EstimatedDF
	n.HasEstimatedDF = child.HasEstimatedDF
}

func (n *LocationOpNode) DoSecondStep(q *Query) []ScoredHit {
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *LocationOpNode) CanonicalKey(q *Query) string {
	name := ""
	if n.Calc != nil {
		name = n.Calc.Name()
	}
	return buildKey("location", []string{name}, childKeys(q, n.ChildIDs))
}

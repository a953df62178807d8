package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// LEAVES: EmptySet, BooleanResult, RankingResult
// ═══════════════════════════════════════════════════════════════════════════
// EmptySet is the dedicated sentinel variant for "no documents can ever
// match this sub-tree" — modelled as its own NodeKind rather than a shared
// static singleton, since every node owns mutable memo state (upper/lower,
// first-step buffers) that a singleton could not safely share across
// concurrent queries.
//
// BooleanResult and RankingResult wrap a caller-supplied, already-owned set
// of matches (plain doc-ids, or (doc-id, score) pairs) as a leaf, the way a
// saved-search or external ranking source plugs into the tree without going
// through an inverted list at all.
// ═══════════════════════════════════════════════════════════════════════════

// EmptySetNode matches nothing. The validator does not prune it: an And
// over it evaluates its other children and still matches nothing, and an
// Or keeps it as a child that never contributes a hit.
type EmptySetNode struct {
	NodeBase
}

func NewEmptySetNode() *EmptySetNode {
	zero := uint64(0)
	return &EmptySetNode{NodeBase: NodeBase{
		Kind: KindEmptySet, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
		EstimatedDF: &zero, HasEstimatedDF: true,
	}}
}

func (n *EmptySetNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	return UpperBoundDocumentID, false
}
func (n *EmptySetNode) Evaluate(q *Query, doc DocumentID) bool { return false }
func (n *EmptySetNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	return false, 0
}
func (n *EmptySetNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) { return 0, false }
func (n *EmptySetNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.FirstStepBuf = n.FirstStepBuf[:0]
	n.Retrieved = true
}
func (n *EmptySetNode) DoSecondStep(q *Query) []ScoredHit { return nil }
func (n *EmptySetNode) CanonicalKey(q *Query) string      { return "#empty()" }

// BooleanResultNode is a leaf over an externally-supplied, already-sorted
// set of matching documents with no associated score or locations.
type BooleanResultNode struct {
	NodeBase

	docs []DocumentID
	pos  int
	tag  string // caller-supplied identity, used only for the canonical key
}

func NewBooleanResultNode(tag string, docs []DocumentID) *BooleanResultNode {
	df := uint64(len(docs))
	return &BooleanResultNode{
		NodeBase: NodeBase{Kind: KindBooleanResult, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
			EstimatedDF: &df, HasEstimatedDF: true},
		docs: docs,
		tag:  tag,
	}
}

func (n *BooleanResultNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
	if n.hasMemo && n.Lower > given {
		n.pos = 0
	}
	for n.pos < len(n.docs) && n.docs[n.pos] < given {
		n.pos++
	}
	if n.pos >= len(n.docs) {
		n.memoStore(given, 0, false)
		return UpperBoundDocumentID, false
	}
	got := n.docs[n.pos]
	n.memoStore(given, got, true)
	return got, true
}

func (n *BooleanResultNode) Evaluate(q *Query, doc DocumentID) bool {
	got, ok := n.LowerBound(q, doc, false)
	return ok && got == doc
}

func (n *BooleanResultNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	if !n.Evaluate(q, doc) {
		return false, 0
	}
	return true, 1
}

// EvaluateScore always reports 0: a BooleanResultNode carries membership
// only, no score signal of its own.
func (n *BooleanResultNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	if !n.Evaluate(q, doc) {
		return 0, false
	}
	return 0, true
}

func (n *BooleanResultNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.FirstStepBuf = n.FirstStepBuf[:0]
	excl := newSortedExcluded(excludedIDs, maxID)
	for _, d := range n.docs {
		if d > maxID {
			break
		}
		if !excl.skip(d) {
			n.FirstStepBuf = append(n.FirstStepBuf, firstStepHit{Doc: d, Partial: 0, TF: 1})
		}
	}
	n.Retrieved = true
}

func (n *BooleanResultNode) DoSecondStep(q *Query) []ScoredHit {
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: 0})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *BooleanResultNode) CanonicalKey(q *Query) string {
	return buildKey("bresult", []string{escapeLiteral(n.tag)}, nil)
}

// RankingResultNode is a leaf over an externally-supplied, already-sorted
// set of (doc-id, score) pairs — the hook that lets a saved ranking signal
// (a relevance-feedback boost, a precomputed embedding score) contribute to
// a larger query tree.
type RankingResultNode struct {
	NodeBase

	hits []ScoredHit
	pos  int
	tag  string
}

func NewRankingResultNode(tag string, hits []ScoredHit) *RankingResultNode {
	df := uint64(len(hits))
	return &RankingResultNode{
		NodeBase: NodeBase{Kind: KindRankingResult, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
			EstimatedDF: &df, HasEstimatedDF: true},
		hits: hits,
		tag:  tag,
	}
}

func (n *RankingResultNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
	if n.hasMemo && n.Lower > given {
		n.pos = 0
	}
	for n.pos < len(n.hits) && n.hits[n.pos].Doc < given {
		n.pos++
	}
	if n.pos >= len(n.hits) {
		n.memoStore(given, 0, false)
		return UpperBoundDocumentID, false
	}
	got := n.hits[n.pos].Doc
	n.memoStore(given, got, true)
	return got, true
}

func (n *RankingResultNode) Evaluate(q *Query, doc DocumentID) bool {
	got, ok := n.LowerBound(q, doc, false)
	return ok && got == doc
}

func (n *RankingResultNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	if !n.Evaluate(q, doc) {
		return false, 0
	}
	return true, 1
}

func (n *RankingResultNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	got, ok := n.LowerBound(q, doc, false)
	if !ok || got != doc {
		return 0, false
	}
	return n.hits[n.pos].Score, true
}

func (n *RankingResultNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.FirstStepBuf = n.FirstStepBuf[:0]
	excl := newSortedExcluded(excludedIDs, maxID)
	for _, h := range n.hits {
		if h.Doc > maxID {
			break
		}
		if !excl.skip(h.Doc) {
			n.FirstStepBuf = append(n.FirstStepBuf, firstStepHit{Doc: h.Doc, Partial: h.Score, TF: 1})
		}
	}
	n.Retrieved = true
}

func (n *RankingResultNode) DoSecondStep(q *Query) []ScoredHit {
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *RankingResultNode) CanonicalKey(q *Query) string {
	return buildKey("rresult", []string{escapeLiteral(n.tag)}, nil)
}

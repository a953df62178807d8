package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// LEAF: SimpleToken
// ═══════════════════════════════════════════════════════════════════════════
// Binds a single (token, language, match-mode) triple to one inverted
// list's posting iterator. This is the node a bare term is rewritten into
// for the simple, non-phrase case.
//
// lower_bound/evaluate's memo-then-posting-lower_bound shape generalises
// "walk one token's skip list directly" into "delegate to a PostingIterator
// and remember the answer", so the same shape works whether the posting
// list is an in-memory slice, a skip list, or a roaring bitmap.
// ═══════════════════════════════════════════════════════════════════════════

// SimpleTokenNode is the QueryNode variant for a single bound term.
type SimpleTokenNode struct {
	NodeBase

	Token  string
	Length int // len(Token), cached for the canonical key
	List   InvertedList
	Iter   PostingIterator // owned by this leaf; created once at bind time
}

// NewSimpleTokenNode binds a token's inverted list. The posting iterator is
// created eagerly and owned by this leaf for its whole lifetime.
func NewSimpleTokenNode(token string, list InvertedList) *SimpleTokenNode {
	n := &SimpleTokenNode{
		NodeBase: NodeBase{Kind: KindSimpleToken, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID},
		Token:    token,
		Length:   len(token),
		List:     list,
	}
	if list != nil {
		n.Iter = list.Begin()
		df := list.GetDocumentFrequency()
		n.EstimatedDF = &df
		n.HasEstimatedDF = true
		n.SortFactor = int64(df)
	}
	return n
}

func (n *SimpleTokenNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
	if n.Iter == nil {
		n.memoStore(given, 0, false)
		return UpperBoundDocumentID, false
	}
	if n.hasMemo && n.Lower > given {
		n.Iter.Reset()
	}
	got, ok := n.Iter.LowerBound(given)
	n.memoStore(given, got, ok)
	return got, ok
}

func (n *SimpleTokenNode) Evaluate(q *Query, doc DocumentID) bool {
	got, ok := n.LowerBound(q, doc, false)
	return ok && got == doc
}

func (n *SimpleTokenNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	if !n.Evaluate(q, doc) {
		return false, 0
	}
	return true, n.Iter.TermFrequency()
}

func (n *SimpleTokenNode) Locations(q *Query, doc DocumentID) (LocationListIterator, bool) {
	if !n.Evaluate(q, doc) {
		return nil, false
	}
	locs := n.Iter.Locations()
	return locs, locs != nil
}

func (n *SimpleTokenNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	if !n.Evaluate(q, doc) {
		return 0, false
	}
	calc := n.Combiner // unused; calculator lives separately
	_ = calc
	return n.firstStepScore(q, doc)
}

func (n *SimpleTokenNode) firstStepScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	calc := q.calculatorFor(n)
	if calc == nil {
		return 0, true
	}
	return calc.FirstStep(n.Iter.TermFrequency(), doc)
}

// Retrieve streams the entire posting, skipping excludedIDs and stopping at
// maxID, computing first-step partial scores along the way.
func (n *SimpleTokenNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.FirstStepBuf = n.FirstStepBuf[:0]
	if n.Iter == nil {
		n.Retrieved = true
		return
	}
	n.Iter.Reset()
	excl := newSortedExcluded(excludedIDs, maxID)
	doc, ok := n.Iter.LowerBound(UndefinedDocumentID + 1)
	for ok && doc <= maxID {
		if !excl.skip(doc) {
			tf := n.Iter.TermFrequency()
			partial, has := DocumentScore(0), true
			if q.Ranking() {
				partial, has = n.firstStepScore(q, doc)
			}
			if has {
				n.FirstStepBuf = append(n.FirstStepBuf, firstStepHit{Doc: doc, Partial: partial, TF: tf})
			}
		}
		doc, ok = n.Iter.LowerBound(doc + 1)
	}
	n.Retrieved = true
	df := uint64(len(n.FirstStepBuf))
	n.EstimatedDF = &df
	n.HasEstimatedDF = true
}

func (n *SimpleTokenNode) DoSecondStep(q *Query) []ScoredHit {
	calc := q.calculatorFor(n)
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	global := DocumentScore(1)
	if calc != nil {
		global = calc.GetPrepareResult()
	}
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial * global})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *SimpleTokenNode) CanonicalKey(q *Query) string {
	params := []string{intParam(n.Length)}
	if calc := q.calculatorFor(n); calc != nil {
		params = append(params, calculatorParam(calc))
	}
	return buildKey("token", params, []string{escapeLiteral(n.Token)})
}

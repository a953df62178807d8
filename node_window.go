package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: SimpleWindow, OperatorWindow
// ═══════════════════════════════════════════════════════════════════════════
// SimpleWindow matches documents where every child occurs within a span of
// at most WindowSize positions, order unconstrained — the NextCover shape
// from search.go generalised to arbitrary child nodes instead of bare
// terms. OperatorWindow is the `#window[min,max]` grammar production
// before the validator rewrites it: a min/max distance constraint that, for
// the ordered case with min<=1, degenerates into an OrderedDistance and
// otherwise degenerates into a SimpleWindow with WindowSize=max. It carries
// no evaluation logic of its own; the validator's rewrite phase always
// converts it to one of those two variants before a tree reaches
// Retrieve/RetrieveScore.
// ═══════════════════════════════════════════════════════════════════════════

type SimpleWindowNode struct {
	NodeBase
	WindowSize int
}

func NewSimpleWindowNode(windowSize int, children []NodeID) *SimpleWindowNode {
	return &SimpleWindowNode{
		NodeBase:   NodeBase{Kind: KindSimpleWindow, ChildIDs: children, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID},
		WindowSize: windowSize,
	}
}

func (n *SimpleWindowNode) ensureRough(q *Query) {
	if n.RoughPointer != InvalidNodeID {
		return
	}
	var leaves []NodeID
	for _, id := range n.ChildIDs {
		leaves = append(leaves, collectTermLeaves(q, id)...)
	}
	n.RoughPointer = makeRoughPointer(q, leaves)
}

func (n *SimpleWindowNode) locationIterators(q *Query, doc DocumentID) ([]LocationListIterator, bool) {
	out := make([]LocationListIterator, len(n.ChildIDs))
	for i, id := range n.ChildIDs {
		it, ok := q.node(id).Locations(q, doc)
		if !ok || it == nil {
			return nil, false
		}
		out[i] = it
	}
	return out, true
}

func (n *SimpleWindowNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
	n.ensureRough(q)
	candidate := given
	for {
		var got DocumentID
		var ok bool
		if n.RoughPointer != InvalidNodeID {
			got, ok = q.node(n.RoughPointer).LowerBound(q, candidate, true)
		} else {
			got, ok = n.lowerBoundExact(q, candidate)
		}
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

func (n *SimpleWindowNode) lowerBoundExact(q *Query, given DocumentID) (DocumentID, bool) {
	best := UpperBoundDocumentID
	found := false
	for _, id := range n.ChildIDs {
		got, ok := q.node(id).LowerBound(q, given, false)
		if ok && got < best {
			best = got
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best, true
}

func (n *SimpleWindowNode) Evaluate(q *Query, doc DocumentID) bool {
	ok, _ := n.Reevaluate(q, doc)
	return ok
}

func (n *SimpleWindowNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	for _, id := range n.ChildIDs {
		if !q.node(id).Evaluate(q, doc) {
			return false, 0
		}
	}
	iters, ok := n.locationIterators(q, doc)
	if !ok {
		return false, 0
	}
	var tf TermFrequency
	pos := 0
	for {
		span := nextCoverWithin(iters, pos)
		if !span.Valid {
			break
		}
		if span.End-span.Start <= n.WindowSize {
			tf++
		}
		pos = span.End + 1
		for _, it := range iters {
			it.Reset()
		}
	}
	return tf > 0, tf
}

func (n *SimpleWindowNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	ok, tf := n.Reevaluate(q, doc)
	if !ok {
		return 0, false
	}
	calc := q.calculatorFor(n)
	if calc == nil {
		return DocumentScore(tf), true
	}
	return calc.FirstStep(tf, doc)
}

func (n *SimpleWindowNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
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
		_, tf := n.Reevaluate(q, doc)
		var partial DocumentScore
		if q.Ranking() {
			partial, ok = n.EvaluateScore(q, doc)
			if !ok {
				continue
			}
		}
		n.FirstStepBuf = append(n.FirstStepBuf, firstStepHit{Doc: doc, Partial: partial, TF: tf})
	}
	n.Retrieved = true
	df := uint64(len(n.FirstStepBuf))
	n.EstimatedDF = &df
	n.HasEstimatedDF = true
}

func (n *SimpleWindowNode) DoSecondStep(q *Query) []ScoredHit {
	calc := q.calculatorFor(n)
	global := DocumentScore(1)
	if calc != nil {
		global = calc.GetPrepareResult()
	}
	out := make([]ScoredHit, 0, len(n.FirstStepBuf))
	for _, hit := range n.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial * global})
	}
	n.FirstStepStatus = StatusSecondDone
	return out
}

func (n *SimpleWindowNode) CanonicalKey(q *Query) string {
	return buildKey("window", []string{intParam(n.WindowSize)}, childKeys(q, n.ChildIDs))
}

// OperatorWindowNode is the pre-rewrite `#window[min,max]` production. The
// validator always replaces it with an OrderedDistanceNode or a
// SimpleWindowNode; none of its evaluation methods are ever called on a
// validated tree.
type OperatorWindowNode struct {
	NodeBase
	Min, Max int
	Ordered  bool
}

func NewOperatorWindowNode(min, max int, ordered bool, children []NodeID) *OperatorWindowNode {
	return &OperatorWindowNode{
		NodeBase: NodeBase{Kind: KindOperatorWindow, ChildIDs: children, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID},
		Min:      min,
		Max:      max,
		Ordered:  ordered,
	}
}

// rewrite produces the post-validation replacement for this node, called
// from the validator's rewrite phase.
func (n *OperatorWindowNode) rewrite(q *Query) NodeID {
	if n.Ordered && n.Min <= 1 {
		od := NewOrderedDistanceNode(n.Max - 1)
		for i, c := range n.ChildIDs {
			od.InsertChild(i, c)
		}
		od.Combiner = n.Combiner
		return q.AddNode(od)
	}
	sw := NewSimpleWindowNode(n.Max, n.ChildIDs)
	sw.Combiner = n.Combiner
	return q.AddNode(sw)
}

func (n *OperatorWindowNode) CanonicalKey(q *Query) string {
	return buildKey("owindow", []string{intParam(n.Min), intParam(n.Max)}, childKeys(q, n.ChildIDs))
}

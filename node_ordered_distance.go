package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: OrderedDistance
// ═══════════════════════════════════════════════════════════════════════════
// Children occur in a fixed order, each at most MaxGap positions after the
// one before it (MaxGap=0 plus consecutive path positions gives an exact
// phrase, matching the adjacency findPhraseEnd/findPhraseStart in
// search.go checked). Unlike SimpleToken, OrderedDistance has no posting
// list of its own: its lower_bound candidate-generates from a rough
// sub-tree (an And over its children's document membership, built by
// rough.go) and only opens location iterators to confirm a rough hit is a
// real ordered match.
// ═══════════════════════════════════════════════════════════════════════════

type orderedChild struct {
	Child    NodeID
	Position int // the child's path position within the phrase
}

type OrderedDistanceNode struct {
	NodeBase

	Children_ []orderedChild
	MaxGap    int // 0 = exact phrase; >0 = bounded-gap phrase

	pool *orderedDistanceIteratorPool
}

func NewOrderedDistanceNode(maxGap int) *OrderedDistanceNode {
	return &OrderedDistanceNode{
		NodeBase: NodeBase{Kind: KindOrderedDistance, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID},
		MaxGap:   maxGap,
		pool:     newOrderedDistanceIteratorPool(),
	}
}

// InsertChild appends a child with the given path position; children are
// kept in call order, so callers insert them in position order for the
// offsets locationwalk.go needs.
func (n *OrderedDistanceNode) InsertChild(position int, child NodeID) {
	n.Children_ = append(n.Children_, orderedChild{Child: child, Position: position})
	n.ChildIDs = append(n.ChildIDs, child)
}

func (n *OrderedDistanceNode) maxPosition() int {
	max := 0
	for _, c := range n.Children_ {
		if c.Position > max {
			max = c.Position
		}
	}
	return max
}

func (n *OrderedDistanceNode) offsets() []int {
	out := make([]int, len(n.Children_))
	for i, c := range n.Children_ {
		out[i] = c.Position * (n.MaxGap + 1)
	}
	return out
}

func (n *OrderedDistanceNode) locationIterators(q *Query, doc DocumentID) ([]LocationListIterator, bool) {
	out := make([]LocationListIterator, len(n.Children_))
	for i, c := range n.Children_ {
		it, ok := q.node(c.Child).Locations(q, doc)
		if !ok || it == nil {
			return nil, false
		}
		out[i] = it
	}
	return out, true
}

// ensureRough builds the rough pointer the first time this node's
// lower_bound is asked for, from the document-membership bitmaps of every
// leaf in its sub-tree.
func (n *OrderedDistanceNode) ensureRough(q *Query) {
	if n.RoughPointer != InvalidNodeID {
		return
	}
	var leaves []NodeID
	for _, c := range n.Children_ {
		leaves = append(leaves, collectTermLeaves(q, c.Child)...)
	}
	n.RoughPointer = makeRoughPointer(q, leaves)
}

func (n *OrderedDistanceNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
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
		if rough {
			n.memoStore(given, got, true)
			return got, true
		}
		if n.Evaluate(q, got) {
			n.memoStore(given, got, true)
			return got, true
		}
		candidate = got + 1
	}
}

func (n *OrderedDistanceNode) lowerBoundExact(q *Query, given DocumentID) (DocumentID, bool) {
	best := UpperBoundDocumentID
	found := false
	for _, c := range n.Children_ {
		got, ok := q.node(c.Child).LowerBound(q, given, false)
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

func (n *OrderedDistanceNode) Evaluate(q *Query, doc DocumentID) bool {
	ok, _ := n.Reevaluate(q, doc)
	return ok
}

func (n *OrderedDistanceNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	for _, c := range n.Children_ {
		if !q.node(c.Child).Evaluate(q, doc) {
			return false, 0
		}
	}
	iters, ok := n.locationIterators(q, doc)
	if !ok {
		return false, 0
	}
	offsets := n.offsets()
	it, err := n.pool.get(len(iters))
	if err == nil {
		defer n.pool.put(it)
		it.seed(iters, offsets)
	}
	var tf TermFrequency
	pos := 0
	for {
		span := nextPhraseWithin(iters, offsets, pos)
		if !span.Valid {
			break
		}
		tf++
		pos = span.Start + 1
	}
	return tf > 0, tf
}

func (n *OrderedDistanceNode) Locations(q *Query, doc DocumentID) (LocationListIterator, bool) {
	iters, ok := n.locationIterators(q, doc)
	if !ok {
		return nil, false
	}
	offsets := n.offsets()
	var spans []Location
	pos := 0
	for {
		span := nextPhraseWithin(iters, offsets, pos)
		if !span.Valid {
			break
		}
		spans = append(spans, Location{Position: span.Start, Length: span.End - span.Start + 1})
		pos = span.Start + 1
	}
	if len(spans) == 0 {
		return nil, false
	}
	return newSliceLocationIterator(spans), true
}

func (n *OrderedDistanceNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
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

func (n *OrderedDistanceNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
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

func (n *OrderedDistanceNode) DoSecondStep(q *Query) []ScoredHit {
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

func (n *OrderedDistanceNode) CanonicalKey(q *Query) string {
	return buildKey("phrase", []string{intParam(n.MaxGap)}, childKeys(q, n.ChildIDs))
}

// ─────────────────────────────────────────────────────────────────────────
// OrderedDistanceLocationIterator: the pooled object pool.go hands out.
// ─────────────────────────────────────────────────────────────────────────
// Holds per-node scratch state for an ordered-distance walk (the seeded
// child iterators and offsets). Reevaluate takes one from the pool and
// seeds it, but the walk itself runs nextPhraseWithin over the freshly
// built child iterators, so the pooled object does not save the
// per-document allocation of those cursors.

type OrderedDistanceLocationIterator struct {
	children []LocationListIterator
	offsets  []int
	pos      int
}

func newOrderedDistanceLocationIterator(n int) *OrderedDistanceLocationIterator {
	return &OrderedDistanceLocationIterator{
		children: make([]LocationListIterator, 0, n),
		offsets:  make([]int, 0, n),
	}
}

func (it *OrderedDistanceLocationIterator) reset(n int) {
	it.children = it.children[:0]
	it.offsets = it.offsets[:0]
	it.pos = 0
}

func (it *OrderedDistanceLocationIterator) seed(children []LocationListIterator, offsets []int) {
	it.children = append(it.children[:0], children...)
	it.offsets = append(it.offsets[:0], offsets...)
	it.pos = 0
}

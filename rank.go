package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// RANK: the "prepare" pass between do_first_step and do_second_step
// ═══════════════════════════════════════════════════════════════════════════
// RetrieveScore's two named steps (query.go) sandwich a third, unnamed one
// that every calculator-bearing node needs before do_second_step can run:
// once do_first_step has left a document frequency behind in
// NodeBase.EstimatedDF of each node its Retrieve reached (the count of
// hits that node recorded), each calculator needs that count plus the
// corpus-wide document count to compute its query-global factor — BM25's
// IDF is the case this package ships, but any ScoreCalculator.Prepare
// implementation depends on the same two numbers. prepareCalculators walks
// the validated tree once, in the gap between doFirstStep and
// DoSecondStep, calls Prepare for every node holding a calculator, and
// re-applies the document-length source and average length that
// RetrieveScore already pushed before the first step.
// ═══════════════════════════════════════════════════════════════════════════

// SetTotalDocuments tells the query the corpus size used for IDF-style
// calculators' Prepare step. Call once after construction, before
// RetrieveScore.
func (q *Query) SetTotalDocuments(n uint64) { q.totalDocuments = n }

func (q *Query) prepareCalculators(root NodeID) {
	seen := make(map[NodeID]bool)
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if id == InvalidNodeID || seen[id] {
			return
		}
		seen[id] = true
		n := q.node(id)
		if calc, ok := q.calculators[id]; ok {
			docDF := uint64(0)
			base := n.Base()
			if base.HasEstimatedDF && base.EstimatedDF != nil {
				docDF = *base.EstimatedDF
			}
			calc.Prepare(q.totalDocuments, docDF)
			calc.SetDocumentLengthFile(q.Lengths)
			calc.SetAverageDocumentLength(q.AverageDocLen)
			if calc.IsExtendedFirstStep() {
				calc.SetQueryNode(id)
			}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(root)
}

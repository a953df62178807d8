package queryeval

import "github.com/kljensen/snowball/english"

// ═══════════════════════════════════════════════════════════════════════════
// INTERNAL: Word (#term[lang,mode] grammar production)
// ═══════════════════════════════════════════════════════════════════════════
// Word wraps an inner node (usually a SimpleTokenNode, occasionally an
// OrderedDistanceNode for a multi-word exact form) and applies match-mode
// semantics on top of it: SimpleWord/ExactWord/WordHead/WordTail weight a
// hit by MatchMode.approximateWeight; MultiLanguage re-stems the query term
// with the analyzer's English stemmer and compares it against the index
// token, tolerating inflection the inner node's exact string match would
// reject outright. An InnerChild of InvalidNodeID models the empty-token
// sentinel: a query term that normalised away to nothing (all-stopword,
// all-punctuation) never matches any document.
// ═══════════════════════════════════════════════════════════════════════════

type WordNode struct {
	NodeBase

	InnerChild NodeID // InvalidNodeID for the empty-token sentinel
	Mode       MatchMode
	Language   string
	stem       string // cached stem for ModeMultiLanguage
}

func NewWordNode(inner NodeID, mode MatchMode, language, queryTerm string) *WordNode {
	w := &WordNode{
		NodeBase: NodeBase{
			Kind: KindWord, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
			HasOriginalTerm: true, OriginalTermString: queryTerm,
			OriginalLanguage: language, OriginalMatchMode: mode,
		},
		InnerChild: inner,
		Mode:       mode,
		Language:   language,
	}
	if inner != InvalidNodeID {
		w.ChildIDs = []NodeID{inner}
	}
	if mode == ModeMultiLanguage {
		w.stem = english.Stem(queryTerm, false)
	}
	return w
}

func (w *WordNode) isEmpty() bool { return w.InnerChild == InvalidNodeID }

func (w *WordNode) inner(q *Query) Node {
	if w.isEmpty() {
		return nil
	}
	return q.node(w.InnerChild)
}

func (w *WordNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if w.isEmpty() {
		return UpperBoundDocumentID, false
	}
	return w.inner(q).LowerBound(q, given, rough)
}

func (w *WordNode) Evaluate(q *Query, doc DocumentID) bool {
	if w.isEmpty() {
		return false
	}
	if !w.inner(q).Evaluate(q, doc) {
		return false
	}
	if w.Mode != ModeMultiLanguage {
		return true
	}
	return w.evaluateStemMatch(q, doc)
}

// evaluateStemMatch re-stems every occurrence's underlying token in
// MultiLanguage mode, since the posting list stores the raw indexed form
// and only the query side carries a precomputed stem.
func (w *WordNode) evaluateStemMatch(q *Query, doc DocumentID) bool {
	tok, ok := w.inner(q).(*SimpleTokenNode)
	if !ok {
		return true // non-token inner node: trust the inner match
	}
	return english.Stem(tok.Token, false) == w.stem
}

func (w *WordNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	if w.isEmpty() {
		return false, 0
	}
	if !w.Evaluate(q, doc) {
		return false, 0
	}
	ok, tf := w.inner(q).Reevaluate(q, doc)
	if !ok {
		return false, 0
	}
	weight := w.Mode.approximateWeight()
	return true, tf * weight
}

func (w *WordNode) Locations(q *Query, doc DocumentID) (LocationListIterator, bool) {
	if w.isEmpty() {
		return nil, false
	}
	return w.inner(q).Locations(q, doc)
}

func (w *WordNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	if w.isEmpty() {
		return 0, false
	}
	ok, tf := w.Reevaluate(q, doc)
	if !ok {
		return 0, false
	}
	calc := q.calculatorFor(w)
	if calc == nil {
		return DocumentScore(tf), true
	}
	return calc.FirstStep(tf, doc)
}

func (w *WordNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n := &w.NodeBase
	n.FirstStepBuf = n.FirstStepBuf[:0]
	if w.isEmpty() {
		n.Retrieved = true
		df := uint64(0)
		n.EstimatedDF = &df
		n.HasEstimatedDF = true
		return
	}
	excl := newSortedExcluded(excludedIDs, maxID)
	doc := UndefinedDocumentID
	for {
		got, ok := w.LowerBound(q, doc+1, false)
		if !ok || got > maxID {
			break
		}
		doc = got
		if !w.Evaluate(q, doc) {
			continue
		}
		if excl.skip(doc) {
			continue
		}
		_, tf := w.Reevaluate(q, doc)
		var partial DocumentScore
		if q.Ranking() {
			partial, ok = w.EvaluateScore(q, doc)
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

func (w *WordNode) DoSecondStep(q *Query) []ScoredHit {
	calc := q.calculatorFor(w)
	global := DocumentScore(1)
	if calc != nil {
		global = calc.GetPrepareResult()
	}
	out := make([]ScoredHit, 0, len(w.FirstStepBuf))
	for _, hit := range w.FirstStepBuf {
		out = append(out, ScoredHit{Doc: hit.Doc, Score: hit.Partial * global})
	}
	w.FirstStepStatus = StatusSecondDone
	return out
}

func (w *WordNode) CanonicalKey(q *Query) string {
	params := []string{w.Language, w.Mode.String()}
	if w.isEmpty() {
		return buildKey("term", params, []string{escapeLiteral(w.OriginalTermString)})
	}
	return buildKey("term", params, childKeys(q, w.ChildIDs))
}

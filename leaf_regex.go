package queryeval

import (
	"math"
	"regexp"
)

// ═══════════════════════════════════════════════════════════════════════════
// LEAF: Regex
// ═══════════════════════════════════════════════════════════════════════════
// A regex leaf can't use a posting list's lower_bound at all: matching
// requires looking at every candidate document's body. It reports the
// maximum possible sort factor so the validator always places it last
// among And's children, after every selective term has pruned the
// candidate set down as far as it goes.
// ═══════════════════════════════════════════════════════════════════════════

// DocumentBodySource looks up a document's raw text for regex evaluation —
// a collaborator owned by the host database.
type DocumentBodySource interface {
	Body(doc DocumentID) (string, bool)
	MaxDocumentID() DocumentID
}

// RegexNode evaluates a compiled pattern against a document body source.
// It has no native lower_bound: LowerBound degenerates into "scan forward
// from given, testing Evaluate at each candidate", which only terminates
// with a document source that can report its own upper bound.
type RegexNode struct {
	NodeBase

	Pattern string
	re      *regexp.Regexp
	Source  DocumentBodySource
}

func NewRegexNode(pattern string, source DocumentBodySource) (*RegexNode, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexNode{
		NodeBase: NodeBase{
			Kind: KindRegex, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
			SortFactor: math.MaxInt64,
		},
		Pattern: pattern,
		re:      re,
		Source:  source,
	}, nil
}

func (n *RegexNode) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	if answer, found, hit := n.memoLookup(given); hit {
		return answer, found
	}
	max := n.Source.MaxDocumentID()
	for d := given; d <= max; d++ {
		if n.evaluateBody(d) {
			n.memoStore(given, d, true)
			return d, true
		}
	}
	n.memoStore(given, 0, false)
	return UpperBoundDocumentID, false
}

func (n *RegexNode) evaluateBody(doc DocumentID) bool {
	body, ok := n.Source.Body(doc)
	if !ok {
		return false
	}
	return n.re.MatchString(body)
}

func (n *RegexNode) Evaluate(q *Query, doc DocumentID) bool {
	return n.evaluateBody(doc)
}

func (n *RegexNode) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	body, ok := n.Source.Body(doc)
	if !ok {
		return false, 0
	}
	matches := n.re.FindAllStringIndex(body, -1)
	if len(matches) == 0 {
		return false, 0
	}
	return true, TermFrequency(len(matches))
}

func (n *RegexNode) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
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

func (n *RegexNode) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	n.FirstStepBuf = n.FirstStepBuf[:0]
	excl := newSortedExcluded(excludedIDs, maxID)
	max := n.Source.MaxDocumentID()
	if maxID < max {
		max = maxID
	}
	for d := DocumentID(1); d <= max; d++ {
		if excl.skip(d) {
			continue
		}
		ok, tf := n.Reevaluate(q, d)
		if !ok {
			continue
		}
		partial := DocumentScore(tf)
		if q.Ranking() {
			var has bool
			partial, has = n.EvaluateScore(q, d)
			if !has {
				continue
			}
		}
		n.FirstStepBuf = append(n.FirstStepBuf, firstStepHit{Doc: d, Partial: partial, TF: tf})
	}
	n.Retrieved = true
	df := uint64(len(n.FirstStepBuf))
	n.EstimatedDF = &df
	n.HasEstimatedDF = true
}

func (n *RegexNode) DoSecondStep(q *Query) []ScoredHit {
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

func (n *RegexNode) CanonicalKey(q *Query) string {
	return buildKey("regex", nil, []string{escapeLiteral(n.Pattern)})
}

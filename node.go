package queryeval

import "fmt"

// ═══════════════════════════════════════════════════════════════════════════
// QUERY NODE SUM TYPE
// ═══════════════════════════════════════════════════════════════════════════
// A query tree is a tagged sum type with trait-dispatched behaviour:
// NodeID values are stable indices into an arena, so rough-pointers and
// shared sub-expressions can be plain NodeID copies rather than shared
// pointers. Query.arena (query.go) is the backing slice of nodes; Node is
// the dispatch interface; each concrete *XxxNode embeds NodeBase for the
// shared mutable memo fields (upper/lower, need_df, first_step_status, ...)
// and gets their storage for free through Go's embedding promotion instead
// of a hand-rolled vtable.
// ═══════════════════════════════════════════════════════════════════════════

// NodeID is a stable index into a Query's node arena.
type NodeID int

// InvalidNodeID marks "no such node" (an absent rough pointer, an absent
// end_node, an empty child list slot).
const InvalidNodeID NodeID = -1

// NodeKind tags which QueryNode variant a node is.
type NodeKind int

const (
	KindSimpleToken NodeKind = iota
	KindRegex
	KindBooleanResult
	KindRankingResult
	KindEmptySet
	KindAnd
	KindOr
	KindAndNot
	KindOrderedDistance
	KindSimpleWindow
	KindOperatorWindow
	KindScale
	KindLocationOp
	KindEnd
	KindWord
	KindAtomicOr
	KindSynonym
)

func (k NodeKind) String() string {
	names := [...]string{
		"SimpleToken", "Regex", "BooleanResult", "RankingResult", "EmptySet",
		"And", "Or", "AndNot", "OrderedDistance", "SimpleWindow", "OperatorWindow",
		"Scale", "Location", "End", "Word", "AtomicOr", "Synonym",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// firstStepHit is one entry of a node's step-1 result buffer: the doc
// matched, its partial (per-hit) score, and its term frequency.
type firstStepHit struct {
	Doc     DocumentID
	Partial DocumentScore
	TF      TermFrequency
}

// NodeBase holds the state every QueryNode variant shares: the lower_bound
// memo, rough-pointer reference, DF estimate, sort factor,
// and the two-step ranking bookkeeping. Embedded by value in every concrete
// node struct; its pointer-receiver methods are promoted to the concrete
// type and serve as the interface's default ("not applicable to this
// variant") implementations, overridden where a variant needs real
// behaviour.
type NodeBase struct {
	Kind NodeKind
	ID   NodeID // this node's own arena index, set by Query.AddNode

	EstimatedDF    *uint64 // nil means "undefined"
	HasEstimatedDF bool
	SortFactor     int64 // cost estimate; math.MaxInt64 sentinel for regex-like nodes

	hasMemo bool
	Lower   DocumentID // last lower_bound input
	Upper   DocumentID // memoised answer; UpperBoundDocumentID = "scanned past end"

	Retrieved bool // true once a full retrieve computed an exact DF

	RoughPointer NodeID // non-owning; InvalidNodeID if none
	EndNode      NodeID // set only on OrderedDistance from a deleted term-leaf

	FirstStepStatus FirstStepStatus
	FirstStepBuf    []firstStepHit // populated by Retrieve, consumed by DoSecondStep
	firstStepCursor int            // walking cursor for LowerBoundScoreForSecondStep

	NeedDF bool // ancestor of And, or AndNot's 2nd operand

	HasOriginalTerm    bool
	OriginalTermString string
	OriginalLanguage   string
	OriginalMatchMode  MatchMode

	Combiner ScoreCombiner // nil unless this node type combines children
	Negator  ScoreNegator  // AndNot only

	ChildIDs []NodeID

	// flattening/atomicity flags consulted by the validator.
	Atomic         bool
	FlattenBlocked bool // e.g. short-word Or: never flattened away
}

func (b *NodeBase) Base() *NodeBase { return b }

func (b *NodeBase) Children() []NodeID { return b.ChildIDs }

func (b *NodeBase) resetMemo() {
	b.hasMemo = false
	b.Lower = UndefinedDocumentID
	b.Upper = UndefinedDocumentID
}

// memoLookup implements the fast-return half of the lower_bound algorithm:
// short-circuit if given falls within [lower, upper] or upper has already
// saturated to the "scanned past end" sentinel. Every concrete LowerBound
// implementation calls this first.
func (b *NodeBase) memoLookup(given DocumentID) (DocumentID, bool, bool) {
	if !b.hasMemo {
		return 0, false, false
	}
	if b.Upper == UpperBoundDocumentID {
		return UpperBoundDocumentID, false, true
	}
	if given >= b.Lower && given <= b.Upper {
		return b.Upper, b.Upper != UndefinedDocumentID || given == UndefinedDocumentID, true
	}
	return 0, false, false
}

func (b *NodeBase) memoStore(given, answer DocumentID, found bool) {
	b.hasMemo = true
	b.Lower = given
	if found {
		b.Upper = answer
	} else {
		b.Upper = UpperBoundDocumentID
	}
	assertInvariant(b.Upper == UpperBoundDocumentID || b.Upper >= b.Lower, "upper >= lower")
}

// Default ("unsupported for this variant") implementations. Leaves and
// internal nodes each override the subset of these that apply to them;
// calling one of these defaults on a variant that never overrides it is a
// programmer error.

func (b *NodeBase) LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool) {
	panic(fmt.Sprintf("queryeval: LowerBound not implemented for %s", b.Kind))
}

func (b *NodeBase) Evaluate(q *Query, doc DocumentID) bool {
	panic(fmt.Sprintf("queryeval: Evaluate not implemented for %s", b.Kind))
}

func (b *NodeBase) Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency) {
	panic(fmt.Sprintf("queryeval: Reevaluate not implemented for %s", b.Kind))
}

func (b *NodeBase) Locations(q *Query, doc DocumentID) (LocationListIterator, bool) {
	return nil, false
}

func (b *NodeBase) EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool) {
	panic(fmt.Sprintf("queryeval: EvaluateScore not implemented for %s", b.Kind))
}

func (b *NodeBase) Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID) {
	panic(fmt.Sprintf("queryeval: Retrieve not implemented for %s", b.Kind))
}

func (b *NodeBase) DoSecondStep(q *Query) []ScoredHit {
	panic(fmt.Sprintf("queryeval: DoSecondStep not implemented for %s", b.Kind))
}

func (b *NodeBase) CanonicalKey(q *Query) string {
	panic(fmt.Sprintf("queryeval: CanonicalKey not implemented for %s", b.Kind))
}

func (b *NodeBase) CheckChildCount() error {
	return nil // most variants have no constraint; overridden where one applies
}

// Node is the trait-dispatched interface every QueryNode variant implements.
type Node interface {
	Base() *NodeBase
	Children() []NodeID
	LowerBound(q *Query, given DocumentID, rough bool) (DocumentID, bool)
	Evaluate(q *Query, doc DocumentID) bool
	Reevaluate(q *Query, doc DocumentID) (bool, TermFrequency)
	Locations(q *Query, doc DocumentID) (LocationListIterator, bool)
	EvaluateScore(q *Query, doc DocumentID) (DocumentScore, bool)
	Retrieve(q *Query, excludedIDs []DocumentID, maxID DocumentID)
	DoSecondStep(q *Query) []ScoredHit
	CanonicalKey(q *Query) string
	CheckChildCount() error
}

// sortedExcluded is a sorted exclusion list with a trailing max_id+1
// sentinel, walked once per Retrieve call alongside the posting scan.
type sortedExcluded struct {
	ids []DocumentID
	pos int
}

func newSortedExcluded(ids []DocumentID, maxID DocumentID) *sortedExcluded {
	return &sortedExcluded{ids: append(append([]DocumentID{}, ids...), maxID+1)}
}

func (s *sortedExcluded) skip(doc DocumentID) bool {
	for s.pos < len(s.ids)-1 && s.ids[s.pos] < doc {
		s.pos++
	}
	return s.pos < len(s.ids)-1 && s.ids[s.pos] == doc
}

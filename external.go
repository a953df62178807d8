package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// SCORE PLUG-IN CONTRACTS
// ═══════════════════════════════════════════════════════════════════════════
// Formulas are pluggable; this file only specifies the abstract contract.
// calculator.go supplies the concrete defaults the validator materialises
// when a ranking query leaves them unset.
// ═══════════════════════════════════════════════════════════════════════════

// ScoreCalculator computes a leaf's per-posting score.
type ScoreCalculator interface {
	// Prepare is called once per query, after document frequencies are
	// known, with the corpus-wide and this-term's document frequency.
	Prepare(totalDF, docDF uint64)

	// FirstStep computes the per-hit partial score for one (tf, doc) pair,
	// the part of the formula that can be computed during retrieve/do_first_step.
	FirstStep(tf TermFrequency, doc DocumentID) (DocumentScore, bool)

	// GetPrepareResult returns the query-global multiplier applied in the
	// second step: tf/(tf+k)-style formulas split into a per-hit factor
	// computed during retrieval and a query-global factor (like IDF)
	// computed once scores are combined.
	GetPrepareResult() DocumentScore

	// SetDocumentLengthFile / SetAverageDocumentLength / SearchDocumentLength
	// give the calculator access to per-document length data, when the host
	// supplies it. A nil DocumentLengthSource and a zero average length are
	// both valid — calculators must degrade gracefully.
	SetDocumentLengthFile(f DocumentLengthSource)
	SetAverageDocumentLength(length float64)
	SearchDocumentLength(doc DocumentID) (float64, bool)

	// IsExtendedFirstStep reports whether FirstStepEx (rather than
	// FirstStep) should be used, for calculators that need the owning node
	// for context (e.g. Word's match-mode weighting).
	IsExtendedFirstStep() bool
	SetQueryNode(n NodeID)
	FirstStepEx(q *Query, doc DocumentID) (DocumentScore, bool)

	// GetDescription serialises the calculator's name and, optionally, its
	// parameters, for the canonical-key format.
	GetDescription(withParams bool) string
}

// DocumentLengthSource looks up a document's length (in tokens) — a
// collaborator owned by the host database, not this package.
type DocumentLengthSource interface {
	Length(doc DocumentID) (float64, bool)
}

// ScoreCombiner merges two child scores at an internal node.
type ScoreCombiner interface {
	Combine(a, b DocumentScore) DocumentScore
	IsAssociative() bool
	IsCommutative() bool
	Duplicate() ScoreCombiner
	Name() string
}

// ScoreNegator maps the second operand's score (or 0 if absent) to the
// value combined with AndNot's first operand.
type ScoreNegator interface {
	Apply(score DocumentScore) DocumentScore
	Duplicate() ScoreNegator
	Name() string
}

package queryeval

import (
	"fmt"
	"math"
)

// ═══════════════════════════════════════════════════════════════════════════
// DEFAULT SCORE PLUG-INS
// ═══════════════════════════════════════════════════════════════════════════
// Calculator/combiner/negator formulas are pluggable; the validator
// materialises these defaults in ranking mode when a node has none set.
// BM25Calculator's formula is the classic smoothed BM25 IDF and saturation
// curve, restructured behind the ScoreCalculator interface so it composes
// with the rest of the two-step ranking pipeline instead of living as one
// monolithic scoring method.
// ═══════════════════════════════════════════════════════════════════════════

// BM25Calculator is the default ranking calculator.
type BM25Calculator struct {
	K1, B       float64
	totalDF     uint64
	docDF       uint64
	avgDocLen   float64
	lengths     DocumentLengthSource
	idf         DocumentScore
	node        NodeID
	tfCapWarned bool
	cfg         Config
}

// DefaultBM25Calculator returns a BM25Calculator with standard K1/B values.
func DefaultBM25Calculator(cfg Config) *BM25Calculator {
	return &BM25Calculator{K1: 1.5, B: 0.75, cfg: cfg}
}

func (c *BM25Calculator) Prepare(totalDF, docDF uint64) {
	c.totalDF = totalDF
	c.docDF = docDF
	if docDF == 0 {
		c.idf = 0
		return
	}
	n := float64(totalDF)
	df := float64(docDF)
	// Standard smoothed BM25 IDF.
	c.idf = DocumentScore(math.Log((n-df+0.5)/(df+0.5) + 1.0))
}

func (c *BM25Calculator) FirstStep(tf TermFrequency, doc DocumentID) (DocumentScore, bool) {
	if tf == 0 {
		return 0, false
	}
	docLen, ok := c.SearchDocumentLength(doc)
	avg := c.avgDocLen
	if !ok || avg == 0 {
		// No length data: fall back to raw saturation with no length
		// normalisation, i.e. b effectively 0 for this document.
		docLen, avg = 1, 1
	}
	numerator := float64(tf) * (c.K1 + 1)
	denominator := float64(tf) + c.K1*(1-c.B+c.B*(docLen/avg))
	return DocumentScore(numerator / denominator), true
}

func (c *BM25Calculator) GetPrepareResult() DocumentScore { return c.idf }

func (c *BM25Calculator) SetDocumentLengthFile(f DocumentLengthSource) { c.lengths = f }

func (c *BM25Calculator) SetAverageDocumentLength(length float64) { c.avgDocLen = length }

func (c *BM25Calculator) SearchDocumentLength(doc DocumentID) (float64, bool) {
	if c.lengths == nil {
		return 0, false
	}
	return c.lengths.Length(doc)
}

func (c *BM25Calculator) IsExtendedFirstStep() bool { return false }

func (c *BM25Calculator) SetQueryNode(n NodeID) { c.node = n }

func (c *BM25Calculator) FirstStepEx(q *Query, doc DocumentID) (DocumentScore, bool) {
	return 0, false
}

func (c *BM25Calculator) GetDescription(withParams bool) string {
	if !withParams {
		return "bm25"
	}
	return fmt.Sprintf("bm25(%g,%g)", c.K1, c.B)
}

// TFCalculator is a simple raw-term-frequency calculator with no IDF term,
// used when no average document length is available.
type TFCalculator struct {
	idf DocumentScore
}

func NewTFCalculator() *TFCalculator { return &TFCalculator{} }

func (c *TFCalculator) Prepare(totalDF, docDF uint64) { c.idf = 1 }
func (c *TFCalculator) FirstStep(tf TermFrequency, doc DocumentID) (DocumentScore, bool) {
	if tf == 0 {
		return 0, false
	}
	return DocumentScore(tf), true
}
func (c *TFCalculator) GetPrepareResult() DocumentScore                  { return c.idf }
func (c *TFCalculator) SetDocumentLengthFile(f DocumentLengthSource)     {}
func (c *TFCalculator) SetAverageDocumentLength(length float64)          {}
func (c *TFCalculator) SearchDocumentLength(doc DocumentID) (float64, bool) { return 0, false }
func (c *TFCalculator) IsExtendedFirstStep() bool                        { return false }
func (c *TFCalculator) SetQueryNode(n NodeID)                            {}
func (c *TFCalculator) FirstStepEx(q *Query, doc DocumentID) (DocumentScore, bool) {
	return 0, false
}
func (c *TFCalculator) GetDescription(withParams bool) string { return "tf" }

// ─────────────────────────────────────────────────────────────────────────
// Combiners
// ─────────────────────────────────────────────────────────────────────────

// SumCombiner adds two scores. Associative and commutative, so it is legal
// under OR-normal-form conversion.
type SumCombiner struct{}

func (SumCombiner) Combine(a, b DocumentScore) DocumentScore { return a + b }
func (SumCombiner) IsAssociative() bool                      { return true }
func (SumCombiner) IsCommutative() bool                      { return true }
func (SumCombiner) Duplicate() ScoreCombiner                 { return SumCombiner{} }
func (SumCombiner) Name() string                             { return "sum" }

// MaxCombiner keeps the larger of two scores. Also associative and
// commutative.
type MaxCombiner struct{}

func (MaxCombiner) Combine(a, b DocumentScore) DocumentScore {
	if a > b {
		return a
	}
	return b
}
func (MaxCombiner) IsAssociative() bool      { return true }
func (MaxCombiner) IsCommutative() bool      { return true }
func (MaxCombiner) Duplicate() ScoreCombiner { return MaxCombiner{} }
func (MaxCombiner) Name() string             { return "max" }

// WeightedSumCombiner is neither associative nor commutative in the
// general case (weight applies asymmetrically to the right-hand operand
// only), included specifically to exercise the combiner gate in the
// validator's OR-normal-form pass.
type WeightedSumCombiner struct {
	RightWeight float64
}

func (w WeightedSumCombiner) Combine(a, b DocumentScore) DocumentScore {
	return a + DocumentScore(w.RightWeight)*b
}
func (w WeightedSumCombiner) IsAssociative() bool { return false }
func (w WeightedSumCombiner) IsCommutative() bool { return false }
func (w WeightedSumCombiner) Duplicate() ScoreCombiner {
	return WeightedSumCombiner{RightWeight: w.RightWeight}
}
func (w WeightedSumCombiner) Name() string { return fmt.Sprintf("wsum(%g)", w.RightWeight) }

// DefaultAndCombiner / DefaultOrCombiner / DefaultAndNotCombiner are the
// combiners the validator materialises when a node specifies none.
func DefaultAndCombiner() ScoreCombiner    { return SumCombiner{} }
func DefaultOrCombiner() ScoreCombiner     { return SumCombiner{} }
func DefaultAndNotCombiner() ScoreCombiner { return SumCombiner{} }

// ─────────────────────────────────────────────────────────────────────────
// Negators
// ─────────────────────────────────────────────────────────────────────────

// ComplementNegator implements 1-score, the simplest negator shape: a
// document's negative-operand score is inverted, so a strong match on the
// excluded side pulls the combined score down toward zero rather than
// removing the document outright.
type ComplementNegator struct{}

func (ComplementNegator) Apply(score DocumentScore) DocumentScore { return 1 - score }
func (ComplementNegator) Duplicate() ScoreNegator                 { return ComplementNegator{} }
func (ComplementNegator) Name() string                            { return "complement" }

// DefaultNegator is the materialised default for AndNot in ranking mode.
func DefaultNegator() ScoreNegator { return ComplementNegator{} }

package queryeval

import "math"

// ═══════════════════════════════════════════════════════════════════════════
// SCALAR DATA MODEL
// ═══════════════════════════════════════════════════════════════════════════
// DocumentID, TermFrequency and DocumentScore are plain numeric types with
// reserved sentinel values: small value types with named sentinels instead
// of pointers or optionals for the common "not found"/"end of stream"
// cases.
// ═══════════════════════════════════════════════════════════════════════════

// DocumentID identifies a document in the corpus. 0 is reserved and means
// "undefined"; callers never see 0 as a real match.
type DocumentID uint64

// UndefinedDocumentID is the reserved zero value.
const UndefinedDocumentID DocumentID = 0

// UpperBoundDocumentID is one past the maximum addressable document id; it
// also doubles as the "scanned past end" sentinel stored in a node's upper
// memo field.
const UpperBoundDocumentID DocumentID = math.MaxUint64

// TermFrequency counts term occurrences in one document. 0 means "absent".
type TermFrequency uint64

// DocumentScore is a non-negative ranking score.
type DocumentScore float64

// FirstStepStatus drives the two-step ranking state machine.
type FirstStepStatus int

const (
	StatusInitial FirstStepStatus = iota
	StatusFirstDone
	StatusSecondDone
)

func (s FirstStepStatus) String() string {
	switch s {
	case StatusInitial:
		return "initial"
	case StatusFirstDone:
		return "first-done"
	case StatusSecondDone:
		return "second-done"
	default:
		return "unknown"
	}
}

// MatchMode is the `mode` parameter of the #term grammar production:
// w/s/e/h/t/m/n/a.
type MatchMode int

const (
	ModeWord MatchMode = iota
	ModeSimple
	ModeExact
	ModeHead
	ModeTail
	ModeMultiLanguage
	ModeNormalised
	ModeApproximate
)

func (m MatchMode) String() string {
	switch m {
	case ModeWord:
		return "w"
	case ModeSimple:
		return "s"
	case ModeExact:
		return "e"
	case ModeHead:
		return "h"
	case ModeTail:
		return "t"
	case ModeMultiLanguage:
		return "m"
	case ModeNormalised:
		return "n"
	case ModeApproximate:
		return "a"
	default:
		return "?"
	}
}

// approximateWeight maps a match mode to a TF multiplier: exact=10,
// head/tail=5, every other mode (ModeApproximate included) 1.
// WordNode.Reevaluate multiplies its whole TF by the weight of its own
// mode; positions are not classified one by one.
func (m MatchMode) approximateWeight() TermFrequency {
	switch m {
	case ModeExact:
		return 10
	case ModeHead, ModeTail:
		return 5
	default:
		return 1
	}
}

// ScoredHit is one (doc-id, score) result pair, the output unit of a ranking
// query.
type ScoredHit struct {
	Doc   DocumentID
	Score DocumentScore
}

// Location is a (position, length) pair within one document for one
// term/phrase, as produced by a LocationListIterator.
type Location struct {
	Position int
	Length   int
}

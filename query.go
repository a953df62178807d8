package queryeval

import (
	"fmt"
	"log/slog"
)

// ═══════════════════════════════════════════════════════════════════════════
// QUERY: the node arena and its public API
// ═══════════════════════════════════════════════════════════════════════════
// Query owns every node's backing storage as a flat slice indexed by
// NodeID, an arena that keeps the tree's mutable memo state in one
// contiguous allocation rather than behind scattered pointers. The
// shared-node map lives alongside the arena because Validate populates it
// and rough.go adds its rough nodes to it for the lifetime of the query.
// ═══════════════════════════════════════════════════════════════════════════

// Mode selects whether a query reports a plain hit set or scored hits.
type Mode int

const (
	ModeBoolean Mode = iota
	ModeRanking
)

// Query is the evaluation context for one query tree: its node arena, its
// configuration, and the collaborators nodes need to resolve inverted
// lists and document lengths.
type Query struct {
	arena []Node
	root  NodeID

	mode Mode
	cfg  Config

	Provider        InvertedListProvider
	Lengths         DocumentLengthSource
	AverageDocLen   float64
	totalDocuments  uint64

	sharedNodes map[string]NodeID // canonical key -> arena index, for dedup during validate
	roughNodes  map[NodeID]NodeID // allocated but never filled; rough nodes are shared via sharedNodes

	calculators map[NodeID]ScoreCalculator

	validated bool
	unusable  bool

	log *slog.Logger
}

// NewQuery creates an empty query arena in the given mode.
func NewQuery(mode Mode, cfg Config, provider InvertedListProvider) *Query {
	return &Query{
		arena:       make([]Node, 0, 16),
		root:        InvalidNodeID,
		mode:        mode,
		cfg:         cfg,
		Provider:    provider,
		sharedNodes: make(map[string]NodeID),
		roughNodes:  make(map[NodeID]NodeID),
		calculators: make(map[NodeID]ScoreCalculator),
		log:         slog.Default().With("component", "queryeval"),
	}
}

// AddNode appends a node to the arena and returns its stable id.
func (q *Query) AddNode(n Node) NodeID {
	id := NodeID(len(q.arena))
	n.Base().ID = id
	q.arena = append(q.arena, n)
	return id
}

func (q *Query) node(id NodeID) Node {
	if id == InvalidNodeID {
		return nil
	}
	return q.arena[id]
}

// SetRoot designates the tree's top-level node.
func (q *Query) SetRoot(id NodeID) { q.root = id }

func (q *Query) Root() NodeID { return q.root }

func (q *Query) Ranking() bool { return q.mode == ModeRanking }

func (q *Query) Config() Config { return q.cfg }

// SetCalculator attaches a score calculator to a specific node, consulted
// by leaves through calculatorFor during FirstStep/DoSecondStep.
func (q *Query) SetCalculator(id NodeID, calc ScoreCalculator) {
	q.calculators[id] = calc
}

func (q *Query) calculatorFor(n Node) ScoreCalculator {
	if !q.Ranking() {
		return nil
	}
	if calc, ok := q.calculators[n.Base().ID]; ok {
		return calc
	}
	return nil
}

// Validate runs the full rewrite-and-check pipeline over the tree rooted at
// q.root. It must succeed before Retrieve or RetrieveScore is called.
func (q *Query) Validate() error {
	if q.unusable {
		return ErrQueryUnusable
	}
	if q.root == InvalidNodeID {
		return &ValidateError{Reason: "query has no root node"}
	}
	v := &validator{q: q}
	newRoot, err := v.run(q.root)
	if err != nil {
		q.unusable = true
		return err
	}
	q.root = newRoot
	q.validated = true
	return nil
}

// Retrieve runs a Boolean query to completion and returns the matching
// document ids in ascending order.
func (q *Query) Retrieve(maxID DocumentID) ([]DocumentID, error) {
	if !q.validated {
		return nil, &ValidateError{Reason: "Retrieve called before Validate"}
	}
	if q.unusable {
		return nil, ErrQueryUnusable
	}
	var out []DocumentID
	node := q.node(q.root)
	doc := UndefinedDocumentID
	for {
		got, ok := node.LowerBound(q, doc+1, false)
		if !ok || got > maxID {
			break
		}
		out = append(out, got)
		doc = got
		if doc >= maxID {
			break
		}
	}
	return out, nil
}

// RetrieveScore runs a Ranking query's full two-step pipeline: do_first_step
// (Retrieve on the root, which drives its sub-tree) followed by
// do_second_step up the tree.
func (q *Query) RetrieveScore(maxID DocumentID) ([]ScoredHit, error) {
	if !q.validated {
		return nil, &ValidateError{Reason: "RetrieveScore called before Validate"}
	}
	if q.unusable {
		return nil, ErrQueryUnusable
	}
	if !q.Ranking() {
		return nil, &ValidateError{Reason: "RetrieveScore called on a Boolean query"}
	}
	for _, calc := range q.calculators {
		calc.SetDocumentLengthFile(q.Lengths)
		calc.SetAverageDocumentLength(q.AverageDocLen)
	}
	q.doFirstStep(maxID)
	q.prepareCalculators(q.root)
	hits := q.node(q.root).DoSecondStep(q)
	return hits, nil
}

func (q *Query) doFirstStep(maxID DocumentID) {
	node := q.node(q.root)
	node.Retrieve(q, nil, maxID)
}

func (q *Query) String() string {
	if q.root == InvalidNodeID {
		return "#empty()"
	}
	return q.node(q.root).CanonicalKey(q)
}

func (q *Query) nodeCount() int { return len(q.arena) }

func (q *Query) assertValid(id NodeID) {
	assertInvariant(id >= 0 && int(id) < len(q.arena), fmt.Sprintf("node id %d out of range", id))
}

package queryeval

import "testing"

func TestEmptySetNode_NeverMatches(t *testing.T) {
	n := NewEmptySetNode()
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	id := q.AddNode(n)
	q.SetRoot(id)
	mustValidate(t, q)

	if n.Evaluate(q, 1) {
		t.Fatal("expected EmptySetNode to never match")
	}
	got, err := q.Retrieve(100)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no hits, got %v", got)
	}
}

func TestBooleanResultNode_EvaluateScoreReportsNoSignal(t *testing.T) {
	n := NewBooleanResultNode("saved-search", []DocumentID{2, 4, 6})
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	id := q.AddNode(n)

	score, ok := n.EvaluateScore(q, 4)
	if !ok || score != 0 {
		t.Fatalf("EvaluateScore(4) = (%v, %v), want (0, true)", score, ok)
	}
	score, ok = n.EvaluateScore(q, 5)
	if ok {
		t.Fatalf("EvaluateScore(5) = (%v, %v), want not-ok for an absent doc", score, ok)
	}
	_ = id
}

func TestBooleanResultNode_AsRankingAndChildDoesNotPanic(t *testing.T) {
	// A BooleanResultNode used to have no EvaluateScore override, which
	// panicked via NodeBase's default whenever it served as a ranking-mode
	// And/Or child (And/Or call child.EvaluateScore on every child).
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	saved := q.AddNode(NewBooleanResultNode("saved-search", []DocumentID{1, 2}))
	scored := buildToken(q, "quick", map[DocumentID][]int{1: {0}, 2: {0}})
	root := q.AddNode(NewAndNode([]NodeID{saved, scored}))
	q.SetRoot(root)
	mustValidate(t, q)
	q.SetTotalDocuments(10)
	q.AverageDocLen = 3

	if _, err := q.RetrieveScore(100); err != nil {
		t.Fatalf("RetrieveScore: %v", err)
	}
}

func TestRankingResultNode_EvaluateScoreReturnsSuppliedScore(t *testing.T) {
	n := NewRankingResultNode("embedding-boost", []ScoredHit{{Doc: 3, Score: 0.75}, {Doc: 9, Score: 0.1}})
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	q.AddNode(n)

	score, ok := n.EvaluateScore(q, 3)
	if !ok || score != 0.75 {
		t.Fatalf("EvaluateScore(3) = (%v, %v), want (0.75, true)", score, ok)
	}
	if _, ok := n.EvaluateScore(q, 4); ok {
		t.Fatal("expected no match for an absent doc")
	}
}

func TestRankingResultNode_RetrieveAndDoSecondStepPreserveScores(t *testing.T) {
	n := NewRankingResultNode("embedding-boost", []ScoredHit{{Doc: 1, Score: 2}, {Doc: 2, Score: 5}})
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	id := q.AddNode(n)
	q.SetRoot(id)
	mustValidate(t, q)

	hits, err := q.RetrieveScore(100)
	if err != nil {
		t.Fatalf("RetrieveScore: %v", err)
	}
	if len(hits) != 2 || hits[0].Score != 2 || hits[1].Score != 5 {
		t.Fatalf("got %v, want scores [2 5] preserved", hits)
	}
}

package queryeval

import "testing"

func TestSimpleTokenNode_LowerBoundAndEvaluate(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	id := buildToken(q, "quick", map[DocumentID][]int{1: {0, 3}, 3: {1}, 7: {2}})
	n := q.node(id).(*SimpleTokenNode)

	got, ok := n.LowerBound(q, 2, false)
	if !ok || got != 3 {
		t.Fatalf("LowerBound(2) = (%v, %v), want (3, true)", got, ok)
	}
	if !n.Evaluate(q, 3) {
		t.Fatal("expected doc 3 to evaluate true")
	}
	if n.Evaluate(q, 4) {
		t.Fatal("expected doc 4 (absent) to evaluate false")
	}
	got, ok = n.LowerBound(q, 8, false)
	if ok {
		t.Fatalf("LowerBound(8) should exhaust the list, got (%v, %v)", got, ok)
	}
}

func TestSimpleTokenNode_ReevaluateReportsFrequency(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	id := buildToken(q, "fox", map[DocumentID][]int{1: {0, 4, 9}})
	n := q.node(id).(*SimpleTokenNode)

	ok, tf := n.Reevaluate(q, 1)
	if !ok || tf != 3 {
		t.Fatalf("Reevaluate(1) = (%v, %v), want (true, 3)", ok, tf)
	}
}

func TestSimpleTokenNode_LocationsOrderedByOffset(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	id := buildToken(q, "jumps", map[DocumentID][]int{5: {1, 4, 9}})
	n := q.node(id).(*SimpleTokenNode)

	locs, ok := n.Locations(q, 5)
	if !ok || locs == nil {
		t.Fatalf("Locations(5) = (%v, %v), want a non-nil iterator", locs, ok)
	}
	var got []int
	for locs.Next() {
		got = append(got, locs.CurrentLocation())
	}
	want := []int{1, 4, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("locations not sorted ascending: got %v, want %v", got, want)
		}
	}
}

func TestSimpleTokenNode_RetrieveBoolean(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	id := buildToken(q, "lazy", map[DocumentID][]int{2: {0}, 4: {0}, 6: {0}})
	q.SetRoot(id)
	mustValidate(t, q)

	got, err := q.Retrieve(100)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	want := []DocumentID{2, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSimpleTokenNode_RetrieveScoreRanking(t *testing.T) {
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	q.SetTotalDocuments(5)
	q.AverageDocLen = 4
	id := buildToken(q, "dog", map[DocumentID][]int{1: {0, 1, 2}, 2: {0}})
	q.SetRoot(id)
	mustValidate(t, q)

	hits, err := q.RetrieveScore(100)
	if err != nil {
		t.Fatalf("RetrieveScore: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
}

func TestSimpleTokenNode_EmptyListNeverMatches(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	n := NewSimpleTokenNode("ghost", nil)
	id := q.AddNode(n)
	q.SetRoot(id)
	mustValidate(t, q)

	if n.Evaluate(q, 1) {
		t.Fatal("expected a SimpleTokenNode with a nil list to never match")
	}
	got, err := q.Retrieve(100)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no hits, got %v", got)
	}
}

package queryeval

import "testing"

// buildToken creates a SimpleTokenNode over an in-memory posting list where
// doc d has token occurring at the given positions.
func buildToken(q *Query, token string, postings map[DocumentID][]int) NodeID {
	var mp []memPosting
	for doc, offsets := range postings {
		var locs []Location
		for _, off := range offsets {
			locs = append(locs, Location{Position: off, Length: 1})
		}
		mp = append(mp, memPosting{doc: doc, locs: locs})
	}
	// keep ascending doc order, the shape every posting list consumer expects
	for i := 1; i < len(mp); i++ {
		for j := i; j > 0 && mp[j-1].doc > mp[j].doc; j-- {
			mp[j-1], mp[j] = mp[j], mp[j-1]
		}
	}
	list := newMemPostingList(mp)
	return q.AddNode(NewSimpleTokenNode(token, list))
}

func mustValidate(t *testing.T, q *Query) {
	t.Helper()
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestQuery_AndRetrieve(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0}, 2: {1}, 3: {2}})
	b := buildToken(q, "fox", map[DocumentID][]int{2: {3}, 3: {4}, 4: {5}})
	root := q.AddNode(NewAndNode([]NodeID{a, b}))
	q.SetRoot(root)
	mustValidate(t, q)

	got, err := q.Retrieve(100)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	want := []DocumentID{2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestQuery_OrRetrieve(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "cat", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "dog", map[DocumentID][]int{2: {0}})
	root := q.AddNode(NewOrNode([]NodeID{a, b}))
	q.SetRoot(root)
	mustValidate(t, q)

	got, err := q.Retrieve(100)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestQuery_AndNotRetrieve(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	pos := buildToken(q, "spam", map[DocumentID][]int{1: {0}, 2: {0}, 3: {0}})
	neg := buildToken(q, "virus", map[DocumentID][]int{2: {0}})
	root := q.AddNode(NewAndNotNode(pos, neg))
	q.SetRoot(root)
	mustValidate(t, q)

	got, err := q.Retrieve(100)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("got %v, want [1 3]", got)
	}
}

func TestQuery_AndNotRequiresTwoChildren(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "x", map[DocumentID][]int{1: {0}})
	n := &AndNotNode{NodeBase: NodeBase{
		Kind: KindAndNot, ChildIDs: []NodeID{a}, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
	}}
	root := q.AddNode(n)
	q.SetRoot(root)
	if err := q.Validate(); err == nil {
		t.Fatal("expected Validate to reject a single-child AndNot")
	}
}

func TestQuery_RankingRetrieveScoresBM25(t *testing.T) {
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	q.SetTotalDocuments(10)
	q.AverageDocLen = 5
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0, 5}, 2: {1}})
	root := a
	q.SetRoot(root)
	mustValidate(t, q)

	hits, err := q.RetrieveScore(100)
	if err != nil {
		t.Fatalf("RetrieveScore: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	// doc 1 has tf=2, doc 2 has tf=1: doc 1 should score higher under BM25.
	var score1, score2 DocumentScore
	for _, h := range hits {
		switch h.Doc {
		case 1:
			score1 = h.Score
		case 2:
			score2 = h.Score
		}
	}
	if score1 <= score2 {
		t.Fatalf("expected doc1 (tf=2) to outscore doc2 (tf=1): %v vs %v", score1, score2)
	}
}

func TestQuery_ExactPhraseRetrieve(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	quick := buildToken(q, "quick", map[DocumentID][]int{1: {0}, 2: {0}})
	brown := buildToken(q, "brown", map[DocumentID][]int{1: {1}, 2: {5}})
	od := NewOrderedDistanceNode(0)
	od.InsertChild(0, quick)
	od.InsertChild(1, brown)
	root := q.AddNode(od)
	q.SetRoot(root)
	mustValidate(t, q)

	got, err := q.Retrieve(100)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("got %v, want [1] (doc 2 has the words out of adjacency)", got)
	}
}

func TestQuery_ValidateWithoutRootFails(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	if err := q.Validate(); err == nil {
		t.Fatal("expected error validating a query with no root")
	}
}

func TestQuery_UnusableAfterFailedValidate(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "x", map[DocumentID][]int{1: {0}})
	n := &AndNotNode{NodeBase: NodeBase{Kind: KindAndNot, ChildIDs: []NodeID{a}, RoughPointer: InvalidNodeID, EndNode: InvalidNodeID}}
	q.SetRoot(q.AddNode(n))
	if err := q.Validate(); err == nil {
		t.Fatal("expected Validate error")
	}
	if err := q.Validate(); err != ErrQueryUnusable {
		t.Fatalf("expected ErrQueryUnusable on retry, got %v", err)
	}
}

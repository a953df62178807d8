package queryeval

import "testing"

func TestAndNode_ReevaluateReportsMinChildTF(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	// doc 1: "quick" occurs 5 times, "fox" occurs 2 times.
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0, 1, 2, 3, 4}})
	b := buildToken(q, "fox", map[DocumentID][]int{1: {5, 6}})
	and := NewAndNode([]NodeID{a, b})
	id := q.AddNode(and)
	q.SetRoot(id)
	mustValidate(t, q)

	ok, tf := and.Reevaluate(q, 1)
	if !ok {
		t.Fatal("expected doc 1 to match both children")
	}
	if tf != 2 {
		t.Fatalf("got tf=%v, want 2 (min of 5 and 2), not their sum", tf)
	}
}

func TestAndNode_ReevaluateFailsWhenAnyChildMisses(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "fox", map[DocumentID][]int{2: {0}})
	and := NewAndNode([]NodeID{a, b})
	id := q.AddNode(and)
	q.SetRoot(id)
	mustValidate(t, q)

	if ok, _ := and.Reevaluate(q, 1); ok {
		t.Fatal("expected doc 1 to fail since \"fox\" never occurs there")
	}
}

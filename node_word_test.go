package queryeval

import "testing"

func TestWordNode_EmptySentinelNeverMatches(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	w := NewWordNode(InvalidNodeID, ModeWord, "en", "the")
	id := q.AddNode(w)
	if w.Evaluate(q, 1) {
		t.Fatal("expected the empty-token sentinel to never match")
	}
	if got, ok := w.LowerBound(q, 1, false); ok {
		t.Fatalf("LowerBound on empty sentinel = (%v, %v), want not-found", got, ok)
	}
	_ = id
}

func TestWordNode_MultiLanguageMatchesStemVariant(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	inner := buildToken(q, "running", map[DocumentID][]int{1: {0}})
	w := NewWordNode(inner, ModeMultiLanguage, "en", "run")
	id := q.AddNode(w)
	q.SetRoot(id)
	mustValidate(t, q)

	if !w.Evaluate(q, 1) {
		t.Fatal("expected ModeMultiLanguage to match \"running\" against query term \"run\" via stemming")
	}
}

func TestWordNode_MultiLanguageRejectsUnrelatedStem(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	inner := buildToken(q, "banana", map[DocumentID][]int{1: {0}})
	w := NewWordNode(inner, ModeMultiLanguage, "en", "run")
	id := q.AddNode(w)
	q.SetRoot(id)
	mustValidate(t, q)

	if w.Evaluate(q, 1) {
		t.Fatal("expected ModeMultiLanguage to reject an unrelated stem")
	}
}

func TestWordNode_ApproximateWeightScalesTermFrequency(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	inner := buildToken(q, "exactword", map[DocumentID][]int{1: {0, 1}})
	w := NewWordNode(inner, ModeExact, "en", "exactword")
	id := q.AddNode(w)
	q.SetRoot(id)
	mustValidate(t, q)

	ok, tf := w.Reevaluate(q, 1)
	if !ok {
		t.Fatal("expected a match")
	}
	// base tf is 2 occurrences, ModeExact weights by 10.
	if tf != 20 {
		t.Fatalf("got tf=%v, want 20 (2 occurrences * exact weight 10)", tf)
	}
}

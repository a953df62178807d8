package queryeval

import "testing"

func TestMakeRoughPointer_IntersectsLeafMembership(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0}, 2: {1}, 3: {2}})
	b := buildToken(q, "fox", map[DocumentID][]int{2: {3}, 3: {4}, 4: {5}})

	rough := makeRoughPointer(q, []NodeID{a, b})
	if rough == InvalidNodeID {
		t.Fatal("expected a rough pointer to be built from two token leaves")
	}
	n := q.node(rough)
	if !n.Evaluate(q, 2) || !n.Evaluate(q, 3) {
		t.Fatal("expected rough node to report membership for docs present in both leaves")
	}
	if n.Evaluate(q, 1) || n.Evaluate(q, 4) {
		t.Fatal("expected rough node to exclude docs present in only one leaf")
	}
}

func TestMakeRoughPointer_SharedAcrossIdenticalLeafSets(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "fox", map[DocumentID][]int{1: {1}})

	first := makeRoughPointer(q, []NodeID{a, b})
	second := makeRoughPointer(q, []NodeID{a, b})
	if first != second {
		t.Fatalf("expected identical leaf sets to share one rough node, got %v and %v", first, second)
	}
}

func TestMakeRoughPointer_EmptyLeafSetIsInvalid(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	if got := makeRoughPointer(q, nil); got != InvalidNodeID {
		t.Fatalf("expected InvalidNodeID for an empty leaf set, got %v", got)
	}
}

func TestCollectTermLeaves_GathersTokensAcrossAndOr(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "a", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "b", map[DocumentID][]int{1: {1}})
	c := buildToken(q, "c", map[DocumentID][]int{1: {2}})
	or := q.AddNode(NewOrNode([]NodeID{b, c}))
	and := q.AddNode(NewAndNode([]NodeID{a, or}))

	leaves := collectTermLeaves(q, and)
	if len(leaves) != 3 {
		t.Fatalf("expected 3 term leaves, got %d: %v", len(leaves), leaves)
	}
	seen := map[NodeID]bool{}
	for _, l := range leaves {
		seen[l] = true
	}
	for _, want := range []NodeID{a, b, c} {
		if !seen[want] {
			t.Fatalf("expected leaf %v to be collected, got %v", want, leaves)
		}
	}
}

package queryeval

import "testing"

func nodeKind(q *Query, id NodeID) NodeKind {
	return q.node(id).Base().Kind
}

func TestValidate_FlattensNestedAnd(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "a", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "b", map[DocumentID][]int{1: {1}})
	c := buildToken(q, "c", map[DocumentID][]int{1: {2}})
	inner := q.AddNode(NewAndNode([]NodeID{a, b}))
	outer := q.AddNode(NewAndNode([]NodeID{inner, c}))
	q.SetRoot(outer)
	mustValidate(t, q)

	root := q.node(q.root)
	if nodeKind(q, q.root) != KindAnd {
		t.Fatalf("expected root to remain And, got %v", nodeKind(q, q.root))
	}
	if len(root.Children()) != 3 {
		t.Fatalf("expected flatten to produce 3 children, got %d: %v", len(root.Children()), root.Children())
	}
}

func TestValidate_RewritesOperatorWindow(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "fox", map[DocumentID][]int{1: {1}})
	win := q.AddNode(NewOperatorWindowNode(1, 2, true, []NodeID{a, b}))
	q.SetRoot(win)
	mustValidate(t, q)

	if nodeKind(q, q.root) == KindOperatorWindow {
		t.Fatal("expected OperatorWindowNode to be rewritten away")
	}
	if nodeKind(q, q.root) != KindOrderedDistance {
		t.Fatalf("expected an OrderedDistanceNode for an ordered, min<=1 window, got %v", nodeKind(q, q.root))
	}
}

func TestValidate_RejectsAndNotWithWrongChildCount(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "a", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "b", map[DocumentID][]int{1: {1}})
	c := buildToken(q, "c", map[DocumentID][]int{1: {2}})
	n := &AndNotNode{NodeBase: NodeBase{
		Kind: KindAndNot, ChildIDs: []NodeID{a, b, c},
		RoughPointer: InvalidNodeID, EndNode: InvalidNodeID,
	}}
	q.SetRoot(q.AddNode(n))
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for a 3-child AndNot")
	}
}

func TestValidate_FillsRankingDefaults(t *testing.T) {
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	a := buildToken(q, "a", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "b", map[DocumentID][]int{1: {1}})
	and := NewAndNode([]NodeID{a, b})
	if and.Combiner != nil {
		t.Fatal("expected a freshly built AndNode to have no combiner before validate")
	}
	root := q.AddNode(and)
	q.SetRoot(root)
	mustValidate(t, q)

	got := q.node(q.root).Base()
	if got.Combiner == nil {
		t.Fatal("expected fillDefaults to install a combiner in ranking mode")
	}
	if _, ok := q.calculators[a]; !ok {
		t.Fatal("expected fillDefaults to install a BM25 calculator on a scorable leaf")
	}
}

func TestValidate_OrNormalFormDistributesAndOverOr(t *testing.T) {
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	a := buildToken(q, "a", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "b", map[DocumentID][]int{1: {1}})
	c := buildToken(q, "c", map[DocumentID][]int{1: {2}})
	or := q.AddNode(NewOrNode([]NodeID{b, c}))
	and := q.AddNode(NewAndNode([]NodeID{a, or}))
	q.SetRoot(and)
	mustValidate(t, q)

	// SumCombiner is associative+commutative, so the default-filled Or
	// qualifies for distribution: the root should now be an Or of Ands.
	if nodeKind(q, q.root) != KindOr {
		t.Fatalf("expected OR-normal-form to hoist Or to the root, got %v", nodeKind(q, q.root))
	}
	for _, child := range q.node(q.root).Children() {
		if nodeKind(q, child) != KindAnd {
			t.Fatalf("expected every Or branch to be an And after distribution, got %v", nodeKind(q, child))
		}
	}
}

func TestValidate_BooleanModeDistributesOr(t *testing.T) {
	// NewOrNode leaves Combiner nil and fillDefaults only installs one in
	// Ranking mode, but Boolean mode has no scores to preserve, so the
	// combiner gate does not apply and the And is distributed over the Or.
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "a", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "b", map[DocumentID][]int{1: {1}})
	c := buildToken(q, "c", map[DocumentID][]int{1: {2}})
	or := q.AddNode(NewOrNode([]NodeID{b, c}))
	and := q.AddNode(NewAndNode([]NodeID{a, or}))
	q.SetRoot(and)
	mustValidate(t, q)

	if nodeKind(q, q.root) != KindOr {
		t.Fatalf("expected Boolean mode to hoist the Or to the root, got %v", nodeKind(q, q.root))
	}
}

func TestValidate_AtomicOrNeverDistributed(t *testing.T) {
	q := NewQuery(ModeRanking, DefaultConfig(), nil)
	a := buildToken(q, "a", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "running", map[DocumentID][]int{1: {1}})
	c := buildToken(q, "runner", map[DocumentID][]int{1: {2}})
	syn := q.AddNode(NewSynonymNode("run", []NodeID{b, c}))
	and := q.AddNode(NewAndNode([]NodeID{a, syn}))
	q.SetRoot(and)
	mustValidate(t, q)

	if nodeKind(q, q.root) != KindAnd {
		t.Fatalf("expected a synonym group to never be distributed by OR-normal-form, got %v", nodeKind(q, q.root))
	}
	found := false
	for _, child := range q.node(q.root).Children() {
		if nodeKind(q, child) == KindSynonym {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the synonym node to survive validation intact as a direct child of And")
	}
}

func TestValidate_IdempotentOnAlreadyValidatedTree(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "a", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "b", map[DocumentID][]int{1: {1}})
	root := q.AddNode(NewAndNode([]NodeID{a, b}))
	q.SetRoot(root)
	mustValidate(t, q)

	firstRoot := q.root
	firstKind := nodeKind(q, firstRoot)
	arenaLen := len(q.arena)

	// Re-run validate on the same, already-rewritten tree.
	if err := q.Validate(); err != nil {
		t.Fatalf("second Validate: %v", err)
	}
	if nodeKind(q, q.root) != firstKind {
		t.Fatalf("idempotency broken: kind changed from %v to %v", firstKind, nodeKind(q, q.root))
	}
	if len(q.arena) != arenaLen {
		t.Fatalf("idempotency broken: arena grew from %d to %d entries on a second validate", arenaLen, len(q.arena))
	}
}

func TestValidate_DedupSharesIdenticalSubtrees(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "dup", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "dup", map[DocumentID][]int{1: {0}})
	left := q.AddNode(NewAndNode([]NodeID{a}))
	right := q.AddNode(NewAndNode([]NodeID{b}))
	or := q.AddNode(NewOrNode([]NodeID{left, right}))
	q.SetRoot(or)
	mustValidate(t, q)

	children := q.node(q.root).Children()
	if len(children) != 2 {
		t.Fatalf("expected 2 children under Or, got %d", len(children))
	}
	if children[0] != children[1] {
		t.Fatalf("expected dedup to collapse identical And(dup) subtrees to one node, got %v and %v", children[0], children[1])
	}
}

package queryeval

import "sort"

// ═══════════════════════════════════════════════════════════════════════════
// VALIDATOR: rewrite pipeline run once before a tree can be retrieved
// ═══════════════════════════════════════════════════════════════════════════
// Runs bottom-up over the tree in a handful of ordered passes:
//
//  1. OperatorWindow rewrite — replace every OperatorWindowNode with its
//     OrderedDistance/SimpleWindow equivalent.
//  2. Calculator/combiner/negator defaults — fill in any nil plug-in on a
//     ranking-mode node with calculator.go's materialised defaults.
//  3. Flatten — merge a child And into its parent And, a child Or into its
//     parent Or, skipping any node marked FlattenBlocked and any ShortWordOr.
//  4. OR-normal-form conversion — when a parent And has an Or child, the
//     query is in Boolean mode or the Or's combiner is associative and
//     commutative, and the product of sibling counts stays under
//     Config.OrStandardThreshold, distribute the And over the Or's branches.
//  5. Child sort — order each node's children by ascending SortFactor so
//     cheap, selective children run first and regex-like children run last.
//  6. Shared-node elimination — canonicalise every node to a key via
//     canonical.go and reuse an existing arena entry with the same key.
//  7. Rough pointers are not built here: rough.go builds each one lazily on
//     the owning node's first LowerBound call.
//  8. Child-count checks — call CheckChildCount on every node (AndNot's
//     "exactly 2" constraint lives here).
//
// Re-running Validate on an already-validated tree is idempotent: every
// pass either no-ops on an already-rewritten shape or recomputes the same
// canonical keys and finds the existing shared nodes.
// ═══════════════════════════════════════════════════════════════════════════

type validator struct {
	q *Query
}

func (v *validator) run(root NodeID) (NodeID, error) {
	root = v.rewriteWindows(root, map[NodeID]bool{})
	v.fillDefaults(root, map[NodeID]bool{})
	root = v.flatten(root, map[NodeID]bool{})
	root = v.orNormalForm(root, map[NodeID]bool{})
	v.sortChildren(root, map[NodeID]bool{})
	root = v.dedup(root, map[NodeID]bool{})
	if err := v.checkChildCounts(root, map[NodeID]bool{}); err != nil {
		return InvalidNodeID, err
	}
	return root, nil
}

func (v *validator) rewriteWindows(id NodeID, seen map[NodeID]bool) NodeID {
	if id == InvalidNodeID || seen[id] {
		return id
	}
	seen[id] = true
	n := v.q.node(id)
	for i, child := range n.Children() {
		newChild := v.rewriteWindows(child, seen)
		if newChild != child {
			n.Base().ChildIDs[i] = newChild
		}
	}
	if ow, ok := n.(*OperatorWindowNode); ok {
		return ow.rewrite(v.q)
	}
	return id
}

func (v *validator) fillDefaults(id NodeID, seen map[NodeID]bool) {
	if id == InvalidNodeID || seen[id] {
		return
	}
	seen[id] = true
	n := v.q.node(id)
	base := n.Base()
	if v.q.Ranking() {
		switch base.Kind {
		case KindAnd:
			if base.Combiner == nil {
				base.Combiner = DefaultAndCombiner()
			}
		case KindOr, KindAtomicOr, KindSynonym:
			if base.Combiner == nil {
				base.Combiner = DefaultOrCombiner()
			}
		case KindAndNot:
			if base.Combiner == nil {
				base.Combiner = DefaultAndNotCombiner()
			}
			if base.Negator == nil {
				base.Negator = DefaultNegator()
			}
		}
		if isScorableLeaf(base.Kind) {
			if calc := v.q.calculators[id]; calc == nil {
				cfg := v.q.Config()
				v.q.SetCalculator(id, DefaultBM25Calculator(cfg))
			}
		}
	}
	for _, child := range n.Children() {
		v.fillDefaults(child, seen)
	}
}

func isScorableLeaf(k NodeKind) bool {
	switch k {
	case KindSimpleToken, KindWord, KindOrderedDistance, KindSimpleWindow, KindRegex:
		return true
	}
	return false
}

func (v *validator) flatten(id NodeID, seen map[NodeID]bool) NodeID {
	if id == InvalidNodeID || seen[id] {
		return id
	}
	seen[id] = true
	n := v.q.node(id)
	base := n.Base()
	for i, child := range n.Children() {
		newChild := v.flatten(child, seen)
		if newChild != child {
			base.ChildIDs[i] = newChild
		}
	}
	if base.Kind != KindAnd && base.Kind != KindOr {
		return id
	}
	var merged []NodeID
	changed := false
	for _, child := range base.ChildIDs {
		cn := v.q.node(child)
		cb := cn.Base()
		if o, ok := cn.(*OrNode); ok && o.ShortWordOr {
			merged = append(merged, child)
			continue
		}
		if cb.Kind == base.Kind && !cb.FlattenBlocked {
			merged = append(merged, cb.ChildIDs...)
			changed = true
			continue
		}
		merged = append(merged, child)
	}
	if changed {
		base.ChildIDs = merged
	}
	return id
}

// orNormalForm distributes an And over an Or child's branches when doing
// so is sound: in Boolean mode always, in Ranking mode only when the Or's
// combiner is associative and commutative (so redistributing its terms
// can't change the combined score); in both modes the expansion must stay
// under Config.OrStandardThreshold to bound the blow-up.
func (v *validator) orNormalForm(id NodeID, seen map[NodeID]bool) NodeID {
	if id == InvalidNodeID || seen[id] {
		return id
	}
	seen[id] = true
	n := v.q.node(id)
	base := n.Base()
	for i, child := range n.Children() {
		newChild := v.orNormalForm(child, seen)
		if newChild != child {
			base.ChildIDs[i] = newChild
		}
	}
	if base.Kind != KindAnd {
		return id
	}
	for i, child := range base.ChildIDs {
		cn := v.q.node(child)
		cb := cn.Base()
		if cb.Kind != KindOr || cb.Atomic || cb.FlattenBlocked {
			continue
		}
		if v.q.Ranking() && (cb.Combiner == nil || !cb.Combiner.IsAssociative() || !cb.Combiner.IsCommutative()) {
			continue
		}
		others := len(base.ChildIDs) - 1
		if others <= 0 {
			continue
		}
		if len(cb.ChildIDs)*others > v.q.Config().OrStandardThreshold {
			continue
		}
		var branches []NodeID
		for _, orChild := range cb.ChildIDs {
			clause := make([]NodeID, 0, len(base.ChildIDs))
			for j, sib := range base.ChildIDs {
				if j == i {
					clause = append(clause, orChild)
				} else {
					clause = append(clause, sib)
				}
			}
			and := NewAndNode(clause)
			and.Combiner = base.Combiner
			branches = append(branches, v.q.AddNode(and))
		}
		newOr := NewOrNode(branches)
		newOr.Combiner = cb.Combiner
		return v.q.AddNode(newOr)
	}
	return id
}

func (v *validator) sortChildren(id NodeID, seen map[NodeID]bool) {
	if id == InvalidNodeID || seen[id] {
		return
	}
	seen[id] = true
	n := v.q.node(id)
	for _, child := range n.Children() {
		v.sortChildren(child, seen)
	}
	switch t := n.(type) {
	case *AndNode:
		t.recomputeSortFactor(v.q)
		sortNodeIDsBySortFactor(v.q, t.ChildIDs)
	case *OrNode:
		t.recomputeSortFactor(v.q)
		sortNodeIDsBySortFactor(v.q, t.ChildIDs)
	}
}

func sortNodeIDsBySortFactor(q *Query, ids []NodeID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return q.node(ids[i]).Base().SortFactor < q.node(ids[j]).Base().SortFactor
	})
}

func (v *validator) dedup(id NodeID, seen map[NodeID]bool) NodeID {
	if id == InvalidNodeID {
		return id
	}
	n := v.q.node(id)
	base := n.Base()
	if !seen[id] {
		seen[id] = true
		for i, child := range n.Children() {
			newChild := v.dedup(child, seen)
			if newChild != child {
				base.ChildIDs[i] = newChild
			}
		}
	}
	key := n.CanonicalKey(v.q)
	if existing, ok := v.q.sharedNodes[key]; ok && existing != id {
		return existing
	}
	v.q.sharedNodes[key] = id
	return id
}

func (v *validator) checkChildCounts(id NodeID, seen map[NodeID]bool) error {
	if id == InvalidNodeID || seen[id] {
		return nil
	}
	seen[id] = true
	n := v.q.node(id)
	if err := n.CheckChildCount(); err != nil {
		return err
	}
	for _, child := range n.Children() {
		if err := v.checkChildCounts(child, seen); err != nil {
			return err
		}
	}
	return nil
}

package queryeval

import "github.com/RoaringBitmap/roaring"

// ═══════════════════════════════════════════════════════════════════════════
// ROUGH EVALUATION
// ═══════════════════════════════════════════════════════════════════════════
// A rough sub-tree is a cheap, over-approximating stand-in for an
// expensive node (chiefly OrderedDistance and Window, whose exact
// lower_bound requires walking position lists): it drops the exact
// positional test and keeps only the And/Or of the underlying terms'
// document membership, so lower_bound(rough) <= lower_bound(exact) always
// holds and a rough miss proves an exact miss without ever opening a
// position iterator.
//
// Multiple exact nodes that share the same child token set end up
// pointing at the very same rough node (stored in Query.sharedNodes under
// a "rough:" key), so the
// candidate-generation pass for a big And of phrases only walks each
// term's bitmap once no matter how many phrases reuse it.
// ═══════════════════════════════════════════════════════════════════════════

// makeRoughPointer builds (or reuses) a rough sub-tree standing in for a
// node's exact positional semantics, from the document-membership bitmaps
// of its leaf descendants, combined with And.
func makeRoughPointer(q *Query, leafIDs []NodeID) NodeID {
	if len(leafIDs) == 0 {
		return InvalidNodeID
	}
	key := "rough:"
	for _, id := range leafIDs {
		key += q.node(id).CanonicalKey(q) + "|"
	}
	if existing, ok := q.sharedNodes[key]; ok {
		return existing
	}

	bitmaps := make([]*roaring.Bitmap, 0, len(leafIDs))
	for _, id := range leafIDs {
		bm := membershipBitmap(q, id)
		if bm == nil {
			return InvalidNodeID // can't build a sound rough pointer without membership info
		}
		bitmaps = append(bitmaps, bm)
	}
	intersection := bitmaps[0].Clone()
	for _, bm := range bitmaps[1:] {
		intersection.And(bm)
	}
	node := NewBooleanResultNode("rough", bitmapToSlice(intersection))
	id := q.AddNode(node)
	q.sharedNodes[key] = id
	return id
}

// membershipBitmap walks a node's full posting once to build a
// document-membership bitmap, used only at rough-construction time.
func membershipBitmap(q *Query, id NodeID) *roaring.Bitmap {
	n := q.node(id)
	tok, ok := n.(*SimpleTokenNode)
	if !ok || tok.List == nil {
		return nil
	}
	bm := roaring.New()
	it := tok.List.Begin()
	doc, ok := it.LowerBound(UndefinedDocumentID + 1)
	for ok {
		bm.Add(uint32(doc))
		doc, ok = it.LowerBound(doc + 1)
	}
	return bm
}

func bitmapToSlice(bm *roaring.Bitmap) []DocumentID {
	out := make([]DocumentID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, DocumentID(it.Next()))
	}
	return out
}

// collectTermLeaves walks a sub-tree collecting every SimpleTokenNode
// reachable without crossing a negation, the set a rough pointer can
// soundly over-approximate from.
func collectTermLeaves(q *Query, id NodeID) []NodeID {
	n := q.node(id)
	if _, ok := n.(*SimpleTokenNode); ok {
		return []NodeID{id}
	}
	var out []NodeID
	children := n.Children()
	if _, ok := n.(*AndNotNode); ok && len(children) == 2 {
		children = children[:1] // the excluded operand sits behind a negation
	}
	for _, child := range children {
		out = append(out, collectTermLeaves(q, child)...)
	}
	return out
}

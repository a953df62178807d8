package queryeval

// ═══════════════════════════════════════════════════════════════════════════
// POSITION WALKING: phrase and cover search over child location iterators
// ═══════════════════════════════════════════════════════════════════════════
// Generalises the NextPhrase/NextCover family in search.go from walking a
// whole index's per-term skip lists to walking one document's set of child
// LocationListIterators. OrderedDistance reuses nextPhraseWithin for exact
// adjacency (max_distance=0) and bounded-gap phrases; SimpleWindow reuses
// nextCoverWithin for unordered proximity.
//
// Both share the same three-phase shape the original walks used: find the
// end (furthest/last required position), walk back to find the start, then
// validate the span and retry from the new start on failure. Recursion
// becomes a loop here since Go has no tail-call elimination and a
// pathological document could recurse arbitrarily deep.
// ═══════════════════════════════════════════════════════════════════════════

// locationSpan is one matched occurrence: its start and end position, used
// both to report match locations and to decide where to resume the next
// search from.
type locationSpan struct {
	Start, End int
	Valid      bool
}

// nextPhraseWithin finds the next span where child i's locations occur at
// position start+offsets[i] for every i, starting the search no earlier
// than fromPos. offsets lets OrderedDistance express both adjacency
// (offsets = 0,1,2,...) and a bounded gap (offsets scaled by the allowed
// slop) through the same walk.
func nextPhraseWithin(children []LocationListIterator, offsets []int, fromPos int) locationSpan {
	cursor := fromPos
	for {
		end, ok := findPhraseEndWithin(children, offsets, cursor)
		if !ok {
			return locationSpan{}
		}
		start := end - offsets[len(offsets)-1]
		if isValidPhraseSpan(children, offsets, start) {
			return locationSpan{Start: start, End: end, Valid: true}
		}
		cursor = start + 1
	}
}

// findPhraseEndWithin hops through each child in order, requiring strictly
// increasing candidate positions, and returns the final child's matched
// position (the anchor the phrase is measured relative to).
func findPhraseEndWithin(children []LocationListIterator, offsets []int, fromPos int) (int, bool) {
	anchor := fromPos
	lastPos := -1
	for i, it := range children {
		it.Reset()
		want := anchor + offsets[i]
		found := false
		for it.Next() {
			if it.CurrentLocation() >= want {
				lastPos = it.CurrentLocation()
				if i == 0 {
					anchor = lastPos - offsets[0]
				}
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return lastPos, true
}

// isValidPhraseSpan re-checks that every child has an occurrence at exactly
// start+offsets[i], the same re-validation findPhraseEnd's caller performs
// after walking backward from the end position.
func isValidPhraseSpan(children []LocationListIterator, offsets []int, start int) bool {
	for i, it := range children {
		it.Reset()
		want := start + offsets[i]
		matched := false
		for it.Next() {
			if it.CurrentLocation() == want {
				matched = true
				break
			}
			if it.CurrentLocation() > want {
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// nextCoverWithin finds the smallest span, no earlier than fromPos, that
// contains one occurrence of every child (order and exact gap unconstrained,
// unlike nextPhraseWithin), the shape SimpleWindow's unordered mode needs.
func nextCoverWithin(children []LocationListIterator, fromPos int) locationSpan {
	cursor := fromPos
	for {
		end, ok := findCoverEndWithin(children, cursor)
		if !ok {
			return locationSpan{}
		}
		start := findCoverStartWithin(children, end)
		if start >= 0 {
			return locationSpan{Start: start, End: end, Valid: true}
		}
		cursor = end + 1
	}
}

// findCoverEndWithin returns the furthest of each child's first occurrence
// at or after fromPos — the cover can't close before every term has shown
// up at least once.
func findCoverEndWithin(children []LocationListIterator, fromPos int) (int, bool) {
	furthest := -1
	for _, it := range children {
		it.Reset()
		found := false
		for it.Next() {
			if it.CurrentLocation() >= fromPos {
				if it.CurrentLocation() > furthest {
					furthest = it.CurrentLocation()
				}
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return furthest, true
}

// findCoverStartWithin walks each child backward from end to find its
// latest occurrence at or before end, and returns the earliest of those —
// the tightest span that still contains every term.
func findCoverStartWithin(children []LocationListIterator, end int) int {
	earliest := end
	for _, it := range children {
		it.Reset()
		best := -1
		for it.Next() {
			if it.CurrentLocation() > end {
				break
			}
			best = it.CurrentLocation()
		}
		if best < 0 {
			return -1
		}
		if best < earliest {
			earliest = best
		}
	}
	return earliest
}

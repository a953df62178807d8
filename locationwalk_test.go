package queryeval

import "testing"

func locIter(positions ...int) LocationListIterator {
	locs := make([]Location, len(positions))
	for i, p := range positions {
		locs[i] = Location{Position: p, Length: 1}
	}
	return newSliceLocationIterator(locs)
}

func TestNextPhraseWithin_FindsExactAdjacency(t *testing.T) {
	children := []LocationListIterator{
		locIter(0, 10),
		locIter(1, 11),
		locIter(2, 12),
	}
	offsets := []int{0, 1, 2}

	span := nextPhraseWithin(children, offsets, 0)
	if !span.Valid || span.Start != 0 || span.End != 2 {
		t.Fatalf("got %+v, want Start=0 End=2", span)
	}

	next := nextPhraseWithin(children, offsets, span.Start+1)
	if !next.Valid || next.Start != 10 || next.End != 12 {
		t.Fatalf("got %+v, want the second occurrence at Start=10 End=12", next)
	}
}

func TestNextPhraseWithin_NoMatchWhenGapWrong(t *testing.T) {
	// "quick" at 0, "fox" at 5: gap of 5 doesn't satisfy offsets {0,1}.
	children := []LocationListIterator{
		locIter(0),
		locIter(5),
	}
	span := nextPhraseWithin(children, []int{0, 1}, 0)
	if span.Valid {
		t.Fatalf("expected no match, got %+v", span)
	}
}

func TestNextPhraseWithin_SkipsFalseStartToFindRealOne(t *testing.T) {
	// child0 occurs at 0 and 4; child1 (offset 1) only lines up with the
	// second occurrence, so the walk must retry past the false start at 0.
	children := []LocationListIterator{
		locIter(0, 4),
		locIter(5),
	}
	span := nextPhraseWithin(children, []int{0, 1}, 0)
	if !span.Valid || span.Start != 4 || span.End != 5 {
		t.Fatalf("got %+v, want Start=4 End=5", span)
	}
}

func TestNextCoverWithin_FindsTightestUnorderedSpan(t *testing.T) {
	children := []LocationListIterator{
		locIter(5),
		locIter(0),
		locIter(3),
	}
	span := nextCoverWithin(children, 0)
	if !span.Valid || span.Start != 0 || span.End != 5 {
		t.Fatalf("got %+v, want Start=0 End=5", span)
	}
}

func TestNextCoverWithin_AdvancesPastFromPos(t *testing.T) {
	children := []LocationListIterator{
		locIter(0, 20),
		locIter(1, 21),
	}
	span := nextCoverWithin(children, 10)
	if !span.Valid || span.Start != 20 || span.End != 21 {
		t.Fatalf("got %+v, want the occurrence no earlier than fromPos=10", span)
	}
}

func TestNextCoverWithin_NoMatchWhenChildExhausted(t *testing.T) {
	children := []LocationListIterator{
		locIter(0),
		locIter(1),
	}
	span := nextCoverWithin(children, 5)
	if span.Valid {
		t.Fatalf("expected no cover once a child has no more occurrences, got %+v", span)
	}
}

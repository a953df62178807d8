package queryeval

import "github.com/RoaringBitmap/roaring"

// ═══════════════════════════════════════════════════════════════════════════
// EXTERNAL COLLABORATOR INTERFACES
// ═══════════════════════════════════════════════════════════════════════════
// On-disk inverted list storage lives on the other side of this boundary;
// the evaluation core only depends on these interfaces. Two concrete
// implementations are provided for testing: a roaring-bitmap-backed one
// for Boolean-only postings (no positions) and a slice-backed one that
// carries full location information, the in-memory stand-in for whatever
// on-disk format a real posting-list reader would back this with.
// ═══════════════════════════════════════════════════════════════════════════

// LocationListIterator is a lazy, restartable sequence of (position, length)
// within one document for one term or phrase.
type LocationListIterator interface {
	// IsEnd reports whether the iterator has no more locations.
	IsEnd() bool
	// Next advances to the next location, returning false at end.
	Next() bool
	// CurrentLocation returns the position at the iterator's current spot.
	CurrentLocation() int
	// CurrentLength returns the length (in tokens) of the current location's
	// occurrence — usually 1 for a single token, >1 for a matched phrase.
	CurrentLength() int
	// Frequency returns the known occurrence count, or 0 meaning "unknown,
	// iterate to count".
	Frequency() TermFrequency
	// Reset rewinds the iterator to its first location.
	Reset()
}

// PostingIterator is a lazy, restartable sequence of (doc-id, tf,
// location-iterator) over one inverted list, ordered by ascending doc-id.
type PostingIterator interface {
	// LowerBound advances to the first doc-id >= given and reports whether
	// one was found (false means exhausted).
	LowerBound(given DocumentID) (DocumentID, bool)
	// Current returns the doc-id the iterator currently sits on. Only valid
	// after a LowerBound call returned true.
	Current() DocumentID
	// TermFrequency returns the term frequency at the current doc.
	TermFrequency() TermFrequency
	// Locations returns a location iterator for the current doc, or nil if
	// this posting list carries no position information.
	Locations() LocationListIterator
	// Reset rewinds the iterator to before the first posting.
	Reset()
}

// InvertedList is one token's (or constant-set's) inverted list, the unit
// the provider hands back per token/mode pair.
type InvertedList interface {
	// Begin returns a fresh posting iterator over this list.
	Begin() PostingIterator
	// LastDocumentID returns the highest doc-id present, or
	// UndefinedDocumentID if the list is empty.
	LastDocumentID() DocumentID
	// IsNoLocation reports whether this list carries no position data (a
	// degenerate list that can only answer "present/absent", e.g. a leaf
	// built straight from a BooleanResult).
	IsNoLocation() bool
	// GetDocumentFrequency returns the exact document frequency.
	GetDocumentFrequency() uint64
}

// InvertedListProvider is the validator's binding collaborator: given a
// token (and match mode), produce its inverted list.
type InvertedListProvider interface {
	GetInvertedList(token string, mode MatchMode) (InvertedList, bool)
	GetDocumentFrequency() uint64
}

// ─────────────────────────────────────────────────────────────────────────
// In-memory reference implementations
// ─────────────────────────────────────────────────────────────────────────

// sliceLocationIterator is a LocationListIterator over a fixed, sorted slice
// of locations within one document for one term.
type sliceLocationIterator struct {
	locs []Location
	pos  int // index of "current"; -1 before first Next()
}

func newSliceLocationIterator(locs []Location) *sliceLocationIterator {
	return &sliceLocationIterator{locs: locs, pos: -1}
}

func (it *sliceLocationIterator) IsEnd() bool { return it.pos >= len(it.locs) }

func (it *sliceLocationIterator) Next() bool {
	if it.pos < len(it.locs) {
		it.pos++
	}
	return it.pos < len(it.locs)
}

func (it *sliceLocationIterator) CurrentLocation() int {
	if it.IsEnd() || it.pos < 0 {
		return -1
	}
	return it.locs[it.pos].Position
}

func (it *sliceLocationIterator) CurrentLength() int {
	if it.IsEnd() || it.pos < 0 {
		return 0
	}
	return it.locs[it.pos].Length
}

func (it *sliceLocationIterator) Frequency() TermFrequency {
	return TermFrequency(len(it.locs))
}

func (it *sliceLocationIterator) Reset() { it.pos = -1 }

// memPosting is one document's worth of postings in memPostingList.
type memPosting struct {
	doc  DocumentID
	locs []Location
}

// memPostingList is a slice-backed PostingIterator/InvertedList pair built
// directly from a sorted []memPosting, the in-memory stand-in for a real
// on-disk inverted list. Tests build these straight from token occurrence
// tables (see buildToken in query_test.go).
type memPostingList struct {
	postings []memPosting
}

func newMemPostingList(postings []memPosting) *memPostingList {
	return &memPostingList{postings: postings}
}

func (l *memPostingList) Begin() PostingIterator {
	return &memPostingIterator{list: l, idx: -1}
}

func (l *memPostingList) LastDocumentID() DocumentID {
	if len(l.postings) == 0 {
		return UndefinedDocumentID
	}
	return l.postings[len(l.postings)-1].doc
}

func (l *memPostingList) IsNoLocation() bool { return false }

func (l *memPostingList) GetDocumentFrequency() uint64 { return uint64(len(l.postings)) }

type memPostingIterator struct {
	list *memPostingList
	idx  int // -1 before first LowerBound
}

func (it *memPostingIterator) LowerBound(given DocumentID) (DocumentID, bool) {
	if it.idx < 0 {
		it.idx = 0
	}
	for it.idx < len(it.list.postings) && it.list.postings[it.idx].doc < given {
		it.idx++
	}
	if it.idx >= len(it.list.postings) {
		return UpperBoundDocumentID, false
	}
	return it.list.postings[it.idx].doc, true
}

func (it *memPostingIterator) Current() DocumentID {
	if it.idx < 0 || it.idx >= len(it.list.postings) {
		return UpperBoundDocumentID
	}
	return it.list.postings[it.idx].doc
}

func (it *memPostingIterator) TermFrequency() TermFrequency {
	if it.idx < 0 || it.idx >= len(it.list.postings) {
		return 0
	}
	return TermFrequency(len(it.list.postings[it.idx].locs))
}

func (it *memPostingIterator) Locations() LocationListIterator {
	if it.idx < 0 || it.idx >= len(it.list.postings) {
		return newSliceLocationIterator(nil)
	}
	return newSliceLocationIterator(it.list.postings[it.idx].locs)
}

func (it *memPostingIterator) Reset() { it.idx = -1 }

// bitmapPostingList adapts a roaring.Bitmap into an InvertedList with no
// location information. Nothing in this package constructs one:
// BooleanResult/RankingResult leaves, rough nodes included, keep their
// documents in sorted slices.
type bitmapPostingList struct {
	bitmap *roaring.Bitmap
}

func newBitmapPostingList(bitmap *roaring.Bitmap) *bitmapPostingList {
	return &bitmapPostingList{bitmap: bitmap}
}

func (l *bitmapPostingList) Begin() PostingIterator {
	return &bitmapPostingIterator{bitmap: l.bitmap, it: l.bitmap.Iterator()}
}

func (l *bitmapPostingList) LastDocumentID() DocumentID {
	if l.bitmap.IsEmpty() {
		return UndefinedDocumentID
	}
	return DocumentID(l.bitmap.Maximum())
}

func (l *bitmapPostingList) IsNoLocation() bool { return true }

func (l *bitmapPostingList) GetDocumentFrequency() uint64 { return l.bitmap.GetCardinality() }

type bitmapPostingIterator struct {
	bitmap    *roaring.Bitmap
	it        roaring.IntPeekable
	current   DocumentID
	exhausted bool
}

func (it *bitmapPostingIterator) LowerBound(given DocumentID) (DocumentID, bool) {
	it.it.AdvanceIfNeeded(uint32(given))
	if !it.it.HasNext() {
		it.exhausted = true
		return UpperBoundDocumentID, false
	}
	it.current = DocumentID(it.it.Next())
	if it.current < given {
		// AdvanceIfNeeded landed short; fall back to scanning.
		for it.current < given && it.it.HasNext() {
			it.current = DocumentID(it.it.Next())
		}
		if it.current < given {
			it.exhausted = true
			return UpperBoundDocumentID, false
		}
	}
	return it.current, true
}

func (it *bitmapPostingIterator) Current() DocumentID {
	if it.exhausted {
		return UpperBoundDocumentID
	}
	return it.current
}

func (it *bitmapPostingIterator) TermFrequency() TermFrequency { return 1 }

func (it *bitmapPostingIterator) Locations() LocationListIterator { return nil }

func (it *bitmapPostingIterator) Reset() {
	it.it = it.bitmap.Iterator()
	it.current = UndefinedDocumentID
	it.exhausted = false
}

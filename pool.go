package queryeval

import "sync"

// ═══════════════════════════════════════════════════════════════════════════
// LOCATION-ITERATOR POOL
// ═══════════════════════════════════════════════════════════════════════════
// Each OrderedDistance node owns one small free list of
// OrderedDistanceLocationIterator objects; the list is not keyed by shape,
// and a reused object is reset rather than resized. Go has no
// destructors, so the RAII-wrapper pattern is played by `defer pool.put(it)`
// at the reevaluate call site instead of a smart pointer. Pools are
// per-node and must not escape their owning node's own reevaluate.
// ═══════════════════════════════════════════════════════════════════════════

// orderedDistanceIteratorPool hands out reusable OrderedDistanceLocationIterator
// instances sized for k children, avoiding a fresh allocation on every
// reevaluate call for a hot phrase node.
type orderedDistanceIteratorPool struct {
	mu   sync.Mutex
	free []*OrderedDistanceLocationIterator
}

func newOrderedDistanceIteratorPool() *orderedDistanceIteratorPool {
	return &orderedDistanceIteratorPool{}
}

// get returns a pooled iterator sized for n children, or allocates a fresh
// one if the pool is empty. This constructor is fallible in spirit (the
// original allows allocation failure); in Go the only failure mode is a
// pathological n, guarded here.
func (p *orderedDistanceIteratorPool) get(n int) (*OrderedDistanceLocationIterator, error) {
	if n <= 0 {
		return nil, ErrPoolExhausted
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) > 0 {
		it := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		it.reset(n)
		return it, nil
	}
	return newOrderedDistanceLocationIterator(n), nil
}

// put returns an iterator to the pool. Callers use `defer pool.put(it)`
// immediately after a successful get, the Go idiom standing in for an
// RAII-style scoped release.
func (p *orderedDistanceIteratorPool) put(it *OrderedDistanceLocationIterator) {
	if it == nil {
		return
	}
	p.mu.Lock()
	p.free = append(p.free, it)
	p.mu.Unlock()
}

package reseq

import "sync"

// Pool recycles whole sequences across workers. A sequence is single-owner,
// so concurrent tasks share the reuse reservoir by exchanging sequences
// through a pool instead of sharing one instance: Get hands out a logically
// empty sequence whose reservoir survives from its previous owner.
//
// Pool methods are safe for concurrent use; the sequences they return are not.
type Pool[Item any] struct {
	pool sync.Pool
}

// NewPool returns a pool whose fresh sequences reserve storage for capacity
// elements.
func NewPool[Item any](capacity int) *Pool[Item] {
	if capacity < 0 {
		panic("capacity can't be < 0")
	}
	p := Pool[Item]{}
	p.pool.New = func() any {
		return WithCapacity[Item](capacity)
	}
	return &p
}

// Get returns a logically empty sequence, pooled or fresh.
func (p *Pool[Item]) Get() *Seq[Item] {
	return p.pool.Get().(*Seq[Item])
}

// Put resets the sequence and returns it to the pool, keeping its elements as
// reservoir slots for the next owner. The caller must not use s after Put.
// A nil s is a no-op.
func (p *Pool[Item]) Put(s *Seq[Item]) {
	if s == nil {
		return
	}
	s.Reset()
	p.pool.Put(s)
}

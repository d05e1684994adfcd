package reseq

import (
	"iter"
	"math"
	"slices"
)

// Seq is a growable sequence that separates its logical length from the
// physical length of its backing storage. Elements past the logical length
// are not observable through any view, but they stay allocated with their
// last value intact — they form a reservoir of slots that [Seq.ReuseNext]
// hands back, letting a caller recycle an element's expensive substructure
// instead of allocating a fresh one on every iteration of an outer loop.
//
// A sequence is not thread-safe; each instance must have a single owner per
// mutation epoch (see [Pool] for handing sequences to concurrent workers).
type Seq[Item any] struct {
	items  []Item
	length int
}

// New returns an empty sequence with no reserved storage.
func New[Item any]() *Seq[Item] {
	return &Seq[Item]{
		items: make([]Item, 0),
	}
}

// WithCapacity returns an empty sequence with storage for capacity elements
// reserved eagerly. Reserved capacity holds no elements yet, so ReuseNext on
// a fresh sequence still reports no slot.
func WithCapacity[Item any](capacity int) *Seq[Item] {
	if capacity < 0 {
		panic("capacity can't be < 0")
	}
	return &Seq[Item]{
		items: make([]Item, 0, capacity),
	}
}

// FromSlice returns a sequence that takes ownership of items. Every element
// starts live; there is no reservoir. The caller must not use items afterwards.
func FromSlice[Item any](items []Item) *Seq[Item] {
	return &Seq[Item]{
		items:  items,
		length: len(items),
	}
}

// ReuseNext extends the logical length by one by reviving a reservoir slot,
// returning a pointer to it, or nil if no slot is physically present. The
// slot's prior value is left untouched; the caller is responsible for
// restoring it to a valid state, typically by swapping out its expensive
// substructure and writing a fresh element around it. The returned pointer
// must not be retained past the next mutating call on the sequence.
//
// ReuseNext never allocates.
func (s *Seq[Item]) ReuseNext() *Item {
	if s.length == len(s.items) {
		return nil
	}
	s.length++
	return &s.items[s.length-1]
}

// Append adds value as the new last live element. A stale physical slot is
// overwritten when one exists (releasing whatever it referenced), otherwise
// the backing storage grows.
func (s *Seq[Item]) Append(value Item) {
	if s.length == math.MaxInt {
		panic("length overflow")
	}
	s.length++

	if s.length <= len(s.items) {
		s.items[s.length-1] = value
	} else {
		s.items = append(s.items, value)
	}
}

// Len returns the logical length.
func (s *Seq[Item]) Len() int {
	return s.length
}

// Slice returns the live elements as a contiguous slice sharing the backing
// storage. Elements may be mutated in place through it; its capacity is
// capped at the logical length, so appending to it cannot reach the
// reservoir. It is invalidated by the next mutating call on the sequence.
func (s *Seq[Item]) Slice() []Item {
	return s.items[:s.length:s.length]
}

// Take consumes the sequence: it clears the reservoir, detaches the backing
// storage and returns exactly the live elements. The sequence is left empty,
// with no reserved storage. Ranging over the result is the consuming form of
// iteration.
func (s *Seq[Item]) Take() []Item {
	clear(s.items[s.length:])
	items := s.items[:s.length:s.length]
	s.items = nil
	s.length = 0
	return items
}

// Reset sets the logical length to zero without touching any element. All
// previously live elements become reservoir slots retrievable via ReuseNext.
func (s *Seq[Item]) Reset() {
	s.length = 0
}

// Clear empties the physical storage, zeroing every element live or reserved,
// and sets the logical length to zero. Afterwards ReuseNext reports no slot
// until Append repopulates storage. Reserved capacity is kept.
func (s *Seq[Item]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
	s.length = 0
}

// Iter returns a repeatable sequence of the live elements, by value, in order.
func (s *Seq[Item]) Iter() iter.Seq[Item] {
	return slices.Values(s.Slice())
}

// IterMut returns a repeatable sequence of pointers to the live elements, in
// order. Each call produces a fresh traversal. The yielded pointers must not
// be retained past the next mutating call on the sequence.
func (s *Seq[Item]) IterMut() iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		for i := range s.length {
			if !yield(&s.items[i]) {
				return
			}
		}
	}
}

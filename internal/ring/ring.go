// Package ring implements the fixed-capacity, single-producer/single-consumer
// event queue between the scan-tick synthesizer and the transform engine.
// It is a plain circular array: no allocation after construction, no
// concurrency primitives (callers are serialized by the host scheduler).
package ring

// Capacity is the fixed queue depth (spec.md §4.A).
const Capacity = 64

// Buffer is a fixed-capacity circular queue of T. The zero value is an
// empty, ready-to-use buffer.
type Buffer[T any] struct {
	items [Capacity]T
	read  int
	write int
}

// Push stores x at the write cursor and advances it, wrapping modulo
// Capacity. Overruns are silently permitted: at most Capacity-1 items can be
// held unread. Once Capacity items are unread the write cursor is back on the
// read cursor and the buffer reads as empty; further pushes overwrite the
// oldest slots and only the items pushed past that point remain visible.
func (b *Buffer[T]) Push(x T) {
	b.items[b.write] = x
	b.write = (b.write + 1) % Capacity
}

// effectiveWrite returns the write cursor unwrapped relative to read, so
// that offsets can be compared without modular arithmetic.
func (b *Buffer[T]) effectiveWrite() int {
	if b.write >= b.read {
		return b.write
	}
	return b.write + Capacity
}

// Peek returns the element logically at read+k along with true, or the zero
// value and false if fewer than k+1 items have been pushed beyond the
// current read cursor. k must be less than Capacity.
func (b *Buffer[T]) Peek(k int) (T, bool) {
	if k >= Capacity {
		panic("ring: peek offset out of range")
	}
	if b.read+k >= b.effectiveWrite() {
		var zero T
		return zero, false
	}
	return b.items[(b.read+k)%Capacity], true
}

// Consume advances the read cursor by one if the buffer is non-empty;
// otherwise it is a no-op.
func (b *Buffer[T]) Consume() {
	if b.read == b.write {
		return
	}
	b.read = (b.read + 1) % Capacity
}

// Empty reports whether there are no unconsumed items.
func (b *Buffer[T]) Empty() bool {
	return b.read == b.write
}

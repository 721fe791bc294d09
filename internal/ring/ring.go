// Package ring provides a fixed-capacity FIFO buffer. Once full, every push
// evicts the oldest element.
package ring

type Buffer[T any] struct {
	items []T
	head  int // index of the oldest element
	size  int
}

// New returns a buffer holding at most capacity elements. A capacity below
// one is treated as one.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest element when the buffer is full.
// It reports whether an element was evicted.
func (b *Buffer[T]) Push(v T) (evicted bool) {
	c := len(b.items)
	if b.size < c {
		b.items[(b.head+b.size)%c] = v
		b.size++
		return false
	}
	b.items[b.head] = v
	b.head = (b.head + 1) % c
	return true
}

func (b *Buffer[T]) Len() int { return b.size }

func (b *Buffer[T]) Cap() int { return len(b.items) }

// Last returns the newest element.
func (b *Buffer[T]) Last() (T, bool) {
	var zero T
	if b.size == 0 {
		return zero, false
	}
	return b.items[(b.head+b.size-1)%len(b.items)], true
}

// Items returns a copy of the contents, oldest first.
func (b *Buffer[T]) Items() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Newest returns up to limit elements, newest first. A limit <= 0 returns
// everything.
func (b *Buffer[T]) Newest(limit int) []T {
	n := b.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = b.items[(b.head+b.size-1-i)%len(b.items)]
	}
	return out
}

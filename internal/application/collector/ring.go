package collector

// ringBuffer keeps the most recent size elements, discarding the oldest once
// capacity is reached. It is not safe for concurrent use on its own; the
// Collector serializes access through its history lock.
type ringBuffer[T any] struct {
	buffer []T
	size   int
	start  int
	count  int
}

func newRingBuffer[T any](size int) *ringBuffer[T] {
	return &ringBuffer[T]{
		buffer: make([]T, size),
		size:   size,
	}
}

// add appends item, dropping the oldest element when the buffer is full.
func (rb *ringBuffer[T]) add(item T) {
	index := (rb.start + rb.count) % rb.size
	rb.buffer[index] = item
	if rb.count < rb.size {
		rb.count++
	} else {
		rb.start = (rb.start + 1) % rb.size
	}
}

// getAll returns the retained elements in insertion order, oldest first.
func (rb *ringBuffer[T]) getAll() []T {
	if rb.count == 0 {
		return nil
	}
	items := make([]T, rb.count)
	for i := 0; i < rb.count; i++ {
		items[i] = rb.buffer[(rb.start+i)%rb.size]
	}
	return items
}

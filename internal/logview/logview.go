// Package logview holds the most-recent-first entry lists shown in the dashboard panels.
package logview

// Log is a newest-first list with an optional hard capacity. It is backed by a ring
// so that inserting at the head and evicting from the tail never rescan the list.
//
// A Log is not safe for concurrent use; the run loop owns every instance.
type Log[T any] struct {
	buf      []T
	head     int // index of the newest entry
	n        int
	capacity int // 0 means unbounded
	evicted  uint64
	onEvict  func(T)
}

// New returns a Log holding at most capacity entries. A capacity of 0 never evicts.
func New[T any](capacity int) *Log[T] {
	if capacity < 0 {
		capacity = 0
	}
	size := capacity
	if size == 0 {
		size = 16
	}
	return &Log[T]{
		buf:      make([]T, size),
		capacity: capacity,
	}
}

// OnEvict registers a hook called with every entry pushed out of the tail.
func (l *Log[T]) OnEvict(fn func(T)) {
	l.onEvict = fn
}

// Insert places entry at the head. When the log is full the oldest entry is dropped.
func (l *Log[T]) Insert(entry T) {
	if l.n == len(l.buf) {
		if l.capacity > 0 {
			l.evictTail()
		} else {
			l.grow()
		}
	}

	l.head = (l.head - 1 + len(l.buf)) % len(l.buf)
	l.buf[l.head] = entry
	l.n++
}

func (l *Log[T]) evictTail() {
	tail := (l.head + l.n - 1) % len(l.buf)
	old := l.buf[tail]
	var zero T
	l.buf[tail] = zero
	l.n--
	l.evicted++
	if l.onEvict != nil {
		l.onEvict(old)
	}
}

// grow doubles the backing ring, unrolling it so the head lands at index 0.
func (l *Log[T]) grow() {
	next := make([]T, len(l.buf)*2)
	for i := 0; i < l.n; i++ {
		next[i] = l.buf[(l.head+i)%len(l.buf)]
	}
	l.buf = next
	l.head = 0
}

// Replace discards every entry and stores entries in the given order, first entry at the head.
// Entries beyond the capacity are ignored.
func (l *Log[T]) Replace(entries []T) {
	l.Clear()
	if l.capacity > 0 && len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	for i := len(entries) - 1; i >= 0; i-- {
		l.Insert(entries[i])
	}
}

func (l *Log[T]) Clear() {
	var zero T
	for i := range l.buf {
		l.buf[i] = zero
	}
	l.head = 0
	l.n = 0
}

// Entries returns a copy of the log, newest first.
func (l *Log[T]) Entries() []T {
	out := make([]T, l.n)
	for i := 0; i < l.n; i++ {
		out[i] = l.buf[(l.head+i)%len(l.buf)]
	}
	return out
}

// At returns the i-th newest entry.
func (l *Log[T]) At(i int) (T, bool) {
	if i < 0 || i >= l.n {
		var zero T
		return zero, false
	}
	return l.buf[(l.head+i)%len(l.buf)], true
}

func (l *Log[T]) Len() int { return l.n }

// Cap reports the configured capacity, 0 when unbounded.
func (l *Log[T]) Cap() int { return l.capacity }

// Evicted counts entries dropped from the tail since the log was created.
func (l *Log[T]) Evicted() uint64 { return l.evicted }

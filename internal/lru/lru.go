// Package lru provides a small least-recently-used map with an eviction
// callback.
//
// It is used to keep a bounded number of per-size font faces open. LRU is
// not safe for concurrent use.
package lru

// node is an entry of the recency list.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// LRU maps keys to values and evicts the least recently used entry once
// more than Capacity entries are stored.
//
// The head of the list is the most recently used entry, the tail the least.
type LRU[K comparable, V any] struct {
	capacity int
	entries  map[K]*node[K, V]
	head     *node[K, V]
	tail     *node[K, V]

	onEvict func(K, V)
}

// New creates an LRU holding at most capacity entries. A capacity below 1
// is treated as 1. onEvict, if not nil, is called for every entry removed
// by eviction or Clear.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		entries:  make(map[K]*node[K, V], capacity),
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	n, ok := l.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	l.moveToFront(n)
	return n.value, true
}

// Add stores value under key as the most recently used entry, replacing any
// previous value without calling onEvict for it.
func (l *LRU[K, V]) Add(key K, value V) {
	if n, ok := l.entries[key]; ok {
		n.value = value
		l.moveToFront(n)
		return
	}

	n := &node[K, V]{key: key, value: value}
	l.entries[key] = n
	l.pushFront(n)

	for len(l.entries) > l.capacity {
		oldest := l.tail
		l.unlink(oldest)
		delete(l.entries, oldest.key)
		l.evicted(oldest)
	}
}

// Clear removes all entries, oldest first.
func (l *LRU[K, V]) Clear() {
	for l.tail != nil {
		n := l.tail
		l.unlink(n)
		delete(l.entries, n.key)
		l.evicted(n)
	}
}

// Len returns the number of entries.
func (l *LRU[K, V]) Len() int {
	return len(l.entries)
}

func (l *LRU[K, V]) evicted(n *node[K, V]) {
	if l.onEvict != nil {
		l.onEvict(n.key, n.value)
	}
}

func (l *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *LRU[K, V]) moveToFront(n *node[K, V]) {
	if n == l.head {
		return
	}
	l.unlink(n)
	l.pushFront(n)
}

// unlink removes n from the list and clears its pointers.
func (l *LRU[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

package policy

// List is an intrusive doubly-linked list: the link fields live inside the
// nodes themselves, so no per-operation allocation occurs. Front is the
// most recent position, back the eviction end.
//
// Single-writer discipline: a List is owned by one engine and mutated only
// under that engine's shard lock. A node may be in at most one List at a
// time; Remove of a node that is not linked here is a programming error and
// panics rather than corrupting the links.
type List[K comparable, V any] struct {
	head Node[K, V]
	tail Node[K, V]
	len  int
}

// Len returns the number of linked nodes.
func (l *List[K, V]) Len() int { return l.len }

// Front returns the first node or nil.
func (l *List[K, V]) Front() Node[K, V] { return l.head }

// Back returns the last node or nil.
func (l *List[K, V]) Back() Node[K, V] { return l.tail }

// PushFront links n at the front in O(1).
func (l *List[K, V]) PushFront(n Node[K, V]) {
	n.SetPrev(nil)
	n.SetNext(l.head)
	if l.head != nil {
		l.head.SetPrev(n)
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

// PushBack links n at the back in O(1).
func (l *List[K, V]) PushBack(n Node[K, V]) {
	n.SetNext(nil)
	n.SetPrev(l.tail)
	if l.tail != nil {
		l.tail.SetNext(n)
	}
	l.tail = n
	if l.head == nil {
		l.head = n
	}
	l.len++
}

// Remove unlinks n in O(1). n must currently be linked in this list.
func (l *List[K, V]) Remove(n Node[K, V]) {
	if n.Prev() == nil && n.Next() == nil && l.head != n {
		panic("policy: Remove of node not in list")
	}
	if p := n.Prev(); p != nil {
		p.SetNext(n.Next())
	}
	if nx := n.Next(); nx != nil {
		nx.SetPrev(n.Prev())
	}
	if l.head == n {
		l.head = n.Next()
	}
	if l.tail == n {
		l.tail = n.Prev()
	}
	n.SetPrev(nil)
	n.SetNext(nil)
	l.len--
}

// MoveToFront relinks n at the front in O(1). n must be linked here.
func (l *List[K, V]) MoveToFront(n Node[K, V]) {
	if l.head == n {
		return
	}
	l.Remove(n)
	l.PushFront(n)
}

// PopBack unlinks and returns the back node, or nil when empty.
func (l *List[K, V]) PopBack() Node[K, V] {
	n := l.tail
	if n == nil {
		return nil
	}
	l.Remove(n)
	return n
}

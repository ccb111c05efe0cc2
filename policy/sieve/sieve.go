// Package sieve implements SIEVE eviction: FIFO order, one visited bit per
// entry, and a single moving hand.
//
// A hit only sets the entry's mark bit, with no list movement, so read-heavy
// workloads avoid LRU's promotion cost entirely. Eviction advances the hand
// from the tail toward the head, clearing marks as it goes; the first
// unmarked entry is the victim. A marked entry therefore survives at least
// one full hand pass it would have lost under plain FIFO.
package sieve

import "github.com/IvanBrykalov/memtier/policy"

type sievePolicy[K comparable, V any] struct{}

// New returns a Policy that builds per-shard SIEVE engines.
func New[K comparable, V any]() policy.Policy[K, V] { return sievePolicy[K, V]{} }

func (sievePolicy[K, V]) New(capacity int, _ policy.Estimator) policy.Engine[K, V] {
	return &sieve[K, V]{cap: capacity}
}

type sieve[K comparable, V any] struct {
	list policy.List[K, V]
	hand policy.Node[K, V] // nil = start the next scan at the tail
	cap  int
}

func (p *sieve[K, V]) Admit(uint64) bool { return true }

// OnInsert places the entry at the head, unmarked.
func (p *sieve[K, V]) OnInsert(n policy.Node[K, V]) {
	n.SetMark(false)
	p.list.PushFront(n)
}

// OnAccess sets the visited bit; the list is never reordered.
func (p *sieve[K, V]) OnAccess(n policy.Node[K, V]) { n.SetMark(true) }

// OnRemove detaches the entry, stepping the hand off it first.
func (p *sieve[K, V]) OnRemove(n policy.Node[K, V]) {
	if p.hand == n {
		p.hand = n.Prev()
	}
	p.list.Remove(n)
}

// Evict scans from the hand toward the head, giving every marked entry a
// second chance by clearing its bit in place. Reaching the head wraps the
// scan back to the tail; since marks are cleared on the way, the scan
// terminates within two passes. The hand rests on the victim's predecessor.
func (p *sieve[K, V]) Evict() policy.Node[K, V] {
	if p.list.Len() == 0 {
		return nil
	}
	n := p.hand
	if n == nil {
		n = p.list.Back()
	}
	for n.Mark() {
		n.SetMark(false)
		n = n.Prev()
		if n == nil {
			n = p.list.Back()
		}
	}
	p.hand = n.Prev()
	p.list.Remove(n)
	return n
}

func (p *sieve[K, V]) Len() int      { return p.list.Len() }
func (p *sieve[K, V]) Capacity() int { return p.cap }

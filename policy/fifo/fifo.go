// Package fifo implements First-In-First-Out eviction, optionally gated by
// a frequency-sketch admission filter.
//
// Plain FIFO never reorders on access, which makes hits as cheap as a map
// lookup. The admission variant protects residents from one-off scans: a
// candidate is only admitted over the would-be victim when its estimated
// frequency is at least the victim's.
package fifo

import "github.com/IvanBrykalov/memtier/policy"

type fifoPolicy[K comparable, V any] struct {
	admission bool
}

// New returns a Policy that builds per-shard FIFO engines without an
// admission filter.
func New[K comparable, V any]() policy.Policy[K, V] { return fifoPolicy[K, V]{} }

// WithAdmission returns a Policy whose engines consult the cache's
// frequency estimator before admitting a candidate at capacity.
func WithAdmission[K comparable, V any]() policy.Policy[K, V] {
	return fifoPolicy[K, V]{admission: true}
}

func (p fifoPolicy[K, V]) New(capacity int, est policy.Estimator) policy.Engine[K, V] {
	e := &fifo[K, V]{cap: capacity}
	if p.admission {
		e.est = est
	}
	return e
}

type fifo[K comparable, V any] struct {
	list policy.List[K, V]
	cap  int
	est  policy.Estimator // nil = admit everything
}

// Admit compares the candidate's estimated frequency against the current
// victim-to-be. Only consulted when the engine is full.
func (p *fifo[K, V]) Admit(keyHash uint64) bool {
	if p.est == nil {
		return true
	}
	victim := p.list.Back()
	if victim == nil {
		return true
	}
	return p.est.Estimate(keyHash) >= p.est.Estimate(victim.KeyHash())
}

// OnInsert queues the entry in arrival order.
func (p *fifo[K, V]) OnInsert(n policy.Node[K, V]) { p.list.PushFront(n) }

// OnAccess is a no-op: FIFO order is insertion order.
func (p *fifo[K, V]) OnAccess(policy.Node[K, V]) {}

// OnRemove detaches the entry.
func (p *fifo[K, V]) OnRemove(n policy.Node[K, V]) { p.list.Remove(n) }

// Evict pops the oldest entry.
func (p *fifo[K, V]) Evict() policy.Node[K, V] { return p.list.PopBack() }

func (p *fifo[K, V]) Len() int      { return p.list.Len() }
func (p *fifo[K, V]) Capacity() int { return p.cap }

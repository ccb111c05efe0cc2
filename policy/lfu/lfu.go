// Package lfu implements sketch-driven Least-Frequently-Used eviction.
//
// Frequencies come from the cache's shared count-min sketch, so no per-key
// counter state is kept here; the engine's list exists for enumeration and
// O(1) removal bookkeeping only. Eviction samples a small window of
// candidates around a moving cursor and removes the one with the smallest
// estimate; the exact global minimum is not required, and sampling keeps
// the cost O(1) amortized regardless of shard size.
package lfu

import "github.com/IvanBrykalov/memtier/policy"

// DefaultSampleWidth is how many candidates an eviction inspects.
const DefaultSampleWidth = 5

type lfuPolicy[K comparable, V any] struct {
	sampleWidth int
}

// New returns a Policy with the default sample width.
func New[K comparable, V any]() policy.Policy[K, V] {
	return NewWithSample[K, V](DefaultSampleWidth)
}

// NewWithSample returns a Policy whose engines inspect up to sampleWidth
// candidates per eviction (minimum 1). Wider samples approach true LFU at
// higher per-eviction cost.
func NewWithSample[K comparable, V any](sampleWidth int) policy.Policy[K, V] {
	if sampleWidth < 1 {
		sampleWidth = 1
	}
	return lfuPolicy[K, V]{sampleWidth: sampleWidth}
}

func (p lfuPolicy[K, V]) New(capacity int, est policy.Estimator) policy.Engine[K, V] {
	return &lfu[K, V]{cap: capacity, sample: p.sampleWidth, est: est}
}

type lfu[K comparable, V any] struct {
	list   policy.List[K, V]
	cursor policy.Node[K, V] // nil = resume sampling at the tail
	cap    int
	sample int
	est    policy.Estimator
}

func (p *lfu[K, V]) Admit(uint64) bool { return true }

// OnInsert tracks the entry; order carries no frequency meaning.
func (p *lfu[K, V]) OnInsert(n policy.Node[K, V]) { p.list.PushFront(n) }

// OnAccess is structurally a no-op: the facade already bumped the sketch.
func (p *lfu[K, V]) OnAccess(policy.Node[K, V]) {}

// OnRemove detaches the entry, stepping the cursor off it first.
func (p *lfu[K, V]) OnRemove(n policy.Node[K, V]) {
	if p.cursor == n {
		p.cursor = n.Prev()
	}
	p.list.Remove(n)
}

// Evict walks up to sample entries from the cursor toward the head and
// removes the one whose sketch estimate is lowest. The cursor continues
// past the inspected window so successive evictions cycle the whole shard.
func (p *lfu[K, V]) Evict() policy.Node[K, V] {
	if p.list.Len() == 0 {
		return nil
	}
	n := p.cursor
	if n == nil {
		n = p.list.Back()
	}
	victim := n
	lowest := p.est.Estimate(n.KeyHash())
	for i := 1; i < p.sample; i++ {
		n = n.Prev()
		if n == nil {
			n = p.list.Back()
		}
		if n == victim {
			break // wrapped around a short list
		}
		if e := p.est.Estimate(n.KeyHash()); e < lowest {
			victim, lowest = n, e
		}
	}
	p.cursor = n.Prev()
	if p.cursor == victim {
		p.cursor = victim.Prev()
	}
	p.list.Remove(victim)
	return victim
}

func (p *lfu[K, V]) Len() int      { return p.list.Len() }
func (p *lfu[K, V]) Capacity() int { return p.cap }

// Package lru implements the classic Least-Recently-Used eviction engine.
package lru

import "github.com/IvanBrykalov/memtier/policy"

type lruPolicy[K comparable, V any] struct{}

// New returns a Policy that builds per-shard LRU engines.
func New[K comparable, V any]() policy.Policy[K, V] { return lruPolicy[K, V]{} }

func (lruPolicy[K, V]) New(capacity int, _ policy.Estimator) policy.Engine[K, V] {
	return &lru[K, V]{cap: capacity}
}

// lru keeps one intrusive list, front = MRU, back = LRU. Order is total,
// so eviction ties cannot occur.
type lru[K comparable, V any] struct {
	list policy.List[K, V]
	cap  int
}

// Admit always accepts; LRU has no admission filter.
func (p *lru[K, V]) Admit(uint64) bool { return true }

// OnInsert places the new entry at MRU.
func (p *lru[K, V]) OnInsert(n policy.Node[K, V]) { p.list.PushFront(n) }

// OnAccess promotes the entry to MRU.
func (p *lru[K, V]) OnAccess(n policy.Node[K, V]) { p.list.MoveToFront(n) }

// OnRemove detaches the entry.
func (p *lru[K, V]) OnRemove(n policy.Node[K, V]) { p.list.Remove(n) }

// Evict pops the LRU entry.
func (p *lru[K, V]) Evict() policy.Node[K, V] { return p.list.PopBack() }

func (p *lru[K, V]) Len() int      { return p.list.Len() }
func (p *lru[K, V]) Capacity() int { return p.cap }

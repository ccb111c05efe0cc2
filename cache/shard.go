package cache

import (
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/memtier/internal/util"
	"github.com/IvanBrykalov/memtier/policy"
)

// shard is an independent partition of the cache: one key→entry map, one
// eviction engine, one exclusive lock guarding both. The lock is exclusive
// rather than RW because every policy mutates ordering state even on reads.
//
// Invariant: a key is in s.m iff its entry is tracked by s.eng. Both sides
// only change together, under s.mu; the invariant holds at every unlock.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu  sync.Mutex
	m   map[K]*entry[K, V]
	eng policy.Engine[K, V]

	opt Options[K, V]

	// total is the cache-wide resident count, shared by all shards.
	total *atomic.Int64

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// newShard builds a shard with per-shard capacity. pol constructs the
// engine bound to this shard; est is the cache-wide frequency estimator.
func newShard[K comparable, V any](capacity int, pol policy.Policy[K, V], est policy.Estimator, opt Options[K, V], total *atomic.Int64) *shard[K, V] {
	return &shard[K, V]{
		m:     make(map[K]*entry[K, V], capacity),
		eng:   pol.New(capacity, est),
		opt:   opt,
		total: total,
	}
}

// Get looks k up and, on hit, records the access with the engine and hands
// out a Handle. A miss has no side effect inside the shard.
func (s *shard[K, V]) Get(k K) *Handle[K, V] {
	s.mu.Lock()
	n, ok := s.m[k]
	if !ok {
		s.mu.Unlock()
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		return nil
	}
	s.eng.OnAccess(n)
	h := n.acquire()
	s.mu.Unlock()

	s.hits.Add(1)
	s.opt.Metrics.Hit()
	return h
}

// peek is Get without metrics or hit/miss counters. The load path uses it
// to re-check residency after winning a flight, where the miss was already
// accounted on the way in. Engine access is still recorded.
func (s *shard[K, V]) peek(k K) *Handle[K, V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.m[k]
	if !ok {
		return nil
	}
	s.eng.OnAccess(n)
	return n.acquire()
}

// Insert admits k→v through the engine. An existing entry for k is
// displaced (its value stays alive for outstanding handles). Returns nil
// when the engine's admission filter refuses the candidate at capacity.
func (s *shard[K, V]) Insert(k K, v V, hash uint64) *Handle[K, V] {
	s.mu.Lock()

	if old, ok := s.m[k]; ok {
		// Same key: the engine forgets the old entry, the new one takes
		// its slot. Not counted as a policy eviction.
		s.eng.OnRemove(old)
		n := newEntry(k, v, hash, s.opt.OnRelease)
		s.m[k] = n
		s.eng.OnInsert(n)
		h := n.acquire()
		if cb := s.opt.OnEvict; cb != nil {
			cb(old.key, old.val, EvictDisplaced)
		}
		old.release()
		s.mu.Unlock()

		s.opt.Metrics.Evict(EvictDisplaced)
		s.opt.Metrics.Size(int(s.total.Load()))
		return h
	}

	if s.eng.Len() >= s.eng.Capacity() && !s.eng.Admit(hash) {
		s.mu.Unlock()
		return nil
	}
	for s.eng.Len() >= s.eng.Capacity() {
		victim := s.eng.Evict()
		if victim == nil {
			break
		}
		s.evictLocked(victim.(*entry[K, V]))
	}

	n := newEntry(k, v, hash, s.opt.OnRelease)
	s.m[k] = n
	s.eng.OnInsert(n)
	h := n.acquire()
	s.mu.Unlock()

	s.opt.Metrics.Size(int(s.total.Add(1)))
	return h
}

// Remove deletes k if present. The returned Handle keeps the value valid
// until released. Removing an absent key returns nil, never an error.
func (s *shard[K, V]) Remove(k K) *Handle[K, V] {
	s.mu.Lock()
	n, ok := s.m[k]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.eng.OnRemove(n)
	delete(s.m, k)
	h := n.acquire() // before dropping the resident reference
	n.release()
	s.mu.Unlock()

	s.opt.Metrics.Size(int(s.total.Add(-1)))
	return h
}

// Len returns the number of resident entries in this shard.
func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Len()
}

// evictLocked finalizes a victim the engine already detached: de-index,
// notify, drop the resident reference. Caller holds s.mu.
func (s *shard[K, V]) evictLocked(n *entry[K, V]) {
	delete(s.m, n.key)
	s.evicts.Add(1)
	s.total.Add(-1)
	s.opt.Metrics.Evict(EvictPolicy)
	if cb := s.opt.OnEvict; cb != nil {
		// Called under the lock so the disk-flush hook observes evictions
		// in shard order; keep it lightweight.
		cb(n.key, n.val, EvictPolicy)
	}
	n.release()
}

package cache

import (
	"context"
	"sync/atomic"

	"github.com/IvanBrykalov/memtier/internal/singleflight"
	"github.com/IvanBrykalov/memtier/internal/sketch"
	"github.com/IvanBrykalov/memtier/internal/util"
	"github.com/IvanBrykalov/memtier/policy/lru"
)

// cache is the sharded facade: it hashes keys to shards, shares one
// frequency sketch across them, and coalesces concurrent miss-loads.
// All methods are safe for concurrent use by multiple goroutines.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	est    *sketch.Sketch
	hash   func(K) uint64
	closed atomic.Bool
	total  atomic.Int64

	opt Options[K, V]

	// fl coalesces concurrent loads per key; each waiter receives its own
	// Handle to the shared result.
	fl singleflight.Group[K, *Handle[K, V]]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - nil Policy   -> LRU
//   - Shards <= 0  -> auto, rounded up to the next power of two
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity <= 0 {
		panic("Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = lru.New[K, V]()
	}

	// Shard count must be a power of two for the mask fast path, and never
	// exceeds Capacity so every shard gets at least one slot.
	sh := opt.Shards
	if sh <= 0 {
		sh = util.ReasonableShardCount()
	} else {
		sh = int(util.NextPow2(uint64(sh)))
	}
	for sh > opt.Capacity {
		sh >>= 1
	}

	// One sketch for the whole instance, sized from capacity unless the
	// caller pinned a width; mutated with atomics, never under shard locks.
	width := opt.EstimatorWidth
	if width <= 0 {
		width = opt.Capacity
	}
	est := sketch.New(width, opt.AgingInterval)

	c := &cache[K, V]{
		est:  est,
		hash: util.Hash64[K],
		opt:  opt,
	}
	c.fl.Clone = func(h *Handle[K, V]) *Handle[K, V] { return h.clone() }
	c.fl.Discard = func(h *Handle[K, V]) { h.Release() }

	c.shards = make([]*shard[K, V], sh)
	// Per-shard caps sum to exactly Capacity: the first Capacity%sh shards
	// take one extra slot, so cache-wide size cannot exceed the limit.
	base, extra := opt.Capacity/sh, opt.Capacity%sh
	for i := 0; i < sh; i++ {
		perShard := base
		if i < extra {
			perShard++
		}
		c.shards[i] = newShard[K, V](perShard, opt.Policy, est, opt, &c.total)
	}
	return c
}

// ---- Cache[K,V] implementation ----

// Get returns a Handle for k or nil on miss. The frequency estimate is
// bumped either way; a miss has no other side effect.
func (c *cache[K, V]) Get(k K) *Handle[K, V] {
	if c.closed.Load() {
		return nil
	}
	h := c.hash(k)
	c.est.Increment(h)
	return c.shardFor(h).Get(k)
}

// Insert puts k→v through the engine's admission path; may evict
// immediately under pressure. Returns nil when admission refuses.
func (c *cache[K, V]) Insert(k K, v V) *Handle[K, V] {
	if c.closed.Load() {
		return nil
	}
	h := c.hash(k)
	c.est.Increment(h)
	return c.shardFor(h).Insert(k, v, h)
}

// Remove deletes k if present; the returned Handle still guards the value.
func (c *cache[K, V]) Remove(k K) *Handle[K, V] {
	if c.closed.Load() {
		return nil
	}
	return c.shardFor(c.hash(k)).Remove(k)
}

// GetOrLoad returns a Handle for k, loading via Options.Loader on miss.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (*Handle[K, V], error) {
	return c.GetOrLoadWith(ctx, k, c.opt.Loader)
}

// GetOrLoadWith is GetOrLoad with a per-call loader. On a miss the loader
// runs outside every shard lock; concurrent callers for the same key share
// one invocation and each receives an independent Handle. A failed load
// admits nothing, clears the in-flight record, and surfaces the loader's
// error verbatim to every coalesced caller.
func (c *cache[K, V]) GetOrLoadWith(ctx context.Context, k K, loader Loader[K, V]) (*Handle[K, V], error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	// fast path
	if h := c.Get(k); h != nil {
		return h, nil
	}
	if loader == nil {
		return nil, ErrNoLoader
	}

	return c.fl.Do(ctx, k, func() (*Handle[K, V], error) {
		// Double-check after winning the flight; a racing insert may have
		// filled the slot. The fast path already accounted this access, so
		// neither the re-check nor the insert below touches the sketch or
		// the miss counter again.
		hash := c.hash(k)
		if h := c.shardFor(hash).peek(k); h != nil {
			return h, nil
		}
		v, err := loader(ctx, k)
		if err != nil {
			return nil, err
		}
		if h := c.shardFor(hash).Insert(k, v, hash); h != nil {
			return h, nil
		}
		// Admission refused the freshly loaded value. The caller still
		// gets it, via a handle that was never resident.
		return c.detached(k, v), nil
	})
}

// Len returns the total number of resident entries across all shards.
func (c *cache[K, V]) Len() int { return int(c.total.Load()) }

// Capacity returns the configured entry limit.
func (c *cache[K, V]) Capacity() int { return c.opt.Capacity }

// IsFull reports whether the cache is at capacity.
func (c *cache[K, V]) IsFull() bool { return c.Len() >= c.opt.Capacity }

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// ---- helpers ----

// shardFor picks a shard by masking the hash; len(c.shards) is guaranteed
// to be a power of two.
func (c *cache[K, V]) shardFor(h uint64) *shard[K, V] {
	return c.shards[int(h)&(len(c.shards)-1)]
}

// detached wraps a value that never entered the cache in a Handle with the
// usual release semantics.
func (c *cache[K, V]) detached(k K, v V) *Handle[K, V] {
	e := newEntry(k, v, c.hash(k), c.opt.OnRelease)
	// The entry's single reference belongs to the Handle itself; there is
	// no resident reference to detach from.
	return &Handle[K, V]{e: e}
}

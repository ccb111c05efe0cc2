package cache

import (
	"context"

	"github.com/IvanBrykalov/memtier/policy"
)

// EvictReason explains why an entry left the cache without an explicit
// Remove.
type EvictReason int

const (
	// EvictPolicy means the eviction engine chose the entry as a victim
	// under capacity pressure.
	EvictPolicy EvictReason = iota
	// EvictDisplaced means an Insert for the same key overwrote the entry.
	EvictDisplaced
)

// Loader fetches a value on cache miss. It runs outside all shard locks and
// may block for arbitrarily long; concurrent calls for the same key are
// coalesced so at most one Loader invocation is in flight per key.
type Loader[K comparable, V any] func(ctx context.Context, k K) (V, error)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Options configures the cache. Zero values are safe; sane defaults are
// applied in New():
//   - nil Policy   => LRU
//   - Shards <= 0  => auto (≈ 2*GOMAXPROCS, rounded up to a power of two)
//   - nil Metrics  => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the maximum number of resident entries across all
	// shards. Must be > 0.
	Capacity int

	// Shards defines the number of independently locked partitions. If 0,
	// an automatic value is chosen and rounded to the next power of two.
	// Never exceeds Capacity: each shard holds at least one entry.
	Shards int

	// Policy selects the eviction engine variant (lru, fifo, slru, sieve,
	// lfu, ...); nil => LRU. Fixed at construction.
	Policy policy.Policy[K, V]

	// EstimatorWidth is the frequency sketch size in counters; 0 sizes it
	// from Capacity. The sketch is shared by all shards.
	EstimatorWidth int

	// AgingInterval is the number of sketch increments between halving
	// passes; 0 picks 10x the sketch width.
	AgingInterval int64

	// Loader is the default loader used by GetOrLoad. May be nil if only
	// GetOrLoadWith is used.
	Loader Loader[K, V]

	// OnEvict is invoked under the shard lock with every entry the cache
	// expels (policy eviction or displacement); a disk tier flushes from
	// this hook. Keep callbacks lightweight. Explicit Remove does
	// not fire it; the caller already holds the entry.
	OnEvict func(k K, v V, reason EvictReason)

	// OnRelease is invoked once per entry when its last reference is
	// dropped, strictly after the entry has left the index. Use it to
	// recycle backing storage (pooled buffers and the like).
	OnRelease func(k K, v V)

	// Metrics receives Hit/Miss/Evict/Size signals; nil => NoopMetrics.
	Metrics Metrics
}

// Package cache provides the in-memory core of a hybrid (memory+disk)
// cache: a fast, generic, sharded key/value store with pluggable eviction
// engines, an approximate frequency estimator, request-coalesced loading,
// and reference-counted handles whose lifetime is decoupled from residency.
//
// Design
//
//   - Concurrency: the cache is split into shards, each protected by one
//     exclusive mutex (policies mutate ordering state even on reads, so an
//     RW split buys nothing). The default shard count is a power-of-two
//     heuristic from GOMAXPROCS. Operations on one key are linearized by
//     its shard lock; no ordering is guaranteed across keys or shards.
//
//   - Storage: each shard keeps a map[K]*entry for lookups while the
//     eviction engine threads the same entries through intrusive linked
//     lists, so ordering costs no per-operation allocation. Map and engine
//     membership move in lock-step.
//
//   - Engines: eviction is pluggable via the policy package. LRU is the
//     default; FIFO (optionally sketch-admission gated), segmented LRU,
//     SIEVE and sketch-driven LFU ship alongside. The variant is fixed at
//     construction.
//
//   - Frequency: one count-min sketch per cache instance, shared by all
//     shards and bumped atomically on every keyed operation. Counters
//     saturate and are periodically halved so estimates track recent
//     frequency. The sketch is advisory: it steers admission and LFU
//     eviction, never correctness.
//
//   - Handles: Get/Insert/Remove/GetOrLoad return *Handle values holding
//     one reference each. Eviction removes an entry from the shard but the
//     value survives until the last Handle is released, at which point the
//     optional OnRelease hook runs.
//
//   - Loading: GetOrLoad coalesces concurrent misses per key into one loader
//     invocation, executed outside all shard locks, whose result (value or
//     error) every coalesced caller observes. A failed load admits nothing
//     and leaves the slot clean for retries.
//
//   - Eviction hook: Options.OnEvict fires for every expelled entry with a
//     reason; the hybrid cache's disk-flush path consumes it.
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	defer c.Close()
//
//	if h := c.Insert("a", []byte("1")); h != nil {
//	    h.Release()
//	}
//	if h := c.Get("a"); h != nil {
//	    use(h.Value())
//	    h.Release()
//	}
//
// With GetOrLoad (request coalescing)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        return readFromDiskTier(ctx, k)
//	    },
//	})
//	h, err := c.GetOrLoad(ctx, "key")
//	if err == nil {
//	    use(h.Value())
//	    h.Release()
//	}
//
// Using an alternative engine (SIEVE)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Policy:   sieve.New[string, string](),
//	})
//
// Exporting metrics
//
//	m := prom.New(nil, "memtier", "demo", nil) // implements cache.Metrics
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// All methods on Cache are safe for concurrent use; typical operation cost
// is O(1) expected time. Handles are not goroutine-safe; clone values,
// not handles.
package cache

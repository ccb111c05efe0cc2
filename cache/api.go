package cache

import "context"

// Cache is a sharded, in-memory key/value cache with refcounted handles.
// All methods are safe for concurrent use by multiple goroutines.
//
// Typical complexity for operations is amortized O(1): a map lookup plus a
// constant amount of intrusive-list adjustment under one shard lock.
type Cache[K comparable, V any] interface {
	// Get returns a Handle for k, or nil on miss. On hit the entry is
	// promoted according to the active policy; hit or miss, the key's
	// frequency estimate is bumped. The caller must Release the Handle.
	Get(k K) *Handle[K, V]

	// GetOrLoad returns a Handle for k, loading via Options.Loader on
	// miss. Concurrent loads for the same key are coalesced: the loader
	// runs at most once and every caller receives its own Handle to the
	// shared result (or the loader's error, verbatim). Returns ErrNoLoader
	// if no Loader was configured.
	GetOrLoad(ctx context.Context, k K) (*Handle[K, V], error)

	// GetOrLoadWith is GetOrLoad with a per-call loader, for callers that
	// pick the backing source per key (e.g. a disk tier read path).
	GetOrLoadWith(ctx context.Context, k K, loader Loader[K, V]) (*Handle[K, V], error)

	// Insert puts k→v, displacing any existing entry for k and evicting
	// under capacity pressure. Returns a Handle to the inserted entry, or
	// nil when the policy's admission filter refused the candidate.
	Insert(k K, v V) *Handle[K, V]

	// Remove deletes k if present and returns a Handle to the removed
	// entry (still valid until released), or nil if k was absent.
	Remove(k K) *Handle[K, V]

	// Len returns the number of resident entries across all shards.
	Len() int

	// Capacity returns the configured maximum number of resident entries.
	Capacity() int

	// IsFull reports whether Len has reached Capacity.
	IsFull() bool

	// Close marks the cache as closed. Future operations are no-ops
	// (reads miss, writes are dropped, loads fail with ErrClosed).
	Close() error
}

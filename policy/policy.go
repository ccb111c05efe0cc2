// Package policy defines the contracts between a cache shard and its
// eviction engine, plus the intrusive list the engines order entries with.
package policy

// Node is the contract a cache entry satisfies for an eviction engine.
// Besides key/value access it exposes the intrusive link fields and two
// small pieces of engine-owned metadata: a tag byte (segment/class) and a
// mark bit (SIEVE's visited flag). Link and metadata mutation is only legal
// under the owning shard's lock.
type Node[K comparable, V any] interface {
	Key() K
	Value() *V
	// KeyHash returns the precomputed 64-bit hash of the key, used by
	// frequency-aware engines to consult the estimator without rehashing.
	KeyHash() uint64

	Prev() Node[K, V]
	SetPrev(Node[K, V])
	Next() Node[K, V]
	SetNext(Node[K, V])

	Tag() uint8
	SetTag(uint8)
	Mark() bool
	SetMark(bool)
}

// Estimator is the advisory frequency source consumed by frequency-aware
// engines (sketch-admission FIFO, sketch LFU). Implementations are safe for
// concurrent use; estimates are approximate.
type Estimator interface {
	Increment(keyHash uint64)
	Estimate(keyHash uint64) uint32
}

// Engine is a per-shard eviction state machine. All methods are invoked
// under the shard lock; engines perform no internal locking.
//
// The shard drives capacity enforcement: before inserting a new entry it
// calls Evict until Len() < Capacity() (after Admit has approved the
// candidate). An entry handed to OnInsert is tracked until OnRemove or
// until Evict returns it; membership here and in the shard's index move in
// lock-step.
type Engine[K comparable, V any] interface {
	// Admit reports whether a new entry with the given key hash should be
	// admitted while the engine is full. Engines without an admission
	// filter always return true.
	Admit(keyHash uint64) bool
	// OnInsert starts tracking a newly admitted entry.
	OnInsert(Node[K, V])
	// OnAccess records a hit; what that means (promotion, mark bit) is up
	// to the engine.
	OnAccess(Node[K, V])
	// OnRemove stops tracking an entry removed for reasons other than
	// Evict (explicit removal, displacement).
	OnRemove(Node[K, V])
	// Evict chooses, detaches and returns the victim, or nil when empty.
	Evict() Node[K, V]

	Len() int
	Capacity() int
}

// Policy is a factory producing one Engine per shard. capacity is the
// maximum entry count for that shard; est is the cache-wide frequency
// estimator and may
// be ignored by engines that do not consult it.
type Policy[K comparable, V any] interface {
	New(capacity int, est Estimator) Engine[K, V]
}

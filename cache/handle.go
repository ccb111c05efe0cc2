package cache

import "sync/atomic"

// Handle is a reference-counted accessor to a cached value. Holding one
// keeps the value valid even if the entry is concurrently evicted or
// removed: eviction only drops the cache's own reference, and the backing
// value is surrendered (OnRelease) when the last Handle is released.
//
// A Handle is NOT safe for concurrent use by multiple goroutines; share the
// value, not the Handle. Release is idempotent.
type Handle[K comparable, V any] struct {
	e        *entry[K, V]
	released atomic.Bool
}

// Key returns the cached key.
func (h *Handle[K, V]) Key() K { return h.e.key }

// Value returns the cached value. Must not be called after Release.
func (h *Handle[K, V]) Value() V { return h.e.val }

// Release drops this Handle's reference. Calling it again is a no-op.
func (h *Handle[K, V]) Release() {
	if h.released.CompareAndSwap(false, true) {
		h.e.release()
	}
}

// clone mints an independent Handle backed by the same entry. The receiver
// must not have been released (its reference keeps the entry alive through
// the acquire).
func (h *Handle[K, V]) clone() *Handle[K, V] { return h.e.acquire() }

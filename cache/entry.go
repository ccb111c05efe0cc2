package cache

import (
	"sync/atomic"

	"github.com/IvanBrykalov/memtier/policy"
)

// entry is an intrusive node owned by a shard. It carries the key/value,
// the precomputed key hash, the list links and the small metadata fields
// the eviction engines tag it with, plus the reference count that decouples
// value lifetime from cache residency.
type entry[K comparable, V any] struct {
	key  K
	val  V
	hash uint64

	// Intrusive links, managed by the engine's lists under the shard lock.
	prev policy.Node[K, V]
	next policy.Node[K, V]

	// Engine-owned metadata: segment/class tag and visited bit.
	tag  uint8
	mark bool

	// refs counts the resident reference (one while the entry is indexed)
	// plus one per outstanding Handle. The free hook runs when it reaches
	// zero, which cannot happen before the entry has left the index.
	refs atomic.Int32
	free func(K, V)
}

// newEntry returns an entry holding its single resident reference.
func newEntry[K comparable, V any](k K, v V, hash uint64, free func(K, V)) *entry[K, V] {
	e := &entry[K, V]{key: k, val: v, hash: hash, free: free}
	e.refs.Store(1)
	return e
}

// acquire mints a Handle, taking one reference. Callers must guarantee the
// entry is still referenced (shard lock held with the entry indexed, or an
// existing Handle); acquiring a dead entry is a bug and panics.
func (e *entry[K, V]) acquire() *Handle[K, V] {
	for {
		r := e.refs.Load()
		if r <= 0 {
			panic("cache: acquire on released entry")
		}
		if e.refs.CompareAndSwap(r, r+1) {
			return &Handle[K, V]{e: e}
		}
	}
}

// release drops one reference and fires the free hook on the last one.
func (e *entry[K, V]) release() {
	if e.refs.Add(-1) == 0 && e.free != nil {
		e.free(e.key, e.val)
	}
}

// ---- policy.Node implementation ----

func (e *entry[K, V]) Key() K          { return e.key }
func (e *entry[K, V]) Value() *V       { return &e.val }
func (e *entry[K, V]) KeyHash() uint64 { return e.hash }

func (e *entry[K, V]) Prev() policy.Node[K, V]     { return e.prev }
func (e *entry[K, V]) SetPrev(n policy.Node[K, V]) { e.prev = n }
func (e *entry[K, V]) Next() policy.Node[K, V]     { return e.next }
func (e *entry[K, V]) SetNext(n policy.Node[K, V]) { e.next = n }

func (e *entry[K, V]) Tag() uint8     { return e.tag }
func (e *entry[K, V]) SetTag(t uint8) { e.tag = t }
func (e *entry[K, V]) Mark() bool     { return e.mark }
func (e *entry[K, V]) SetMark(m bool) { e.mark = m }

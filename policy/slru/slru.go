// Package slru implements Segmented LRU eviction.
//
// Entries start in a probationary segment; a second access promotes them to
// the protected segment. Eviction drains probation first, so a burst of new
// keys (a scan) can only displace other newcomers, never the hot set. When
// the protected segment overflows, its LRU entry is demoted back to the
// front of probation rather than evicted outright.
package slru

import "github.com/IvanBrykalov/memtier/policy"

// Segment tags stored in the node's tag byte.
const (
	probation uint8 = iota
	protected
)

// DefaultProtectedPercent is the protected segment's share of capacity.
const DefaultProtectedPercent = 80

type slruPolicy[K comparable, V any] struct {
	protectedPercent int
}

// New returns a Policy with the default 80% protected share.
func New[K comparable, V any]() policy.Policy[K, V] {
	return NewWithRatio[K, V](DefaultProtectedPercent)
}

// NewWithRatio returns a Policy whose engines reserve protectedPercent of
// the per-shard capacity for the protected segment (clamped to [0..100];
// the segment always keeps at least one slot).
func NewWithRatio[K comparable, V any](protectedPercent int) policy.Policy[K, V] {
	if protectedPercent < 0 {
		protectedPercent = 0
	}
	if protectedPercent > 100 {
		protectedPercent = 100
	}
	return slruPolicy[K, V]{protectedPercent: protectedPercent}
}

func (p slruPolicy[K, V]) New(capacity int, _ policy.Estimator) policy.Engine[K, V] {
	pc := capacity * p.protectedPercent / 100
	if pc < 1 {
		pc = 1
	}
	return &slru[K, V]{cap: capacity, protectedCap: pc}
}

type slru[K comparable, V any] struct {
	probation policy.List[K, V]
	protected policy.List[K, V]

	cap          int
	protectedCap int
}

func (p *slru[K, V]) Admit(uint64) bool { return true }

// OnInsert places the newcomer at the front of probation.
func (p *slru[K, V]) OnInsert(n policy.Node[K, V]) {
	n.SetTag(probation)
	p.probation.PushFront(n)
}

// OnAccess promotes a probationary entry into protected; an already
// protected entry is refreshed in place. Protected overflow demotes that
// segment's LRU back to the front of probation, keeping total length fixed.
func (p *slru[K, V]) OnAccess(n policy.Node[K, V]) {
	if n.Tag() == protected {
		p.protected.MoveToFront(n)
		return
	}
	p.probation.Remove(n)
	n.SetTag(protected)
	p.protected.PushFront(n)
	if p.protected.Len() > p.protectedCap {
		if demoted := p.protected.PopBack(); demoted != nil {
			demoted.SetTag(probation)
			p.probation.PushFront(demoted)
		}
	}
}

// OnRemove detaches the entry from whichever segment holds it.
func (p *slru[K, V]) OnRemove(n policy.Node[K, V]) {
	if n.Tag() == protected {
		p.protected.Remove(n)
		return
	}
	p.probation.Remove(n)
}

// Evict takes probation's tail first; protected is touched only when
// probation is empty.
func (p *slru[K, V]) Evict() policy.Node[K, V] {
	if n := p.probation.PopBack(); n != nil {
		return n
	}
	return p.protected.PopBack()
}

func (p *slru[K, V]) Len() int      { return p.probation.Len() + p.protected.Len() }
func (p *slru[K, V]) Capacity() int { return p.cap }

// Package sketch implements an approximate, decaying frequency counter
// (a count-min sketch with 4-bit saturating counters).
//
// One Sketch instance is shared by all shards of a cache. All mutation is
// atomic: increments may be observed out of order relative to shard state,
// which is acceptable because the sketch is purely advisory: eviction
// quality depends on it, correctness does not.
package sketch

import (
	"sync/atomic"

	"github.com/IvanBrykalov/memtier/internal/util"
)

const (
	// Counters are 4 bits wide, packed 16 per uint64 word.
	counterMax      = 15
	countersPerWord = 16

	// Row seeds: odd multiplicative-hash constants with good avalanche.
	seed1 = 0x9e3779b97f4a7c15
	seed2 = 0xbf58476d1ce4e5b9
	seed3 = 0x94d049bb133111eb
	seed4 = 0xc2b2ae3d27d4eb4f
)

// Sketch estimates per-key access frequency without storing per-key state.
// Space is O(width), independent of how many distinct keys are ever seen;
// the tradeoff is a bounded over-count rate from hash collisions.
type Sketch struct {
	table []uint64
	mask  uint64

	// ops counts increments since the last aging pass; every counter is
	// halved once ops reaches agingInterval, so estimates track recent
	// frequency rather than lifetime frequency.
	ops           atomic.Int64
	agingInterval int64
}

// New sizes the sketch for the given entry capacity. The table holds at
// least capacity counters (rounded up to a power-of-two word count, with a
// floor of 64 words) so collision noise stays low for admission decisions.
// agingInterval is the number of increments between halving passes;
// non-positive selects 10x capacity.
func New(capacity int, agingInterval int64) *Sketch {
	if capacity < 1 {
		capacity = 1
	}
	words := util.NextPow2(uint64((capacity + countersPerWord - 1) / countersPerWord))
	if words < 64 {
		words = 64
	}
	if agingInterval <= 0 {
		agingInterval = int64(capacity) * 10
	}
	return &Sketch{
		table:         make([]uint64, words),
		mask:          words - 1,
		agingInterval: agingInterval,
	}
}

// Increment bumps the four counters selected by h, saturating at 15.
// Lock-free and allocation-free; safe for concurrent use.
func (s *Sketch) Increment(h uint64) {
	if s.ops.Add(1)%s.agingInterval == 0 {
		s.Age()
	}
	s.bump((h*seed1)>>32&s.mask, (h&0xF)<<2)
	s.bump((h*seed2)>>32&s.mask, (h>>4&0xF)<<2)
	s.bump((h*seed3)>>32&s.mask, (h>>8&0xF)<<2)
	s.bump((h*seed4)>>32&s.mask, (h>>12&0xF)<<2)
}

// Estimate returns the approximate recent access count for h: the minimum
// of the four row counters. Collisions only inflate counters, so the
// minimum is the tightest bound.
func (s *Sketch) Estimate(h uint64) uint32 {
	c1 := s.load((h*seed1)>>32&s.mask, (h&0xF)<<2)
	c2 := s.load((h*seed2)>>32&s.mask, (h>>4&0xF)<<2)
	c3 := s.load((h*seed3)>>32&s.mask, (h>>8&0xF)<<2)
	c4 := s.load((h*seed4)>>32&s.mask, (h>>12&0xF)<<2)
	return min(min(c1, c2), min(c3, c4))
}

// Age halves every counter. Called automatically every agingInterval
// increments; exported so callers with their own cadence can force it.
func (s *Sketch) Age() {
	for i := range s.table {
		for {
			old := atomic.LoadUint64(&s.table[i])
			// Halving each 4-bit lane: shift right and clear the bit
			// that leaked in from the lane above.
			halved := (old >> 1) & 0x7777777777777777
			if atomic.CompareAndSwapUint64(&s.table[i], old, halved) {
				break
			}
		}
	}
}

// bump increments the 4-bit lane at shift within word idx, saturating.
func (s *Sketch) bump(idx, shift uint64) {
	for {
		old := atomic.LoadUint64(&s.table[idx])
		lane := (old >> shift) & 0xF
		if lane >= counterMax {
			return
		}
		next := (old &^ (uint64(0xF) << shift)) | ((lane + 1) << shift)
		if atomic.CompareAndSwapUint64(&s.table[idx], old, next) {
			return
		}
	}
}

func (s *Sketch) load(idx, shift uint64) uint32 {
	return uint32((atomic.LoadUint64(&s.table[idx]) >> shift) & 0xF)
}

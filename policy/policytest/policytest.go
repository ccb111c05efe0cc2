// Package policytest provides test doubles for exercising eviction engines
// without a real cache shard.
package policytest

import "github.com/IvanBrykalov/memtier/policy"

// Node is a standalone policy.Node[string, int] implementation.
type Node struct {
	K    string
	V    int
	Hash uint64

	prev policy.Node[string, int]
	next policy.Node[string, int]
	tag  uint8
	mark bool
}

func (n *Node) Key() string     { return n.K }
func (n *Node) Value() *int     { return &n.V }
func (n *Node) KeyHash() uint64 { return n.Hash }

func (n *Node) Prev() policy.Node[string, int]     { return n.prev }
func (n *Node) SetPrev(p policy.Node[string, int]) { n.prev = p }
func (n *Node) Next() policy.Node[string, int]     { return n.next }
func (n *Node) SetNext(x policy.Node[string, int]) { n.next = x }

func (n *Node) Tag() uint8     { return n.tag }
func (n *Node) SetTag(t uint8) { n.tag = t }
func (n *Node) Mark() bool     { return n.mark }
func (n *Node) SetMark(m bool) { n.mark = m }

// Key extracts the double's key from a policy.Node, nil-safe.
func Key(n policy.Node[string, int]) string {
	if n == nil {
		return ""
	}
	return n.(*Node).K
}

// Estimator is a fake frequency source backed by a plain map from key hash
// to count.
type Estimator struct {
	Counts map[uint64]uint32
}

func (e *Estimator) Increment(h uint64) {
	if e.Counts == nil {
		e.Counts = make(map[uint64]uint32)
	}
	e.Counts[h]++
}

func (e *Estimator) Estimate(h uint64) uint32 { return e.Counts[h] }

var _ policy.Estimator = (*Estimator)(nil)

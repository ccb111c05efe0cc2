package sieve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/memtier/policy/policytest"
)

// Untouched entries evict in FIFO order.
func TestSIEVE_PlainFIFOWhenUnvisited(t *testing.T) {
	t.Parallel()

	e := New[string, int]().New(3, nil)
	e.OnInsert(&policytest.Node{K: "a"})
	e.OnInsert(&policytest.Node{K: "b"})
	e.OnInsert(&policytest.Node{K: "c"})

	require.Equal(t, "a", policytest.Key(e.Evict()))
	require.Equal(t, "b", policytest.Key(e.Evict()))
	require.Equal(t, "c", policytest.Key(e.Evict()))
	require.Nil(t, e.Evict())
}

// An accessed entry survives the scan pass it would have lost under plain
// FIFO: the hand clears its bit and takes the next unvisited entry instead.
func TestSIEVE_VisitedBitGrantsSecondChance(t *testing.T) {
	t.Parallel()

	e := New[string, int]().New(3, nil)
	a := &policytest.Node{K: "a"}
	e.OnInsert(a)
	e.OnInsert(&policytest.Node{K: "b"})
	e.OnInsert(&policytest.Node{K: "c"})

	e.OnAccess(a) // sets the bit, moves nothing
	require.True(t, a.Mark())

	// a is the FIFO victim, but it is marked: the scan clears the bit and
	// evicts b instead.
	require.Equal(t, "b", policytest.Key(e.Evict()))
	require.False(t, a.Mark(), "the scan must consume a's second chance")

	// The hand keeps moving toward the head: c goes next, and only after
	// wrapping does the scan reach a again.
	require.Equal(t, "c", policytest.Key(e.Evict()))
	require.Equal(t, "a", policytest.Key(e.Evict()))
}

// When every entry is marked the scan wraps and still terminates, evicting
// the entry whose bit was cleared first.
func TestSIEVE_AllVisitedWraps(t *testing.T) {
	t.Parallel()

	e := New[string, int]().New(2, nil)
	a := &policytest.Node{K: "a"}
	b := &policytest.Node{K: "b"}
	e.OnInsert(a)
	e.OnInsert(b)
	e.OnAccess(a)
	e.OnAccess(b)

	require.Equal(t, "a", policytest.Key(e.Evict()))
	require.Equal(t, 1, e.Len())
	require.False(t, b.Mark())
}

// Removing the entry the hand rests on must step the hand aside, and the
// next scan continues from there.
func TestSIEVE_RemoveUnderHand(t *testing.T) {
	t.Parallel()

	e := New[string, int]().New(3, nil)
	a := &policytest.Node{K: "a"}
	b := &policytest.Node{K: "b"}
	c := &policytest.Node{K: "c"}
	e.OnInsert(a)
	e.OnInsert(b)
	e.OnInsert(c)

	e.OnAccess(a)
	require.Equal(t, "b", policytest.Key(e.Evict())) // hand now rests on c

	e.OnRemove(c)
	require.Equal(t, "a", policytest.Key(e.Evict()))
	require.Equal(t, 0, e.Len())
}

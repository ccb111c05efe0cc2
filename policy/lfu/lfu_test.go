package lfu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/memtier/policy/policytest"
)

// The sampled window must give up the entry with the lowest estimate, not
// whatever sits at the tail.
func TestLFU_EvictsLowestEstimateInSample(t *testing.T) {
	t.Parallel()

	est := &policytest.Estimator{}
	e := NewWithSample[string, int](3).New(3, est)

	hot := &policytest.Node{K: "hot", Hash: 1}
	warm := &policytest.Node{K: "warm", Hash: 2}
	cold := &policytest.Node{K: "cold", Hash: 3}
	e.OnInsert(cold)
	e.OnInsert(warm)
	e.OnInsert(hot) // list: hot(front) warm cold(back)

	for i := 0; i < 9; i++ {
		est.Increment(1)
	}
	for i := 0; i < 4; i++ {
		est.Increment(2)
	}
	est.Increment(3)

	require.Equal(t, "cold", policytest.Key(e.Evict()))
	require.Equal(t, "warm", policytest.Key(e.Evict()))
	require.Equal(t, "hot", policytest.Key(e.Evict()))
	require.Nil(t, e.Evict())
}

// A hot entry at the sampling cursor survives in favor of a colder one
// further along the window.
func TestLFU_HotTailSurvives(t *testing.T) {
	t.Parallel()

	est := &policytest.Estimator{}
	e := NewWithSample[string, int](2).New(3, est)

	hot := &policytest.Node{K: "hot", Hash: 1}
	cold := &policytest.Node{K: "cold", Hash: 2}
	e.OnInsert(cold)
	e.OnInsert(hot) // list: hot(front) cold(back)

	for i := 0; i < 5; i++ {
		est.Increment(1)
	}

	// Window = {cold, hot}; cold's estimate is zero.
	require.Equal(t, "cold", policytest.Key(e.Evict()))
	require.Equal(t, 1, e.Len())
}

// Sampling wider than the shard handles the wrap without double-counting.
func TestLFU_SampleWiderThanList(t *testing.T) {
	t.Parallel()

	est := &policytest.Estimator{}
	e := NewWithSample[string, int](8).New(2, est)

	a := &policytest.Node{K: "a", Hash: 1}
	b := &policytest.Node{K: "b", Hash: 2}
	e.OnInsert(a)
	e.OnInsert(b)
	est.Increment(1)
	est.Increment(1)
	est.Increment(2)

	require.Equal(t, "b", policytest.Key(e.Evict()))
	require.Equal(t, "a", policytest.Key(e.Evict()))
	require.Nil(t, e.Evict())
}

// Removing the cursor entry steps the cursor aside.
func TestLFU_RemoveUnderCursor(t *testing.T) {
	t.Parallel()

	est := &policytest.Estimator{}
	e := NewWithSample[string, int](1).New(3, est)

	a := &policytest.Node{K: "a", Hash: 1}
	b := &policytest.Node{K: "b", Hash: 2}
	c := &policytest.Node{K: "c", Hash: 3}
	e.OnInsert(a)
	e.OnInsert(b)
	e.OnInsert(c) // list: c b a(back)

	// Width-1 sampling: pure cursor order, a first. Cursor then rests on b.
	require.Equal(t, "a", policytest.Key(e.Evict()))
	e.OnRemove(b) // cursor steps to c
	require.Equal(t, "c", policytest.Key(e.Evict()))
	require.Equal(t, 0, e.Len())
}

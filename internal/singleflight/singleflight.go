// Package singleflight coalesces concurrent function calls per key so the
// supplied fn executes at most once while concurrent callers share its
// outcome.
//
// Unlike golang.org/x/sync/singleflight, results here are reference-counted
// resources (cache handles): sharing the leader's result verbatim would
// leave waiters without their own reference to release. The group instead
// mints one independent grant per registered waiter when the flight lands.
package singleflight

import (
	"context"
	"sync"
)

// Group coalesces calls keyed by K producing results of type R.
//
// Concurrency notes:
//   - The first caller for a key becomes the leader and runs fn outside
//     the group lock.
//   - Followers register under the group lock and wait on call.done;
//     grants and err are published before close(done), so reads after
//     <-done observe final values.
//   - A follower's ctx cancellation unblocks only that follower. It never
//     cancels the leader's fn; cancel the work through fn's own ctx.
type Group[K comparable, R any] struct {
	// Clone mints an independent reference from the leader's live result.
	// Required before the first Do.
	Clone func(R) R
	// Discard releases a grant whose waiter gave up (ctx cancellation).
	Discard func(R)

	mu sync.Mutex
	m  map[K]*call[R]
}

type call[R any] struct {
	done    chan struct{} // closed when grants/err are published
	waiters int           // registered followers; fixed once the flight lands

	mu     sync.Mutex
	grants []R // one per waiter, claimed exactly once each
	err    error
}

// take claims one grant (or the shared error). Only valid after <-done.
func (c *call[R]) take() (R, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		var zero R
		return zero, c.err
	}
	r := c.grants[len(c.grants)-1]
	c.grants = c.grants[:len(c.grants)-1]
	return r, nil
}

// Do runs fn once for key; concurrent calls with the same key wait and
// receive their own cloned result. If ctx is cancelled in a follower, that
// follower returns ctx.Err() and its unclaimed grant is discarded once the
// flight resolves; the leader keeps running.
func (g *Group[K, R]) Do(ctx context.Context, key K, fn func() (R, error)) (R, error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[R])
	}
	if c, ok := g.m[key]; ok {
		c.waiters++
		g.mu.Unlock()

		select {
		case <-c.done:
			return c.take()
		case <-ctx.Done():
			// Our grant is still minted; hand it back when the flight
			// lands so the refcount stays balanced.
			go func() {
				<-c.done
				if r, err := c.take(); err == nil && g.Discard != nil {
					g.Discard(r)
				}
			}()
			var zero R
			return zero, ctx.Err()
		}
	}

	// We are the leader for this key.
	c := &call[R]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	// Execute fn outside the lock.
	r, err := fn()

	// Remove the in-flight marker first: from here on no new waiter can
	// register, so c.waiters is final.
	g.mu.Lock()
	delete(g.m, key)
	waiters := c.waiters
	g.mu.Unlock()

	if err == nil {
		c.grants = make([]R, 0, waiters)
		for i := 0; i < waiters; i++ {
			c.grants = append(c.grants, g.Clone(r))
		}
	}
	c.err = err
	close(c.done)

	return r, err
}

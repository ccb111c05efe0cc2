package cache

import (
	"context"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// A mixed workload of concurrent Insert/Get/Remove/GetOrLoad on random
// keys. Should pass under `-race` without detector reports.
func TestRace_Mixed(t *testing.T) {
	c := New[string, []byte](Options[string, []byte]{
		Capacity: 8_192,
		Shards:   32,
		Loader: func(_ context.Context, k string) ([]byte, error) {
			return []byte("loaded:" + k), nil
		},
	})
	t.Cleanup(func() { _ = c.Close() })

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 50_000
	deadline := time.Now().Add(2 * time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% Remove
					if h := c.Remove(k); h != nil {
						h.Release()
					}
				case 5, 6, 7, 8, 9: // ~5% GetOrLoad
					if h, err := c.GetOrLoad(context.Background(), k); err == nil {
						h.Release()
					}
				case 10, 11, 12, 13, 14, 15, 16, 17, 18, 19: // ~10% Insert
					if h := c.Insert(k, []byte("x")); h != nil {
						h.Release()
					}
				default: // ~80% Get
					if h := c.Get(k); h != nil {
						h.Release()
					}
				}
			}
		}(w)
	}
	wg.Wait()

	if c.Len() > c.Capacity() {
		t.Fatalf("len %d exceeds capacity %d after mixed workload", c.Len(), c.Capacity())
	}
}

// One hundred goroutines call GetOrLoad on the same key concurrently.
// The Loader should run at most once (request coalescing).
func TestRace_GetOrLoad(t *testing.T) {
	var calls int64

	c := New[string, string](Options[string, string]{
		Capacity: 1024,
		Loader: func(_ context.Context, k string) (string, error) {
			atomic.AddInt64(&calls, 1)
			time.Sleep(2 * time.Millisecond) // simulate I/O
			return "v:" + k, nil
		},
	})
	t.Cleanup(func() { _ = c.Close() })

	const goroutines = 100
	key := "same-key"

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			h, err := c.GetOrLoad(context.Background(), key)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if h.Value() != "v:"+key {
				t.Errorf("unexpected value: %q", h.Value())
			}
			h.Release()
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got > 1 {
		t.Fatalf("loader should run at most once, got %d", got)
	}

	// Subsequent call should be a pure cache hit.
	h, err := c.GetOrLoad(context.Background(), key)
	if err != nil || h.Value() != "v:"+key {
		t.Fatalf("second GetOrLoad failed: err=%v", err)
	}
	h.Release()
}

// Handles released concurrently with eviction churn must fire the release
// hook exactly once per entry.
func TestRace_HandleLifetime(t *testing.T) {
	var releases atomic.Int64
	c := New[int, int](Options[int, int]{
		Capacity:  64,
		Shards:    4,
		OnRelease: func(int, int) { releases.Add(1) },
	})
	t.Cleanup(func() { _ = c.Close() })

	const inserts = 10_000
	var wg sync.WaitGroup
	wg.Add(8)
	var next atomic.Int64
	for w := 0; w < 8; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1))
				if i > inserts {
					return
				}
				h := c.Insert(i, i)
				if h == nil {
					continue
				}
				if g := c.Get(i); g != nil {
					g.Release()
				}
				h.Release()
			}
		}()
	}
	wg.Wait()

	// Drain the survivors so every entry's resident reference drops too.
	for i := 1; i <= inserts; i++ {
		if h := c.Remove(i); h != nil {
			h.Release()
		}
	}
	if got := releases.Load(); got != inserts {
		t.Fatalf("release hook fired %d times, want %d", got, inserts)
	}
}

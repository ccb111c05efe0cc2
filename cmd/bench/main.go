// Command bench runs a synthetic zipf workload against the cache and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/IvanBrykalov/memtier/cache"
	pmet "github.com/IvanBrykalov/memtier/metrics/prom"
	"github.com/IvanBrykalov/memtier/policy"
	"github.com/IvanBrykalov/memtier/policy/fifo"
	"github.com/IvanBrykalov/memtier/policy/lfu"
	"github.com/IvanBrykalov/memtier/policy/lru"
	"github.com/IvanBrykalov/memtier/policy/sieve"
	"github.com/IvanBrykalov/memtier/policy/slru"
)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		shards   = flag.Int("shards", 0, "number of shards (0=auto)")
		policyN  = flag.String("policy", "lru", "eviction policy: lru | fifo | fifo-sketch | slru | sieve | lfu")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf-s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf-v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "memtier", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	opt := cache.Options[string, string]{
		Capacity: *capacity,
		Shards:   *shards,
		Metrics:  metrics,
	}
	opt.Policy = pickPolicy(*policyN)
	c := cache.New[string, string](opt)
	defer func() { _ = c.Close() }()

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		if h := c.Insert(k, "v"+strconv.Itoa(i)); h != nil {
			h.Release()
		}
	}

	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	var ops, hits atomic.Int64
	stop := time.Now().Add(*duration)

	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(*seed + int64(id)*7919))
			zipf := rand.NewZipf(r, *zipfS, *zipfV, uint64(*keys-1))
			for time.Now().Before(stop) {
				k := "k:" + strconv.FormatUint(zipf.Uint64(), 10)
				ops.Add(1)
				if r.Intn(100) < *readPct {
					if h := c.Get(k); h != nil {
						hits.Add(1)
						h.Release()
					}
				} else {
					if h := c.Insert(k, "v"); h != nil {
						h.Release()
					}
				}
			}
		}(w)
	}
	wg.Wait()

	total := ops.Load()
	log.Printf("policy=%s ops=%d ops/s=%.0f hit-rate=%.2f%% resident=%d",
		*policyN, total, float64(total) / (*duration).Seconds(),
		100*float64(hits.Load())/float64(total), c.Len())
}

// pickPolicy maps the flag value to a policy constructor.
func pickPolicy(name string) policy.Policy[string, string] {
	switch name {
	case "lru":
		return lru.New[string, string]()
	case "fifo":
		return fifo.New[string, string]()
	case "fifo-sketch":
		return fifo.WithAdmission[string, string]()
	case "slru":
		return slru.New[string, string]()
	case "sieve":
		return sieve.New[string, string]()
	case "lfu":
		return lfu.New[string, string]()
	default:
		log.Fatalf("unknown policy: %q", name)
		return nil
	}
}

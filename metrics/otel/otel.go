// Package otel adapts cache.Metrics to OpenTelemetry instruments, for
// deployments that export through an OTLP pipeline instead of scraping
// Prometheus.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/IvanBrykalov/memtier/cache"
)

// Adapter implements cache.Metrics on top of an OpenTelemetry Meter.
// Instruments are goroutine-safe; recording uses a background context
// because cache hooks carry none.
type Adapter struct {
	hits   metric.Int64Counter
	misses metric.Int64Counter
	evicts metric.Int64Counter
	size   metric.Int64Gauge

	reasonPolicy    metric.MeasurementOption
	reasonDisplaced metric.MeasurementOption
}

// New creates instruments on meter under the given prefix (e.g.
// "memtier.cache"). Instrument creation errors are returned as-is; a
// partially constructed Adapter is never returned.
func New(meter metric.Meter, prefix string) (*Adapter, error) {
	if prefix == "" {
		prefix = "memtier.cache"
	}
	hits, err := meter.Int64Counter(prefix+".hits",
		metric.WithDescription("Cache hits"))
	if err != nil {
		return nil, err
	}
	misses, err := meter.Int64Counter(prefix+".misses",
		metric.WithDescription("Cache misses"))
	if err != nil {
		return nil, err
	}
	evicts, err := meter.Int64Counter(prefix+".evictions",
		metric.WithDescription("Cache evictions by reason"))
	if err != nil {
		return nil, err
	}
	size, err := meter.Int64Gauge(prefix+".size_entries",
		metric.WithDescription("Number of resident entries"))
	if err != nil {
		return nil, err
	}
	return &Adapter{
		hits:            hits,
		misses:          misses,
		evicts:          evicts,
		size:            size,
		reasonPolicy:    metric.WithAttributes(attribute.String("reason", "policy")),
		reasonDisplaced: metric.WithAttributes(attribute.String("reason", "displaced")),
	}, nil
}

// Hit records one cache hit.
func (a *Adapter) Hit() { a.hits.Add(context.Background(), 1) }

// Miss records one cache miss.
func (a *Adapter) Miss() { a.misses.Add(context.Background(), 1) }

// Evict records one eviction with its reason attribute.
func (a *Adapter) Evict(r cache.EvictReason) {
	opt := a.reasonPolicy
	if r == cache.EvictDisplaced {
		opt = a.reasonDisplaced
	}
	a.evicts.Add(context.Background(), 1, opt)
}

// Size records the resident-entries gauge.
func (a *Adapter) Size(entries int) {
	a.size.Record(context.Background(), int64(entries))
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)

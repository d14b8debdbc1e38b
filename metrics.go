package numidx

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement this to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordPut is called after each Put, duration is the total time
	// taken and err is nil if successful.
	RecordPut(duration time.Duration, err error)

	// RecordRemove is called after each Remove.
	RecordRemove(duration time.Duration, err error)

	// RecordRange is called after each Range scan. matched is the
	// cardinality of the result bitmap when err is nil.
	RecordRange(matched int, duration time.Duration, err error)

	// RecordCheckRange is called after each CheckRange.
	RecordCheckRange(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPut(time.Duration, error)         {}
func (NoopMetricsCollector) RecordRemove(time.Duration, error)      {}
func (NoopMetricsCollector) RecordRange(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordCheckRange(time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection,
// useful for debugging and basic monitoring without external
// dependencies.
type BasicMetricsCollector struct {
	PutCount         atomic.Int64
	PutErrors        atomic.Int64
	PutTotalNanos    atomic.Int64
	RemoveCount      atomic.Int64
	RemoveErrors     atomic.Int64
	RangeCount       atomic.Int64
	RangeErrors      atomic.Int64
	RangeTotalNanos  atomic.Int64
	RangeTotalMatched atomic.Int64
	CheckRangeCount  atomic.Int64
	CheckRangeErrors atomic.Int64
}

func (b *BasicMetricsCollector) RecordPut(duration time.Duration, err error) {
	b.PutCount.Add(1)
	b.PutTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PutErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordRemove(duration time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordRange(matched int, duration time.Duration, err error) {
	b.RangeCount.Add(1)
	b.RangeTotalNanos.Add(duration.Nanoseconds())
	b.RangeTotalMatched.Add(int64(matched))
	if err != nil {
		b.RangeErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordCheckRange(duration time.Duration, err error) {
	b.CheckRangeCount.Add(1)
	if err != nil {
		b.CheckRangeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PutCount:      b.PutCount.Load(),
		PutErrors:     b.PutErrors.Load(),
		PutAvgNanos:   b.getAvgNanos(b.PutTotalNanos.Load(), b.PutCount.Load()),
		RemoveCount:   b.RemoveCount.Load(),
		RemoveErrors:  b.RemoveErrors.Load(),
		RangeCount:    b.RangeCount.Load(),
		RangeErrors:   b.RangeErrors.Load(),
		RangeAvgNanos: b.getAvgNanos(b.RangeTotalNanos.Load(), b.RangeCount.Load()),
		RangeAvgMatched: b.getAvgMatched(),
		CheckRangeCount:  b.CheckRangeCount.Load(),
		CheckRangeErrors: b.CheckRangeErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

func (b *BasicMetricsCollector) getAvgMatched() int64 {
	count := b.RangeCount.Load()
	if count == 0 {
		return 0
	}
	return b.RangeTotalMatched.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PutCount         int64
	PutErrors        int64
	PutAvgNanos      int64
	RemoveCount      int64
	RemoveErrors     int64
	RangeCount       int64
	RangeErrors      int64
	RangeAvgNanos    int64
	RangeAvgMatched  int64
	CheckRangeCount  int64
	CheckRangeErrors int64
}

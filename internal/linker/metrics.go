// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import "sync/atomic"

// Metrics receives counter updates from linking runs. The linker is
// handed an implementation at construction; it never touches global
// state. Implementations must tolerate concurrent increments when the
// host runs batches in parallel.
type Metrics interface {
	AddItemsIn(n int)
	AddStoriesOut(n int)
	AddMerges(n int)
	AddFallbackMerges(n int)
}

// NopMetrics discards all updates. It is the default when no metrics
// sink is injected, keeping tests hermetic.
type NopMetrics struct{}

func (NopMetrics) AddItemsIn(int)        {}
func (NopMetrics) AddStoriesOut(int)     {}
func (NopMetrics) AddMerges(int)         {}
func (NopMetrics) AddFallbackMerges(int) {}

// AtomicMetrics aggregates counters across runs, safe for concurrent
// batches sharing one instance.
type AtomicMetrics struct {
	itemsIn        atomic.Int64
	storiesOut     atomic.Int64
	merges         atomic.Int64
	fallbackMerges atomic.Int64
}

func (m *AtomicMetrics) AddItemsIn(n int)        { m.itemsIn.Add(int64(n)) }
func (m *AtomicMetrics) AddStoriesOut(n int)     { m.storiesOut.Add(int64(n)) }
func (m *AtomicMetrics) AddMerges(n int)         { m.merges.Add(int64(n)) }
func (m *AtomicMetrics) AddFallbackMerges(n int) { m.fallbackMerges.Add(int64(n)) }

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	ItemsIn        int64
	StoriesOut     int64
	Merges         int64
	FallbackMerges int64
}

// Snapshot returns the current counter values.
func (m *AtomicMetrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ItemsIn:        m.itemsIn.Load(),
		StoriesOut:     m.storiesOut.Load(),
		Merges:         m.merges.Load(),
		FallbackMerges: m.fallbackMerges.Load(),
	}
}

// Reset zeroes all counters.
func (m *AtomicMetrics) Reset() {
	m.itemsIn.Store(0)
	m.storiesOut.Store(0)
	m.merges.Store(0)
	m.fallbackMerges.Store(0)
}

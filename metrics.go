package sig

import (
	"sync/atomic"
	"time"
)

// Metrics tracks library performance counters using lock-free atomics.
// All methods are safe for concurrent use.
type Metrics struct {
	parsesTotal   atomic.Uint64
	warningsTotal atomic.Uint64

	parseTimeTotal atomic.Uint64 // nanoseconds
	parseTimeMin   atomic.Uint64
	parseTimeMax   atomic.Uint64

	suggestCalls  atomic.Uint64
	scheduleCalls atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so the first sample becomes the minimum
	m.parseTimeMin.Store(^uint64(0))
	return m
}

// RecordParse records one parse with its duration and warning count.
func (m *Metrics) RecordParse(d time.Duration, warnings int) {
	m.parsesTotal.Add(1)
	m.warningsTotal.Add(uint64(warnings))

	ns := uint64(d.Nanoseconds())
	m.parseTimeTotal.Add(ns)

	for {
		min := m.parseTimeMin.Load()
		if ns >= min || m.parseTimeMin.CompareAndSwap(min, ns) {
			break
		}
	}
	for {
		max := m.parseTimeMax.Load()
		if ns <= max || m.parseTimeMax.CompareAndSwap(max, ns) {
			break
		}
	}
}

// RecordSuggest records one suggestion call.
func (m *Metrics) RecordSuggest() { m.suggestCalls.Add(1) }

// RecordSchedule records one schedule projection call.
func (m *Metrics) RecordSchedule() { m.scheduleCalls.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	ParsesTotal   uint64
	WarningsTotal uint64
	ParseTimeAvg  time.Duration
	ParseTimeMin  time.Duration
	ParseTimeMax  time.Duration
	SuggestCalls  uint64
	ScheduleCalls uint64
}

// Snapshot returns a consistent-enough copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		ParsesTotal:   m.parsesTotal.Load(),
		WarningsTotal: m.warningsTotal.Load(),
		ParseTimeMax:  time.Duration(m.parseTimeMax.Load()),
		SuggestCalls:  m.suggestCalls.Load(),
		ScheduleCalls: m.scheduleCalls.Load(),
	}
	if min := m.parseTimeMin.Load(); min != ^uint64(0) {
		s.ParseTimeMin = time.Duration(min)
	}
	if s.ParsesTotal > 0 {
		s.ParseTimeAvg = time.Duration(m.parseTimeTotal.Load() / s.ParsesTotal)
	}
	return s
}

package logger

import (
	"sync"
	"time"
)

// Metrics tracks counters, gauges and timings. All operations are thread-safe.
type Metrics struct {
	mu        sync.Mutex
	startedAt time.Time
	counters  map[string]int64
	gauges    map[string]float64
	timings   map[string]*timing
}

type timing struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
	last  time.Duration
}

// TimingStats summarizes the durations recorded under one name
type TimingStats struct {
	Count   int64  `json:"count"`
	Total   string `json:"total"`
	Average string `json:"average"`
	Min     string `json:"min"`
	Max     string `json:"max"`
	Last    string `json:"last"`
}

// Snapshot is a copy of every metric at one moment
type Snapshot struct {
	StartedAt time.Time              `json:"started_at"`
	Uptime    string                 `json:"uptime"`
	Counters  map[string]int64       `json:"counters"`
	Gauges    map[string]float64     `json:"gauges"`
	Timings   map[string]TimingStats `json:"timings"`
}

var defaultMetrics = NewMetrics()

// NewMetrics creates a new metrics tracker with empty counters, gauges, and timings.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt: time.Now(),
		counters:  make(map[string]int64),
		gauges:    make(map[string]float64),
		timings:   make(map[string]*timing),
	}
}

// IncrCounter increments a counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// Counter returns the current value of a counter.
func (m *Metrics) Counter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// SetGauge sets a gauge to the specified value, overwriting any previous value.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming adds one duration to the aggregate for name.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timings[name]
	if !ok {
		t = &timing{min: duration, max: duration}
		m.timings[name] = t
	}
	t.count++
	t.total += duration
	t.last = duration
	if duration < t.min {
		t.min = duration
	}
	if duration > t.max {
		t.max = duration
	}
}

// GetSnapshot returns a copy of all metrics
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		StartedAt: m.startedAt.UTC(),
		Uptime:    time.Since(m.startedAt).Round(time.Second).String(),
		Counters:  make(map[string]int64, len(m.counters)),
		Gauges:    make(map[string]float64, len(m.gauges)),
		Timings:   make(map[string]TimingStats, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}
	for name, t := range m.timings {
		snap.Timings[name] = TimingStats{
			Count:   t.count,
			Total:   t.total.String(),
			Average: (t.total / time.Duration(t.count)).String(),
			Min:     t.min.String(),
			Max:     t.max.String(),
			Last:    t.last.String(),
		}
	}

	return snap
}

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// SetGauge sets a gauge on the default metrics tracker.
func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of the default metrics tracker.
func GetMetricsSnapshot() Snapshot {
	return defaultMetrics.GetSnapshot()
}

// DefaultMetrics returns the process-wide metrics tracker.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}

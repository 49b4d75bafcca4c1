package metrics

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// defaultWindow bounds how many recent samples the tracker keeps.
const defaultWindow = 512

// DurationTracker keeps a sliding window of recent per-station ingestion
// durations for the status endpoint. Safe for concurrent use.
type DurationTracker struct {
	mu      sync.Mutex
	samples []float64 // milliseconds, ring-ordered
	next    int
	full    bool
}

// NewDurationTracker returns a tracker over the default sample window.
func NewDurationTracker() *DurationTracker {
	return &DurationTracker{samples: make([]float64, defaultWindow)}
}

// Observe records one ingestion duration, evicting the oldest sample once
// the window is full.
func (t *DurationTracker) Observe(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples[t.next] = float64(d) / float64(time.Millisecond)
	t.next++
	if t.next == len(t.samples) {
		t.next = 0
		t.full = true
	}
}

// DurationStats summarizes the current window in milliseconds.
type DurationStats struct {
	Count  int     `json:"count"`
	MeanMs float64 `json:"mean_ms"`
	StdDev float64 `json:"stddev_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	MaxMs  float64 `json:"max_ms"`
}

// Stats computes summary statistics over the window. An empty window
// yields the zero value.
func (t *DurationTracker) Stats() DurationStats {
	t.mu.Lock()
	n := t.next
	if t.full {
		n = len(t.samples)
	}
	window := make([]float64, n)
	copy(window, t.samples[:n])
	t.mu.Unlock()

	if n == 0 {
		return DurationStats{}
	}
	sort.Float64s(window)
	out := DurationStats{
		Count:  n,
		MeanMs: stat.Mean(window, nil),
		P50Ms:  stat.Quantile(0.5, stat.Empirical, window, nil),
		P95Ms:  stat.Quantile(0.95, stat.Empirical, window, nil),
		MaxMs:  window[n-1],
	}
	if n > 1 {
		out.StdDev = stat.StdDev(window, nil)
	}
	return out
}

// Package stats keeps rolling latency figures for the service's operations.
package stats

import (
	"slices"
	"sync"
	"time"
)

// Operation names recorded by the service.
const (
	OpReformat = "reformat"
	OpConvert  = "convert"
	OpReplace  = "replace"
)

type sample struct {
	at time.Time
	ms int64
}

// Snapshot aggregates the samples of one operation.
type Snapshot struct {
	Count  int     `json:"count"`
	Failed int     `json:"failed"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Recorder tracks durations per operation within a rolling window.
type Recorder struct {
	mu      sync.Mutex
	window  time.Duration
	samples map[string][]sample
	failed  map[string][]time.Time
	now     func() time.Time
}

// New returns a recorder keeping samples for window. Zero or negative
// windows default to one hour.
func New(window time.Duration) *Recorder {
	if window <= 0 {
		window = time.Hour
	}
	return &Recorder{
		window:  window,
		samples: make(map[string][]sample),
		failed:  make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Record adds one successful run of op.
func (r *Recorder) Record(op string, d time.Duration) {
	ms := max(d.Milliseconds(), 0)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.pruneLocked(now)
	r.samples[op] = append(r.samples[op], sample{at: now, ms: ms})
}

// Fail counts one failed run of op.
func (r *Recorder) Fail(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.pruneLocked(now)
	r.failed[op] = append(r.failed[op], now)
}

// Snapshot returns the current figures keyed by operation.
func (r *Recorder) Snapshot() map[string]Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(r.now())

	out := make(map[string]Snapshot, len(r.samples))
	for op, ss := range r.samples {
		out[op] = summarize(ss)
	}
	for op, fs := range r.failed {
		s := out[op]
		s.Failed = len(fs)
		out[op] = s
	}
	return out
}

func summarize(ss []sample) Snapshot {
	if len(ss) == 0 {
		return Snapshot{}
	}
	values := make([]int64, len(ss))
	var sum int64
	for i, s := range ss {
		values[i] = s.ms
		sum += s.ms
	}
	slices.Sort(values)
	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (r *Recorder) pruneLocked(now time.Time) {
	cutoff := now.Add(-r.window)
	for op, ss := range r.samples {
		ss = slices.DeleteFunc(ss, func(s sample) bool { return s.at.Before(cutoff) })
		if len(ss) == 0 {
			delete(r.samples, op)
			continue
		}
		r.samples[op] = ss
	}
	for op, fs := range r.failed {
		fs = slices.DeleteFunc(fs, func(t time.Time) bool { return t.Before(cutoff) })
		if len(fs) == 0 {
			delete(r.failed, op)
			continue
		}
		r.failed[op] = fs
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(index-float64(lower))
}

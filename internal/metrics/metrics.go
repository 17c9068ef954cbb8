// Package metrics records query observations for operational visibility.
// Samples live in a bounded in-memory ring buffer; nothing is exported
// to external systems.
package metrics

import (
	"math"
	"sync"
	"time"
)

// DefaultMaxSamples bounds the ring buffer.
const DefaultMaxSamples = 1000

// recentCount is how many samples Report returns, newest first.
const recentCount = 10

// Sample is one recorded query observation.
type Sample struct {
	// Query is the question text as asked.
	Query string `json:"query"`

	// Duration is the wall-clock time spent answering.
	Duration time.Duration `json:"duration"`

	// DocumentCount is how many documents retrieval returned.
	DocumentCount int `json:"documentCount"`

	// CacheHit reports whether the answer came from the query cache.
	CacheHit bool `json:"cacheHit"`

	// Timestamp is when the query completed.
	Timestamp time.Time `json:"timestamp"`
}

// Report aggregates the recorded samples.
type Report struct {
	TotalQueries int      `json:"totalQueries"`
	CacheHits    int      `json:"cacheHits"`
	CacheMisses  int      `json:"cacheMisses"`
	CacheHitRate float64  `json:"cacheHitRate"` // percent, 2 decimals
	AvgDuration  float64  `json:"avgDuration"`  // milliseconds, 2 decimals
	Recent       []Sample `json:"recentQueries"`
}

// Health is a simplified status summary for diagnostics endpoints.
type Health struct {
	Status       string  `json:"status"`
	CacheHitRate float64 `json:"cacheHitRate"`
	AvgDuration  float64 `json:"avgResponseTime"`
	TotalQueries int     `json:"totalQueries"`
}

// Recorder is a bounded ring buffer of query samples. Safe for
// concurrent use.
type Recorder struct {
	mu      sync.RWMutex
	samples []Sample
	next    int
	full    bool
	max     int
}

// NewRecorder creates a recorder bounded at DefaultMaxSamples.
func NewRecorder() *Recorder {
	return NewRecorderWithCapacity(DefaultMaxSamples)
}

// NewRecorderWithCapacity creates a recorder with a custom bound.
// Useful for testing the eviction behaviour with small buffers.
func NewRecorderWithCapacity(maxSamples int) *Recorder {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Recorder{
		samples: make([]Sample, 0, maxSamples),
		max:     maxSamples,
	}
}

// LogQuery appends a sample, evicting the oldest when the buffer is full.
func (r *Recorder) LogQuery(query string, duration time.Duration, documentCount int, cacheHit bool) {
	sample := Sample{
		Query:         query,
		Duration:      duration,
		DocumentCount: documentCount,
		CacheHit:      cacheHit,
		Timestamp:     time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.samples) < r.max {
		r.samples = append(r.samples, sample)
		return
	}

	// Buffer full: overwrite the oldest slot.
	r.samples[r.next] = sample
	r.next = (r.next + 1) % r.max
	r.full = true
}

// ordered returns the samples oldest-first (caller must hold the lock).
func (r *Recorder) ordered() []Sample {
	if !r.full {
		return r.samples
	}
	out := make([]Sample, 0, len(r.samples))
	out = append(out, r.samples[r.next:]...)
	out = append(out, r.samples[:r.next]...)
	return out
}

// Report returns aggregate statistics plus the 10 most recent samples in
// reverse-chronological order.
func (r *Recorder) Report() Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	samples := r.ordered()
	total := len(samples)

	var hits int
	var totalDuration time.Duration
	for _, s := range samples {
		if s.CacheHit {
			hits++
		}
		totalDuration += s.Duration
	}

	var hitRate, avgMs float64
	if total > 0 {
		hitRate = round2(float64(hits) / float64(total) * 100)
		avgMs = round2(float64(totalDuration.Milliseconds()) / float64(total))
	}

	n := recentCount
	if n > total {
		n = total
	}
	recent := make([]Sample, n)
	for i := 0; i < n; i++ {
		recent[i] = samples[total-1-i]
	}

	return Report{
		TotalQueries: total,
		CacheHits:    hits,
		CacheMisses:  total - hits,
		CacheHitRate: hitRate,
		AvgDuration:  avgMs,
		Recent:       recent,
	}
}

// Health derives a status summary from the current report.
func (r *Recorder) Health() Health {
	report := r.Report()
	return Health{
		Status:       "healthy",
		CacheHitRate: report.CacheHitRate,
		AvgDuration:  report.AvgDuration,
		TotalQueries: report.TotalQueries,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

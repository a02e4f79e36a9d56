package pipeline

import (
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/fnolgest/internal/claim"
)

type sample struct {
	timestamp time.Time
	duration  time.Duration
	route     claim.Route
}

// StatsSnapshot is a point-in-time aggregate of processing samples.
type StatsSnapshot struct {
	Count  int                 `json:"count"`
	MinMs  float64             `json:"min_ms"`
	MaxMs  float64             `json:"max_ms"`
	AvgMs  float64             `json:"avg_ms"`
	P50Ms  float64             `json:"p50_ms"`
	P95Ms  float64             `json:"p95_ms"`
	P99Ms  float64             `json:"p99_ms"`
	Routes map[claim.Route]int `json:"routes"`
}

// Stats tracks recent document processing latencies and route decisions
// within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one processed document. Durations keep sub-millisecond
// precision; snapshots report them as fractional milliseconds.
func (s *Stats) Record(d time.Duration, route claim.Route) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp: now,
		duration:  d,
		route:     route,
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	routes := make(map[claim.Route]int, len(claim.Routes))
	for _, r := range claim.Routes {
		routes[r] = 0
	}
	if len(s.samples) == 0 {
		return StatsSnapshot{Routes: routes}
	}

	values := make([]float64, 0, len(s.samples))
	var sum float64
	for _, sm := range s.samples {
		ms := millis(sm.duration)
		values = append(values, ms)
		sum += ms
		routes[sm.route]++
	}
	sort.Float64s(values)

	return StatsSnapshot{
		Count:  len(values),
		MinMs:  values[0],
		MaxMs:  values[len(values)-1],
		AvgMs:  sum / float64(len(values)),
		P50Ms:  percentile(values, 50),
		P95Ms:  percentile(values, 95),
		P99Ms:  percentile(values, 99),
		Routes: routes,
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func percentile(sortedValues []float64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return sortedValues[0]
	}
	if pct >= 100 {
		return sortedValues[len(sortedValues)-1]
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return sortedValues[lower]
	}
	weight := index - float64(lower)
	lo := sortedValues[lower]
	hi := sortedValues[upper]
	return lo + ((hi - lo) * weight)
}

// Package stats aggregates the stage latencies of recent pipeline runs.
package stats

import (
	"slices"
	"sync"
	"time"
)

// TotalStage is the stage name under which a run's end-to-end time is kept.
const TotalStage = "total"

// Latency summarizes one stage over the runs in the window.
type Latency struct {
	Count  int     `json:"count"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Report is the stage breakdown of recent runs.
type Report struct {
	Runs   int                `json:"runs"`
	Window string             `json:"window"`
	Stages map[string]Latency `json:"stages"`
}

type run struct {
	at     time.Time
	stages map[string]int64
}

// Stages keeps the per-stage durations of runs finished within a rolling
// window. Safe for concurrent use.
type Stages struct {
	mu     sync.Mutex
	window time.Duration
	runs   []run

	// Now is the clock; tests replace it.
	Now func() time.Time
}

func NewStages(window time.Duration) *Stages {
	if window <= 0 {
		window = time.Hour
	}
	return &Stages{window: window, Now: time.Now}
}

// Observe records one finished run. Negative durations count as zero.
func (s *Stages) Observe(stages map[string]time.Duration) {
	ms := make(map[string]int64, len(stages))
	for name, d := range stages {
		ms[name] = max(d.Milliseconds(), 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now()
	s.expire(now)
	s.runs = append(s.runs, run{at: now, stages: ms})
}

// Report summarizes every stage seen in the window.
func (s *Stages) Report() Report {
	s.mu.Lock()
	s.expire(s.Now())
	byStage := make(map[string][]int64)
	for _, r := range s.runs {
		for name, ms := range r.stages {
			byStage[name] = append(byStage[name], ms)
		}
	}
	rep := Report{Runs: len(s.runs), Window: s.window.String()}
	s.mu.Unlock()

	rep.Stages = make(map[string]Latency, len(byStage))
	for name, values := range byStage {
		rep.Stages[name] = summarize(values)
	}
	return rep
}

func (s *Stages) expire(now time.Time) {
	cutoff := now.Add(-s.window)
	s.runs = slices.DeleteFunc(s.runs, func(r run) bool { return r.at.Before(cutoff) })
}

func summarize(values []int64) Latency {
	slices.Sort(values)
	var sum int64
	for _, v := range values {
		sum += v
	}
	return Latency{
		Count:  len(values),
		MinMs:  values[0],
		MaxMs:  values[len(values)-1],
		MeanMs: float64(sum) / float64(len(values)),
		P50Ms:  Percentile(values, 50),
		P95Ms:  Percentile(values, 95),
		P99Ms:  Percentile(values, 99),
	}
}

// Percentile linearly interpolates pct (0-100) over ascending values.
func Percentile[T int | int64](sorted []T, pct float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[n-1])
	}
	pos := float64(n-1) * pct / 100
	i := int(pos)
	if i+1 >= n {
		return float64(sorted[i])
	}
	lo, hi := float64(sorted[i]), float64(sorted[i+1])
	return lo + (hi-lo)*(pos-float64(i))
}

package stats

import (
	"testing"
	"time"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestStages_ReportPerStage(t *testing.T) {
	s := NewStages(time.Hour)
	for _, n := range []int{100, 200, 300, 400, 500} {
		s.Observe(map[string]time.Duration{
			"build_toc": ms(n),
			TotalStage:  ms(n * 2),
		})
	}
	s.Observe(map[string]time.Duration{"extract": ms(40), TotalStage: ms(40)})

	rep := s.Report()
	if rep.Runs != 6 {
		t.Fatalf("expected 6 runs, got %d", rep.Runs)
	}
	if rep.Window != "1h0m0s" {
		t.Errorf("expected window 1h0m0s, got %q", rep.Window)
	}

	toc := rep.Stages["build_toc"]
	if toc.Count != 5 || toc.MinMs != 100 || toc.MaxMs != 500 {
		t.Errorf("unexpected build_toc latency: %+v", toc)
	}
	if toc.MeanMs != 300 || toc.P50Ms != 300 || toc.P95Ms != 480 || toc.P99Ms != 496 {
		t.Errorf("unexpected build_toc percentiles: %+v", toc)
	}
	if rep.Stages["extract"].Count != 1 {
		t.Errorf("expected 1 extract sample, got %+v", rep.Stages["extract"])
	}
	if total := rep.Stages[TotalStage]; total.Count != 6 || total.MinMs != 40 || total.MaxMs != 1000 {
		t.Errorf("unexpected total latency: %+v", total)
	}
}

func TestStages_ExpiresOldRuns(t *testing.T) {
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	s := NewStages(time.Minute)
	s.Now = func() time.Time { return now }

	s.Observe(map[string]time.Duration{TotalStage: ms(100)})
	now = now.Add(2 * time.Minute)
	if rep := s.Report(); rep.Runs != 0 || len(rep.Stages) != 0 {
		t.Fatalf("expected expired runs to be dropped, got %+v", rep)
	}

	s.Observe(map[string]time.Duration{TotalStage: ms(200)})
	rep := s.Report()
	if rep.Runs != 1 || rep.Stages[TotalStage].MaxMs != 200 {
		t.Fatalf("expected one 200ms run, got %+v", rep)
	}
}

func TestStages_ClampsNegativeDuration(t *testing.T) {
	s := NewStages(time.Hour)
	s.Observe(map[string]time.Duration{TotalStage: ms(-10)})
	if got := s.Report().Stages[TotalStage]; got.Count != 1 || got.MaxMs != 0 {
		t.Fatalf("expected clamped duration 0, got %+v", got)
	}
}

func TestStages_EmptyReport(t *testing.T) {
	rep := NewStages(0).Report()
	if rep.Runs != 0 || rep.Stages == nil || rep.Window != "1h0m0s" {
		t.Errorf("unexpected empty report: %+v", rep)
	}
}

func TestPercentileInts(t *testing.T) {
	values := []int{10, 20, 30, 40}
	if got := Percentile(values, 50); got != 25 {
		t.Errorf("expected 25, got %v", got)
	}
	if got := Percentile(values, 0); got != 10 {
		t.Errorf("expected 10, got %v", got)
	}
	if got := Percentile(values, 100); got != 40 {
		t.Errorf("expected 40, got %v", got)
	}
	if got := Percentile([]int{}, 50); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}

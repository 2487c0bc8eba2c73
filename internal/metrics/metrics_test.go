package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAnalysisMetricsCounters(t *testing.T) {
	m := NewAnalysisMetrics(prometheus.NewRegistry())

	m.ObserveRun(OutcomeCompleted, 20*time.Millisecond)
	m.ObserveRun(OutcomeCompleted, 30*time.Millisecond)
	m.ObserveRun(OutcomeIneligible, time.Millisecond)
	m.CountWarning("unknown_category")
	m.CountProfile("Medium")
	m.CountCacheLookup(true)
	m.CountCacheLookup(false)
	m.CountCacheLookup(false)
	m.CountNotifyFailure()

	if got := testutil.ToFloat64(m.runs.WithLabelValues(OutcomeCompleted)); got != 2 {
		t.Fatalf("expected 2 completed runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues(OutcomeIneligible)); got != 1 {
		t.Fatalf("expected 1 ineligible run, got %v", got)
	}
	if got := testutil.ToFloat64(m.warnings.WithLabelValues("unknown_category")); got != 1 {
		t.Fatalf("expected 1 warning, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")); got != 2 {
		t.Fatalf("expected 2 cache misses, got %v", got)
	}
	if got := testutil.ToFloat64(m.notifyFailures); got != 1 {
		t.Fatalf("expected 1 notify failure, got %v", got)
	}
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *AnalysisMetrics
	m.ObserveRun(OutcomeError, time.Second)
	m.CountWarning("invalid_schedule")
	m.CountProfile("High")
	m.CountCacheLookup(true)
	m.CountNotifyFailure()
}

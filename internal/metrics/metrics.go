package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "habit_persona"

// Resultados posibles de una corrida de analisis.
const (
	OutcomeCompleted  = "completed"
	OutcomeIneligible = "ineligible"
	OutcomeInProgress = "in_progress"
	OutcomeError      = "error"
)

// AnalysisMetrics agrupa los colectores del servicio de analisis.
type AnalysisMetrics struct {
	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	warnings       *prometheus.CounterVec
	confidence     *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	notifyFailures prometheus.Counter
}

// NewAnalysisMetrics registra los colectores en reg. En tests usar prometheus.NewRegistry().
func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	factory := promauto.With(reg)
	return &AnalysisMetrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Analysis runs by outcome",
		}, []string{"outcome"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_run_duration_seconds",
			Help:      "Analysis run duration in seconds, fetch and save included",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms a ~10s
		}, []string{"outcome"}),
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_warnings_total",
			Help:      "Degraded-signal warnings by kind",
		}, []string{"kind"}),
		confidence: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiles_generated_total",
			Help:      "Generated profiles by confidence level",
		}, []string{"level"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_cache_lookups_total",
			Help:      "Latest-profile cache lookups by result",
		}, []string{"result"}),
		notifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_notify_failures_total",
			Help:      "Failed profile-updated notifications",
		}),
	}
}

// ObserveRun registra el resultado y la duracion de una corrida.
func (m *AnalysisMetrics) ObserveRun(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *AnalysisMetrics) CountWarning(kind string) {
	if m == nil {
		return
	}
	m.warnings.WithLabelValues(kind).Inc()
}

func (m *AnalysisMetrics) CountProfile(level string) {
	if m == nil {
		return
	}
	m.confidence.WithLabelValues(level).Inc()
}

// CountCacheLookup recibe hit=true cuando el perfil salio de cache.
func (m *AnalysisMetrics) CountCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *AnalysisMetrics) CountNotifyFailure() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	JobsExecuted       *prometheus.CounterVec
	ExecutionDuration  prometheus.Histogram
	RiskScores         prometheus.Histogram
	Escalations        *prometheus.CounterVec
	AITokens           *prometheus.CounterVec
	NavigationAttempts prometheus.Counter
	ScreenshotUploads  *prometheus.CounterVec
	SlotsInUse         prometheus.Gauge
	CustodyEntries     *prometheus.CounterVec
	EventPublishErrors prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		JobsExecuted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ipwatch_jobs_executed_total",
			Help: "Monitoring job executions by outcome",
		}, []string{"outcome"}),
		ExecutionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ipwatch_job_execution_seconds",
			Help:    "Wall time of a monitoring job execution",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 300},
		}),
		RiskScores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ipwatch_risk_score",
			Help:    "Distribution of overall risk scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		Escalations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ipwatch_escalations_total",
			Help: "Escalation attempts by outcome",
		}, []string{"outcome"}),
		AITokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ipwatch_ai_tokens_total",
			Help: "Tokens consumed by the completion service",
		}, []string{"purpose"}),
		NavigationAttempts: f.NewCounter(prometheus.CounterOpts{
			Name: "ipwatch_navigation_attempts_total",
			Help: "Browser navigation attempts",
		}),
		ScreenshotUploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ipwatch_screenshot_uploads_total",
			Help: "Screenshot uploads by outcome",
		}, []string{"outcome"}),
		SlotsInUse: f.NewGauge(prometheus.GaugeOpts{
			Name: "ipwatch_browser_slots_in_use",
			Help: "Browser slots currently held by running jobs",
		}),
		CustodyEntries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ipwatch_custody_entries_total",
			Help: "Custody log entries appended by action",
		}, []string{"action"}),
		EventPublishErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "ipwatch_event_publish_errors_total",
			Help: "Domain events that failed to publish",
		}),
	}
}

func (m *Metrics) JobExecuted(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.JobsExecuted.WithLabelValues(outcome).Inc()
	m.ExecutionDuration.Observe(seconds)
}

func (m *Metrics) RiskScore(score int) {
	if m == nil {
		return
	}
	m.RiskScores.Observe(float64(score))
}

func (m *Metrics) Escalation(outcome string) {
	if m == nil {
		return
	}
	m.Escalations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Tokens(purpose string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.AITokens.WithLabelValues(purpose).Add(float64(n))
}

func (m *Metrics) NavigationAttempt() {
	if m == nil {
		return
	}
	m.NavigationAttempts.Inc()
}

func (m *Metrics) ScreenshotUpload(outcome string) {
	if m == nil {
		return
	}
	m.ScreenshotUploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SlotAcquired() {
	if m == nil {
		return
	}
	m.SlotsInUse.Inc()
}

func (m *Metrics) SlotReleased() {
	if m == nil {
		return
	}
	m.SlotsInUse.Dec()
}

func (m *Metrics) CustodyAppended(action string) {
	if m == nil {
		return
	}
	m.CustodyEntries.WithLabelValues(action).Inc()
}

func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.EventPublishErrors.Inc()
}

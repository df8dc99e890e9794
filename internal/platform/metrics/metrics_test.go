package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.JobExecuted("completed", 1.5)
	m.JobExecuted("failed", 2)
	m.Escalation("created")
	m.Tokens("infringement", 120)
	m.Tokens("infringement", 0)
	m.SlotAcquired()
	m.SlotAcquired()
	m.SlotReleased()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsExecuted.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Escalations.WithLabelValues("created")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.AITokens.WithLabelValues("infringement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotsInUse))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.JobExecuted("completed", 1)
		m.RiskScore(50)
		m.Escalation("reused")
		m.Tokens("review", 5)
		m.NavigationAttempt()
		m.ScreenshotUpload("ok")
		m.SlotAcquired()
		m.SlotReleased()
		m.CustodyAppended("viewed")
		m.PublishFailed()
	})
}

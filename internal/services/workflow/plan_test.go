package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateJurisdiction(t *testing.T) {
	got := ValidateJurisdiction("uk")
	assert.Equal(t, "UK", got.Jurisdiction)
	assert.True(t, got.IsSupported)
	assert.Equal(t, "PROCEED", got.Recommendation)
	assert.Len(t, got.SupportedJurisdictions, 8)

	got = ValidateJurisdiction("br")
	assert.Equal(t, "BR", got.Jurisdiction)
	assert.False(t, got.IsSupported)
	assert.Equal(t, "USE_GENERIC_TEMPLATE", got.Recommendation)

	got.SupportedJurisdictions[0] = "XX"
	assert.True(t, ValidateJurisdiction("US").IsSupported)
}

func TestPlanWorkflow(t *testing.T) {
	tests := []struct {
		name       string
		complexity string
		budget     float64
		urgent     bool
		want       Plan
	}{
		{"simple", "simple", 0, false,
			Plan{Complexity: "simple", ReviewDocument: true, Model: ModelSmall, MaxTokens: 1000}},
		{"moderate", "moderate", 5, false,
			Plan{Complexity: "moderate", ValidateInfringement: true, ReviewDocument: true, Model: ModelStandard, MaxTokens: 1500}},
		{"complex", "COMPLEX", 0, false,
			Plan{Complexity: "complex", ValidateInfringement: true, ReviewDocument: true, Model: ModelStandard, MaxTokens: 2000, MultipleReviews: true}},
		{"unknown falls back to moderate", "epic", 0, false,
			Plan{Complexity: "moderate", ValidateInfringement: true, ReviewDocument: true, Model: ModelStandard, MaxTokens: 1500}},
		{"tight budget", "complex", 0.05, false,
			Plan{Complexity: "complex", ValidateInfringement: true, ReviewDocument: true, Model: ModelSmall, MaxTokens: 800, MultipleReviews: true}},
		{"urgent skips validation", "moderate", 0, true,
			Plan{Complexity: "moderate", ReviewDocument: true, Model: ModelStandard, MaxTokens: 1500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanWorkflow(tt.complexity, tt.budget, tt.urgent))
		})
	}
}

func TestPlanWorkflow_DoesNotMutatePresets(t *testing.T) {
	_ = PlanWorkflow("simple", 0.01, true)
	assert.Equal(t, 1000, PlanWorkflow("simple", 0, false).MaxTokens)
}

func TestUsageCounter(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := newUsageCounter(0.2, func() time.Time { return clock })

	assert.InDelta(t, 0.3, u.Add(1500), 1e-9)
	assert.Zero(t, u.Add(-5))
	u.Add(1500)

	snap := u.Snapshot()
	assert.Equal(t, 3000, snap.TotalTokens)
	assert.InDelta(t, 0.6, snap.TotalCost, 1e-9)

	clock = clock.Add(30 * time.Minute)
	st := u.Stats()
	assert.Equal(t, 30*time.Minute, st.SessionDuration)
	assert.InDelta(t, 100, st.AverageTokensPerMinute, 1e-9)
	assert.InDelta(t, 1.2, st.CostPerHour, 1e-9)

	u.Reset()
	st = u.Stats()
	assert.Zero(t, st.TotalTokens)
	assert.Zero(t, st.SessionDuration)
	assert.Zero(t, st.AverageTokensPerMinute)
}

func TestUsageCounter_ZeroPrice(t *testing.T) {
	u := NewUsageCounter(0)
	u.Add(10000)
	assert.Zero(t, u.Snapshot().TotalCost)
}

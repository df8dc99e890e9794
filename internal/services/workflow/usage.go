package workflow

import (
	"sync"
	"time"
)

// UsageCounter accumulates token spend for one orchestrator. It lives as long
// as its owner and is cleared with Reset at session boundaries.
type UsageCounter struct {
	mu           sync.Mutex
	pricePer1K   float64
	totalTokens  int
	sessionStart time.Time
	now          func() time.Time
}

// Usage is a point-in-time copy of a counter.
type Usage struct {
	TotalTokens  int       `json:"totalTokens"`
	TotalCost    float64   `json:"totalCost"`
	SessionStart time.Time `json:"sessionStart"`
}

type UsageStats struct {
	SessionDuration        time.Duration `json:"sessionDuration"`
	TotalTokens            int           `json:"totalTokens"`
	EstimatedCost          float64       `json:"estimatedCost"`
	AverageTokensPerMinute float64       `json:"averageTokensPerMinute"`
	CostPerHour            float64       `json:"costPerHour"`
}

func NewUsageCounter(pricePer1K float64) *UsageCounter {
	return newUsageCounter(pricePer1K, time.Now)
}

func newUsageCounter(pricePer1K float64, now func() time.Time) *UsageCounter {
	return &UsageCounter{pricePer1K: pricePer1K, sessionStart: now(), now: now}
}

// Add records tokens and returns their cost.
func (u *UsageCounter) Add(tokens int) float64 {
	if tokens <= 0 {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.totalTokens += tokens
	return u.cost(tokens)
}

func (u *UsageCounter) Snapshot() Usage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return Usage{TotalTokens: u.totalTokens, TotalCost: u.cost(u.totalTokens), SessionStart: u.sessionStart}
}

func (u *UsageCounter) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.totalTokens = 0
	u.sessionStart = u.now()
}

func (u *UsageCounter) Stats() UsageStats {
	u.mu.Lock()
	defer u.mu.Unlock()
	d := u.now().Sub(u.sessionStart)
	st := UsageStats{
		SessionDuration: d,
		TotalTokens:     u.totalTokens,
		EstimatedCost:   u.cost(u.totalTokens),
	}
	if mins := d.Minutes(); mins > 0 {
		st.AverageTokensPerMinute = float64(u.totalTokens) / mins
	}
	if hours := d.Hours(); hours > 0 {
		st.CostPerHour = st.EstimatedCost / hours
	}
	return st
}

func (u *UsageCounter) cost(tokens int) float64 {
	return float64(tokens) / 1000 * u.pricePer1K
}

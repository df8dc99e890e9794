package analysis

import (
	"fmt"
	"math"
	"time"

	"ipwatch/internal/domain"
)

const (
	weightConfidence = 0.6
	weightStrength   = 0.25
	weightQuality    = 0.15

	// scoreFloor is the lowest score any assessed page receives.
	scoreFloor = 3
)

var strengthScores = map[domain.Strength]float64{
	domain.StrengthStrong:   100,
	domain.StrengthModerate: 65,
	domain.StrengthWeak:     30,
}

var qualityScores = map[domain.EvidenceQuality]float64{
	domain.QualityExcellent: 100,
	domain.QualityGood:      75,
	domain.QualityFair:      50,
	domain.QualityPoor:      25,
}

// Scored is the deterministic part of an assessment.
type Scored struct {
	Score          int
	Factors        []domain.RiskFactor
	Recommendation domain.Recommendation
}

// Score computes the overall risk score from a parsed analysis.
//
// When the model reported zero confidence, or did not affirm infringement,
// the score is the confidence (or 0) raised to the floor and carried as a
// single "AI Analysis" factor. Otherwise each present factor contributes
// raw*weight; absent factors contribute nothing and the remaining weights are
// not rescaled.
func Score(a domain.Analysis) Scored {
	conf, hasConf := a.Confidence.Get()
	likely := a.InfringementLikely.Or(false)

	if (hasConf && conf == 0) || !likely {
		raw := float64(a.Confidence.Or(0))
		score := max(scoreFloor, a.Confidence.Or(0))
		return Scored{
			Score:          score,
			Factors:        []domain.RiskFactor{{Name: "AI Analysis", RawScore: raw, Weight: 1.0, Contribution: raw}},
			Recommendation: Recommend(score),
		}
	}

	var factors []domain.RiskFactor
	add := func(name string, raw, weight float64) {
		factors = append(factors, domain.RiskFactor{Name: name, RawScore: raw, Weight: weight, Contribution: raw * weight})
	}
	if hasConf {
		add("AI Infringement Confidence", float64(conf), weightConfidence)
	}
	if s, ok := a.Strength.Get(); ok {
		add("Legal Strength", strengthScores[s], weightStrength)
	}
	if q, ok := a.EvidenceQuality.Get(); ok {
		add("Evidence Quality", qualityScores[q], weightQuality)
	}

	sum := 0.0
	for _, f := range factors {
		sum += f.Contribution
	}
	score := int(math.Round(math.Max(0, math.Min(100, sum))))
	return Scored{Score: score, Factors: factors, Recommendation: Recommend(score)}
}

// Recommend maps a final score to an action.
func Recommend(score int) domain.Recommendation {
	switch {
	case score >= 80:
		return domain.RecImmediateAction
	case score >= 60:
		return domain.RecLegalAction
	case score >= 40:
		return domain.RecMonitorClosely
	case score >= 20:
		return domain.RecContinueMonitor
	default:
		return domain.RecLowPriority
	}
}

// Summary is the one-line verdict stored on the monitoring log.
func Summary(a domain.Analysis) string {
	verdict := "NO CLEAR INFRINGEMENT"
	if a.InfringementLikely.Or(false) {
		verdict = "INFRINGEMENT LIKELY"
	}
	return fmt.Sprintf("AI Analysis: %s - %s evidence", verdict, a.Strength.Or("UNKNOWN"))
}

// NewAssessment combines a parsed analysis with its score.
func NewAssessment(a domain.Analysis, tokens int, at time.Time) domain.RiskAssessment {
	s := Score(a)
	return domain.RiskAssessment{
		Analysis:         a,
		OverallRiskScore: s.Score,
		Factors:          s.Factors,
		Recommendation:   s.Recommendation,
		Summary:          Summary(a),
		TokensUsed:       tokens,
		CalculatedAt:     at,
	}
}

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ipwatch/internal/domain"
)

func TestParseInfringement_AllFields(t *testing.T) {
	a := ParseInfringement(`Here is my analysis.
CONFIDENCE: 85%
INFRINGEMENT_LIKELY: YES
STRENGTH: STRONG
LEGAL_BASIS: Exact title match: "Wednesday" on a streaming index
EVIDENCE_QUALITY: GOOD
RECOMMENDATIONS: Send takedown
RISKS: Mirror domains`)

	assert.Equal(t, domain.Some(85), a.Confidence)
	assert.Equal(t, domain.Some(true), a.InfringementLikely)
	assert.Equal(t, domain.Some(domain.StrengthStrong), a.Strength)
	assert.Equal(t, domain.Some(domain.QualityGood), a.EvidenceQuality)
	assert.Equal(t, `Exact title match: "Wednesday" on a streaming index`, a.LegalBasis.Value)
	assert.Equal(t, "Send takedown", a.Recommendations.Value)
	assert.Equal(t, "Mirror domains", a.Risks.Value)
}

func TestParseInfringement_AbsentIsNotZero(t *testing.T) {
	a := ParseInfringement("STRENGTH: WEAK\nsomething else entirely")
	assert.False(t, a.Confidence.Present)
	assert.False(t, a.InfringementLikely.Present)
	assert.False(t, a.EvidenceQuality.Present)
	assert.True(t, a.Strength.Present)
}

func TestParseInfringement_FirstOccurrenceWins(t *testing.T) {
	a := ParseInfringement("CONFIDENCE: 40%\nCONFIDENCE: 90%")
	assert.Equal(t, 40, a.Confidence.Value)
}

func TestParseInfringement_Confidence(t *testing.T) {
	cases := map[string]domain.Opt[int]{
		"CONFIDENCE: 0%":     domain.Some(0),
		"CONFIDENCE: 72":     domain.Some(72),
		"CONFIDENCE:  64 %":  domain.Some(64),
		"CONFIDENCE: 150%":   domain.Some(100),
		"CONFIDENCE: -5":     domain.Some(0),
		"CONFIDENCE: 77.9%":  domain.Some(77),
		"CONFIDENCE: high":   {},
		"CONFIDENCE:":        {},
		"  CONFIDENCE: 12% ": domain.Some(12),
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseInfringement(in).Confidence)
		})
	}
}

func TestParseInfringement_InfringementLikely(t *testing.T) {
	cases := map[string]domain.Opt[bool]{
		"INFRINGEMENT_LIKELY: YES":               domain.Some(true),
		"INFRINGEMENT_LIKELY: true":              domain.Some(true),
		"INFRINGEMENT_LIKELY: No.":               domain.Some(false),
		"INFRINGEMENT_LIKELY: FALSE":             domain.Some(false),
		"INFRINGEMENT_LIKELY: possibly":          {},
		"INFRINGEMENT_LIKELY: YES (exact match)": domain.Some(true),
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseInfringement(in).InfringementLikely)
		})
	}
}

func TestParseInfringement_IgnoresUnknownAndMalformed(t *testing.T) {
	a := ParseInfringement("confidence: 90%\n**CONFIDENCE:** 90%\nNOTE: ignored")
	assert.False(t, a.Confidence.Present)
}

func TestParseReview(t *testing.T) {
	r := ParseReview(`QUALITY_SCORE: 78%
COMPLETENESS: PARTIAL
LEGAL_SOUNDNESS: GOOD
MISSING_ELEMENTS: Deadline for compliance
STRENGTHS: Clear identification of the work
IMPROVEMENTS: Add statutory citation
APPROVAL_RECOMMENDATION: REVISE`)
	assert.Equal(t, domain.Some(78), r.QualityScore)
	assert.Equal(t, "PARTIAL", r.Completeness.Value)
	assert.Equal(t, "GOOD", r.LegalSoundness.Value)
	assert.Equal(t, "Deadline for compliance", r.MissingElements.Value)
	assert.Equal(t, "REVISE", r.ApprovalRecommendation.Value)
}

func TestFields_ValueAfterFirstColon(t *testing.T) {
	f := Fields("LEGAL_BASIS: 17 U.S.C. § 106: reproduction", KeyLegalBasis)
	assert.Equal(t, "17 U.S.C. § 106: reproduction", f[KeyLegalBasis])
}

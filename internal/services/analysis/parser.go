package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"ipwatch/internal/domain"
)

// Keys recognised in an infringement completion.
const (
	KeyConfidence         = "CONFIDENCE"
	KeyInfringementLikely = "INFRINGEMENT_LIKELY"
	KeyStrength           = "STRENGTH"
	KeyLegalBasis         = "LEGAL_BASIS"
	KeyEvidenceQuality    = "EVIDENCE_QUALITY"
	KeyRecommendations    = "RECOMMENDATIONS"
	KeyRisks              = "RISKS"
)

// Keys recognised in a document review completion.
const (
	KeyQualityScore           = "QUALITY_SCORE"
	KeyCompleteness           = "COMPLETENESS"
	KeyLegalSoundness         = "LEGAL_SOUNDNESS"
	KeyMissingElements        = "MISSING_ELEMENTS"
	KeyStrengths              = "STRENGTHS"
	KeyImprovements           = "IMPROVEMENTS"
	KeyApprovalRecommendation = "APPROVAL_RECOMMENDATION"
)

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// Fields extracts KEY: value pairs for the given keys. Lines are trimmed, the
// value is everything after the first colon, the first occurrence of a key
// wins and every other line is ignored.
func Fields(text string, keys ...string) map[string]string {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	out := make(map[string]string, len(keys))
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if !want[key] {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}

// ParseInfringement turns a completion into an Analysis. Keys that are
// missing or unreadable stay absent.
func ParseInfringement(text string) domain.Analysis {
	f := Fields(text, KeyConfidence, KeyInfringementLikely, KeyStrength, KeyLegalBasis,
		KeyEvidenceQuality, KeyRecommendations, KeyRisks)

	var a domain.Analysis
	if v, ok := f[KeyConfidence]; ok {
		a.Confidence = percent(v)
	}
	if v, ok := f[KeyInfringementLikely]; ok {
		a.InfringementLikely = yesNo(v)
	}
	if v, ok := f[KeyStrength]; ok {
		if w := firstWord(v); w != "" {
			a.Strength = domain.Some(domain.Strength(w))
		}
	}
	if v, ok := f[KeyEvidenceQuality]; ok {
		if w := firstWord(v); w != "" {
			a.EvidenceQuality = domain.Some(domain.EvidenceQuality(w))
		}
	}
	a.LegalBasis = optText(f, KeyLegalBasis)
	a.Recommendations = optText(f, KeyRecommendations)
	a.Risks = optText(f, KeyRisks)
	return a
}

// Review is a parsed document review.
type Review struct {
	QualityScore           domain.Opt[int]    `json:"qualityScore"`
	Completeness           domain.Opt[string] `json:"completeness"`
	LegalSoundness         domain.Opt[string] `json:"legalSoundness"`
	MissingElements        domain.Opt[string] `json:"missingElements"`
	Strengths              domain.Opt[string] `json:"strengths"`
	Improvements           domain.Opt[string] `json:"improvements"`
	ApprovalRecommendation domain.Opt[string] `json:"approvalRecommendation"`
	TokensUsed             int                `json:"tokensUsed"`
}

func ParseReview(text string) Review {
	f := Fields(text, KeyQualityScore, KeyCompleteness, KeyLegalSoundness, KeyMissingElements,
		KeyStrengths, KeyImprovements, KeyApprovalRecommendation)

	var r Review
	if v, ok := f[KeyQualityScore]; ok {
		r.QualityScore = percent(v)
	}
	if w := firstWord(f[KeyCompleteness]); w != "" {
		r.Completeness = domain.Some(w)
	}
	if w := firstWord(f[KeyLegalSoundness]); w != "" {
		r.LegalSoundness = domain.Some(w)
	}
	if w := firstWord(f[KeyApprovalRecommendation]); w != "" {
		r.ApprovalRecommendation = domain.Some(w)
	}
	r.MissingElements = optText(f, KeyMissingElements)
	r.Strengths = optText(f, KeyStrengths)
	r.Improvements = optText(f, KeyImprovements)
	return r
}

// percent reads "85%", "85", " 85 % " and clamps to [0,100].
func percent(v string) domain.Opt[int] {
	v = strings.TrimSpace(strings.ReplaceAll(v, "%", ""))
	m := leadingInt.FindString(v)
	if m == "" {
		return domain.Opt[int]{}
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return domain.Opt[int]{}
	}
	return domain.Some(clampInt(n, 0, 100))
}

func yesNo(v string) domain.Opt[bool] {
	switch firstWord(v) {
	case "YES", "TRUE":
		return domain.Some(true)
	case "NO", "FALSE":
		return domain.Some(false)
	}
	return domain.Opt[bool]{}
}

// firstWord upper-cases the first word of v with surrounding punctuation removed.
func firstWord(v string) string {
	fs := strings.Fields(v)
	if len(fs) == 0 {
		return ""
	}
	return strings.ToUpper(strings.Trim(fs[0], `.,;:!()[]*"'`))
}

func optText(f map[string]string, key string) domain.Opt[string] {
	if v, ok := f[key]; ok && v != "" {
		return domain.Some(v)
	}
	return domain.Opt[string]{}
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

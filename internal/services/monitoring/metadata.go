package monitoring

import (
	"encoding/json"
	"time"

	"ipwatch/internal/domain"
)

// logMetadata is the JSON stored on each monitoring log.
type logMetadata struct {
	PageData        domain.Snapshot `json:"pageData"`
	AnalysisDetails analysisDetails `json:"analysisDetails"`
	HTMLArchiveURL  string          `json:"htmlArchiveUrl,omitempty"`
	AgentVersion    string          `json:"agentVersion"`
	Timestamp       time.Time       `json:"timestamp"`
}

type analysisDetails struct {
	AIAnalysis         string                             `json:"aiAnalysis"`
	RiskFactors        []domain.RiskFactor                `json:"riskFactors"`
	Recommendation     domain.Recommendation              `json:"recommendation"`
	Confidence         domain.Opt[int]                    `json:"confidence"`
	InfringementLikely domain.Opt[bool]                   `json:"infringementLikely"`
	Strength           domain.Opt[domain.Strength]        `json:"strength"`
	LegalBasis         domain.Opt[string]                 `json:"legalBasis"`
	EvidenceQuality    domain.Opt[domain.EvidenceQuality] `json:"evidenceQuality"`
	Recommendations    domain.Opt[string]                 `json:"recommendations"`
	Risks              domain.Opt[string]                 `json:"risks"`
	TokensUsed         int                                `json:"tokensUsed"`
}

func buildMetadata(snap domain.Snapshot, ra domain.RiskAssessment, archiveURL string, at time.Time) (json.RawMessage, error) {
	return json.Marshal(logMetadata{
		PageData: snap,
		AnalysisDetails: analysisDetails{
			AIAnalysis:         ra.Summary,
			RiskFactors:        ra.Factors,
			Recommendation:     ra.Recommendation,
			Confidence:         ra.Confidence,
			InfringementLikely: ra.InfringementLikely,
			Strength:           ra.Strength,
			LegalBasis:         ra.LegalBasis,
			EvidenceQuality:    ra.EvidenceQuality,
			Recommendations:    ra.Recommendations,
			Risks:              ra.Risks,
			TokensUsed:         ra.TokensUsed,
		},
		HTMLArchiveURL: archiveURL,
		AgentVersion:   AgentVersion,
		Timestamp:      at,
	})
}

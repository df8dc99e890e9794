package escalation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/metrics"
	"ipwatch/internal/platform/observability"
	"ipwatch/internal/ports"
)

const (
	DefaultThreshold = 70
	// HTMLEvidenceLimit caps the html_content evidence excerpt.
	HTMLEvidenceLimit = 5000

	SubjectCaseAutoCreated = "ipwatch.cases.auto_created"
)

var tracer = observability.Tracer("escalation")

// Input is everything a completed job execution hands to escalation.
type Input struct {
	Job        domain.Job
	Asset      domain.Asset
	Log        domain.MonitoringLog
	Assessment domain.RiskAssessment
	Snapshot   domain.Snapshot
}

type Outcome struct {
	// Escalated is false when the score was below the threshold.
	Escalated     bool
	CaseID        string
	Created       bool
	EvidenceCount int
}

type Manager struct {
	cases     ports.CaseRepository
	logs      ports.MonitoringLogRepository
	evidence  ports.EvidenceRepository
	events    ports.EventPublisher
	schemas   *Schemas
	threshold int
	actorID   string
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Config struct {
	Threshold int
	ActorID   string
}

func New(cases ports.CaseRepository, logs ports.MonitoringLogRepository, evidence ports.EvidenceRepository,
	events ports.EventPublisher, schemas *Schemas, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Manager {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.ActorID == "" {
		cfg.ActorID = "system"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cases: cases, logs: logs, evidence: evidence, events: events, schemas: schemas,
		threshold: cfg.Threshold, actorID: cfg.ActorID,
		logger: logger.With("component", "escalation"), metrics: m, now: time.Now,
	}
}

func (m *Manager) Threshold() int { return m.threshold }

// Escalate opens an auto-generated case for a high-risk job, at most once per
// job. Failures are logged and never returned.
func (m *Manager) Escalate(ctx context.Context, in Input) Outcome {
	score := in.Assessment.OverallRiskScore
	if score < m.threshold {
		return Outcome{}
	}
	ctx, span := tracer.Start(ctx, "escalation.escalate")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", in.Job.ID), attribute.Int("risk.score", score))

	log := m.logger.With("job_id", in.Job.ID, "risk_score", score)
	log.Info("high risk detected, escalating")

	existing, found, err := m.cases.FindAutoCase(ctx, in.Job.ID)
	if err != nil {
		m.fail(log, in.Job.ID, "lookup", err)
		return Outcome{Escalated: true}
	}
	if found {
		log.Info("auto case already exists", "case_id", existing.ID)
		m.metrics.Escalation("existing")
		return Outcome{Escalated: true, CaseID: existing.ID}
	}

	jobID := in.Job.ID
	c, created, err := m.cases.CreateAutoCase(ctx, domain.Case{
		Title:                 fmt.Sprintf("AUTO: %s - High Risk Detection", in.Asset.Title),
		Status:                domain.CaseOpen,
		RelatedAssetID:        in.Job.AssetID,
		SuspectedURL:          in.Job.TargetURL,
		Description:           fmt.Sprintf("Automatically generated case from high-risk monitoring detection. Risk Score: %d%%. %s", score, in.Log.Result),
		CreatedBy:             m.actorID,
		AutoGenerated:         true,
		SourceMonitoringJobID: &jobID,
	})
	if err != nil {
		m.fail(log, in.Job.ID, "create case", err)
		return Outcome{Escalated: true}
	}
	if !created {
		log.Info("auto case created concurrently, reusing", "case_id", c.ID)
		m.metrics.Escalation("existing")
		return Outcome{Escalated: true, CaseID: c.ID}
	}
	log = log.With("case_id", c.ID)

	if in.Log.ID != "" {
		if err := m.logs.LinkCase(ctx, in.Log.ID, c.ID); err != nil {
			m.fail(log, in.Job.ID, "link log", err)
		}
	}

	records := m.evidenceFor(log, in, c.ID)
	n := m.insert(ctx, log, records)
	log.Info("auto case created", "evidence", n)
	m.metrics.Escalation("created")

	if err := m.events.Publish(ctx, SubjectCaseAutoCreated, map[string]any{
		"caseId":    c.ID,
		"jobId":     in.Job.ID,
		"assetId":   in.Job.AssetID,
		"riskScore": score,
		"url":       in.Job.TargetURL,
	}); err != nil {
		log.Warn("publish case event", "err", err)
		m.metrics.PublishFailed()
	}
	return Outcome{Escalated: true, CaseID: c.ID, Created: true, EvidenceCount: n}
}

func (m *Manager) fail(log *slog.Logger, jobID, stage string, err error) {
	log.Error("escalation failed", "err", &domain.EscalationError{JobID: jobID, Stage: stage, Err: err})
	m.metrics.Escalation("error")
}

func (m *Manager) evidenceFor(log *slog.Logger, in Input, caseID string) []domain.EvidenceRecord {
	var out []domain.EvidenceRecord
	add := func(t domain.EvidenceType, url *string, payload any) {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Warn("encode evidence payload", "type", t, "err", err)
			return
		}
		if err := m.schemas.Validate(t, raw); err != nil {
			log.Warn("evidence payload rejected by schema", "type", t, "err", err)
			return
		}
		out = append(out, domain.EvidenceRecord{
			Type:            t,
			URL:             url,
			Payload:         raw,
			AutoGenerated:   true,
			CaseID:          &caseID,
			MonitoringLogID: optional(in.Log.ID),
		})
	}

	if in.Log.ScreenshotURL != nil && *in.Log.ScreenshotURL != "" {
		add(domain.EvidenceScreenshot, in.Log.ScreenshotURL, map[string]any{
			"screenshot_url": *in.Log.ScreenshotURL,
			"captured_at":    in.Log.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	a := in.Assessment
	add(domain.EvidenceRiskAnalysis, nil, riskPayload{
		RiskScore:      a.OverallRiskScore,
		Recommendation: a.Recommendation,
		AnalysisResult: in.Log.Result,
		Summary:        a.Summary,
		Confidence:     a.Confidence.Or(0),
		Factors:        a.Factors,
		Details: map[string]any{
			"infringementLikely": a.InfringementLikely,
			"strength":           a.Strength,
			"evidenceQuality":    a.EvidenceQuality,
			"legalBasis":         a.LegalBasis,
			"recommendations":    a.Recommendations,
			"risks":              a.Risks,
		},
	})

	if in.Log.HTMLContent != "" {
		add(domain.EvidenceHTMLContent, nil, map[string]any{
			"html_content": truncate(in.Log.HTMLContent, HTMLEvidenceLimit),
			"page_title":   in.Snapshot.PageTitle,
			"page_url":     in.Job.TargetURL,
			"word_count":   in.Snapshot.PageStats.WordCount,
			"image_count":  in.Snapshot.PageStats.ImageCount,
		})
	}
	return out
}

type riskPayload struct {
	RiskScore      int                   `json:"risk_score"`
	Recommendation domain.Recommendation `json:"recommendation"`
	AnalysisResult string                `json:"analysis_result"`
	Summary        string                `json:"summary"`
	Confidence     int                   `json:"confidence"`
	Factors        []domain.RiskFactor   `json:"factors"`
	Details        map[string]any        `json:"details"`
}

// insert tries one bulk write first, then falls back to one write per
// record so a single bad row does not drop the rest.
func (m *Manager) insert(ctx context.Context, log *slog.Logger, records []domain.EvidenceRecord) int {
	if len(records) == 0 {
		log.Warn("no evidence records to create")
		return 0
	}
	err := m.evidence.InsertEvidence(ctx, records)
	if err == nil {
		return len(records)
	}
	log.Error("bulk evidence insert failed, retrying individually", "err", err, "records", len(records))
	n := 0
	for _, r := range records {
		if err := m.evidence.InsertEvidence(ctx, []domain.EvidenceRecord{r}); err != nil {
			log.Error("evidence insert failed", "type", r.Type, "err", err)
			continue
		}
		n++
	}
	return n
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

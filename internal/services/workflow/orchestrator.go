package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/observability"
	"ipwatch/internal/ports"
	"ipwatch/internal/services/analysis"
)

const (
	agentAnalysis = "AnalysisAgent"
	agentDrafter  = "LegalDraftAgent"

	defaultJurisdiction = "US"
	defaultTone         = "professional"

	saveTimeout = 5 * time.Second
)

var tracer = observability.Tracer("workflow")

// Drafter writes the enforcement document.
type Drafter interface {
	Draft(ctx context.Context, in analysis.DraftInput) (analysis.Draft, error)
}

// Analyzer validates infringement and reviews drafted documents.
type Analyzer interface {
	Validate(ctx context.Context, in analysis.Input) (analysis.Validation, error)
	Review(ctx context.Context, in analysis.ReviewInput) (analysis.Review, error)
}

type Request struct {
	CaseID       *string
	DocumentType string
	Jurisdiction string
	Tone         string
	CaseDetails  string
	Asset        domain.Asset
	// Evidence is the monitored page. Validation only runs when it is set.
	Evidence             *domain.Snapshot
	HTML                 string
	ValidateInfringement bool
	ReviewDocument       bool
	// Model and MaxTokens are passed to the drafter.
	Model     string
	MaxTokens int
}

// Result carries whatever the run produced, including on failure.
type Result struct {
	Run      domain.WorkflowRun
	Document string
	Analysis *domain.Analysis
	Review   *analysis.Review
	Risk     *domain.RiskAssessment
}

type Orchestrator struct {
	drafter  Drafter
	analyzer Analyzer
	runs     ports.WorkflowRunRepository
	usage    *UsageCounter
	logger   *slog.Logger
	now      func() time.Time
}

// New builds an orchestrator that owns usage. A nil runs skips persistence.
func New(drafter Drafter, analyzer Analyzer, runs ports.WorkflowRunRepository, usage *UsageCounter, logger *slog.Logger) *Orchestrator {
	if usage == nil {
		usage = NewUsageCounter(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		drafter:  drafter,
		analyzer: analyzer,
		runs:     runs,
		usage:    usage,
		logger:   logger.With("component", "workflow"),
		now:      time.Now,
	}
}

func (o *Orchestrator) Usage() *UsageCounter { return o.usage }

// GenerateDocument runs validate, draft, review and score in that order. The
// first failing step stops the run; the partial result is returned with the
// error.
func (o *Orchestrator) GenerateDocument(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, "workflow.generate_document")
	defer span.End()
	span.SetAttributes(attribute.String("document_type", req.DocumentType))

	if req.Jurisdiction == "" {
		req.Jurisdiction = defaultJurisdiction
	}
	if req.Tone == "" {
		req.Tone = defaultTone
	}

	res := Result{Run: domain.WorkflowRun{
		ID:           uuid.NewString(),
		CaseID:       req.CaseID,
		DocumentType: req.DocumentType,
		Steps:        []domain.WorkflowStep{},
		StartedAt:    o.now().UTC(),
	}}
	log := o.logger.With("run_id", res.Run.ID, "document_type", req.DocumentType)

	err := o.steps(ctx, req, &res)
	res.Run.FinishedAt = o.now().UTC()
	res.Run.TotalCost = o.usage.cost(res.Run.TotalTokens)
	if err != nil {
		msg := err.Error()
		res.Run.Error = &msg
		span.RecordError(err)
		log.Error("workflow failed", "completed_steps", len(res.Run.Steps), "err", err)
	} else {
		res.Run.Success = true
		log.Info("workflow completed", "tokens", res.Run.TotalTokens,
			"cost", res.Run.TotalCost, "duration", res.Run.FinishedAt.Sub(res.Run.StartedAt))
	}
	o.save(ctx, res.Run)
	return res, err
}

func (o *Orchestrator) steps(ctx context.Context, req Request, res *Result) error {
	if req.ValidateInfringement && req.Evidence != nil {
		v, err := o.analyzer.Validate(ctx, analysis.Input{
			Asset:     req.Asset,
			Snapshot:  *req.Evidence,
			HTML:      req.HTML,
			TargetURL: req.Evidence.URL,
		})
		if err != nil {
			return fmt.Errorf("step 1 validate infringement: %w", err)
		}
		res.Analysis = &v.Analysis
		o.record(res, 1, agentAnalysis, "validateInfringement", v.TokensUsed, map[string]any{
			"confidence": v.Analysis.Confidence.Or(0),
		})
		if c, ok := v.Analysis.Confidence.Get(); ok && c < 30 {
			o.logger.Warn("low infringement confidence, drafting anyway", "confidence", c)
		}
	}

	d, err := o.drafter.Draft(ctx, analysis.DraftInput{
		DocumentType: req.DocumentType,
		Jurisdiction: req.Jurisdiction,
		Tone:         req.Tone,
		CaseDetails:  req.CaseDetails,
		Asset:        req.Asset,
		Evidence:     req.Evidence,
		Analysis:     res.Analysis,
		Model:        req.Model,
		MaxTokens:    req.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("step 2 generate document: %w", err)
	}
	res.Document = d.Content
	o.record(res, 2, agentDrafter, "generateDocument", d.TokensUsed, map[string]any{
		"documentLength": len(d.Content),
	})

	if req.ReviewDocument {
		r, err := o.analyzer.Review(ctx, analysis.ReviewInput{
			Content:      d.Content,
			DocumentType: req.DocumentType,
			Jurisdiction: req.Jurisdiction,
			Asset:        req.Asset,
		})
		if err != nil {
			return fmt.Errorf("step 3 review document: %w", err)
		}
		res.Review = &r
		rec := r.ApprovalRecommendation.Or("")
		o.record(res, 3, agentAnalysis, "reviewDocument", r.TokensUsed, map[string]any{
			"qualityScore":   r.QualityScore.Or(0),
			"recommendation": rec,
		})
		if rec == "REJECT" {
			o.logger.Warn("document rejected by review, flag for revision", "run_id", res.Run.ID)
		}
	}

	if res.Analysis != nil {
		ra := analysis.NewAssessment(*res.Analysis, 0, o.now().UTC())
		res.Risk = &ra
		o.record(res, 4, agentAnalysis, "calculateRiskScore", 0, map[string]any{
			"riskScore":      ra.OverallRiskScore,
			"recommendation": string(ra.Recommendation),
		})
	}
	return nil
}

// record appends a finished step. Step numbers are fixed per action so a
// skipped step leaves a gap.
func (o *Orchestrator) record(res *Result, step int, agent, action string, tokens int, detail map[string]any) {
	res.Run.Steps = append(res.Run.Steps, domain.WorkflowStep{
		Step:       step,
		Agent:      agent,
		Action:     action,
		Result:     "success",
		TokensUsed: tokens,
		Detail:     detail,
	})
	res.Run.TotalTokens += tokens
	o.usage.Add(tokens)
}

func (o *Orchestrator) save(ctx context.Context, run domain.WorkflowRun) {
	if o.runs == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := o.runs.SaveRun(sctx, run); err != nil {
		o.logger.Warn("save workflow run", "run_id", run.ID, "err", err)
	}
}

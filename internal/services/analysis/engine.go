package analysis

import (
	"context"
	"errors"
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
	infringementMaxTokens = 1000
	reviewMaxTokens       = 800
	defaultDraftMaxTokens = 1500
	temperature           = 0.1

	DefaultTimeout = 60 * time.Second
)

var tracer = observability.Tracer("analysis")

// Input is everything the engine sees about one monitored page.
type Input struct {
	Asset     domain.Asset
	Snapshot  domain.Snapshot
	HTML      string // already truncated by the collector
	TargetURL string
}

type ReviewInput struct {
	Content      string
	DocumentType string
	Jurisdiction string
	Asset        domain.Asset
}

type DraftInput struct {
	DocumentType string
	Jurisdiction string
	Tone         string
	CaseDetails  string
	Asset        domain.Asset
	Evidence     *domain.Snapshot
	Analysis     *domain.Analysis
	// Model and MaxTokens override the completer defaults when set.
	Model     string
	MaxTokens int
}

type Draft struct {
	Content    string
	TokensUsed int
}

// Validation is a parsed infringement completion before scoring.
type Validation struct {
	Analysis   domain.Analysis
	TokensUsed int
}

// Engine runs completions against the AI service and scores the answers.
type Engine struct {
	completer ports.Completer
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func New(completer ports.Completer, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		completer: completer,
		timeout:   timeout,
		logger:    logger.With("component", "analysis"),
		metrics:   m,
		now:       time.Now,
	}
}

// Validate asks the model whether the page infringes the asset.
func (e *Engine) Validate(ctx context.Context, in Input) (Validation, error) {
	ctx, span := tracer.Start(ctx, "analysis.validate")
	defer span.End()

	c, err := e.complete(ctx, "infringement", ports.CompletionRequest{
		SystemPrompt: infringementSystemPrompt,
		UserPrompt:   infringementPrompt(in),
		MaxTokens:    infringementMaxTokens,
		Temperature:  temperature,
	})
	if err != nil {
		span.RecordError(err)
		return Validation{}, fmt.Errorf("validate infringement: %w", err)
	}
	a := ParseInfringement(c.Text)
	if !a.Confidence.Present || !a.InfringementLikely.Present {
		e.logger.Warn("completion missing core fields", "asset_id", in.Asset.ID,
			"has_confidence", a.Confidence.Present, "has_infringement_likely", a.InfringementLikely.Present)
	}
	return Validation{Analysis: a, TokensUsed: c.TokensUsed}, nil
}

// Assess validates and scores in one step.
func (e *Engine) Assess(ctx context.Context, in Input) (domain.RiskAssessment, error) {
	v, err := e.Validate(ctx, in)
	if err != nil {
		return domain.RiskAssessment{}, err
	}
	ra := NewAssessment(v.Analysis, v.TokensUsed, e.now().UTC())
	e.metrics.RiskScore(ra.OverallRiskScore)
	e.logger.Info("risk assessed", "asset_id", in.Asset.ID, "url", in.TargetURL,
		"score", ra.OverallRiskScore, "recommendation", ra.Recommendation)
	return ra, nil
}

// Review grades a drafted document.
func (e *Engine) Review(ctx context.Context, in ReviewInput) (Review, error) {
	ctx, span := tracer.Start(ctx, "analysis.review")
	defer span.End()

	c, err := e.complete(ctx, "review", ports.CompletionRequest{
		SystemPrompt: reviewSystemPrompt,
		UserPrompt:   reviewPrompt(in),
		MaxTokens:    reviewMaxTokens,
		Temperature:  temperature,
	})
	if err != nil {
		return Review{}, fmt.Errorf("review document: %w", err)
	}
	r := ParseReview(c.Text)
	r.TokensUsed = c.TokensUsed
	return r, nil
}

// Draft writes an enforcement document with the completion service.
func (e *Engine) Draft(ctx context.Context, in DraftInput) (Draft, error) {
	ctx, span := tracer.Start(ctx, "analysis.draft")
	defer span.End()
	span.SetAttributes(attribute.String("document_type", in.DocumentType))

	maxTokens := in.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultDraftMaxTokens
	}
	c, err := e.complete(ctx, "draft", ports.CompletionRequest{
		Model:        in.Model,
		SystemPrompt: draftSystemPrompt,
		UserPrompt:   draftPrompt(in),
		MaxTokens:    maxTokens,
		Temperature:  0.3,
	})
	if err != nil {
		return Draft{}, fmt.Errorf("draft document: %w", err)
	}
	if c.Text == "" {
		return Draft{}, errors.New("draft document: empty completion")
	}
	return Draft{Content: c.Text, TokensUsed: c.TokensUsed}, nil
}

// complete calls the completion service under the engine timeout. A call
// cut off by that timeout is reported as an AnalysisTimeoutError.
func (e *Engine) complete(ctx context.Context, purpose string, req ports.CompletionRequest) (ports.Completion, error) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	c, err := e.completer.Complete(cctx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return ports.Completion{}, &domain.AnalysisTimeoutError{Timeout: e.timeout}
		}
		return ports.Completion{}, err
	}
	e.metrics.Tokens(purpose, c.TokensUsed)
	return c, nil
}

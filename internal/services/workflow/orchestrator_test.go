package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipwatch/internal/adapters/memory"
	"ipwatch/internal/domain"
	"ipwatch/internal/platform/logging"
	"ipwatch/internal/ports"
	"ipwatch/internal/services/analysis"
)

// scriptedCompleter answers calls in order and fails the call at failAt.
type scriptedCompleter struct {
	mu      sync.Mutex
	answers []ports.Completion
	failAt  int
	reqs    []ports.CompletionRequest
}

func (c *scriptedCompleter) Complete(_ context.Context, req ports.CompletionRequest) (ports.Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append(c.reqs, req)
	n := len(c.reqs)
	if n == c.failAt {
		return ports.Completion{}, errors.New("upstream 503")
	}
	if n > len(c.answers) {
		return ports.Completion{}, errors.New("unexpected call")
	}
	return c.answers[n-1], nil
}

const (
	validateAnswer = "CONFIDENCE: 85%\nINFRINGEMENT_LIKELY: YES\nSTRENGTH: STRONG\nEVIDENCE_QUALITY: GOOD\nLEGAL_BASIS: Copyright"
	reviewAnswer   = "QUALITY_SCORE: 78\nCOMPLETENESS: COMPLETE\nAPPROVAL_RECOMMENDATION: APPROVE"
	draftAnswer    = "NOTICE OF COPYRIGHT INFRINGEMENT"
)

func fullScript() *scriptedCompleter {
	return &scriptedCompleter{answers: []ports.Completion{
		{Text: validateAnswer, TokensUsed: 400},
		{Text: draftAnswer, TokensUsed: 1200},
		{Text: reviewAnswer, TokensUsed: 300},
	}}
}

func newOrchestrator(c ports.Completer, runs ports.WorkflowRunRepository, usage *UsageCounter) *Orchestrator {
	e := analysis.New(c, time.Second, logging.Discard(), nil)
	return New(e, e, runs, usage, logging.Discard())
}

func wednesdayRequest() Request {
	caseID := "case-1"
	return Request{
		CaseID:       &caseID,
		DocumentType: "dmca_takedown",
		Asset:        domain.Asset{ID: "a1", Type: "copyright", Title: "Wednesday", Description: "Streaming series"},
		Evidence: &domain.Snapshot{
			PageTitle: "Wednesday : 123Movies",
			URL:       "http://piracy.example/wednesday",
		},
		ValidateInfringement: true,
		ReviewDocument:       true,
	}
}

func TestGenerateDocument_AllSteps(t *testing.T) {
	c := fullScript()
	store := memory.New()
	usage := NewUsageCounter(0.5)
	o := newOrchestrator(c, store, usage)

	res, err := o.GenerateDocument(context.Background(), wednesdayRequest())
	require.NoError(t, err)

	assert.Equal(t, draftAnswer, res.Document)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, 85, res.Analysis.Confidence.Value)
	require.NotNil(t, res.Review)
	assert.Equal(t, "APPROVE", res.Review.ApprovalRecommendation.Value)
	require.NotNil(t, res.Risk)
	assert.Equal(t, 87, res.Risk.OverallRiskScore)

	run := res.Run
	assert.True(t, run.Success)
	assert.Nil(t, run.Error)
	require.Len(t, run.Steps, 4)
	actions := []string{}
	for _, s := range run.Steps {
		actions = append(actions, s.Action)
	}
	assert.Equal(t, []string{"validateInfringement", "generateDocument", "reviewDocument", "calculateRiskScore"}, actions)
	assert.Equal(t, "LegalDraftAgent", run.Steps[1].Agent)
	assert.Equal(t, 0, run.Steps[3].TokensUsed)
	assert.Equal(t, 1900, run.TotalTokens)
	assert.InDelta(t, 0.95, run.TotalCost, 1e-9)

	assert.Equal(t, 1900, usage.Snapshot().TotalTokens)

	runs := store.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "case-1", *runs[0].CaseID)

	// Defaults reach the drafter.
	require.Len(t, c.reqs, 3)
	assert.Contains(t, c.reqs[1].UserPrompt, "JURISDICTION: US")
	assert.Contains(t, c.reqs[1].UserPrompt, "TONE: professional")
	assert.Contains(t, c.reqs[1].UserPrompt, "Confidence: 85%")
}

func TestGenerateDocument_ValidationNeedsEvidence(t *testing.T) {
	c := &scriptedCompleter{answers: []ports.Completion{
		{Text: draftAnswer, TokensUsed: 900},
		{Text: reviewAnswer, TokensUsed: 100},
	}}
	o := newOrchestrator(c, nil, nil)

	req := wednesdayRequest()
	req.Evidence = nil
	res, err := o.GenerateDocument(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Run.Steps, 2)
	assert.Equal(t, 2, res.Run.Steps[0].Step)
	assert.Equal(t, 3, res.Run.Steps[1].Step)
	assert.Nil(t, res.Analysis)
	assert.Nil(t, res.Risk)
}

func TestGenerateDocument_DraftOnly(t *testing.T) {
	c := &scriptedCompleter{answers: []ports.Completion{{Text: draftAnswer, TokensUsed: 900}}}
	o := newOrchestrator(c, nil, nil)

	req := wednesdayRequest()
	req.ValidateInfringement = false
	req.ReviewDocument = false
	req.Model = ModelSmall
	req.MaxTokens = 800
	res, err := o.GenerateDocument(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Run.Steps, 1)
	assert.Equal(t, "generateDocument", res.Run.Steps[0].Action)
	assert.Equal(t, ModelSmall, c.reqs[0].Model)
	assert.Equal(t, 800, c.reqs[0].MaxTokens)
}

func TestGenerateDocument_FailureKeepsPartialResult(t *testing.T) {
	c := fullScript()
	c.failAt = 2
	store := memory.New()
	usage := NewUsageCounter(0)
	o := newOrchestrator(c, store, usage)

	res, err := o.GenerateDocument(context.Background(), wednesdayRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate document")

	require.NotNil(t, res.Analysis)
	assert.Equal(t, 85, res.Analysis.Confidence.Value)
	assert.Empty(t, res.Document)
	assert.Nil(t, res.Review)
	assert.Nil(t, res.Risk)

	assert.False(t, res.Run.Success)
	require.NotNil(t, res.Run.Error)
	assert.Contains(t, *res.Run.Error, "upstream 503")
	require.Len(t, res.Run.Steps, 1)
	assert.Equal(t, 400, res.Run.TotalTokens)
	assert.Len(t, c.reqs, 2, "review must not run after a failed draft")

	runs := store.Runs()
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Success)
	assert.Equal(t, 400, usage.Snapshot().TotalTokens)
}

func TestGenerateDocument_ReviewFailure(t *testing.T) {
	c := fullScript()
	c.failAt = 3
	o := newOrchestrator(c, nil, nil)

	res, err := o.GenerateDocument(context.Background(), wednesdayRequest())
	require.Error(t, err)
	assert.Equal(t, draftAnswer, res.Document)
	assert.Len(t, res.Run.Steps, 2)
	assert.Nil(t, res.Risk)
}

type failingRuns struct{ calls int }

func (f *failingRuns) SaveRun(context.Context, domain.WorkflowRun) error {
	f.calls++
	return errors.New("db down")
}

func TestGenerateDocument_SaveFailureIsNotFatal(t *testing.T) {
	runs := &failingRuns{}
	o := newOrchestrator(fullScript(), runs, nil)

	res, err := o.GenerateDocument(context.Background(), wednesdayRequest())
	require.NoError(t, err)
	assert.True(t, res.Run.Success)
	assert.Equal(t, 1, runs.calls)
}

func TestGenerateDocument_CounterIsPerOrchestrator(t *testing.T) {
	a := newOrchestrator(fullScript(), nil, NewUsageCounter(0))
	b := newOrchestrator(fullScript(), nil, NewUsageCounter(0))

	_, err := a.GenerateDocument(context.Background(), wednesdayRequest())
	require.NoError(t, err)
	assert.Equal(t, 1900, a.Usage().Snapshot().TotalTokens)
	assert.Zero(t, b.Usage().Snapshot().TotalTokens)

	a.Usage().Reset()
	assert.Zero(t, a.Usage().Snapshot().TotalTokens)
}

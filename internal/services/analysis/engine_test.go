package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/logging"
	"ipwatch/internal/ports"
)

type fakeCompleter struct {
	text  string
	err   error
	delay time.Duration
	reqs  []ports.CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req ports.CompletionRequest) (ports.Completion, error) {
	f.reqs = append(f.reqs, req)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ports.Completion{}, ctx.Err()
		}
	}
	if f.err != nil {
		return ports.Completion{}, f.err
	}
	return ports.Completion{Text: f.text, TokensUsed: 412}, nil
}

func wednesdayInput() Input {
	return Input{
		Asset:     domain.Asset{ID: "a1", Type: "copyright", Title: "Wednesday", Description: "Streaming series"},
		Snapshot:  domain.Snapshot{PageTitle: "Wednesday : 123Movies", Headings: []domain.Heading{{Level: "h1", Text: "Wednesday"}}},
		HTML:      "<html><title>Wednesday : 123Movies</title></html>",
		TargetURL: "http://piracy.example/wednesday",
	}
}

func TestEngine_Assess(t *testing.T) {
	fc := &fakeCompleter{text: "CONFIDENCE: 85%\nINFRINGEMENT_LIKELY: YES\nSTRENGTH: STRONG\nEVIDENCE_QUALITY: GOOD"}
	e := New(fc, time.Second, logging.Discard(), nil)

	ra, err := e.Assess(context.Background(), wednesdayInput())
	require.NoError(t, err)
	assert.Equal(t, 87, ra.OverallRiskScore)
	assert.Equal(t, 412, ra.TokensUsed)
	assert.Equal(t, domain.RecImmediateAction, ra.Recommendation)

	require.Len(t, fc.reqs, 1)
	assert.Equal(t, 1000, fc.reqs[0].MaxTokens)
	assert.Equal(t, 0.1, fc.reqs[0].Temperature)
	assert.Contains(t, fc.reqs[0].UserPrompt, "Wednesday : 123Movies")
	assert.Contains(t, fc.reqs[0].UserPrompt, "http://piracy.example/wednesday")
}

func TestEngine_MissingKeysDegrade(t *testing.T) {
	e := New(&fakeCompleter{text: "I cannot determine this."}, time.Second, logging.Discard(), nil)
	ra, err := e.Assess(context.Background(), wednesdayInput())
	require.NoError(t, err)
	assert.Equal(t, 3, ra.OverallRiskScore)
	assert.False(t, ra.Confidence.Present)
}

func TestEngine_Timeout(t *testing.T) {
	e := New(&fakeCompleter{delay: time.Second}, 20*time.Millisecond, logging.Discard(), nil)
	_, err := e.Assess(context.Background(), wednesdayInput())
	var te *domain.AnalysisTimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 20*time.Millisecond, te.Timeout)
	assert.Contains(t, err.Error(), "validate infringement")
}

func TestEngine_CallerCancelIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(&fakeCompleter{delay: time.Second}, time.Minute, logging.Discard(), nil)
	_, err := e.Assess(ctx, wednesdayInput())
	require.ErrorIs(t, err, context.Canceled)
	var te *domain.AnalysisTimeoutError
	assert.False(t, errors.As(err, &te))
}

func TestEngine_Review(t *testing.T) {
	fc := &fakeCompleter{text: "QUALITY_SCORE: 91%\nAPPROVAL_RECOMMENDATION: APPROVE"}
	e := New(fc, time.Second, logging.Discard(), nil)
	r, err := e.Review(context.Background(), ReviewInput{Content: "Dear Sir", DocumentType: "cease_and_desist", Jurisdiction: "US"})
	require.NoError(t, err)
	assert.Equal(t, 91, r.QualityScore.Value)
	assert.Equal(t, "APPROVE", r.ApprovalRecommendation.Value)
	assert.Equal(t, 412, r.TokensUsed)
	assert.Equal(t, 800, fc.reqs[0].MaxTokens)
}

func TestEngine_Draft(t *testing.T) {
	fc := &fakeCompleter{text: "NOTICE OF INFRINGEMENT"}
	e := New(fc, time.Second, logging.Discard(), nil)
	d, err := e.Draft(context.Background(), DraftInput{DocumentType: "dmca_takedown", Jurisdiction: "US", Asset: domain.Asset{Title: "Wednesday"}})
	require.NoError(t, err)
	assert.Equal(t, "NOTICE OF INFRINGEMENT", d.Content)
	assert.Equal(t, defaultDraftMaxTokens, fc.reqs[0].MaxTokens)
	assert.Empty(t, fc.reqs[0].Model)

	_, err = e.Draft(context.Background(), DraftInput{DocumentType: "cease_desist", Model: "llama3-8b-8192", MaxTokens: 800})
	require.NoError(t, err)
	assert.Equal(t, "llama3-8b-8192", fc.reqs[1].Model)
	assert.Equal(t, 800, fc.reqs[1].MaxTokens)

	_, err = New(&fakeCompleter{}, time.Second, logging.Discard(), nil).Draft(context.Background(), DraftInput{})
	require.Error(t, err)
}

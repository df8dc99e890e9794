package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipwatch/internal/adapters/memory"
	api "ipwatch/internal/api"
	"ipwatch/internal/domain"
	"ipwatch/internal/platform/hash"
	"ipwatch/internal/platform/logging"
	"ipwatch/internal/services/escalation"
	"ipwatch/internal/services/ledger"
	"ipwatch/internal/services/monitoring"
	"ipwatch/internal/services/workflow"
)

const (
	jobID   = "5d9a1f0e-6c1b-4f7e-8d2a-3b4c5d6e7f80"
	assetID = "a1b2c3d4-0000-4000-8000-000000000001"
)

type fakeJobs struct {
	job   domain.Job
	err   error
	actor string
}

func (f *fakeJobs) CreateJob(_ context.Context, rawURL, asset, actor string) (domain.Job, error) {
	f.actor = actor
	if f.err != nil {
		return domain.Job{}, f.err
	}
	j := f.job
	j.TargetURL, j.AssetID, j.CreatedBy = rawURL, asset, actor
	return j, nil
}

func (f *fakeJobs) GetJob(_ context.Context, id string) (monitoring.JobDetail, error) {
	if f.err != nil {
		return monitoring.JobDetail{}, f.err
	}
	if id != f.job.ID {
		return monitoring.JobDetail{}, domain.ErrNotFound
	}
	return monitoring.JobDetail{Job: f.job, Logs: []domain.MonitoringLog{{
		ID: "log-1", JobID: id, Result: "completed", RiskScore: 87,
		Metadata: json.RawMessage(`{"agentVersion":"SurveillanceAgent-v1.0"}`),
	}}}, nil
}

func (f *fakeJobs) Stats(context.Context) (domain.JobStats, error) {
	return domain.JobStats{
		TotalJobs:        3,
		JobsByStatus:     map[domain.JobStatus]int{domain.JobCompleted: 2, domain.JobPending: 1},
		AverageRiskScore: 61.5,
		HighRiskCount:    1,
	}, nil
}

type fakeRunner struct {
	mu        sync.Mutex
	submitted []string
	res       monitoring.ExecutionResult
	err       error
}

func (f *fakeRunner) Execute(_ context.Context, id string) (monitoring.ExecutionResult, error) {
	return f.res, f.err
}

func (f *fakeRunner) Submit(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, id)
	return true
}

type fakeDocuments struct {
	got   workflow.Request
	err   error
	usage *workflow.UsageCounter
}

func (f *fakeDocuments) GenerateDocument(_ context.Context, req workflow.Request) (workflow.Result, error) {
	f.got = req
	res := workflow.Result{Run: domain.WorkflowRun{
		ID:          "run-1",
		Steps:       []domain.WorkflowStep{{Step: 2, Agent: "LegalDraftAgent", Action: "generateDocument", Result: "success", TokensUsed: 700}},
		TotalTokens: 700,
		Success:     f.err == nil,
	}}
	if f.err != nil {
		msg := f.err.Error()
		res.Run.Error = &msg
		return res, f.err
	}
	res.Document = "Dear Sir or Madam"
	return res, nil
}

func (f *fakeDocuments) Usage() *workflow.UsageCounter { return f.usage }

type harness struct {
	srv   *httptest.Server
	jobs  *fakeJobs
	run   *fakeRunner
	docs  *fakeDocuments
	store *memory.Store
}

func newHarness(t *testing.T, limiter *RateLimiter) *harness {
	t.Helper()
	store := memory.New()
	store.PutAsset(domain.Asset{ID: assetID, Type: "trademark", Title: "Wednesday"})
	h := &harness{
		jobs:  &fakeJobs{job: domain.Job{ID: jobID, Status: domain.JobPending, TargetDomain: "example.com"}},
		run:   &fakeRunner{},
		docs:  &fakeDocuments{usage: workflow.NewUsageCounter(0.5)},
		store: store,
	}
	s := New(Deps{
		Jobs:         h.jobs,
		Runner:       h.run,
		Cases:        store,
		Ledger:       ledger.New(store, store, logging.Discard(), nil),
		Documents:    h.docs,
		Assets:       store,
		DefaultModel: "llama3-70b-8192",
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ipwatch_jobs_executed_total 0\n")
		}),
		Limiter: limiter,
		Logger:  logging.Discard(),
	})
	h.srv = httptest.NewServer(s.Routes())
	t.Cleanup(h.srv.Close)
	return h
}

func (h *harness) do(t *testing.T, method, path, actor, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set("X-Actor-ID", actor)
	}
	req.Header.Set("User-Agent", "ipwatch-test")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthzAndMetrics(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[api.Health](t, resp).Status)

	resp = h.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "ipwatch_jobs_executed_total")
}

func TestCreateJob(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodPost, "/jobs", "analyst-1",
		`{"url":"https://shop.example.com/wednesday","assetId":"`+assetID+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	job := decode[api.Job](t, resp)
	assert.Equal(t, jobID, job.Id)
	assert.Equal(t, api.JobStatusPending, job.Status)
	assert.Equal(t, "analyst-1", h.jobs.actor)
}

func TestCreateJob_Problems(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodPost, "/jobs", "", `{"url":"https://x.example","assetId":"a"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

	resp = h.do(t, http.MethodPost, "/jobs", "analyst-1", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	h.jobs.err = domain.Invalid("url must be an absolute http(s) URL")
	resp = h.do(t, http.MethodPost, "/jobs", "analyst-1", `{"url":"ftp://x","assetId":"a"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	p := decode[api.Problem](t, resp)
	assert.Equal(t, 400, p.Status)
	require.NotNil(t, p.Detail)
	assert.Contains(t, *p.Detail, "absolute http(s) URL")
	require.NotNil(t, p.Instance)
	assert.Equal(t, "/jobs", *p.Instance)
}

func TestGetJob(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodGet, "/jobs/"+jobID, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decode[api.JobDetail](t, resp)
	require.Len(t, d.Logs, 1)
	assert.Equal(t, 87, d.Logs[0].RiskScore)
	require.NotNil(t, d.Logs[0].Metadata)
	assert.Equal(t, "SurveillanceAgent-v1.0", (*d.Logs[0].Metadata)["agentVersion"])

	resp = h.do(t, http.MethodGet, "/jobs/"+assetID, "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	h := newHarness(t, nil)
	h.jobs.err = errors.New("pgx: connection refused to 10.0.0.7")
	resp := h.do(t, http.MethodGet, "/jobs/"+jobID, "", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	p := decode[api.Problem](t, resp)
	require.NotNil(t, p.Detail)
	assert.NotContains(t, *p.Detail, "10.0.0.7")
}

func TestExecuteJob_Wait(t *testing.T) {
	h := newHarness(t, nil)
	caseID := "c0ffee00-0000-4000-8000-000000000001"
	done := h.jobs.job
	done.Status = domain.JobCompleted
	h.run.res = monitoring.ExecutionResult{
		Job:        done,
		Log:        domain.MonitoringLog{ID: "log-1", JobID: jobID, Result: "completed", RiskScore: 87, AutoCaseID: &caseID},
		Assessment: domain.RiskAssessment{OverallRiskScore: 87, Recommendation: domain.RecImmediateAction},
		Escalation: escalation.Outcome{Escalated: true, CaseID: caseID, Created: true, EvidenceCount: 3},
	}

	resp := h.do(t, http.MethodPost, "/jobs/"+jobID+"/execute?wait=true", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[api.ExecutionResult](t, resp)
	assert.Equal(t, api.JobStatusCompleted, out.Job.Status)
	assert.Equal(t, 87, out.Assessment.OverallRiskScore)
	assert.True(t, out.AutoCaseCreated)
	require.NotNil(t, out.AutoCaseId)
	assert.Equal(t, caseID, *out.AutoCaseId)

	h.run.err = &domain.ConflictError{JobID: jobID, Status: domain.JobRunning}
	resp = h.do(t, http.MethodPost, "/jobs/"+jobID+"/execute?wait=true", "", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/jobs/"+jobID+"/execute?wait=maybe", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExecuteJob_Async(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodPost, "/jobs/"+jobID+"/execute", "", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	acc := decode[api.ExecuteAccepted](t, resp)
	assert.Equal(t, jobID, acc.JobId)
	assert.Equal(t, []string{jobID}, h.run.submitted)

	h.jobs.job.Status = domain.JobCompleted
	resp = h.do(t, http.MethodPost, "/jobs/"+jobID+"/execute", "", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Len(t, h.run.submitted, 1)
}

func TestGetStats(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodGet, "/stats", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[api.Stats](t, resp)
	assert.Equal(t, 3, st.TotalJobs)
	assert.Equal(t, 2, st.JobsByStatus["completed"])
	assert.InDelta(t, 61.5, st.AverageRiskScore, 1e-9)
}

func TestGetCase(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	c, created, err := h.store.CreateAutoCase(ctx, domain.Case{
		Title: "Auto: infringement on example.com", Status: domain.CaseOpen, RelatedAssetID: assetID,
		SourceMonitoringJobID: ptrTo(jobID),
	})
	require.NoError(t, err)
	require.True(t, created)
	shot := "https://blob.example/surveillance/x.png"
	require.NoError(t, h.store.InsertEvidence(ctx, []domain.EvidenceRecord{
		{Type: domain.EvidenceScreenshot, URL: &shot, AutoGenerated: true, CaseID: &c.ID},
		{Type: domain.EvidenceRiskAnalysis, Payload: json.RawMessage(`{"riskScore":87}`), AutoGenerated: true, CaseID: &c.ID},
	}))

	resp := h.do(t, http.MethodGet, "/cases/"+c.ID, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decode[api.CaseDetail](t, resp)
	assert.True(t, d.Case.AutoGenerated)
	require.Len(t, d.Evidence, 2)

	resp = h.do(t, http.MethodGet, "/cases/not-a-uuid", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEvidenceLedger(t *testing.T) {
	h := newHarness(t, nil)
	c := h.store.PutCase(domain.Case{Title: "Manual", Status: domain.CaseOpen})
	digest := hash.Bytes([]byte("capture"))

	resp := h.do(t, http.MethodPost, "/evidence", "analyst-1", `{
		"caseId":"`+c.ID+`","fileName":"capture.png","mimeType":"image/png","fileSize":2048,
		"fileUrl":"https://evidence.example/capture.png","fileHash":"`+digest+`","tags":["screenshot"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	file := decode[api.EvidenceFile](t, resp)
	assert.Equal(t, "unverified", file.VerificationStatus)
	assert.Equal(t, []string{"screenshot"}, file.Tags)

	stored, err := h.store.GetFile(context.Background(), file.Id)
	require.NoError(t, err)
	assert.Equal(t, "ipwatch-test", stored.UploadContext.UserAgent)

	resp = h.do(t, http.MethodPost, "/evidence/"+file.Id+"/access", "counsel-2", `{"action":"downloaded"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[api.CustodyEntry](t, resp)
	assert.Equal(t, 2, entry.Seq)

	resp = h.do(t, http.MethodPost, "/evidence/"+file.Id+"/access", "counsel-2", `{"action":"deleted"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/evidence/"+file.Id+"/verify", "counsel-2", `{"currentHash":"`+digest+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[api.Verification](t, resp).Valid)

	resp = h.do(t, http.MethodGet, "/evidence/"+file.Id+"/custody", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[api.CustodyReport](t, resp)
	assert.True(t, rep.Chain.Intact)
	assert.Nil(t, rep.Chain.BrokenAt)
	assert.Equal(t, 3, rep.Chain.Entries)
	assert.Equal(t, "valid", rep.File.VerificationStatus)

	h.store.TamperCustody(file.Id, 1, "rewritten")
	resp = h.do(t, http.MethodGet, "/evidence/"+file.Id+"/custody", "", "")
	rep = decode[api.CustodyReport](t, resp)
	assert.False(t, rep.Chain.Intact)
	require.NotNil(t, rep.Chain.BrokenAt)
	assert.Equal(t, 2, *rep.Chain.BrokenAt)
}

func TestGenerateDocument(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodPost, "/workflows/documents", "",
		`{"assetId":"`+assetID+`","documentType":"cease_and_desist","complexity":"simple",
		  "evidence":{"url":"https://shop.example.com","title":"Wednesday merch"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[api.WorkflowResult](t, resp)
	assert.True(t, out.Success)
	assert.Equal(t, workflow.ModelSmall, out.Model)
	require.NotNil(t, out.Document)

	got := h.docs.got
	assert.False(t, got.ValidateInfringement)
	assert.True(t, got.ReviewDocument)
	assert.Equal(t, 1000, got.MaxTokens)
	assert.Equal(t, "Wednesday", got.Asset.Title)
	require.NotNil(t, got.Evidence)
	assert.Equal(t, "Wednesday merch", got.Evidence.PageTitle)
}

func TestGenerateDocument_Defaults(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodPost, "/workflows/documents", "",
		`{"assetId":"`+assetID+`","documentType":"dmca_takedown","reviewDocument":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "llama3-70b-8192", decode[api.WorkflowResult](t, resp).Model)
	assert.True(t, h.docs.got.ValidateInfringement)
	assert.False(t, h.docs.got.ReviewDocument)
	assert.Empty(t, h.docs.got.Model)
}

func TestGenerateDocument_Failures(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodPost, "/workflows/documents", "", `{"assetId":"`+assetID+`","documentType":" "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/workflows/documents", "", `{"assetId":"missing","documentType":"dmca_takedown"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	h.docs.err = errors.New("step 3 review document: completion timed out")
	resp = h.do(t, http.MethodPost, "/workflows/documents", "", `{"assetId":"`+assetID+`","documentType":"dmca_takedown"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[api.WorkflowResult](t, resp)
	assert.False(t, out.Success)
	require.NotNil(t, out.Error)
	assert.Contains(t, *out.Error, "step 3")
	assert.Len(t, out.Steps, 1)
}

func TestWorkflowUsageAndJurisdiction(t *testing.T) {
	h := newHarness(t, nil)
	h.docs.usage.Add(2000)
	resp := h.do(t, http.MethodGet, "/workflows/usage", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	u := decode[api.UsageStats](t, resp)
	assert.Equal(t, 2000, u.TotalTokens)
	assert.InDelta(t, 1.0, u.EstimatedCost, 1e-9)

	resp = h.do(t, http.MethodGet, "/workflows/jurisdictions/de", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	j := decode[api.JurisdictionCheck](t, resp)
	assert.Equal(t, "DE", j.Jurisdiction)
	assert.True(t, j.IsSupported)
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Close()
	h := newHarness(t, rl)

	resp := h.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = h.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("Retry-After"))
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	defer rl.Close()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	rl.limiter("203.0.113.7")
	clock = clock.Add(5 * time.Minute)
	rl.limiter("198.51.100.2")

	rl.evict(clock.Add(-visitorTTL))
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "203.0.113.7")
	assert.Contains(t, rl.visitors, "198.51.100.2")
}

func ptrTo[T any](v T) *T { return &v }

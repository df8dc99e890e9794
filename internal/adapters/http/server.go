package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	api "ipwatch/internal/api"
	"ipwatch/internal/domain"
	"ipwatch/internal/ports"
	"ipwatch/internal/services/ledger"
	"ipwatch/internal/services/monitoring"
	"ipwatch/internal/services/workflow"
)

// Jobs is the monitoring job service.
type Jobs interface {
	CreateJob(ctx context.Context, rawURL, assetID, actorID string) (domain.Job, error)
	GetJob(ctx context.Context, id string) (monitoring.JobDetail, error)
	Stats(ctx context.Context) (domain.JobStats, error)
}

// Runner executes jobs through the bounded pool.
type Runner interface {
	Execute(ctx context.Context, id string) (monitoring.ExecutionResult, error)
	Submit(id string) bool
}

type Cases interface {
	GetCase(ctx context.Context, id string) (domain.Case, error)
	ListEvidence(ctx context.Context, caseID string) ([]domain.EvidenceRecord, error)
}

type Ledger interface {
	RegisterUpload(ctx context.Context, in ledger.UploadInput, actor string) (domain.EvidenceFile, error)
	LogAccess(ctx context.Context, evidenceID string, action domain.CustodyAction, actor, details string) (domain.CustodyEntry, error)
	VerifyIntegrity(ctx context.Context, evidenceID, actor, currentHash string) (ledger.Verification, error)
	ChainOfCustody(ctx context.Context, evidenceID string) (ledger.Report, error)
}

type Documents interface {
	GenerateDocument(ctx context.Context, req workflow.Request) (workflow.Result, error)
	Usage() *workflow.UsageCounter
}

type Deps struct {
	Jobs      Jobs
	Runner    Runner
	Cases     Cases
	Ledger    Ledger
	Documents Documents
	Assets    ports.AssetRepository
	// DefaultModel is reported when a workflow request does not pick one.
	DefaultModel string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Limiter *RateLimiter
	Logger  *slog.Logger
}

// Server implements the generated StrictServerInterface.
type Server struct {
	Deps
}

var _ api.StrictServerInterface = (*Server)(nil)

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	d.Logger = d.Logger.With("component", "http")
	return &Server{Deps: d}
}

// Routes returns a chi.Router mounting the generated handlers.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	if s.Limiter != nil {
		r.Use(s.Limiter.Middleware)
	}
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	handler := api.NewStrictHandlerWithOptions(s, []api.StrictMiddlewareFunc{withClient}, problemHandlers(s.Logger))
	api.HandlerWithOptions(handler, api.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: paramError,
	})
	return r
}

func (s *Server) GetHealthz(ctx context.Context, _ api.GetHealthzRequestObject) (api.GetHealthzResponseObject, error) {
	return api.GetHealthz200JSONResponse{Status: "ok"}, nil
}

func (s *Server) CreateJob(ctx context.Context, req api.CreateJobRequestObject) (api.CreateJobResponseObject, error) {
	if req.Body == nil {
		return nil, &badRequest{msg: "missing body"}
	}
	job, err := s.Jobs.CreateJob(ctx, req.Body.Url, req.Body.AssetId, req.Params.XActorID)
	if err != nil {
		return nil, err
	}
	return api.CreateJob201JSONResponse(toJob(job)), nil
}

func (s *Server) GetJob(ctx context.Context, req api.GetJobRequestObject) (api.GetJobResponseObject, error) {
	d, err := s.Jobs.GetJob(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	logs := make([]api.MonitoringLog, 0, len(d.Logs))
	for _, l := range d.Logs {
		logs = append(logs, toLog(l))
	}
	return api.GetJob200JSONResponse{Job: toJob(d.Job), Logs: logs}, nil
}

func (s *Server) ExecuteJob(ctx context.Context, req api.ExecuteJobRequestObject) (api.ExecuteJobResponseObject, error) {
	if deref(req.Params.Wait) {
		res, err := s.Runner.Execute(ctx, req.Id)
		if err != nil {
			return nil, err
		}
		return api.ExecuteJob200JSONResponse(toExecution(res)), nil
	}

	d, err := s.Jobs.GetJob(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if d.Job.Status != domain.JobPending {
		return nil, &domain.ConflictError{JobID: d.Job.ID, Status: d.Job.Status}
	}
	if !s.Runner.Submit(d.Job.ID) {
		s.Logger.Debug("job already queued", "job_id", d.Job.ID)
	}
	return api.ExecuteJob202JSONResponse{JobId: d.Job.ID, Status: string(domain.JobPending)}, nil
}

func (s *Server) GetStats(ctx context.Context, _ api.GetStatsRequestObject) (api.GetStatsResponseObject, error) {
	st, err := s.Jobs.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return api.GetStats200JSONResponse(toStats(st)), nil
}

func (s *Server) GetCase(ctx context.Context, req api.GetCaseRequestObject) (api.GetCaseResponseObject, error) {
	if _, err := uuid.Parse(req.Id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := s.Cases.GetCase(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	records, err := s.Cases.ListEvidence(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	evidence := make([]api.EvidenceRecord, 0, len(records))
	for _, r := range records {
		evidence = append(evidence, toEvidence(r))
	}
	return api.GetCase200JSONResponse{Case: toCase(c), Evidence: evidence}, nil
}

func (s *Server) RegisterEvidence(ctx context.Context, req api.RegisterEvidenceRequestObject) (api.RegisterEvidenceResponseObject, error) {
	b := req.Body
	if b == nil {
		return nil, &badRequest{msg: "missing body"}
	}
	in := ledger.UploadInput{
		CaseID:           b.CaseId,
		FileName:         b.FileName,
		OriginalFileName: deref(b.OriginalFileName),
		MimeType:         b.MimeType,
		FileSize:         b.FileSize,
		FileURL:          b.FileUrl,
		Title:            b.Title,
		Description:      b.Description,
		Tags:             deref(b.Tags),
		Hash:             b.FileHash,
		HashAlgorithm:    deref(b.HashAlgorithm),
		Context:          uploadContext(ctx, b.UploadContext),
	}
	f, err := s.Ledger.RegisterUpload(ctx, in, req.Params.XActorID)
	if err != nil {
		return nil, err
	}
	return api.RegisterEvidence201JSONResponse(toFile(f)), nil
}

func (s *Server) LogEvidenceAccess(ctx context.Context, req api.LogEvidenceAccessRequestObject) (api.LogEvidenceAccessResponseObject, error) {
	if req.Body == nil {
		return nil, &badRequest{msg: "missing body"}
	}
	e, err := s.Ledger.LogAccess(ctx, req.Id, domain.CustodyAction(req.Body.Action), req.Params.XActorID, deref(req.Body.Details))
	if err != nil {
		return nil, err
	}
	return api.LogEvidenceAccess201JSONResponse(toCustody(e)), nil
}

func (s *Server) VerifyEvidence(ctx context.Context, req api.VerifyEvidenceRequestObject) (api.VerifyEvidenceResponseObject, error) {
	if req.Body == nil {
		return nil, &badRequest{msg: "missing body"}
	}
	v, err := s.Ledger.VerifyIntegrity(ctx, req.Id, req.Params.XActorID, req.Body.CurrentHash)
	if err != nil {
		return nil, err
	}
	return api.VerifyEvidence200JSONResponse{
		Valid:        v.Valid,
		OriginalHash: v.OriginalHash,
		CurrentHash:  v.CurrentHash,
		VerifiedAt:   v.VerifiedAt,
	}, nil
}

func (s *Server) GetCustodyReport(ctx context.Context, req api.GetCustodyReportRequestObject) (api.GetCustodyReportResponseObject, error) {
	r, err := s.Ledger.ChainOfCustody(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	return api.GetCustodyReport200JSONResponse(toReport(r)), nil
}

// GenerateDocument runs the drafting workflow. A run that fails part way is
// still a 200; the body carries success=false and the completed steps.
func (s *Server) GenerateDocument(ctx context.Context, req api.GenerateDocumentRequestObject) (api.GenerateDocumentResponseObject, error) {
	b := req.Body
	if b == nil {
		return nil, &badRequest{msg: "missing body"}
	}
	if strings.TrimSpace(b.DocumentType) == "" {
		return nil, domain.Invalid("documentType is required")
	}
	asset, err := s.Assets.GetAsset(ctx, b.AssetId)
	if err != nil {
		return nil, err
	}

	validate, review := true, true
	model, maxTokens := "", 0
	if b.Complexity != nil {
		p := workflow.PlanWorkflow(*b.Complexity, deref(b.BudgetUsd), deref(b.Urgent))
		validate, review = p.ValidateInfringement, p.ReviewDocument
		model, maxTokens = p.Model, p.MaxTokens
	}
	if b.ValidateInfringement != nil {
		validate = *b.ValidateInfringement
	}
	if b.ReviewDocument != nil {
		review = *b.ReviewDocument
	}

	res, err := s.Documents.GenerateDocument(ctx, workflow.Request{
		CaseID:               b.CaseId,
		DocumentType:         b.DocumentType,
		Jurisdiction:         deref(b.Jurisdiction),
		Tone:                 deref(b.Tone),
		CaseDetails:          deref(b.CaseDetails),
		Asset:                asset,
		Evidence:             fromSnapshot(b.Evidence),
		ValidateInfringement: validate,
		ReviewDocument:       review,
		Model:                model,
		MaxTokens:            maxTokens,
	})
	if err != nil {
		s.Logger.Warn("document workflow incomplete", "run_id", res.Run.ID, "err", err)
	}
	if model == "" {
		model = s.DefaultModel
	}
	return api.GenerateDocument200JSONResponse(toWorkflow(res, model)), nil
}

func (s *Server) GetWorkflowUsage(ctx context.Context, _ api.GetWorkflowUsageRequestObject) (api.GetWorkflowUsageResponseObject, error) {
	return api.GetWorkflowUsage200JSONResponse(toUsage(s.Documents.Usage().Stats())), nil
}

func (s *Server) ValidateJurisdiction(ctx context.Context, req api.ValidateJurisdictionRequestObject) (api.ValidateJurisdictionResponseObject, error) {
	return api.ValidateJurisdiction200JSONResponse(toJurisdiction(workflow.ValidateJurisdiction(req.Code))), nil
}

type clientKey struct{}

type client struct {
	userAgent string
	ip        string
}

// withClient copies the caller's address and user agent into the context so
// handlers can record them.
func withClient(f api.StrictHandlerFunc, _ string) api.StrictHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		ctx = context.WithValue(ctx, clientKey{}, client{userAgent: r.UserAgent(), ip: clientIP(r)})
		return f(ctx, w, r, request)
	}
}

func uploadContext(ctx context.Context, in *api.UploadContext) domain.UploadContext {
	c, _ := ctx.Value(clientKey{}).(client)
	out := domain.UploadContext{UserAgent: c.userAgent, IPAddress: c.ip}
	if in == nil {
		return out
	}
	if in.UserAgent != nil {
		out.UserAgent = *in.UserAgent
	}
	if in.IpAddress != nil {
		out.IPAddress = *in.IpAddress
	}
	out.DeviceInfo = deref(in.DeviceInfo)
	return out
}

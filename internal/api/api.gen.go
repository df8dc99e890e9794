// Package api provides primitives to interact with the openapi HTTP API.
//
// Laid out as oapi-codegen v2.5.1 emits it for cfg.yaml. Running go generate
// replaces this file; TestRoutesMatchOpenAPI keeps the two in step until then.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	strictnethttp "github.com/oapi-codegen/runtime/strictmiddleware/nethttp"
)

// Defines values for AccessRequestAction.
const (
	AccessRequestActionDownloaded AccessRequestAction = "downloaded"
	AccessRequestActionModified   AccessRequestAction = "modified"
	AccessRequestActionShared     AccessRequestAction = "shared"
	AccessRequestActionViewed     AccessRequestAction = "viewed"
)

// Defines values for JobStatus.
const (
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
)

// AccessRequest defines model for AccessRequest.
type AccessRequest struct {
	Action  AccessRequestAction `json:"action"`
	Details *string             `json:"details,omitempty"`
}

// AccessRequestAction defines model for AccessRequest.Action.
type AccessRequestAction string

// Case defines model for Case.
type Case struct {
	AutoGenerated         bool      `json:"autoGenerated"`
	CreatedAt             time.Time `json:"createdAt"`
	CreatedBy             string    `json:"createdBy"`
	Description           string    `json:"description"`
	Id                    string    `json:"id"`
	RelatedAssetId        string    `json:"relatedAssetId"`
	SourceMonitoringJobId *string   `json:"sourceMonitoringJobId,omitempty"`
	Status                string    `json:"status"`
	SuspectedUrl          string    `json:"suspectedUrl"`
	Title                 string    `json:"title"`
}

// CaseDetail defines model for CaseDetail.
type CaseDetail struct {
	Case     Case             `json:"case"`
	Evidence []EvidenceRecord `json:"evidence"`
}

// ChainStatus defines model for ChainStatus.
type ChainStatus struct {
	BrokenAt *int `json:"brokenAt,omitempty"`
	Entries  int  `json:"entries"`
	Intact   bool `json:"intact"`
}

// CreateJobRequest defines model for CreateJobRequest.
type CreateJobRequest struct {
	AssetId string `json:"assetId"`
	Url     string `json:"url"`
}

// CustodyEntry defines model for CustodyEntry.
type CustodyEntry struct {
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	ChainHash  string    `json:"chainHash"`
	Details    string    `json:"details"`
	EvidenceId string    `json:"evidenceId"`
	PrevHash   string    `json:"prevHash"`
	Seq        int       `json:"seq"`
	Timestamp  time.Time `json:"timestamp"`
}

// CustodyReport defines model for CustodyReport.
type CustodyReport struct {
	Chain       ChainStatus    `json:"chain"`
	File        EvidenceFile   `json:"file"`
	GeneratedAt time.Time      `json:"generatedAt"`
	History     []CustodyEntry `json:"history"`
}

// EvidenceFile defines model for EvidenceFile.
type EvidenceFile struct {
	CaseId             string     `json:"caseId"`
	Description        *string    `json:"description,omitempty"`
	FileHash           string     `json:"fileHash"`
	FileName           string     `json:"fileName"`
	FileSize           int64      `json:"fileSize"`
	FileUrl            string     `json:"fileUrl"`
	HashAlgorithm      string     `json:"hashAlgorithm"`
	Id                 string     `json:"id"`
	LastVerified       *time.Time `json:"lastVerified,omitempty"`
	MimeType           string     `json:"mimeType"`
	OriginalFileName   string     `json:"originalFileName"`
	Tags               []string   `json:"tags"`
	Title              *string    `json:"title,omitempty"`
	UploadedAt         time.Time  `json:"uploadedAt"`
	UploadedBy         string     `json:"uploadedBy"`
	VerificationStatus string     `json:"verificationStatus"`
}

// EvidenceRecord defines model for EvidenceRecord.
type EvidenceRecord struct {
	AutoGenerated   bool                    `json:"autoGenerated"`
	CreatedAt       time.Time               `json:"createdAt"`
	Id              string                  `json:"id"`
	MonitoringLogId *string                 `json:"monitoringLogId,omitempty"`
	Payload         *map[string]interface{} `json:"payload,omitempty"`
	Type            string                  `json:"type"`
	Url             *string                 `json:"url,omitempty"`
}

// EvidenceSnapshot defines model for EvidenceSnapshot.
type EvidenceSnapshot struct {
	MetaDescription *string `json:"metaDescription,omitempty"`
	TextContent     *string `json:"textContent,omitempty"`
	Title           *string `json:"title,omitempty"`
	Url             string  `json:"url"`
}

// ExecuteAccepted defines model for ExecuteAccepted.
type ExecuteAccepted struct {
	JobId  string `json:"jobId"`
	Status string `json:"status"`
}

// ExecutionResult defines model for ExecutionResult.
type ExecutionResult struct {
	Assessment      RiskAssessment `json:"assessment"`
	AutoCaseCreated bool           `json:"autoCaseCreated"`
	AutoCaseId      *string        `json:"autoCaseId,omitempty"`
	Job             Job            `json:"job"`
	Log             MonitoringLog  `json:"log"`
}

// GenerateDocumentRequest defines model for GenerateDocumentRequest.
type GenerateDocumentRequest struct {
	AssetId              string            `json:"assetId"`
	BudgetUsd            *float64          `json:"budgetUsd,omitempty"`
	CaseDetails          *string           `json:"caseDetails,omitempty"`
	CaseId               *string           `json:"caseId,omitempty"`
	Complexity           *string           `json:"complexity,omitempty"`
	DocumentType         string            `json:"documentType"`
	Evidence             *EvidenceSnapshot `json:"evidence,omitempty"`
	Jurisdiction         *string           `json:"jurisdiction,omitempty"`
	ReviewDocument       *bool             `json:"reviewDocument,omitempty"`
	Tone                 *string           `json:"tone,omitempty"`
	Urgent               *bool             `json:"urgent,omitempty"`
	ValidateInfringement *bool             `json:"validateInfringement,omitempty"`
}

// Health defines model for Health.
type Health struct {
	Status string `json:"status"`
}

// Job defines model for Job.
type Job struct {
	AssetId      string     `json:"assetId"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	Id           string     `json:"id"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	Status       JobStatus  `json:"status"`
	TargetDomain string     `json:"targetDomain"`
	TargetUrl    string     `json:"targetUrl"`
}

// JobDetail defines model for JobDetail.
type JobDetail struct {
	Job  Job             `json:"job"`
	Logs []MonitoringLog `json:"logs"`
}

// JobStatus defines model for JobStatus.
type JobStatus string

// JurisdictionCheck defines model for JurisdictionCheck.
type JurisdictionCheck struct {
	IsSupported            bool     `json:"isSupported"`
	Jurisdiction           string   `json:"jurisdiction"`
	Recommendation         string   `json:"recommendation"`
	SupportedJurisdictions []string `json:"supportedJurisdictions"`
}

// MonitoringLog defines model for MonitoringLog.
type MonitoringLog struct {
	AutoCaseId    *string                 `json:"autoCaseId,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	Id            string                  `json:"id"`
	JobId         string                  `json:"jobId"`
	Metadata      *map[string]interface{} `json:"metadata,omitempty"`
	Result        string                  `json:"result"`
	RiskScore     int                     `json:"riskScore"`
	ScreenshotUrl *string                 `json:"screenshotUrl,omitempty"`
}

// Problem defines model for Problem.
type Problem struct {
	Detail   *string `json:"detail,omitempty"`
	Instance *string `json:"instance,omitempty"`
	Status   int     `json:"status"`
	Title    string  `json:"title"`
	Type     string  `json:"type"`
}

// RegisterEvidenceRequest defines model for RegisterEvidenceRequest.
type RegisterEvidenceRequest struct {
	CaseId           string         `json:"caseId"`
	Description      *string        `json:"description,omitempty"`
	FileHash         string         `json:"fileHash"`
	FileName         string         `json:"fileName"`
	FileSize         int64          `json:"fileSize"`
	FileUrl          string         `json:"fileUrl"`
	HashAlgorithm    *string        `json:"hashAlgorithm,omitempty"`
	MimeType         string         `json:"mimeType"`
	OriginalFileName *string        `json:"originalFileName,omitempty"`
	Tags             *[]string      `json:"tags,omitempty"`
	Title            *string        `json:"title,omitempty"`
	UploadContext    *UploadContext `json:"uploadContext,omitempty"`
}

// RiskAssessment defines model for RiskAssessment.
type RiskAssessment struct {
	Confidence         *int         `json:"confidence,omitempty"`
	EvidenceQuality    *string      `json:"evidenceQuality,omitempty"`
	Factors            []RiskFactor `json:"factors"`
	InfringementLikely *bool        `json:"infringementLikely,omitempty"`
	LegalBasis         *string      `json:"legalBasis,omitempty"`
	OverallRiskScore   int          `json:"overallRiskScore"`
	Recommendation     string       `json:"recommendation"`
	Strength           *string      `json:"strength,omitempty"`
	Summary            string       `json:"summary"`
	TokensUsed         int          `json:"tokensUsed"`
}

// RiskFactor defines model for RiskFactor.
type RiskFactor struct {
	Contribution float64 `json:"contribution"`
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
}

// Stats defines model for Stats.
type Stats struct {
	AverageRiskScore float64        `json:"averageRiskScore"`
	HighRiskCount    int            `json:"highRiskCount"`
	JobsByStatus     map[string]int `json:"jobsByStatus"`
	TotalJobs        int            `json:"totalJobs"`
}

// UploadContext defines model for UploadContext.
type UploadContext struct {
	DeviceInfo *string `json:"deviceInfo,omitempty"`
	IpAddress  *string `json:"ipAddress,omitempty"`
	UserAgent  *string `json:"userAgent,omitempty"`
}

// UsageStats defines model for UsageStats.
type UsageStats struct {
	AverageTokensPerMinute float64 `json:"averageTokensPerMinute"`
	CostPerHour            float64 `json:"costPerHour"`
	EstimatedCost          float64 `json:"estimatedCost"`
	SessionDurationSeconds float64 `json:"sessionDurationSeconds"`
	TotalTokens            int     `json:"totalTokens"`
}

// Verification defines model for Verification.
type Verification struct {
	CurrentHash  string    `json:"currentHash"`
	OriginalHash string    `json:"originalHash"`
	Valid        bool      `json:"valid"`
	VerifiedAt   time.Time `json:"verifiedAt"`
}

// VerifyRequest defines model for VerifyRequest.
type VerifyRequest struct {
	CurrentHash string `json:"currentHash"`
}

// WorkflowResult defines model for WorkflowResult.
type WorkflowResult struct {
	ApprovalRecommendation *string        `json:"approvalRecommendation,omitempty"`
	Document               *string        `json:"document,omitempty"`
	Error                  *string        `json:"error,omitempty"`
	Model                  string         `json:"model"`
	Recommendation         *string        `json:"recommendation,omitempty"`
	RiskScore              *int           `json:"riskScore,omitempty"`
	RunId                  string         `json:"runId"`
	Steps                  []WorkflowStep `json:"steps"`
	Success                bool           `json:"success"`
	TotalCost              float64        `json:"totalCost"`
	TotalTokens            int            `json:"totalTokens"`
}

// WorkflowStep defines model for WorkflowStep.
type WorkflowStep struct {
	Action     string `json:"action"`
	Agent      string `json:"agent"`
	Result     string `json:"result"`
	Step       int    `json:"step"`
	TokensUsed int    `json:"tokensUsed"`
}

// ActorID defines model for ActorID.
type ActorID = string

// ID defines model for ID.
type ID = string

// RegisterEvidenceParams defines parameters for RegisterEvidence.
type RegisterEvidenceParams struct {
	XActorID ActorID `json:"X-Actor-ID"`
}

// LogEvidenceAccessParams defines parameters for LogEvidenceAccess.
type LogEvidenceAccessParams struct {
	XActorID ActorID `json:"X-Actor-ID"`
}

// VerifyEvidenceParams defines parameters for VerifyEvidence.
type VerifyEvidenceParams struct {
	XActorID ActorID `json:"X-Actor-ID"`
}

// CreateJobParams defines parameters for CreateJob.
type CreateJobParams struct {
	XActorID ActorID `json:"X-Actor-ID"`
}

// ExecuteJobParams defines parameters for ExecuteJob.
type ExecuteJobParams struct {
	Wait *bool `form:"wait,omitempty" json:"wait,omitempty"`
}

// RegisterEvidenceJSONRequestBody defines body for RegisterEvidence for application/json ContentType.
type RegisterEvidenceJSONRequestBody = RegisterEvidenceRequest

// LogEvidenceAccessJSONRequestBody defines body for LogEvidenceAccess for application/json ContentType.
type LogEvidenceAccessJSONRequestBody = AccessRequest

// VerifyEvidenceJSONRequestBody defines body for VerifyEvidence for application/json ContentType.
type VerifyEvidenceJSONRequestBody = VerifyRequest

// CreateJobJSONRequestBody defines body for CreateJob for application/json ContentType.
type CreateJobJSONRequestBody = CreateJobRequest

// GenerateDocumentJSONRequestBody defines body for GenerateDocument for application/json ContentType.
type GenerateDocumentJSONRequestBody = GenerateDocumentRequest

// ServerInterface represents all server handlers.
type ServerInterface interface {

	// (GET /cases/{id})
	GetCase(w http.ResponseWriter, r *http.Request, id ID)

	// (POST /evidence)
	RegisterEvidence(w http.ResponseWriter, r *http.Request, params RegisterEvidenceParams)

	// (POST /evidence/{id}/access)
	LogEvidenceAccess(w http.ResponseWriter, r *http.Request, id ID, params LogEvidenceAccessParams)

	// (GET /evidence/{id}/custody)
	GetCustodyReport(w http.ResponseWriter, r *http.Request, id ID)

	// (POST /evidence/{id}/verify)
	VerifyEvidence(w http.ResponseWriter, r *http.Request, id ID, params VerifyEvidenceParams)

	// (GET /healthz)
	GetHealthz(w http.ResponseWriter, r *http.Request)

	// (POST /jobs)
	CreateJob(w http.ResponseWriter, r *http.Request, params CreateJobParams)

	// (GET /jobs/{id})
	GetJob(w http.ResponseWriter, r *http.Request, id ID)

	// (POST /jobs/{id}/execute)
	ExecuteJob(w http.ResponseWriter, r *http.Request, id ID, params ExecuteJobParams)

	// (GET /stats)
	GetStats(w http.ResponseWriter, r *http.Request)

	// (POST /workflows/documents)
	GenerateDocument(w http.ResponseWriter, r *http.Request)

	// (GET /workflows/jurisdictions/{code})
	ValidateJurisdiction(w http.ResponseWriter, r *http.Request, code string)

	// (GET /workflows/usage)
	GetWorkflowUsage(w http.ResponseWriter, r *http.Request)
}

// Unimplemented server implementation that returns http.StatusNotImplemented for each endpoint.

type Unimplemented struct{}

// (GET /cases/{id})
func (_ Unimplemented) GetCase(w http.ResponseWriter, r *http.Request, id ID) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (POST /evidence)
func (_ Unimplemented) RegisterEvidence(w http.ResponseWriter, r *http.Request, params RegisterEvidenceParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (POST /evidence/{id}/access)
func (_ Unimplemented) LogEvidenceAccess(w http.ResponseWriter, r *http.Request, id ID, params LogEvidenceAccessParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /evidence/{id}/custody)
func (_ Unimplemented) GetCustodyReport(w http.ResponseWriter, r *http.Request, id ID) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (POST /evidence/{id}/verify)
func (_ Unimplemented) VerifyEvidence(w http.ResponseWriter, r *http.Request, id ID, params VerifyEvidenceParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /healthz)
func (_ Unimplemented) GetHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (POST /jobs)
func (_ Unimplemented) CreateJob(w http.ResponseWriter, r *http.Request, params CreateJobParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /jobs/{id})
func (_ Unimplemented) GetJob(w http.ResponseWriter, r *http.Request, id ID) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (POST /jobs/{id}/execute)
func (_ Unimplemented) ExecuteJob(w http.ResponseWriter, r *http.Request, id ID, params ExecuteJobParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /stats)
func (_ Unimplemented) GetStats(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (POST /workflows/documents)
func (_ Unimplemented) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /workflows/jurisdictions/{code})
func (_ Unimplemented) ValidateJurisdiction(w http.ResponseWriter, r *http.Request, code string) {
	w.WriteHeader(http.StatusNotImplemented)
}

// (GET /workflows/usage)
func (_ Unimplemented) GetWorkflowUsage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// GetCase operation middleware
func (siw *ServerInterfaceWrapper) GetCase(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "id" -------------
	var id ID

	err = runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetCase(w, r, id)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// RegisterEvidence operation middleware
func (siw *ServerInterfaceWrapper) RegisterEvidence(w http.ResponseWriter, r *http.Request) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params RegisterEvidenceParams

	headers := r.Header

	// ------------- Required header parameter "X-Actor-ID" -------------
	if valueList, found := headers[http.CanonicalHeaderKey("X-Actor-ID")]; found {
		var XActorID ActorID
		n := len(valueList)
		if n != 1 {
			siw.ErrorHandlerFunc(w, r, &TooManyValuesForParamError{ParamName: "X-Actor-ID", Count: n})
			return
		}

		err = runtime.BindStyledParameterWithOptions("simple", "X-Actor-ID", valueList[0], &XActorID, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "X-Actor-ID", Err: err})
			return
		}

		params.XActorID = XActorID

	} else {
		err := fmt.Errorf("Header parameter X-Actor-ID is required, but not found")
		siw.ErrorHandlerFunc(w, r, &RequiredHeaderError{ParamName: "X-Actor-ID", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.RegisterEvidence(w, r, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// LogEvidenceAccess operation middleware
func (siw *ServerInterfaceWrapper) LogEvidenceAccess(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "id" -------------
	var id ID

	err = runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params LogEvidenceAccessParams

	headers := r.Header

	// ------------- Required header parameter "X-Actor-ID" -------------
	if valueList, found := headers[http.CanonicalHeaderKey("X-Actor-ID")]; found {
		var XActorID ActorID
		n := len(valueList)
		if n != 1 {
			siw.ErrorHandlerFunc(w, r, &TooManyValuesForParamError{ParamName: "X-Actor-ID", Count: n})
			return
		}

		err = runtime.BindStyledParameterWithOptions("simple", "X-Actor-ID", valueList[0], &XActorID, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "X-Actor-ID", Err: err})
			return
		}

		params.XActorID = XActorID

	} else {
		err := fmt.Errorf("Header parameter X-Actor-ID is required, but not found")
		siw.ErrorHandlerFunc(w, r, &RequiredHeaderError{ParamName: "X-Actor-ID", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.LogEvidenceAccess(w, r, id, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetCustodyReport operation middleware
func (siw *ServerInterfaceWrapper) GetCustodyReport(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "id" -------------
	var id ID

	err = runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetCustodyReport(w, r, id)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// VerifyEvidence operation middleware
func (siw *ServerInterfaceWrapper) VerifyEvidence(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "id" -------------
	var id ID

	err = runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params VerifyEvidenceParams

	headers := r.Header

	// ------------- Required header parameter "X-Actor-ID" -------------
	if valueList, found := headers[http.CanonicalHeaderKey("X-Actor-ID")]; found {
		var XActorID ActorID
		n := len(valueList)
		if n != 1 {
			siw.ErrorHandlerFunc(w, r, &TooManyValuesForParamError{ParamName: "X-Actor-ID", Count: n})
			return
		}

		err = runtime.BindStyledParameterWithOptions("simple", "X-Actor-ID", valueList[0], &XActorID, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "X-Actor-ID", Err: err})
			return
		}

		params.XActorID = XActorID

	} else {
		err := fmt.Errorf("Header parameter X-Actor-ID is required, but not found")
		siw.ErrorHandlerFunc(w, r, &RequiredHeaderError{ParamName: "X-Actor-ID", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.VerifyEvidence(w, r, id, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetHealthz operation middleware
func (siw *ServerInterfaceWrapper) GetHealthz(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetHealthz(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// CreateJob operation middleware
func (siw *ServerInterfaceWrapper) CreateJob(w http.ResponseWriter, r *http.Request) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params CreateJobParams

	headers := r.Header

	// ------------- Required header parameter "X-Actor-ID" -------------
	if valueList, found := headers[http.CanonicalHeaderKey("X-Actor-ID")]; found {
		var XActorID ActorID
		n := len(valueList)
		if n != 1 {
			siw.ErrorHandlerFunc(w, r, &TooManyValuesForParamError{ParamName: "X-Actor-ID", Count: n})
			return
		}

		err = runtime.BindStyledParameterWithOptions("simple", "X-Actor-ID", valueList[0], &XActorID, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "X-Actor-ID", Err: err})
			return
		}

		params.XActorID = XActorID

	} else {
		err := fmt.Errorf("Header parameter X-Actor-ID is required, but not found")
		siw.ErrorHandlerFunc(w, r, &RequiredHeaderError{ParamName: "X-Actor-ID", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CreateJob(w, r, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetJob operation middleware
func (siw *ServerInterfaceWrapper) GetJob(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "id" -------------
	var id ID

	err = runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetJob(w, r, id)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// ExecuteJob operation middleware
func (siw *ServerInterfaceWrapper) ExecuteJob(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "id" -------------
	var id ID

	err = runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params ExecuteJobParams

	// ------------- Optional query parameter "wait" -------------

	err = runtime.BindQueryParameter("form", true, false, "wait", r.URL.Query(), &params.Wait)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "wait", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ExecuteJob(w, r, id, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetStats operation middleware
func (siw *ServerInterfaceWrapper) GetStats(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetStats(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GenerateDocument operation middleware
func (siw *ServerInterfaceWrapper) GenerateDocument(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GenerateDocument(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// ValidateJurisdiction operation middleware
func (siw *ServerInterfaceWrapper) ValidateJurisdiction(w http.ResponseWriter, r *http.Request) {

	var err error

	// ------------- Path parameter "code" -------------
	var code string

	err = runtime.BindStyledParameterWithOptions("simple", "code", chi.URLParam(r, "code"), &code, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "code", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ValidateJurisdiction(w, r, code)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetWorkflowUsage operation middleware
func (siw *ServerInterfaceWrapper) GetWorkflowUsage(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetWorkflowUsage(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

type UnescapedCookieParamError struct {
	ParamName string
	Err       error
}

func (e *UnescapedCookieParamError) Error() string {
	return fmt.Sprintf("error unescaping cookie parameter '%s'", e.ParamName)
}

func (e *UnescapedCookieParamError) Unwrap() error {
	return e.Err
}

type UnmarshalingParamError struct {
	ParamName string
	Err       error
}

func (e *UnmarshalingParamError) Error() string {
	return fmt.Sprintf("Error unmarshaling parameter %s as JSON: %s", e.ParamName, e.Err.Error())
}

func (e *UnmarshalingParamError) Unwrap() error {
	return e.Err
}

type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("Query argument %s is required, but not found", e.ParamName)
}

type RequiredHeaderError struct {
	ParamName string
	Err       error
}

func (e *RequiredHeaderError) Error() string {
	return fmt.Sprintf("Header parameter %s is required, but not found", e.ParamName)
}

func (e *RequiredHeaderError) Unwrap() error {
	return e.Err
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type TooManyValuesForParamError struct {
	ParamName string
	Count     int
}

func (e *TooManyValuesForParamError) Error() string {
	return fmt.Sprintf("Expected one value for %s, got %d", e.ParamName, e.Count)
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

func HandlerFromMuxWithBaseURL(si ServerInterface, r chi.Router, baseURL string) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseURL:    baseURL,
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/cases/{id}", wrapper.GetCase)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/evidence", wrapper.RegisterEvidence)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/evidence/{id}/access", wrapper.LogEvidenceAccess)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/evidence/{id}/custody", wrapper.GetCustodyReport)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/evidence/{id}/verify", wrapper.VerifyEvidence)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/healthz", wrapper.GetHealthz)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/jobs", wrapper.CreateJob)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/jobs/{id}", wrapper.GetJob)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/jobs/{id}/execute", wrapper.ExecuteJob)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/stats", wrapper.GetStats)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/workflows/documents", wrapper.GenerateDocument)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/workflows/jurisdictions/{code}", wrapper.ValidateJurisdiction)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/workflows/usage", wrapper.GetWorkflowUsage)
	})

	return r
}

type GetCaseRequestObject struct {
	Id ID `json:"id"`
}

type GetCaseResponseObject interface {
	VisitGetCaseResponse(w http.ResponseWriter) error
}

type GetCase200JSONResponse CaseDetail

func (response GetCase200JSONResponse) VisitGetCaseResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type RegisterEvidenceRequestObject struct {
	Params RegisterEvidenceParams
	Body   *RegisterEvidenceJSONRequestBody
}

type RegisterEvidenceResponseObject interface {
	VisitRegisterEvidenceResponse(w http.ResponseWriter) error
}

type RegisterEvidence201JSONResponse EvidenceFile

func (response RegisterEvidence201JSONResponse) VisitRegisterEvidenceResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(201)

	return json.NewEncoder(w).Encode(response)
}

type LogEvidenceAccessRequestObject struct {
	Id     ID `json:"id"`
	Params LogEvidenceAccessParams
	Body   *LogEvidenceAccessJSONRequestBody
}

type LogEvidenceAccessResponseObject interface {
	VisitLogEvidenceAccessResponse(w http.ResponseWriter) error
}

type LogEvidenceAccess201JSONResponse CustodyEntry

func (response LogEvidenceAccess201JSONResponse) VisitLogEvidenceAccessResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(201)

	return json.NewEncoder(w).Encode(response)
}

type GetCustodyReportRequestObject struct {
	Id ID `json:"id"`
}

type GetCustodyReportResponseObject interface {
	VisitGetCustodyReportResponse(w http.ResponseWriter) error
}

type GetCustodyReport200JSONResponse CustodyReport

func (response GetCustodyReport200JSONResponse) VisitGetCustodyReportResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type VerifyEvidenceRequestObject struct {
	Id     ID `json:"id"`
	Params VerifyEvidenceParams
	Body   *VerifyEvidenceJSONRequestBody
}

type VerifyEvidenceResponseObject interface {
	VisitVerifyEvidenceResponse(w http.ResponseWriter) error
}

type VerifyEvidence200JSONResponse Verification

func (response VerifyEvidence200JSONResponse) VisitVerifyEvidenceResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type GetHealthzRequestObject struct {
}

type GetHealthzResponseObject interface {
	VisitGetHealthzResponse(w http.ResponseWriter) error
}

type GetHealthz200JSONResponse Health

func (response GetHealthz200JSONResponse) VisitGetHealthzResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type CreateJobRequestObject struct {
	Params CreateJobParams
	Body   *CreateJobJSONRequestBody
}

type CreateJobResponseObject interface {
	VisitCreateJobResponse(w http.ResponseWriter) error
}

type CreateJob201JSONResponse Job

func (response CreateJob201JSONResponse) VisitCreateJobResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(201)

	return json.NewEncoder(w).Encode(response)
}

type GetJobRequestObject struct {
	Id ID `json:"id"`
}

type GetJobResponseObject interface {
	VisitGetJobResponse(w http.ResponseWriter) error
}

type GetJob200JSONResponse JobDetail

func (response GetJob200JSONResponse) VisitGetJobResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type ExecuteJobRequestObject struct {
	Id     ID `json:"id"`
	Params ExecuteJobParams
}

type ExecuteJobResponseObject interface {
	VisitExecuteJobResponse(w http.ResponseWriter) error
}

type ExecuteJob200JSONResponse ExecutionResult

func (response ExecuteJob200JSONResponse) VisitExecuteJobResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type ExecuteJob202JSONResponse ExecuteAccepted

func (response ExecuteJob202JSONResponse) VisitExecuteJobResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(202)

	return json.NewEncoder(w).Encode(response)
}

type GetStatsRequestObject struct {
}

type GetStatsResponseObject interface {
	VisitGetStatsResponse(w http.ResponseWriter) error
}

type GetStats200JSONResponse Stats

func (response GetStats200JSONResponse) VisitGetStatsResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type GenerateDocumentRequestObject struct {
	Body *GenerateDocumentJSONRequestBody
}

type GenerateDocumentResponseObject interface {
	VisitGenerateDocumentResponse(w http.ResponseWriter) error
}

type GenerateDocument200JSONResponse WorkflowResult

func (response GenerateDocument200JSONResponse) VisitGenerateDocumentResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type ValidateJurisdictionRequestObject struct {
	Code string `json:"code"`
}

type ValidateJurisdictionResponseObject interface {
	VisitValidateJurisdictionResponse(w http.ResponseWriter) error
}

type ValidateJurisdiction200JSONResponse JurisdictionCheck

func (response ValidateJurisdiction200JSONResponse) VisitValidateJurisdictionResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type GetWorkflowUsageRequestObject struct {
}

type GetWorkflowUsageResponseObject interface {
	VisitGetWorkflowUsageResponse(w http.ResponseWriter) error
}

type GetWorkflowUsage200JSONResponse UsageStats

func (response GetWorkflowUsage200JSONResponse) VisitGetWorkflowUsageResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

// StrictServerInterface represents all server handlers.
type StrictServerInterface interface {

	// (GET /cases/{id})
	GetCase(ctx context.Context, request GetCaseRequestObject) (GetCaseResponseObject, error)

	// (POST /evidence)
	RegisterEvidence(ctx context.Context, request RegisterEvidenceRequestObject) (RegisterEvidenceResponseObject, error)

	// (POST /evidence/{id}/access)
	LogEvidenceAccess(ctx context.Context, request LogEvidenceAccessRequestObject) (LogEvidenceAccessResponseObject, error)

	// (GET /evidence/{id}/custody)
	GetCustodyReport(ctx context.Context, request GetCustodyReportRequestObject) (GetCustodyReportResponseObject, error)

	// (POST /evidence/{id}/verify)
	VerifyEvidence(ctx context.Context, request VerifyEvidenceRequestObject) (VerifyEvidenceResponseObject, error)

	// (GET /healthz)
	GetHealthz(ctx context.Context, request GetHealthzRequestObject) (GetHealthzResponseObject, error)

	// (POST /jobs)
	CreateJob(ctx context.Context, request CreateJobRequestObject) (CreateJobResponseObject, error)

	// (GET /jobs/{id})
	GetJob(ctx context.Context, request GetJobRequestObject) (GetJobResponseObject, error)

	// (POST /jobs/{id}/execute)
	ExecuteJob(ctx context.Context, request ExecuteJobRequestObject) (ExecuteJobResponseObject, error)

	// (GET /stats)
	GetStats(ctx context.Context, request GetStatsRequestObject) (GetStatsResponseObject, error)

	// (POST /workflows/documents)
	GenerateDocument(ctx context.Context, request GenerateDocumentRequestObject) (GenerateDocumentResponseObject, error)

	// (GET /workflows/jurisdictions/{code})
	ValidateJurisdiction(ctx context.Context, request ValidateJurisdictionRequestObject) (ValidateJurisdictionResponseObject, error)

	// (GET /workflows/usage)
	GetWorkflowUsage(ctx context.Context, request GetWorkflowUsageRequestObject) (GetWorkflowUsageResponseObject, error)
}

type StrictHandlerFunc = strictnethttp.StrictHTTPHandlerFunc
type StrictMiddlewareFunc = strictnethttp.StrictHTTPMiddlewareFunc

type StrictHTTPServerOptions struct {
	RequestErrorHandlerFunc  func(w http.ResponseWriter, r *http.Request, err error)
	ResponseErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func NewStrictHandler(ssi StrictServerInterface, middlewares []StrictMiddlewareFunc) ServerInterface {
	return &strictHandler{ssi: ssi, middlewares: middlewares, options: StrictHTTPServerOptions{
		RequestErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		},
		ResponseErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		},
	}}
}

func NewStrictHandlerWithOptions(ssi StrictServerInterface, middlewares []StrictMiddlewareFunc, options StrictHTTPServerOptions) ServerInterface {
	return &strictHandler{ssi: ssi, middlewares: middlewares, options: options}
}

type strictHandler struct {
	ssi         StrictServerInterface
	middlewares []StrictMiddlewareFunc
	options     StrictHTTPServerOptions
}

// GetCase operation middleware
func (sh *strictHandler) GetCase(w http.ResponseWriter, r *http.Request, id ID) {
	var request GetCaseRequestObject

	request.Id = id

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetCase(ctx, request.(GetCaseRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetCase")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetCaseResponseObject); ok {
		if err := validResponse.VisitGetCaseResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// RegisterEvidence operation middleware
func (sh *strictHandler) RegisterEvidence(w http.ResponseWriter, r *http.Request, params RegisterEvidenceParams) {
	var request RegisterEvidenceRequestObject

	request.Params = params

	var body RegisterEvidenceJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode JSON body: %w", err))
		return
	}
	request.Body = &body

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.RegisterEvidence(ctx, request.(RegisterEvidenceRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "RegisterEvidence")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(RegisterEvidenceResponseObject); ok {
		if err := validResponse.VisitRegisterEvidenceResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// LogEvidenceAccess operation middleware
func (sh *strictHandler) LogEvidenceAccess(w http.ResponseWriter, r *http.Request, id ID, params LogEvidenceAccessParams) {
	var request LogEvidenceAccessRequestObject

	request.Id = id
	request.Params = params

	var body LogEvidenceAccessJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode JSON body: %w", err))
		return
	}
	request.Body = &body

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.LogEvidenceAccess(ctx, request.(LogEvidenceAccessRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "LogEvidenceAccess")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(LogEvidenceAccessResponseObject); ok {
		if err := validResponse.VisitLogEvidenceAccessResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetCustodyReport operation middleware
func (sh *strictHandler) GetCustodyReport(w http.ResponseWriter, r *http.Request, id ID) {
	var request GetCustodyReportRequestObject

	request.Id = id

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetCustodyReport(ctx, request.(GetCustodyReportRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetCustodyReport")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetCustodyReportResponseObject); ok {
		if err := validResponse.VisitGetCustodyReportResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// VerifyEvidence operation middleware
func (sh *strictHandler) VerifyEvidence(w http.ResponseWriter, r *http.Request, id ID, params VerifyEvidenceParams) {
	var request VerifyEvidenceRequestObject

	request.Id = id
	request.Params = params

	var body VerifyEvidenceJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode JSON body: %w", err))
		return
	}
	request.Body = &body

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.VerifyEvidence(ctx, request.(VerifyEvidenceRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "VerifyEvidence")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(VerifyEvidenceResponseObject); ok {
		if err := validResponse.VisitVerifyEvidenceResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetHealthz operation middleware
func (sh *strictHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	var request GetHealthzRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetHealthz(ctx, request.(GetHealthzRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetHealthz")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetHealthzResponseObject); ok {
		if err := validResponse.VisitGetHealthzResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// CreateJob operation middleware
func (sh *strictHandler) CreateJob(w http.ResponseWriter, r *http.Request, params CreateJobParams) {
	var request CreateJobRequestObject

	request.Params = params

	var body CreateJobJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode JSON body: %w", err))
		return
	}
	request.Body = &body

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.CreateJob(ctx, request.(CreateJobRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "CreateJob")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(CreateJobResponseObject); ok {
		if err := validResponse.VisitCreateJobResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetJob operation middleware
func (sh *strictHandler) GetJob(w http.ResponseWriter, r *http.Request, id ID) {
	var request GetJobRequestObject

	request.Id = id

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetJob(ctx, request.(GetJobRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetJob")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetJobResponseObject); ok {
		if err := validResponse.VisitGetJobResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// ExecuteJob operation middleware
func (sh *strictHandler) ExecuteJob(w http.ResponseWriter, r *http.Request, id ID, params ExecuteJobParams) {
	var request ExecuteJobRequestObject

	request.Id = id
	request.Params = params

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.ExecuteJob(ctx, request.(ExecuteJobRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "ExecuteJob")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(ExecuteJobResponseObject); ok {
		if err := validResponse.VisitExecuteJobResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetStats operation middleware
func (sh *strictHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var request GetStatsRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetStats(ctx, request.(GetStatsRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetStats")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetStatsResponseObject); ok {
		if err := validResponse.VisitGetStatsResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GenerateDocument operation middleware
func (sh *strictHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	var request GenerateDocumentRequestObject

	var body GenerateDocumentJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode JSON body: %w", err))
		return
	}
	request.Body = &body

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GenerateDocument(ctx, request.(GenerateDocumentRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GenerateDocument")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GenerateDocumentResponseObject); ok {
		if err := validResponse.VisitGenerateDocumentResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// ValidateJurisdiction operation middleware
func (sh *strictHandler) ValidateJurisdiction(w http.ResponseWriter, r *http.Request, code string) {
	var request ValidateJurisdictionRequestObject

	request.Code = code

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.ValidateJurisdiction(ctx, request.(ValidateJurisdictionRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "ValidateJurisdiction")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(ValidateJurisdictionResponseObject); ok {
		if err := validResponse.VisitValidateJurisdictionResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetWorkflowUsage operation middleware
func (sh *strictHandler) GetWorkflowUsage(w http.ResponseWriter, r *http.Request) {
	var request GetWorkflowUsageRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetWorkflowUsage(ctx, request.(GetWorkflowUsageRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetWorkflowUsage")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetWorkflowUsageResponseObject); ok {
		if err := validResponse.VisitGetWorkflowUsageResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

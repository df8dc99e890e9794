package domain

import (
	"encoding/json"
	"time"
)

// Core domain models used internally. API types are generated from OpenAPI and
// sit in internal/api; keep these decoupled where helpful.

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s JobStatus) Terminal() bool { return s == JobCompleted || s == JobFailed }

type Job struct {
	ID           string
	TargetURL    string
	TargetDomain string // registrable domain (eTLD+1)
	AssetID      string
	Status       JobStatus
	CreatedBy    string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ErrorMessage *string
}

// Asset is the protected-asset descriptor. Asset CRUD lives elsewhere; this
// service only reads it.
type Asset struct {
	ID                 string
	Type               string
	Title              string
	Description        string
	RegistrationNumber *string
	Jurisdiction       *string
}

type Heading struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Link struct {
	Href  string `json:"href"`
	Text  string `json:"text"`
	Title string `json:"title"`
}

type PageStats struct {
	LoadTimeMs  float64 `json:"loadTime"`
	ImageCount  int     `json:"imageCount"`
	LinkCount   int     `json:"linkCount"`
	ScriptCount int     `json:"scriptCount"`
	WordCount   int     `json:"wordCount"`
}

// Snapshot is the structured evidence captured from one page visit.
type Snapshot struct {
	PageTitle       string            `json:"title"`
	URL             string            `json:"url"`
	MetaDescription string            `json:"metaDescription"`
	MetaKeywords    string            `json:"metaKeywords"`
	Headings        []Heading         `json:"headings"`
	Images          []Image           `json:"images"`
	Links           []Link            `json:"links"`
	VisibleText     string            `json:"textContent"`
	StructuredData  []json.RawMessage `json:"structuredData"`
	HTMLExcerpt     string            `json:"-"`
	PageStats       PageStats         `json:"pageStats"`
}

const (
	MaxImages      = 15
	MaxLinks       = 25
	MaxHTMLExcerpt = 10000
)

type Strength string

const (
	StrengthWeak     Strength = "WEAK"
	StrengthModerate Strength = "MODERATE"
	StrengthStrong   Strength = "STRONG"
)

type EvidenceQuality string

const (
	QualityPoor      EvidenceQuality = "POOR"
	QualityFair      EvidenceQuality = "FAIR"
	QualityGood      EvidenceQuality = "GOOD"
	QualityExcellent EvidenceQuality = "EXCELLENT"
)

// Analysis holds the fields parsed out of an infringement completion. Each
// field is explicitly present or absent.
type Analysis struct {
	Confidence         Opt[int]             `json:"confidence"`
	InfringementLikely Opt[bool]            `json:"infringementLikely"`
	Strength           Opt[Strength]        `json:"strength"`
	LegalBasis         Opt[string]          `json:"legalBasis"`
	EvidenceQuality    Opt[EvidenceQuality] `json:"evidenceQuality"`
	Recommendations    Opt[string]          `json:"recommendations"`
	Risks              Opt[string]          `json:"risks"`
}

type RiskFactor struct {
	Name         string  `json:"name"`
	RawScore     float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

type Recommendation string

const (
	RecImmediateAction Recommendation = "IMMEDIATE_ACTION_REQUIRED"
	RecLegalAction     Recommendation = "LEGAL_ACTION_RECOMMENDED"
	RecMonitorClosely  Recommendation = "MONITOR_CLOSELY"
	RecContinueMonitor Recommendation = "CONTINUE_MONITORING"
	RecLowPriority     Recommendation = "LOW_PRIORITY"
)

type RiskAssessment struct {
	Analysis
	OverallRiskScore int            `json:"overallRiskScore"`
	Factors          []RiskFactor   `json:"factors"`
	Recommendation   Recommendation `json:"recommendation"`
	Summary          string         `json:"summary"`
	TokensUsed       int            `json:"tokensUsed"`
	CalculatedAt     time.Time      `json:"calculatedAt"`
}

// MonitoringLog is the persisted outcome of one successful job execution.
type MonitoringLog struct {
	ID            string
	JobID         string
	Result        string
	RiskScore     int
	ScreenshotURL *string
	HTMLContent   string
	Metadata      json.RawMessage
	AutoCaseID    *string
	CreatedAt     time.Time
}

type CaseStatus string

const CaseOpen CaseStatus = "open"

type Case struct {
	ID                    string
	Title                 string
	Status                CaseStatus
	RelatedAssetID        string
	SuspectedURL          string
	Description           string
	CreatedBy             string
	AutoGenerated         bool
	SourceMonitoringJobID *string
	CreatedAt             time.Time
}

type EvidenceType string

const (
	EvidenceScreenshot   EvidenceType = "screenshot"
	EvidenceRiskAnalysis EvidenceType = "risk_analysis"
	EvidenceHTMLContent  EvidenceType = "html_content"
	EvidenceUploadedFile EvidenceType = "uploaded_file"
)

type EvidenceRecord struct {
	ID              string
	Type            EvidenceType
	URL             *string
	Payload         json.RawMessage
	AutoGenerated   bool
	CaseID          *string
	MonitoringLogID *string
	CreatedAt       time.Time
}

type CustodyAction string

const (
	CustodyUploaded       CustodyAction = "uploaded"
	CustodyViewed         CustodyAction = "viewed"
	CustodyDownloaded     CustodyAction = "downloaded"
	CustodyModified       CustodyAction = "modified"
	CustodyShared         CustodyAction = "shared"
	CustodyIntegrityCheck CustodyAction = "integrity_check"
)

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationValid      VerificationStatus = "valid"
	VerificationInvalid    VerificationStatus = "invalid"
)

type UploadContext struct {
	UserAgent  string    `json:"userAgent"`
	IPAddress  string    `json:"ipAddress"`
	DeviceInfo string    `json:"deviceInfo"`
	Timestamp  time.Time `json:"timestamp"`
}

type FileIntegrity struct {
	Hash               string
	Algorithm          string
	LastVerified       *time.Time
	VerificationStatus VerificationStatus
}

// EvidenceFile is an uploaded evidence artifact under chain of custody.
type EvidenceFile struct {
	ID               string
	CaseID           string
	FileName         string
	OriginalFileName string
	MimeType         string
	FileSize         int64
	FileURL          string
	Title            *string
	Description      *string
	Tags             []string
	UploadedBy       string
	UploadedAt       time.Time
	UploadContext    UploadContext
	Integrity        FileIntegrity
}

type CustodyEntry struct {
	EvidenceID string
	Seq        int
	Action     CustodyAction
	Actor      string
	Timestamp  time.Time
	Details    string
	PrevHash   string
	ChainHash  string
}

type WorkflowStep struct {
	Step       int            `json:"step"`
	Agent      string         `json:"agent"`
	Action     string         `json:"action"`
	Result     string         `json:"result"`
	TokensUsed int            `json:"tokensUsed"`
	Detail     map[string]any `json:"detail,omitempty"`
}

type WorkflowRun struct {
	ID           string
	CaseID       *string
	DocumentType string
	Steps        []WorkflowStep
	TotalTokens  int
	TotalCost    float64
	Success      bool
	Error        *string
	StartedAt    time.Time
	FinishedAt   time.Time
}

type JobStats struct {
	TotalJobs        int
	JobsByStatus     map[JobStatus]int
	AverageRiskScore float64
	HighRiskCount    int
}

package ports

import (
	"context"
	"time"

	"ipwatch/internal/domain"
)

// JobRepository persists monitoring jobs. Status moves only through the
// conditional transitions below.
type JobRepository interface {
	Create(ctx context.Context, job domain.Job) (domain.Job, error)
	Get(ctx context.Context, id string) (domain.Job, error)
	// TryStart moves a job from pending to running. ok is false when the job
	// exists but was not pending; the returned job then carries its current status.
	TryStart(ctx context.Context, id string) (job domain.Job, ok bool, err error)
	MarkCompleted(ctx context.Context, id string) (domain.Job, error)
	MarkFailed(ctx context.Context, id string, reason string) error
	// NextPending lists the oldest pending job ids without claiming them.
	NextPending(ctx context.Context, limit int) ([]string, error)
	Stats(ctx context.Context) (domain.JobStats, error)
}

// AssetRepository reads protected-asset descriptors.
type AssetRepository interface {
	GetAsset(ctx context.Context, id string) (domain.Asset, error)
}

type MonitoringLogRepository interface {
	CreateLog(ctx context.Context, log domain.MonitoringLog) (domain.MonitoringLog, error)
	ListLogs(ctx context.Context, jobID string) ([]domain.MonitoringLog, error)
	LinkCase(ctx context.Context, logID, caseID string) error
}

// CaseRepository handles auto-generated cases. Creation is keyed on the
// source job so that concurrent escalations converge on one row.
type CaseRepository interface {
	FindAutoCase(ctx context.Context, jobID string) (c domain.Case, found bool, err error)
	// CreateAutoCase inserts the case unless one already exists for its source
	// job. created is false when an existing case was returned instead.
	CreateAutoCase(ctx context.Context, c domain.Case) (out domain.Case, created bool, err error)
	GetCase(ctx context.Context, id string) (domain.Case, error)
}

type EvidenceRepository interface {
	InsertEvidence(ctx context.Context, records []domain.EvidenceRecord) error
	ListEvidence(ctx context.Context, caseID string) ([]domain.EvidenceRecord, error)
}

// LedgerRepository stores uploaded evidence files and their custody chain.
// There is no update or delete for custody entries.
type LedgerRepository interface {
	// CreateFile stores f together with the first entry of its custody chain.
	// opening receives the stored file; neither row is kept if either write fails.
	CreateFile(ctx context.Context, f domain.EvidenceFile, opening func(f domain.EvidenceFile) domain.CustodyEntry) (domain.EvidenceFile, domain.CustodyEntry, error)
	GetFile(ctx context.Context, id string) (domain.EvidenceFile, error)
	UpdateVerification(ctx context.Context, id string, status domain.VerificationStatus, at time.Time) error
	// AppendCustody serializes appends per evidence file and links the entry
	// to the previous one through chain.
	AppendCustody(ctx context.Context, evidenceID string, build func(prev *domain.CustodyEntry) domain.CustodyEntry) (domain.CustodyEntry, error)
	ListCustody(ctx context.Context, evidenceID string) ([]domain.CustodyEntry, error)
}

type WorkflowRunRepository interface {
	SaveRun(ctx context.Context, run domain.WorkflowRun) error
}

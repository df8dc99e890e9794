package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/hash"
	"ipwatch/internal/platform/metrics"
	"ipwatch/internal/ports"
)

const (
	DefaultAlgorithm = "SHA-256"
	// genesisHash is the PrevHash of the first entry in every chain.
	genesisHash = "0000000000000000000000000000000000000000000000000000000000000000"
)

type Service struct {
	repo    ports.LedgerRepository
	cases   ports.CaseRepository
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(repo ports.LedgerRepository, cases ports.CaseRepository, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		cases:   cases,
		logger:  logger.With("component", "ledger"),
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type UploadInput struct {
	CaseID           string
	FileName         string
	OriginalFileName string
	MimeType         string
	FileSize         int64
	FileURL          string
	Title            *string
	Description      *string
	Tags             []string
	Hash             string
	HashAlgorithm    string
	Context          domain.UploadContext
}

// RegisterUpload records an uploaded evidence file and opens its custody chain.
func (s *Service) RegisterUpload(ctx context.Context, in UploadInput, actor string) (domain.EvidenceFile, error) {
	if err := validateUpload(in, actor); err != nil {
		return domain.EvidenceFile{}, err
	}
	if _, err := s.cases.GetCase(ctx, in.CaseID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EvidenceFile{}, domain.Invalid("case %s does not exist", in.CaseID)
		}
		return domain.EvidenceFile{}, err
	}
	algo := in.HashAlgorithm
	if algo == "" {
		algo = DefaultAlgorithm
	}
	now := s.now()
	uc := in.Context
	if uc.Timestamp.IsZero() {
		uc.Timestamp = now
	}
	original := in.OriginalFileName
	if original == "" {
		original = in.FileName
	}

	f, _, err := s.repo.CreateFile(ctx, domain.EvidenceFile{
		CaseID:           in.CaseID,
		FileName:         in.FileName,
		OriginalFileName: original,
		MimeType:         in.MimeType,
		FileSize:         in.FileSize,
		FileURL:          in.FileURL,
		Title:            in.Title,
		Description:      in.Description,
		Tags:             in.Tags,
		UploadedBy:       actor,
		UploadedAt:       now,
		UploadContext:    uc,
		Integrity: domain.FileIntegrity{
			Hash:               strings.ToLower(in.Hash),
			Algorithm:          algo,
			VerificationStatus: domain.VerificationUnverified,
		},
	}, func(f domain.EvidenceFile) domain.CustodyEntry {
		return link(f.ID, domain.CustodyUploaded, actor, "Initial file upload", s.now())(nil)
	})
	if err != nil {
		return domain.EvidenceFile{}, fmt.Errorf("create evidence file: %w", err)
	}
	s.metrics.CustodyAppended(string(domain.CustodyUploaded))
	s.logger.Info("evidence registered", "evidence_id", f.ID, "case_id", f.CaseID, "uploaded_by", actor)
	return f, nil
}

func validateUpload(in UploadInput, actor string) error {
	switch {
	case strings.TrimSpace(actor) == "":
		return domain.Invalid("actor id is required")
	case in.CaseID == "":
		return domain.Invalid("caseId is required")
	case in.FileName == "":
		return domain.Invalid("fileName is required")
	case in.FileURL == "":
		return domain.Invalid("fileUrl is required")
	case in.FileSize < 0:
		return domain.Invalid("fileSize must not be negative")
	case in.Hash == "":
		return domain.Invalid("hash is required")
	}
	if _, err := uuid.Parse(in.CaseID); err != nil {
		return domain.Invalid("caseId must be a uuid")
	}
	return nil
}

var accessActions = map[domain.CustodyAction]bool{
	domain.CustodyViewed:     true,
	domain.CustodyDownloaded: true,
	domain.CustodyModified:   true,
	domain.CustodyShared:     true,
}

// LogAccess appends an access event to the custody chain.
func (s *Service) LogAccess(ctx context.Context, evidenceID string, action domain.CustodyAction, actor, details string) (domain.CustodyEntry, error) {
	if !accessActions[action] {
		return domain.CustodyEntry{}, domain.Invalid("action must be one of viewed, downloaded, modified, shared")
	}
	if strings.TrimSpace(actor) == "" {
		return domain.CustodyEntry{}, domain.Invalid("actor id is required")
	}
	if _, err := uuid.Parse(evidenceID); err != nil {
		return domain.CustodyEntry{}, domain.ErrNotFound
	}
	if details == "" {
		details = "Evidence " + string(action)
	}
	return s.append(ctx, evidenceID, action, actor, details)
}

type Verification struct {
	Valid        bool
	OriginalHash string
	CurrentHash  string
	VerifiedAt   time.Time
}

// VerifyIntegrity compares currentHash with the hash recorded at upload.
// Every call appends an integrity_check entry, whatever the result.
func (s *Service) VerifyIntegrity(ctx context.Context, evidenceID, actor, currentHash string) (Verification, error) {
	if strings.TrimSpace(actor) == "" {
		return Verification{}, domain.Invalid("actor id is required")
	}
	if currentHash == "" {
		return Verification{}, domain.Invalid("currentHash is required")
	}
	if _, err := uuid.Parse(evidenceID); err != nil {
		return Verification{}, domain.ErrNotFound
	}
	f, err := s.repo.GetFile(ctx, evidenceID)
	if err != nil {
		return Verification{}, err
	}
	v := Verification{
		Valid:        hash.Equal(f.Integrity.Hash, currentHash),
		OriginalHash: f.Integrity.Hash,
		CurrentHash:  strings.ToLower(strings.TrimSpace(currentHash)),
		VerifiedAt:   s.now(),
	}
	verdict := "FAILED"
	status := domain.VerificationInvalid
	if v.Valid {
		verdict = "verified"
		status = domain.VerificationValid
	}
	details := fmt.Sprintf("File integrity %s - Hash: %s...", verdict, hash.Short(v.CurrentHash, 16))
	if _, err := s.append(ctx, evidenceID, domain.CustodyIntegrityCheck, actor, details); err != nil {
		return v, err
	}
	if err := s.repo.UpdateVerification(ctx, evidenceID, status, v.VerifiedAt); err != nil {
		return v, fmt.Errorf("update verification: %w", err)
	}
	if !v.Valid {
		s.logger.Warn("integrity check failed", "evidence_id", evidenceID, "actor", actor)
	}
	return v, nil
}

func (s *Service) append(ctx context.Context, evidenceID string, action domain.CustodyAction, actor, details string) (domain.CustodyEntry, error) {
	e, err := s.repo.AppendCustody(ctx, evidenceID, link(evidenceID, action, actor, details, s.now()))
	if err != nil {
		return e, fmt.Errorf("append custody %s: %w", action, err)
	}
	s.metrics.CustodyAppended(string(action))
	return e, nil
}

// link builds the entry that follows prev, or the first one when prev is nil.
func link(evidenceID string, action domain.CustodyAction, actor, details string, at time.Time) func(prev *domain.CustodyEntry) domain.CustodyEntry {
	// stored timestamps keep microseconds; hash what will be read back
	at = at.Truncate(time.Microsecond)
	return func(prev *domain.CustodyEntry) domain.CustodyEntry {
		e := domain.CustodyEntry{
			EvidenceID: evidenceID,
			Seq:        1,
			Action:     action,
			Actor:      actor,
			Timestamp:  at,
			Details:    details,
			PrevHash:   genesisHash,
		}
		if prev != nil {
			e.Seq = prev.Seq + 1
			e.PrevHash = prev.ChainHash
		}
		e.ChainHash = chainHash(e)
		return e
	}
}

// chainHash links an entry to its predecessor.
func chainHash(e domain.CustodyEntry) string {
	return hash.Text(e.PrevHash, e.EvidenceID, strconv.Itoa(e.Seq), string(e.Action), e.Actor,
		e.Timestamp.UTC().Format(time.RFC3339Nano), e.Details)
}

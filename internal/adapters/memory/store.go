package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ipwatch/internal/domain"
)

// Store is an in-process implementation of every repository port. It backs
// service tests and the server when run without DATABASE_URL.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	assets   map[string]domain.Asset
	jobs     map[string]domain.Job
	logs     map[string]domain.MonitoringLog
	cases    map[string]domain.Case
	evidence []domain.EvidenceRecord
	files    map[string]domain.EvidenceFile
	custody  map[string][]domain.CustodyEntry
	runs     []domain.WorkflowRun

	// FailEvidenceBatch makes multi-record InsertEvidence calls fail.
	FailEvidenceBatch bool
	// FailEvidenceType makes any insert containing that type fail.
	FailEvidenceType domain.EvidenceType
	// FailCreateLog makes CreateLog fail.
	FailCreateLog error
	// FailCustody makes every custody write fail, including the one inside CreateFile.
	FailCustody error
}

func New() *Store {
	return &Store{
		now:     func() time.Time { return time.Now().UTC() },
		assets:  map[string]domain.Asset{},
		jobs:    map[string]domain.Job{},
		logs:    map[string]domain.MonitoringLog{},
		cases:   map[string]domain.Case{},
		files:   map[string]domain.EvidenceFile{},
		custody: map[string][]domain.CustodyEntry{},
	}
}

func (s *Store) PutAsset(a domain.Asset) domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.assets[a.ID] = a
	return a
}

func (s *Store) GetAsset(_ context.Context, id string) (domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok {
		return a, domain.ErrNotFound
	}
	return a, nil
}

// jobs

func (s *Store) Create(_ context.Context, j domain.Job) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.ID = uuid.NewString()
	j.Status = domain.JobPending
	j.CreatedAt = s.now()
	s.jobs[j.ID] = j
	return j, nil
}

func (s *Store) Get(_ context.Context, id string) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return j, domain.ErrNotFound
	}
	return j, nil
}

func (s *Store) TryStart(_ context.Context, id string) (domain.Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return j, false, domain.ErrNotFound
	}
	if j.Status != domain.JobPending {
		return j, false, nil
	}
	now := s.now()
	j.Status = domain.JobRunning
	j.StartedAt = &now
	s.jobs[id] = j
	return j, true, nil
}

func (s *Store) MarkCompleted(_ context.Context, id string) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return j, domain.ErrNotFound
	}
	if j.Status != domain.JobRunning {
		return j, &domain.ConflictError{JobID: id, Status: j.Status}
	}
	now := s.now()
	j.Status = domain.JobCompleted
	j.CompletedAt = &now
	s.jobs[id] = j
	return j, nil
}

func (s *Store) MarkFailed(_ context.Context, id string, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if j.Status != domain.JobRunning {
		return &domain.ConflictError{JobID: id, Status: j.Status}
	}
	now := s.now()
	j.Status = domain.JobFailed
	j.CompletedAt = &now
	j.ErrorMessage = &reason
	s.jobs[id] = j
	return nil
}

func (s *Store) NextPending(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []domain.Job
	for _, j := range s.jobs {
		if j.Status == domain.JobPending {
			pending = append(pending, j)
		}
	}
	sort.Slice(pending, func(a, b int) bool { return pending[a].CreatedAt.Before(pending[b].CreatedAt) })
	ids := make([]string, 0, limit)
	for _, j := range pending {
		if len(ids) == limit {
			break
		}
		ids = append(ids, j.ID)
	}
	return ids, nil
}

func (s *Store) Stats(_ context.Context) (domain.JobStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := domain.JobStats{JobsByStatus: map[domain.JobStatus]int{
		domain.JobPending: 0, domain.JobRunning: 0, domain.JobCompleted: 0, domain.JobFailed: 0,
	}}
	for _, j := range s.jobs {
		st.JobsByStatus[j.Status]++
		st.TotalJobs++
	}
	sum := 0
	for _, l := range s.logs {
		sum += l.RiskScore
		if l.RiskScore >= 70 {
			st.HighRiskCount++
		}
	}
	if len(s.logs) > 0 {
		st.AverageRiskScore = float64(sum) / float64(len(s.logs))
	}
	return st, nil
}

// monitoring logs

func (s *Store) CreateLog(_ context.Context, l domain.MonitoringLog) (domain.MonitoringLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreateLog != nil {
		return l, s.FailCreateLog
	}
	l.ID = uuid.NewString()
	l.CreatedAt = s.now()
	s.logs[l.ID] = l
	return l, nil
}

func (s *Store) ListLogs(_ context.Context, jobID string) ([]domain.MonitoringLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.MonitoringLog{}
	for _, l := range s.logs {
		if l.JobID == jobID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (s *Store) LinkCase(_ context.Context, logID, caseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[logID]
	if !ok {
		return domain.ErrNotFound
	}
	l.AutoCaseID = &caseID
	s.logs[logID] = l
	return nil
}

// cases

func (s *Store) findAutoCase(jobID string) (domain.Case, bool) {
	for _, c := range s.cases {
		if c.AutoGenerated && c.SourceMonitoringJobID != nil && *c.SourceMonitoringJobID == jobID {
			return c, true
		}
	}
	return domain.Case{}, false
}

func (s *Store) FindAutoCase(_ context.Context, jobID string) (domain.Case, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.findAutoCase(jobID)
	return c, ok, nil
}

func (s *Store) CreateAutoCase(_ context.Context, c domain.Case) (domain.Case, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.SourceMonitoringJobID != nil {
		if existing, ok := s.findAutoCase(*c.SourceMonitoringJobID); ok {
			return existing, false, nil
		}
	}
	c.ID = uuid.NewString()
	c.AutoGenerated = true
	c.CreatedAt = s.now()
	s.cases[c.ID] = c
	return c, true, nil
}

func (s *Store) GetCase(_ context.Context, id string) (domain.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[id]
	if !ok {
		return c, domain.ErrNotFound
	}
	return c, nil
}

// PutCase stores a manually created case.
func (s *Store) PutCase(c domain.Case) domain.Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = s.now()
	s.cases[c.ID] = c
	return c
}

// Cases returns every stored case.
func (s *Store) Cases() []domain.Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Case, 0, len(s.cases))
	for _, c := range s.cases {
		out = append(out, c)
	}
	return out
}

// evidence

func (s *Store) InsertEvidence(_ context.Context, records []domain.EvidenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailEvidenceBatch && len(records) > 1 {
		return errBatch
	}
	for _, r := range records {
		if s.FailEvidenceType != "" && r.Type == s.FailEvidenceType {
			return errRecord
		}
	}
	for _, r := range records {
		r.ID = uuid.NewString()
		r.CreatedAt = s.now()
		s.evidence = append(s.evidence, r)
	}
	return nil
}

func (s *Store) ListEvidence(_ context.Context, caseID string) ([]domain.EvidenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.EvidenceRecord{}
	for _, r := range s.evidence {
		if r.CaseID != nil && *r.CaseID == caseID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ledger

func (s *Store) CreateFile(_ context.Context, f domain.EvidenceFile, opening func(f domain.EvidenceFile) domain.CustodyEntry) (domain.EvidenceFile, domain.CustodyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = uuid.NewString()
	f.Integrity.VerificationStatus = domain.VerificationUnverified
	if f.Tags == nil {
		f.Tags = []string{}
	}
	e := opening(f)
	e.EvidenceID = f.ID
	if s.FailCustody != nil {
		return domain.EvidenceFile{}, domain.CustodyEntry{}, s.FailCustody
	}
	s.files[f.ID] = f
	s.custody[f.ID] = []domain.CustodyEntry{e}
	return f, e, nil
}

func (s *Store) GetFile(_ context.Context, id string) (domain.EvidenceFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return f, domain.ErrNotFound
	}
	return f, nil
}

func (s *Store) UpdateVerification(_ context.Context, id string, status domain.VerificationStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.Integrity.VerificationStatus = status
	f.Integrity.LastVerified = &at
	s.files[id] = f
	return nil
}

func (s *Store) AppendCustody(_ context.Context, evidenceID string, build func(prev *domain.CustodyEntry) domain.CustodyEntry) (domain.CustodyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[evidenceID]; !ok {
		return domain.CustodyEntry{}, domain.ErrNotFound
	}
	if s.FailCustody != nil {
		return domain.CustodyEntry{}, s.FailCustody
	}
	chain := s.custody[evidenceID]
	var prev *domain.CustodyEntry
	if len(chain) > 0 {
		last := chain[len(chain)-1]
		prev = &last
	}
	e := build(prev)
	e.EvidenceID = evidenceID
	s.custody[evidenceID] = append(chain, e)
	return e, nil
}

func (s *Store) ListCustody(_ context.Context, evidenceID string) ([]domain.CustodyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CustodyEntry{}, s.custody[evidenceID]...), nil
}

// TamperCustody overwrites one stored entry. Only tests use it.
func (s *Store) TamperCustody(evidenceID string, i int, details string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custody[evidenceID][i].Details = details
}

// workflow runs

func (s *Store) SaveRun(_ context.Context, run domain.WorkflowRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *Store) Runs() []domain.WorkflowRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WorkflowRun{}, s.runs...)
}

type errString string

func (e errString) Error() string { return string(e) }

const (
	errBatch  = errString("memory: batch insert rejected")
	errRecord = errString("memory: record insert rejected")
)

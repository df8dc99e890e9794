package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipwatch/internal/domain"
)

func TestTryStart_OnlyOneWinner(t *testing.T) {
	s := New()
	ctx := context.Background()
	job, err := s.Create(ctx, domain.Job{TargetURL: "https://x.example"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := s.TryStart(ctx, job.ID)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMarkFailed_RequiresRunning(t *testing.T) {
	s := New()
	ctx := context.Background()
	job, _ := s.Create(ctx, domain.Job{})
	err := s.MarkFailed(ctx, job.ID, "x")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, _, _ = s.TryStart(ctx, job.ID)
	require.NoError(t, s.MarkFailed(ctx, job.ID, "boom"))
	got, _ := s.Get(ctx, job.ID)
	assert.Equal(t, domain.JobFailed, got.Status)
	assert.Equal(t, "boom", *got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)
}

func TestCreateAutoCase_Idempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	jobID := "job-1"
	a, created, err := s.CreateAutoCase(ctx, domain.Case{Title: "a", SourceMonitoringJobID: &jobID})
	require.NoError(t, err)
	assert.True(t, created)
	b, created, err := s.CreateAutoCase(ctx, domain.Case{Title: "b", SourceMonitoringJobID: &jobID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a.ID, b.ID)
	assert.Len(t, s.Cases(), 1)
}

func TestCreateFile_OpensChainOrNothing(t *testing.T) {
	s := New()
	ctx := context.Background()
	opening := func(f domain.EvidenceFile) domain.CustodyEntry {
		return domain.CustodyEntry{Seq: 1, Action: domain.CustodyUploaded, Actor: "u1", Details: "Initial file upload"}
	}

	f, e, err := s.CreateFile(ctx, domain.EvidenceFile{CaseID: "c1", FileName: "a.png"}, opening)
	require.NoError(t, err)
	assert.Equal(t, f.ID, e.EvidenceID)
	chain, err := s.ListCustody(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, chain, 1)

	s.FailCustody = errors.New("disk full")
	_, _, err = s.CreateFile(ctx, domain.EvidenceFile{CaseID: "c1", FileName: "b.png"}, opening)
	require.Error(t, err)
	assert.Len(t, s.files, 1)
	assert.Len(t, s.custody, 1)
}

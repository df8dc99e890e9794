package jobrunner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/logging"
	"ipwatch/internal/services/monitoring"
)

type fakeExecutor struct {
	release chan struct{}
	running atomic.Int32
	peak    atomic.Int32

	mu   sync.Mutex
	seen map[string]int
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{release: make(chan struct{}), seen: map[string]int{}}
}

func (f *fakeExecutor) Execute(ctx context.Context, id string) (monitoring.ExecutionResult, error) {
	f.mu.Lock()
	f.seen[id]++
	first := f.seen[id] == 1
	f.mu.Unlock()
	if !first {
		return monitoring.ExecutionResult{}, &domain.ConflictError{JobID: id, Status: domain.JobRunning}
	}

	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-f.release:
	case <-ctx.Done():
		return monitoring.ExecutionResult{}, ctx.Err()
	}
	return monitoring.ExecutionResult{Job: domain.Job{ID: id, Status: domain.JobCompleted}}, nil
}

func (f *fakeExecutor) calls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[id]
}

type fakeSource struct {
	mu     sync.Mutex
	ids    []string
	limits []int
}

func (s *fakeSource) PendingJobs(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = append(s.limits, limit)
	n := min(limit, len(s.ids))
	out := append([]string(nil), s.ids[:n]...)
	s.ids = s.ids[n:]
	return out, nil
}

type countingSlots struct {
	acquired atomic.Int32
	released atomic.Int32
	err      error
}

func (c *countingSlots) Acquire(context.Context) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.acquired.Add(1)
	return "holder", nil
}

func (c *countingSlots) Release(_ context.Context, holder string) error {
	c.released.Add(1)
	return nil
}

func TestPool_BoundsConcurrency(t *testing.T) {
	exec := newFakeExecutor()
	p := New(exec, 2, nil, logging.Discard(), nil)

	for _, id := range []string{"a", "b", "c", "d"} {
		require.True(t, p.Submit(id))
	}
	require.Eventually(t, func() bool { return exec.running.Load() == 2 }, time.Second, 5*time.Millisecond)
	// Still two running; the other two wait for a slot.
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 2, exec.running.Load())

	close(exec.release)
	require.Eventually(t, func() bool { return p.InFlight() == 0 }, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 2, exec.peak.Load())
	require.NoError(t, p.Close(context.Background()))
}

func TestPool_SubmitDeduplicates(t *testing.T) {
	exec := newFakeExecutor()
	p := New(exec, 1, nil, logging.Discard(), nil)

	assert.True(t, p.Submit("a"))
	assert.False(t, p.Submit("a"))
	close(exec.release)
	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, 1, exec.calls("a"))
	assert.False(t, p.Submit("b"), "closed pool accepts nothing")
}

func TestPool_ExecuteHonoursContextWhileWaiting(t *testing.T) {
	exec := newFakeExecutor()
	p := New(exec, 1, nil, logging.Discard(), nil)
	require.True(t, p.Submit("busy"))
	require.Eventually(t, func() bool { return exec.running.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Execute(ctx, "waiting")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, exec.calls("waiting"), "a job without a slot is never started")

	close(exec.release)
	require.NoError(t, p.Close(context.Background()))
}

func TestPool_ExecuteOutlivesCallerCancel(t *testing.T) {
	exec := newFakeExecutor()
	p := New(exec, 1, nil, logging.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Execute(ctx, "job-1")
		done <- err
	}()
	require.Eventually(t, func() bool { return exec.running.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		t.Fatalf("job stopped with its caller: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(exec.release)
	require.NoError(t, <-done)
	require.NoError(t, p.Close(context.Background()))
}

func TestPool_CloseStopsStartedExecute(t *testing.T) {
	exec := newFakeExecutor()
	p := New(exec, 1, nil, logging.Discard(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.Execute(context.Background(), "job-1")
		done <- err
	}()
	require.Eventually(t, func() bool { return exec.running.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, p.Close(context.Background()))
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestPool_GlobalSlots(t *testing.T) {
	exec := newFakeExecutor()
	close(exec.release)
	slots := &countingSlots{}
	p := New(exec, 1, slots, logging.Discard(), nil)

	res, err := p.Execute(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, res.Job.Status)
	assert.EqualValues(t, 1, slots.acquired.Load())
	assert.EqualValues(t, 1, slots.released.Load())

	slots.err = errors.New("redis down")
	_, err = p.Execute(context.Background(), "b")
	require.Error(t, err)
	assert.Zero(t, exec.calls("b"))

	// The local slot was handed back after the global failure.
	slots.err = nil
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = p.Execute(ctx, "c")
	require.NoError(t, err)
}

func TestPool_ConflictIsQuiet(t *testing.T) {
	exec := newFakeExecutor()
	close(exec.release)
	p := New(exec, 2, nil, logging.Discard(), nil)

	_, err := p.Execute(context.Background(), "a")
	require.NoError(t, err)
	_, err = p.Execute(context.Background(), "a")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPool_RunDispatchesPending(t *testing.T) {
	exec := newFakeExecutor()
	close(exec.release)
	src := &fakeSource{ids: []string{"a", "b", "c"}}
	p := New(exec, 2, nil, logging.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, src, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return exec.calls("a") == 1 && exec.calls("b") == 1 && exec.calls("c") == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	require.NoError(t, p.Close(context.Background()))

	src.mu.Lock()
	defer src.mu.Unlock()
	for _, l := range src.limits {
		assert.LessOrEqual(t, l, 2)
	}
}

func TestPool_CloseCancelsBackgroundWork(t *testing.T) {
	exec := newFakeExecutor()
	p := New(exec, 1, nil, logging.Discard(), nil)
	require.True(t, p.Submit("slow"))
	require.Eventually(t, func() bool { return exec.running.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Close(ctx))
	assert.Zero(t, p.InFlight())
}

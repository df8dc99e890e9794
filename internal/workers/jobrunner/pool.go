package jobrunner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/metrics"
	"ipwatch/internal/services/monitoring"
)

// Executor runs a single monitoring job.
type Executor interface {
	Execute(ctx context.Context, id string) (monitoring.ExecutionResult, error)
}

// Source lists jobs waiting to run.
type Source interface {
	PendingJobs(ctx context.Context, limit int) ([]string, error)
}

// Slots is a capacity counter shared across processes.
type Slots interface {
	Acquire(ctx context.Context) (holder string, err error)
	Release(ctx context.Context, holder string) error
}

var ErrClosed = errors.New("job pool is closed")

// Pool bounds concurrent executions to the browser capacity of this process,
// and optionally to a cluster-wide slot count. A job stays pending until it
// holds a slot.
type Pool struct {
	exec    Executor
	local   *semaphore.Weighted
	size    int64
	global  Slots
	logger  *slog.Logger
	metrics *metrics.Metrics

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]struct{}
	closed   bool
}

// New builds a pool with size local slots. global may be nil.
func New(exec Executor, size int, global Slots, logger *slog.Logger, m *metrics.Metrics) *Pool {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	base, cancel := context.WithCancel(context.Background())
	return &Pool{
		exec:     exec,
		local:    semaphore.NewWeighted(int64(size)),
		size:     int64(size),
		global:   global,
		logger:   logger.With("component", "jobrunner"),
		metrics:  m,
		base:     base,
		cancel:   cancel,
		inflight: map[string]struct{}{},
	}
}

// Execute waits for a slot and runs the job on the caller's goroutine. ctx
// bounds only the wait; once the job starts, it stops early only when the
// pool closes.
func (p *Pool) Execute(ctx context.Context, id string) (monitoring.ExecutionResult, error) {
	release, err := p.acquire(ctx)
	if err != nil {
		return monitoring.ExecutionResult{}, err
	}
	defer release()

	run, stop := context.WithCancel(context.WithoutCancel(ctx))
	defer stop()
	unhook := context.AfterFunc(p.base, stop)
	defer unhook()
	return p.exec.Execute(run, id)
}

// Submit queues the job to run in the background. It reports false when the
// job is already queued here or the pool is closed.
func (p *Pool) Submit(id string) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	if _, dup := p.inflight[id]; dup {
		p.mu.Unlock()
		return false
	}
	p.inflight[id] = struct{}{}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer p.forget(id)
		p.runOne(id)
	}()
	return true
}

func (p *Pool) runOne(id string) {
	log := p.logger.With("job_id", id)
	_, err := p.Execute(p.base, id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		log.Debug("job already taken", "err", err)
	case errors.Is(err, context.Canceled) && p.base.Err() != nil:
		log.Info("job abandoned on shutdown")
	default:
		log.Warn("background execution failed", "err", err)
	}
}

// Run polls src for pending jobs and submits them until ctx ends.
func (p *Pool) Run(ctx context.Context, src Source, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.dispatch(ctx, src)
		}
	}
}

func (p *Pool) dispatch(ctx context.Context, src Source) {
	free := int(p.size) - p.InFlight()
	if free <= 0 {
		return
	}
	ids, err := src.PendingJobs(ctx, free)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("list pending jobs", "err", err)
		}
		return
	}
	for _, id := range ids {
		p.Submit(id)
	}
}

func (p *Pool) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}

// Close stops accepting work, cancels background executions and waits for
// them to return or ctx to end.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) acquire(ctx context.Context) (func(), error) {
	if err := p.local.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	holder := ""
	if p.global != nil {
		h, err := p.global.Acquire(ctx)
		if err != nil {
			p.local.Release(1)
			return nil, err
		}
		holder = h
	}
	p.metrics.SlotAcquired()
	return func() {
		p.metrics.SlotReleased()
		if p.global != nil {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if err := p.global.Release(rctx, holder); err != nil {
				p.logger.Warn("release global slot", "holder", holder, "err", err)
			}
			cancel()
		}
		p.local.Release(1)
	}, nil
}

func (p *Pool) forget(id string) {
	p.mu.Lock()
	delete(p.inflight, id)
	p.mu.Unlock()
}

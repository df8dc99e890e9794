package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/publicsuffix"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/metrics"
	"ipwatch/internal/platform/observability"
	"ipwatch/internal/platform/retry"
	"ipwatch/internal/ports"
	"ipwatch/internal/services/analysis"
	"ipwatch/internal/services/collector"
	"ipwatch/internal/services/escalation"
)

const AgentVersion = "SurveillanceAgent-v1.0"

var tracer = observability.Tracer("monitoring")

type Collector interface {
	Collect(ctx context.Context, targetURL string) (collector.Collection, error)
}

type Assessor interface {
	Assess(ctx context.Context, in analysis.Input) (domain.RiskAssessment, error)
}

type Escalator interface {
	Escalate(ctx context.Context, in escalation.Input) escalation.Outcome
}

type Deps struct {
	Jobs      ports.JobRepository
	Assets    ports.AssetRepository
	Logs      ports.MonitoringLogRepository
	Blobs     ports.BlobStore
	Collector Collector
	Assessor  Assessor
	Escalator Escalator
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// Service owns the monitoring job lifecycle: pending, running, then
// completed or failed.
type Service struct {
	jobs      ports.JobRepository
	assets    ports.AssetRepository
	logs      ports.MonitoringLogRepository
	blobs     ports.BlobStore
	collector Collector
	assessor  Assessor
	escalator Escalator
	cache     *lru.Cache[string, domain.Asset]
	zenc      *zstd.Encoder
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	suffix    func() string
}

func New(d Deps, assetCacheSize int) (*Service, error) {
	if assetCacheSize < 1 {
		assetCacheSize = 256
	}
	cache, err := lru.New[string, domain.Asset](assetCacheSize)
	if err != nil {
		return nil, err
	}
	zenc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		jobs: d.Jobs, assets: d.Assets, logs: d.Logs, blobs: d.Blobs,
		collector: d.Collector, assessor: d.Assessor, escalator: d.Escalator,
		cache: cache, zenc: zenc,
		logger:  logger.With("component", "monitoring"),
		metrics: d.Metrics,
		now:     time.Now,
		suffix:  randomSuffix,
	}, nil
}

func (s *Service) CreateJob(ctx context.Context, rawURL, assetID, actorID string) (domain.Job, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return domain.Job{}, domain.Invalid("url must be an absolute http(s) URL")
	}
	if strings.TrimSpace(actorID) == "" {
		return domain.Job{}, domain.Invalid("actor id is required")
	}
	if _, err := s.asset(ctx, assetID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Job{}, domain.Invalid("asset %s does not exist", assetID)
		}
		return domain.Job{}, err
	}
	host := strings.ToLower(u.Hostname())
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}
	job, err := s.jobs.Create(ctx, domain.Job{
		TargetURL:    u.String(),
		TargetDomain: registrable,
		AssetID:      assetID,
		Status:       domain.JobPending,
		CreatedBy:    actorID,
	})
	if err != nil {
		return job, fmt.Errorf("create job: %w", err)
	}
	s.logger.Info("job created", "job_id", job.ID, "url", job.TargetURL, "domain", registrable, "created_by", actorID)
	return job, nil
}

type JobDetail struct {
	Job  domain.Job
	Logs []domain.MonitoringLog
}

func (s *Service) GetJob(ctx context.Context, id string) (JobDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return JobDetail{}, domain.ErrNotFound
	}
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return JobDetail{}, err
	}
	logs, err := s.logs.ListLogs(ctx, id)
	if err != nil {
		return JobDetail{}, err
	}
	return JobDetail{Job: job, Logs: logs}, nil
}

func (s *Service) Stats(ctx context.Context) (domain.JobStats, error) {
	return s.jobs.Stats(ctx)
}

// PendingJobs lists the oldest pending job ids.
func (s *Service) PendingJobs(ctx context.Context, limit int) ([]string, error) {
	return s.jobs.NextPending(ctx, limit)
}

type ExecutionResult struct {
	Job        domain.Job
	Log        domain.MonitoringLog
	Assessment domain.RiskAssessment
	Escalation escalation.Outcome
}

// Execute runs a pending job to completion. Only the caller that wins the
// pending to running transition does any work; every other caller gets a
// *domain.ConflictError. Pipeline errors mark the job failed and are returned.
func (s *Service) Execute(ctx context.Context, id string) (ExecutionResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ExecutionResult{}, domain.ErrNotFound
	}
	job, ok, err := s.jobs.TryStart(ctx, id)
	if err != nil {
		return ExecutionResult{}, err
	}
	if !ok {
		return ExecutionResult{Job: job}, &domain.ConflictError{JobID: id, Status: job.Status}
	}

	ctx, span := tracer.Start(ctx, "monitoring.execute")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id), attribute.String("url", job.TargetURL))

	start := s.now()
	log := s.logger.With("job_id", id)
	log.Info("job started", "url", job.TargetURL)

	exec, runErr := s.run(ctx, job)
	// terminal writes must land even if the caller went away
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	fail := func(cause error) (ExecutionResult, error) {
		span.RecordError(cause)
		if err := s.jobs.MarkFailed(dctx, id, cause.Error()); err != nil {
			log.Error("mark job failed", "err", err)
		}
		if failed, err := s.jobs.Get(dctx, id); err == nil {
			job = failed
		}
		s.metrics.JobExecuted("failed", s.now().Sub(start).Seconds())
		log.Error("job failed", "err", cause)
		return ExecutionResult{Job: job}, cause
	}
	if runErr != nil {
		return fail(runErr)
	}

	res := exec.ExecutionResult
	done, err := s.jobs.MarkCompleted(dctx, id)
	if err != nil {
		return fail(fmt.Errorf("complete job: %w", err))
	}
	res.Job = done
	s.metrics.JobExecuted("completed", s.now().Sub(start).Seconds())
	log.Info("job completed", "risk_score", res.Assessment.OverallRiskScore, "duration", s.now().Sub(start))

	if s.escalator != nil {
		asset, _ := s.asset(dctx, job.AssetID)
		out := s.escalator.Escalate(dctx, escalation.Input{
			Job:        done,
			Asset:      asset,
			Log:        res.Log,
			Assessment: res.Assessment,
			Snapshot:   exec.snapshot,
		})
		res.Escalation = out
		if out.CaseID != "" {
			res.Log.AutoCaseID = &out.CaseID
		}
	}
	return res, nil
}

func (s *Service) run(ctx context.Context, job domain.Job) (execution, error) {
	asset, err := s.asset(ctx, job.AssetID)
	if err != nil {
		return execution{}, fmt.Errorf("load asset %s: %w", job.AssetID, err)
	}

	col, err := s.collector.Collect(ctx, job.TargetURL)
	if err != nil {
		return execution{}, err
	}

	ra, err := s.assessor.Assess(ctx, analysis.Input{
		Asset:     asset,
		Snapshot:  col.Snapshot,
		HTML:      col.HTML,
		TargetURL: job.TargetURL,
	})
	if err != nil {
		return execution{}, err
	}

	shotURL := s.uploadScreenshot(ctx, job.ID, col.Screenshot)
	archiveURL := s.archiveHTML(ctx, job.ID, col.RawHTML)

	meta, err := buildMetadata(col.Snapshot, ra, archiveURL, s.now().UTC())
	if err != nil {
		return execution{}, fmt.Errorf("encode log metadata: %w", err)
	}
	l, err := s.logs.CreateLog(ctx, domain.MonitoringLog{
		JobID:         job.ID,
		Result:        "SurveillanceAgent Analysis: " + ra.Summary,
		RiskScore:     ra.OverallRiskScore,
		ScreenshotURL: shotURL,
		HTMLContent:   col.HTML,
		Metadata:      meta,
	})
	if err != nil {
		return execution{}, &domain.StorageError{Op: "persist monitoring log", Err: err}
	}
	return execution{ExecutionResult: ExecutionResult{Log: l, Assessment: ra}, snapshot: col.Snapshot}, nil
}

type execution struct {
	ExecutionResult
	snapshot domain.Snapshot
}

func (s *Service) asset(ctx context.Context, id string) (domain.Asset, error) {
	if a, ok := s.cache.Get(id); ok {
		return a, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.Asset{}, domain.ErrNotFound
	}
	a, err := s.assets.GetAsset(ctx, id)
	if err != nil {
		return a, err
	}
	s.cache.Add(id, a)
	return a, nil
}

// uploadScreenshot stores the PNG under a time-based key, retrying once
// with a random suffix if the key is taken. Failures leave the URL unset.
func (s *Service) uploadScreenshot(ctx context.Context, jobID string, png []byte) *string {
	if len(png) == 0 || s.blobs == nil {
		return nil
	}
	base := fmt.Sprintf("surveillance/%s_%d", jobID, s.now().UnixMilli())
	policy := retry.Policy{Attempts: 2, Retryable: func(err error) bool { return errors.Is(err, domain.ErrKeyExists) }}

	var out string
	_, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		key := base + ".png"
		if attempt > 1 {
			key = base + "_" + s.suffix() + ".png"
		}
		u, err := s.blobs.Upload(ctx, key, png, "image/png")
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		s.logger.Warn("screenshot upload failed", "job_id", jobID, "err", err)
		s.metrics.ScreenshotUpload("failed")
		return nil
	}
	s.metrics.ScreenshotUpload("uploaded")
	return &out
}

// archiveHTML stores the full page source zstd-compressed. Best effort.
func (s *Service) archiveHTML(ctx context.Context, jobID, html string) string {
	if html == "" || s.blobs == nil {
		return ""
	}
	key := fmt.Sprintf("surveillance/%s_%d.html.zst", jobID, s.now().UnixMilli())
	u, err := s.blobs.Upload(ctx, key, s.zenc.EncodeAll([]byte(html), nil), "application/zstd")
	if err != nil {
		s.logger.Warn("html archive upload failed", "job_id", jobID, "err", err)
		return ""
	}
	return u
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

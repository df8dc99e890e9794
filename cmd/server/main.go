package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ipwatch/internal/adapters/blob"
	"ipwatch/internal/adapters/browser"
	"ipwatch/internal/adapters/events"
	httpadapter "ipwatch/internal/adapters/http"
	"ipwatch/internal/adapters/llm"
	"ipwatch/internal/adapters/memory"
	pg "ipwatch/internal/adapters/postgres"
	"ipwatch/internal/adapters/redisslots"
	"ipwatch/internal/config"
	"ipwatch/internal/domain"
	"ipwatch/internal/platform/logging"
	"ipwatch/internal/platform/metrics"
	"ipwatch/internal/platform/observability"
	"ipwatch/internal/ports"
	"ipwatch/internal/services/analysis"
	"ipwatch/internal/services/collector"
	"ipwatch/internal/services/escalation"
	"ipwatch/internal/services/ledger"
	"ipwatch/internal/services/monitoring"
	"ipwatch/internal/services/workflow"
	"ipwatch/internal/workers/jobrunner"
)

// repositories is the persistence surface the services need.
type repositories interface {
	ports.JobRepository
	ports.AssetRepository
	ports.MonitoringLogRepository
	ports.CaseRepository
	ports.EvidenceRepository
	ports.LedgerRepository
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, cfgErr := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("config", "err", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  "ipwatch",
		Environment:  cfg.Env,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Insecure:     cfg.Env != "production",
		SampleRate:   1,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Postgres when configured, otherwise an in-memory store for local runs.
	var repos repositories
	var runs ports.WorkflowRunRepository
	if cfg.DatabaseURL != "" {
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx, logger); err != nil {
			return err
		}
		sqlDB := db.SQL()
		defer sqlDB.Close()
		repos, runs = db, pg.NewRunStore(sqlDB)
	} else {
		store := memory.New()
		for _, a := range cfg.DevAssets {
			store.PutAsset(domain.Asset{ID: a.ID, Type: a.Type, Title: a.Title, Description: a.Description})
		}
		logger.Warn("no database configured, using in-memory store", "seeded_assets", len(cfg.DevAssets))
		repos, runs = store, store
	}

	blobs, err := blob.NewStore(ctx, cfg.Blob)
	if err != nil {
		return err
	}

	var publisher ports.EventPublisher = events.Noop{}
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
		defer nc.Close()
		publisher = nc
	}

	chrome := browser.NewChrome(ctx, browser.Options{ExecPath: cfg.Browser.ExecPath, Headless: cfg.Browser.Headless})
	defer chrome.Close()

	completer := llm.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	engine := analysis.New(completer, cfg.AI.Timeout, logger, m)

	schemas, err := escalation.LoadSchemas()
	if err != nil {
		return err
	}
	escalator := escalation.New(repos, repos, repos, publisher, schemas, escalation.Config{
		Threshold: cfg.Escalation.Threshold,
		ActorID:   cfg.Escalation.ActorID,
	}, logger, m)

	monitor, err := monitoring.New(monitoring.Deps{
		Jobs:   repos,
		Assets: repos,
		Logs:   repos,
		Blobs:  blobs,
		Collector: collector.New(chrome, collector.Options{
			Attempts:          cfg.Browser.NavigationAttempts,
			Backoff:           cfg.Browser.NavigationBackoff,
			NavigationTimeout: cfg.Browser.NavigationTimeout,
			SettleDelay:       cfg.Browser.SettleDelay,
		}, logger, m),
		Assessor:  engine,
		Escalator: escalator,
		Logger:    logger,
		Metrics:   m,
	}, cfg.AssetCacheSize)
	if err != nil {
		return err
	}

	var slots jobrunner.Slots
	if cfg.RedisAddr != "" {
		rdb := redisslots.NewClient(cfg.RedisAddr, cfg.RedisPassword)
		defer rdb.Close()
		slots = redisslots.New(rdb, redisslots.Options{Capacity: cfg.BrowserSlots})
		logger.Info("cluster-wide browser slots enabled", "redis", cfg.RedisAddr)
	}
	pool := jobrunner.New(monitor, cfg.BrowserSlots, slots, logger, m)

	if cfg.AutoExecuteWorkers > 0 {
		go pool.Run(ctx, monitor, cfg.PollInterval)
		logger.Info("auto execution started", "interval", cfg.PollInterval, "slots", cfg.BrowserSlots)
	}

	limiter := httpadapter.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Close()

	srv := httpadapter.New(httpadapter.Deps{
		Jobs:         monitor,
		Runner:       pool,
		Cases:        repos,
		Ledger:       ledger.New(repos, repos, logger, m),
		Documents:    workflow.New(engine, engine, runs, workflow.NewUsageCounter(cfg.AI.CostPer1KTokens), logger),
		Assets:       repos,
		DefaultModel: cfg.AI.Model,
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Limiter:      limiter,
		Logger:       logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	logger.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}
	if err := pool.Close(sctx); err != nil {
		logger.Warn("job pool shutdown", "err", err)
	}
	return nil
}

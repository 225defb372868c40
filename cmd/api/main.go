package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sakkanal_backend/internal/adapters"
	"sakkanal_backend/internal/adapters/storage"
	"sakkanal_backend/internal/analytics"
	"sakkanal_backend/internal/auth"
	authadapter "sakkanal_backend/internal/auth/adapter"
	"sakkanal_backend/internal/catalog"
	"sakkanal_backend/internal/crm"
	"sakkanal_backend/internal/email"
	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/exports"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/http/router"
	"sakkanal_backend/internal/leads"
	"sakkanal_backend/internal/notification"
	"sakkanal_backend/internal/notification/outbox"
	"sakkanal_backend/internal/recommendation"
	"sakkanal_backend/internal/reports"
	"sakkanal_backend/internal/scheduler"
	"sakkanal_backend/internal/segments"
	"sakkanal_backend/internal/training"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	eventBus := events.NewInMemoryBus(log)

	jobClient, closeJobClient := initJobClient(cfg, log)
	if closeJobClient != nil {
		defer closeJobClient()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule, err := auth.NewModule(pool, cfg, log, val)
	if err != nil {
		log.Error("failed to initialize auth module", "error", err)
		panic("failed to initialize auth module: " + err.Error())
	}
	if err := authModule.Service().EnsureBootstrapAdmin(ctx, cfg); err != nil {
		log.Error("failed to bootstrap admin", "error", err)
		panic("failed to bootstrap admin: " + err.Error())
	}

	// Notification module subscribes to lead events and serves the admin inbox
	adminDirectory := authadapter.NewAdminDirectoryAdapter(authModule.Service())
	notificationModule := notification.New(pool, sender, adminDirectory, cfg, log)
	notificationModule.RegisterHandlers(eventBus)
	if jobClient != nil {
		// High-value alerts are queued and delivered by the scheduler process
		notificationModule.SetOutbox(outbox.New(pool))
	}

	catalogModule := catalog.NewModule(pool, val, log)
	if seeded, err := catalogModule.Service().SeedFromFile(ctx, cfg.GetCatalogSeedFile()); err != nil {
		log.Error("failed to seed catalog", "error", err)
	} else if seeded > 0 {
		log.Info("catalog seed applied", "scenarios", seeded)
	}

	scenarioReader := adapters.NewRecommendationScenarioReader(catalogModule.Repository())
	recommendationModule := recommendation.NewModule(pool, scenarioReader, val, log)
	leadsModule := leads.NewModule(pool, eventBus, val, cfg, log)
	segmentsModule := segments.NewModule(pool, val, log)

	crmModule := crm.NewModule(pool, adapters.NewCRMLeadSource(leadsModule.Repository()), eventBus, cfg, val, log)
	if jobClient != nil {
		crmModule.SetEnqueuer(jobClient)
	}

	analyticsModule := analytics.NewModule(pool, val, log)
	exportsModule := exports.NewModule(pool, analyticsModule.Service(), val, log)
	trainingModule := training.NewModule(pool, val, log)

	reportsModule := reports.NewModule(pool, scenarioReader, eventBus, val, log)
	initReportRendering(ctx, cfg, log, reportsModule.Service())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			recommendationModule,
			leadsModule,
			segmentsModule,
			crmModule,
			analyticsModule,
			exportsModule,
			trainingModule,
			notificationModule,
			reportsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	// Close SSE streams first so Shutdown does not wait on them
	notificationModule.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	eventBus.Wait()
	log.Info("server stopped")
}

// initJobClient connects to the asynq queue when Redis is configured.
func initJobClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; CRM deliveries and alert emails run inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize job client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

type reportRenderingConfig interface {
	config.GotenbergConfig
	config.MinIOConfig
}

// initReportRendering attaches the PDF converter and report storage when configured.
func initReportRendering(ctx context.Context, cfg reportRenderingConfig, log *logger.Logger, svc *reports.Service) {
	if !cfg.IsGotenbergEnabled() {
		log.Warn("GOTENBERG_URL not configured; reports are served as HTML")
		return
	}
	svc.SetConverter(reports.NewGotenbergClient(cfg.GetGotenbergURL(), cfg.GetGotenbergUsername(), cfg.GetGotenbergPassword()))
	log.Info("gotenberg PDF generator initialized", "url", cfg.GetGotenbergURL())

	if !cfg.IsMinIOEnabled() {
		log.Info("MinIO not configured; report PDFs are streamed")
		return
	}
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		return
	}
	bucket := cfg.GetMinioBucketReports()
	if err := withRetry(ctx, log, "ensure reports bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		return
	}
	svc.SetObjectStore(storageSvc, bucket)
	log.Info("report storage initialized", "bucket", bucket)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

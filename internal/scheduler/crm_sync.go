package scheduler

import (
	"context"
	"fmt"

	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultCRMSyncCron = "*/15 * * * *"

// CRMSyncScheduler enqueues the periodic batch sync of hourly and daily integrations.
type CRMSyncScheduler struct {
	scheduler *asynq.Scheduler
	cron      string
	queue     string
	log       *logger.Logger
}

func NewCRMSyncScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*CRMSyncScheduler, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	cron := cfg.GetCRMSyncCron()
	if cron == "" {
		cron = defaultCRMSyncCron
	}

	return &CRMSyncScheduler{
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{}),
		cron:      cron,
		queue:     queueName(cfg),
		log:       log,
	}, nil
}

// Run registers the periodic task and blocks until ctx is done.
func (s *CRMSyncScheduler) Run(ctx context.Context) error {
	if s == nil || s.scheduler == nil {
		return nil
	}

	if _, err := s.scheduler.Register(s.cron, NewCRMSyncBatchTask(), asynq.Queue(s.queue)); err != nil {
		return fmt.Errorf("register crm sync: %w", err)
	}
	if err := s.scheduler.Start(); err != nil {
		return fmt.Errorf("start crm sync scheduler: %w", err)
	}
	s.log.Info("crm sync scheduler started", "cron", s.cron)

	<-ctx.Done()
	s.scheduler.Shutdown()
	return nil
}

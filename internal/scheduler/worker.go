package scheduler

import (
	"context"
	"fmt"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// CRMProcessor delivers leads to CRM integrations.
type CRMProcessor interface {
	Deliver(ctx context.Context, integrationID, leadID uuid.UUID, event string) error
	SyncBatch(ctx context.Context) (int, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	crm    CRMProcessor
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskCRMWebhookDeliver, w.handleCRMWebhookDeliver)
	mux.HandleFunc(TaskCRMSyncBatch, w.handleCRMSyncBatch)
	mux.HandleFunc(TaskNotificationOutboxDue, w.handleNotificationOutboxDue)

	return w, nil
}

func (w *Worker) SetCRMProcessor(processor CRMProcessor) {
	w.crm = processor
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleCRMWebhookDeliver(ctx context.Context, task *asynq.Task) error {
	if w.crm == nil {
		return nil
	}

	payload, err := ParseCRMWebhookDeliverPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	integrationID, err := uuid.Parse(payload.IntegrationID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	return w.crm.Deliver(ctx, integrationID, leadID, payload.Event)
}

func (w *Worker) handleCRMSyncBatch(ctx context.Context, _ *asynq.Task) error {
	if w.crm == nil {
		return nil
	}

	synced, err := w.crm.SyncBatch(ctx)
	if err != nil {
		return err
	}
	if synced > 0 {
		w.log.Info("crm batch sync complete", "integrations", synced)
	}
	return nil
}

func (w *Worker) handleNotificationOutboxDue(ctx context.Context, task *asynq.Task) error {
	if w.bus == nil {
		return nil
	}

	payload, err := ParseNotificationOutboxDuePayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	return w.bus.PublishSync(ctx, events.NotificationOutboxDue{
		BaseEvent: events.NewBaseEvent(),
		OutboxID:  outboxID,
	})
}

package crm

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// batchLimit caps the leads of a single sync page.
const batchLimit = 500

// Poster sends a webhook payload and returns the response status.
type Poster interface {
	Post(ctx context.Context, url, event, deliveryID string, payload any) (int, error)
}

// Service manages integrations and delivers leads to them.
type Service struct {
	repo     IntegrationStore
	leads    LeadSource
	client   Poster
	enqueuer DeliveryEnqueuer
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates the CRM service. A nil enqueuer delivers realtime events inline.
func NewService(repo IntegrationStore, leads LeadSource, client Poster, enqueuer DeliveryEnqueuer, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		leads:    leads,
		client:   client,
		enqueuer: enqueuer,
		log:      log,
		now:      time.Now,
	}
}

// SetEnqueuer switches realtime deliveries to the job queue.
func (s *Service) SetEnqueuer(enqueuer DeliveryEnqueuer) {
	s.enqueuer = enqueuer
}

// Create registers an integration.
func (s *Service) Create(ctx context.Context, req CreateIntegrationRequest) (IntegrationResponse, error) {
	if err := validateWebhookURL(req.WebhookURL); err != nil {
		return IntegrationResponse{}, err
	}
	frequency := req.SyncFrequency
	if frequency == "" {
		frequency = FrequencyRealtime
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	integration, err := s.repo.Create(ctx, CreateParams{
		Name:          sanitize.Line(req.Name),
		WebhookURL:    strings.TrimSpace(req.WebhookURL),
		IsActive:      active,
		SyncFrequency: frequency,
		Config:        req.Config,
	})
	if err != nil {
		return IntegrationResponse{}, err
	}

	s.log.Info("crm integration created", "id", integration.ID, "frequency", integration.SyncFrequency)
	return toIntegrationResponse(integration), nil
}

// List returns every integration.
func (s *Service) List(ctx context.Context) ([]IntegrationResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]IntegrationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toIntegrationResponse(item))
	}
	return resp, nil
}

// Get returns one integration.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (IntegrationResponse, error) {
	integration, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return IntegrationResponse{}, err
	}
	return toIntegrationResponse(integration), nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateIntegrationRequest) (IntegrationResponse, error) {
	params := UpdateParams{ID: id, SyncFrequency: req.SyncFrequency, Config: req.Config}
	if req.Name != nil {
		name := sanitize.Line(*req.Name)
		params.Name = &name
	}
	if req.WebhookURL != nil {
		if err := validateWebhookURL(*req.WebhookURL); err != nil {
			return IntegrationResponse{}, err
		}
		webhookURL := strings.TrimSpace(*req.WebhookURL)
		params.WebhookURL = &webhookURL
	}

	integration, err := s.repo.Update(ctx, params)
	if err != nil {
		return IntegrationResponse{}, err
	}
	s.log.Info("crm integration updated", "id", integration.ID)
	return toIntegrationResponse(integration), nil
}

// Delete removes an integration.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("crm integration deleted", "id", id)
	return nil
}

// Toggle flips the active flag.
func (s *Service) Toggle(ctx context.Context, id uuid.UUID) (IntegrationResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return IntegrationResponse{}, err
	}
	integration, err := s.repo.SetActive(ctx, id, !current.IsActive)
	if err != nil {
		return IntegrationResponse{}, err
	}
	s.log.Info("crm integration toggled", "id", id, "active", integration.IsActive)
	return toIntegrationResponse(integration), nil
}

// SyncNow sends every lead updated since the last sync, whatever the frequency.
func (s *Service) SyncNow(ctx context.Context, id uuid.UUID) (SyncResult, error) {
	integration, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return SyncResult{}, err
	}
	if !integration.IsActive {
		return SyncResult{}, apperr.Validation("l'intégration est désactivée")
	}
	return s.syncIntegration(ctx, integration)
}

// Deliver sends one lead to one integration and records the sync time.
func (s *Service) Deliver(ctx context.Context, integrationID, leadID uuid.UUID, event string) error {
	integration, err := s.repo.GetByID(ctx, integrationID)
	if err != nil {
		return err
	}
	if !integration.IsActive {
		return nil
	}

	lead, err := s.leads.GetLead(ctx, leadID)
	if err != nil {
		return err
	}

	now := s.now()
	envelope := LeadEnvelope{Event: event, SentAt: now.UTC(), Lead: lead}
	status, err := s.client.Post(ctx, integration.WebhookURL, event, uuid.NewString(), envelope)
	s.log.WebhookDelivery(integration.ID.String(), integration.WebhookURL, status, err)
	if err != nil {
		return err
	}
	return s.repo.TouchLastSync(ctx, integration.ID, now)
}

// SyncBatch runs the periodic sync of hourly and daily integrations whose interval elapsed.
func (s *Service) SyncBatch(ctx context.Context) (int, error) {
	now := s.now()
	synced := 0
	for _, frequency := range []string{FrequencyHourly, FrequencyDaily} {
		integrations, err := s.repo.ListActive(ctx, frequency)
		if err != nil {
			return synced, err
		}
		for _, integration := range integrations {
			if !DueForSync(integration, now) {
				continue
			}
			if _, err := s.syncIntegration(ctx, integration); err != nil {
				s.log.Warn("crm batch sync failed", "integration_id", integration.ID, "error", err)
				continue
			}
			synced++
		}
	}
	return synced, nil
}

// DueForSync reports whether a batch integration's interval has elapsed.
func DueForSync(integration Integration, now time.Time) bool {
	if integration.LastSync == nil {
		return true
	}
	interval := time.Hour
	if integration.SyncFrequency == FrequencyDaily {
		interval = 24 * time.Hour
	}
	return !now.Before(integration.LastSync.Add(interval))
}

// syncIntegration pages through every lead updated since the last sync, one
// webhook per page. last_sync only moves once every page was accepted, and it
// moves to the time the sync started so concurrent updates are picked up next run.
func (s *Service) syncIntegration(ctx context.Context, integration Integration) (SyncResult, error) {
	started := s.now()

	var after *LeadCursor
	sent := 0
	for {
		leads, err := s.leads.ListUpdatedSince(ctx, integration.LastSync, after, batchLimit)
		if err != nil {
			return SyncResult{}, err
		}
		if len(leads) == 0 {
			break
		}

		envelope := BatchEnvelope{
			Event:  EventLeadsSync,
			SentAt: started.UTC(),
			Since:  integration.LastSync,
			Count:  len(leads),
			Leads:  leads,
		}
		status, err := s.client.Post(ctx, integration.WebhookURL, EventLeadsSync, uuid.NewString(), envelope)
		s.log.WebhookDelivery(integration.ID.String(), integration.WebhookURL, status, err)
		if err != nil {
			return SyncResult{}, apperr.Wrap(apperr.KindUnavailable, "échec de la synchronisation CRM", err)
		}
		sent += len(leads)

		if len(leads) < batchLimit {
			break
		}
		last := leads[len(leads)-1]
		after = &LeadCursor{UpdatedAt: last.UpdatedAt, ID: last.ID}
	}

	if err := s.repo.TouchLastSync(ctx, integration.ID, started); err != nil {
		return SyncResult{}, err
	}
	return SyncResult{IntegrationID: integration.ID.String(), LeadsSent: sent, SyncedAt: started.UTC()}, nil
}

// Subscribe registers the lead event handlers on the bus.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		created, ok := e.(events.LeadCreated)
		if !ok {
			return nil
		}
		return s.dispatchRealtime(ctx, created.LeadID, EventLeadCreated)
	}))
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		changed, ok := e.(events.LeadStatusChanged)
		if !ok {
			return nil
		}
		return s.dispatchRealtime(ctx, changed.LeadID, EventLeadStatusChanged)
	}))
}

// dispatchRealtime fans a lead event out to every active realtime integration.
// Bus handlers already run on their own goroutine, so the inline path blocks only that goroutine.
func (s *Service) dispatchRealtime(ctx context.Context, leadID uuid.UUID, event string) error {
	integrations, err := s.repo.ListActive(ctx, FrequencyRealtime)
	if err != nil {
		return err
	}

	for _, integration := range integrations {
		if s.enqueuer != nil {
			if err := s.enqueuer.EnqueueCRMWebhook(ctx, integration.ID, leadID, event); err != nil {
				s.log.Warn("crm webhook enqueue failed, delivering inline", "integration_id", integration.ID, "error", err)
			} else {
				continue
			}
		}
		if err := s.Deliver(ctx, integration.ID, leadID, event); err != nil {
			s.log.Warn("crm webhook delivery failed", "integration_id", integration.ID, "lead_id", leadID, "error", err)
		}
	}
	return nil
}

func validateWebhookURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return apperr.Validation(fmt.Sprintf("URL de webhook invalide: %s", raw))
	}
	return nil
}

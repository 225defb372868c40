package crm

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	IntegrationStore
	items   map[uuid.UUID]Integration
	touched map[uuid.UUID]time.Time
}

func newFakeStore(items ...Integration) *fakeStore {
	s := &fakeStore{items: map[uuid.UUID]Integration{}, touched: map[uuid.UUID]time.Time{}}
	for _, i := range items {
		s.items[i.ID] = i
	}
	return s
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (Integration, error) {
	i, ok := s.items[id]
	if !ok {
		return Integration{}, apperr.NotFound(msgIntegrationNotFound)
	}
	return i, nil
}

func (s *fakeStore) ListActive(_ context.Context, frequency string) ([]Integration, error) {
	var out []Integration
	for _, i := range s.items {
		if i.IsActive && i.SyncFrequency == frequency {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *fakeStore) SetActive(_ context.Context, id uuid.UUID, active bool) (Integration, error) {
	i := s.items[id]
	i.IsActive = active
	s.items[id] = i
	return i, nil
}

func (s *fakeStore) TouchLastSync(_ context.Context, id uuid.UUID, at time.Time) error {
	s.touched[id] = at
	return nil
}

type fakeLeads struct {
	leads []LeadPayload
	since *time.Time
	pages int
}

func (f *fakeLeads) GetLead(_ context.Context, id uuid.UUID) (LeadPayload, error) {
	for _, l := range f.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return LeadPayload{}, apperr.NotFound("lead introuvable")
}

// ListUpdatedSince follows the repository query: updated after since,
// ordered by (updated_at, id), resumed after the cursor, capped by limit.
func (f *fakeLeads) ListUpdatedSince(_ context.Context, since *time.Time, after *LeadCursor, limit int) ([]LeadPayload, error) {
	f.since = since
	f.pages++

	sorted := append([]LeadPayload(nil), f.leads...)
	sort.Slice(sorted, func(i, j int) bool { return leadBefore(sorted[i], sorted[j]) })

	out := make([]LeadPayload, 0, limit)
	for _, l := range sorted {
		if since != nil && !l.UpdatedAt.After(*since) {
			continue
		}
		if after != nil && !leadBefore(LeadPayload{ID: after.ID, UpdatedAt: after.UpdatedAt}, l) {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, l)
	}
	return out, nil
}

func leadBefore(a, b LeadPayload) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.Before(b.UpdatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

type delivery struct {
	url     string
	event   string
	payload any
}

type fakePoster struct {
	mu         sync.Mutex
	deliveries []delivery
	err        error
}

func (p *fakePoster) Post(_ context.Context, url, event, _ string, payload any) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deliveries = append(p.deliveries, delivery{url: url, event: event, payload: payload})
	if p.err != nil {
		return 500, p.err
	}
	return 200, nil
}

type fakeEnqueuer struct {
	calls []uuid.UUID
	err   error
}

func (e *fakeEnqueuer) EnqueueCRMWebhook(_ context.Context, integrationID, _ uuid.UUID, _ string) error {
	e.calls = append(e.calls, integrationID)
	return e.err
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, leads *fakeLeads, poster *fakePoster, enqueuer DeliveryEnqueuer) *Service {
	svc := NewService(store, leads, poster, enqueuer, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestRealtimeEventsDeliverInlineWithoutQueue(t *testing.T) {
	lead := LeadPayload{ID: uuid.New(), ContactName: "Awa"}
	realtime := Integration{ID: uuid.New(), WebhookURL: "https://crm.example/hook", IsActive: true, SyncFrequency: FrequencyRealtime}
	hourly := Integration{ID: uuid.New(), WebhookURL: "https://crm.example/batch", IsActive: true, SyncFrequency: FrequencyHourly}
	store := newFakeStore(realtime, hourly)
	poster := &fakePoster{}
	svc := newTestService(store, &fakeLeads{leads: []LeadPayload{lead}}, poster, nil)

	bus := events.NewInMemoryBus(logger.Discard())
	svc.Subscribe(bus)
	require.NoError(t, bus.PublishSync(context.Background(), events.LeadCreated{BaseEvent: events.NewBaseEvent(), LeadID: lead.ID}))

	require.Len(t, poster.deliveries, 1)
	assert.Equal(t, realtime.WebhookURL, poster.deliveries[0].url)
	assert.Equal(t, EventLeadCreated, poster.deliveries[0].event)
	envelope, ok := poster.deliveries[0].payload.(LeadEnvelope)
	require.True(t, ok)
	assert.Equal(t, "Awa", envelope.Lead.ContactName)
	assert.Equal(t, fixedNow, store.touched[realtime.ID])
}

func TestRealtimeEventsUseQueueWhenAvailable(t *testing.T) {
	realtime := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyRealtime}
	poster := &fakePoster{}
	enqueuer := &fakeEnqueuer{}
	svc := newTestService(newFakeStore(realtime), &fakeLeads{}, poster, enqueuer)

	bus := events.NewInMemoryBus(logger.Discard())
	svc.Subscribe(bus)
	require.NoError(t, bus.PublishSync(context.Background(), events.LeadStatusChanged{BaseEvent: events.NewBaseEvent(), LeadID: uuid.New()}))

	assert.Equal(t, []uuid.UUID{realtime.ID}, enqueuer.calls)
	assert.Empty(t, poster.deliveries)
}

func TestDeliverSkipsInactiveIntegration(t *testing.T) {
	inactive := Integration{ID: uuid.New(), IsActive: false, SyncFrequency: FrequencyRealtime}
	poster := &fakePoster{}
	svc := newTestService(newFakeStore(inactive), &fakeLeads{}, poster, nil)

	require.NoError(t, svc.Deliver(context.Background(), inactive.ID, uuid.New(), EventLeadCreated))
	assert.Empty(t, poster.deliveries)
}

func TestDeliverFailureKeepsLastSync(t *testing.T) {
	lead := LeadPayload{ID: uuid.New()}
	integration := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyRealtime}
	store := newFakeStore(integration)
	svc := newTestService(store, &fakeLeads{leads: []LeadPayload{lead}}, &fakePoster{err: errors.New("boom")}, nil)

	require.Error(t, svc.Deliver(context.Background(), integration.ID, lead.ID, EventLeadCreated))
	assert.Empty(t, store.touched)
}

func TestSyncNowSendsBatch(t *testing.T) {
	last := fixedNow.Add(-2 * time.Hour)
	integration := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyDaily, LastSync: &last}
	leads := &fakeLeads{leads: []LeadPayload{
		{ID: uuid.New(), UpdatedAt: last.Add(time.Minute)},
		{ID: uuid.New(), UpdatedAt: last.Add(time.Hour)},
		{ID: uuid.New(), UpdatedAt: last.Add(-time.Minute)},
	}}
	poster := &fakePoster{}
	store := newFakeStore(integration)
	svc := newTestService(store, leads, poster, nil)

	result, err := svc.SyncNow(context.Background(), integration.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.LeadsSent)
	assert.Equal(t, &last, leads.since)
	require.Len(t, poster.deliveries, 1)
	batch := poster.deliveries[0].payload.(BatchEnvelope)
	assert.Equal(t, 2, batch.Count)
	assert.Equal(t, fixedNow, store.touched[integration.ID])
}

func TestSyncNowRejectsInactive(t *testing.T) {
	integration := Integration{ID: uuid.New(), IsActive: false}
	svc := newTestService(newFakeStore(integration), &fakeLeads{}, &fakePoster{}, nil)

	_, err := svc.SyncNow(context.Background(), integration.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSyncBatchOnlyDueIntegrations(t *testing.T) {
	recent := fixedNow.Add(-30 * time.Minute)
	old := fixedNow.Add(-25 * time.Hour)
	dueHourly := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyHourly}
	notDue := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyHourly, LastSync: &recent}
	dueDaily := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyDaily, LastSync: &old}
	store := newFakeStore(dueHourly, notDue, dueDaily)
	svc := newTestService(store, &fakeLeads{}, &fakePoster{}, nil)

	synced, err := svc.SyncBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, synced)
	assert.Contains(t, store.touched, dueHourly.ID)
	assert.Contains(t, store.touched, dueDaily.ID)
	assert.NotContains(t, store.touched, notDue.ID)
}

func TestToggle(t *testing.T) {
	integration := Integration{ID: uuid.New(), IsActive: true}
	svc := newTestService(newFakeStore(integration), &fakeLeads{}, &fakePoster{}, nil)

	resp, err := svc.Toggle(context.Background(), integration.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestValidateWebhookURL(t *testing.T) {
	assert.NoError(t, validateWebhookURL("https://hooks.example.com/lead"))
	assert.True(t, apperr.Is(validateWebhookURL("ftp://example.com"), apperr.KindValidation))
	assert.True(t, apperr.Is(validateWebhookURL("not a url"), apperr.KindValidation))
}

func TestSyncPagesPastBatchLimit(t *testing.T) {
	last := fixedNow.Add(-12 * time.Hour)
	integration := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyHourly, LastSync: &last}
	store := newFakeStore(integration)
	poster := &fakePoster{}

	leads := &fakeLeads{}
	shared := last.Add(time.Duration(batchLimit) * time.Second)
	for i := 0; i < 2*batchLimit+20; i++ {
		updated := last.Add(time.Duration(i+1) * time.Second)
		if i >= batchLimit-5 && i < batchLimit+5 {
			// Several leads share a timestamp across the page boundary.
			updated = shared
		}
		leads.leads = append(leads.leads, LeadPayload{ID: uuid.New(), UpdatedAt: updated})
	}

	now := fixedNow
	svc := newTestService(store, leads, poster, nil)
	svc.now = func() time.Time { return now }

	result, err := svc.SyncNow(context.Background(), integration.ID)
	require.NoError(t, err)
	assert.Equal(t, len(leads.leads), result.LeadsSent)
	assert.Equal(t, 3, leads.pages)
	require.Len(t, poster.deliveries, 3)
	assert.Equal(t, batchLimit, poster.deliveries[0].payload.(BatchEnvelope).Count)
	assert.Equal(t, now, store.touched[integration.ID])

	seen := map[uuid.UUID]int{}
	for _, d := range poster.deliveries {
		for _, l := range d.payload.(BatchEnvelope).Leads {
			seen[l.ID]++
		}
	}
	assert.Len(t, seen, len(leads.leads))
	for _, l := range leads.leads {
		assert.Equal(t, 1, seen[l.ID])
	}
}

func TestSyncBatchDeliversEveryLeadAcrossRuns(t *testing.T) {
	start := fixedNow.Add(-20 * time.Hour)
	integration := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyHourly, LastSync: &start}
	store := newFakeStore(integration)
	poster := &fakePoster{}

	leads := &fakeLeads{}
	for i := 0; i < batchLimit+100; i++ {
		leads.leads = append(leads.leads, LeadPayload{ID: uuid.New(), UpdatedAt: start.Add(time.Duration(i+1) * time.Minute)})
	}

	now := fixedNow
	svc := newTestService(store, leads, poster, nil)
	svc.now = func() time.Time { return now }

	for run := 0; run < 3; run++ {
		if touched, ok := store.touched[integration.ID]; ok {
			i := store.items[integration.ID]
			i.LastSync = &touched
			store.items[integration.ID] = i
		}
		// A lead changes after the previous run finished.
		leads.leads = append(leads.leads, LeadPayload{ID: uuid.New(), UpdatedAt: now.Add(time.Second)})
		now = now.Add(2 * time.Hour)

		_, err := svc.SyncBatch(context.Background())
		require.NoError(t, err)
	}

	seen := map[uuid.UUID]bool{}
	for _, d := range poster.deliveries {
		for _, l := range d.payload.(BatchEnvelope).Leads {
			seen[l.ID] = true
		}
	}
	for _, l := range leads.leads {
		assert.True(t, seen[l.ID], "lead updated at %s was never delivered", l.UpdatedAt)
	}
}

func TestSyncFailureKeepsLastSync(t *testing.T) {
	last := fixedNow.Add(-2 * time.Hour)
	integration := Integration{ID: uuid.New(), IsActive: true, SyncFrequency: FrequencyHourly, LastSync: &last}
	store := newFakeStore(integration)
	leads := &fakeLeads{leads: []LeadPayload{{ID: uuid.New(), UpdatedAt: last.Add(time.Minute)}}}
	svc := newTestService(store, leads, &fakePoster{err: errors.New("502")}, nil)

	_, err := svc.SyncNow(context.Background(), integration.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	assert.NotContains(t, store.touched, integration.ID)
}

package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"sakkanal_backend/internal/email"
	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/notification/inapp"
	"sakkanal_backend/internal/notification/outbox"
	"sakkanal_backend/internal/notification/ports"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNotificationConfig struct {
	extra []string
}

func (testNotificationConfig) GetAppBaseURL() string { return "https://app.sakkanal.sn/" }
func (c testNotificationConfig) GetAdminAlertRecipients() []string {
	return c.extra
}

type testDirectory struct {
	recipients []ports.Recipient
	err        error
}

func (d testDirectory) ListRecipients(context.Context) ([]ports.Recipient, error) {
	return d.recipients, d.err
}

type testStore struct {
	mu      sync.Mutex
	created []inapp.CreateParams
	failFor uuid.UUID
}

func (s *testStore) Create(_ context.Context, p inapp.CreateParams) (inapp.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.AdminUserID == s.failFor {
		return inapp.Notification{}, errors.New("insert failed")
	}
	s.created = append(s.created, p)
	return inapp.Notification{ID: uuid.New(), AdminUserID: p.AdminUserID, LeadID: p.LeadID, Type: p.Type, Title: p.Title, Priority: p.Priority}, nil
}

func (s *testStore) List(context.Context, inapp.ListParams) ([]inapp.Notification, int, error) {
	return nil, 0, nil
}
func (s *testStore) CountUnread(context.Context, uuid.UUID) (int, error) { return 0, nil }
func (s *testStore) MarkRead(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (s *testStore) MarkAllRead(context.Context, uuid.UUID) (int64, error) { return 0, nil }
func (s *testStore) Delete(context.Context, uuid.UUID, uuid.UUID) error    { return nil }

type testSender struct {
	email.NoopSender
	mu     sync.Mutex
	alerts map[string]email.HighValueLeadAlert
	err    error
}

func (s *testSender) SendHighValueLeadAlert(_ context.Context, to string, alert email.HighValueLeadAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.alerts == nil {
		s.alerts = make(map[string]email.HighValueLeadAlert)
	}
	s.alerts[to] = alert
	return nil
}

type testOutbox struct {
	records   map[uuid.UUID]outbox.Record
	succeeded []uuid.UUID
	failed    []uuid.UUID
	retried   map[uuid.UUID]time.Time
}

func newTestOutbox() *testOutbox {
	return &testOutbox{records: map[uuid.UUID]outbox.Record{}, retried: map[uuid.UUID]time.Time{}}
}

func (o *testOutbox) Insert(_ context.Context, p outbox.InsertParams) (uuid.UUID, error) {
	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	o.records[id] = outbox.Record{ID: id, Kind: p.Kind, Template: p.Template, Payload: payload, RunAt: p.RunAt, Status: outbox.StatusPending}
	return id, nil
}

func (o *testOutbox) GetByID(_ context.Context, id uuid.UUID) (outbox.Record, error) {
	rec, ok := o.records[id]
	if !ok {
		return outbox.Record{}, errors.New("not found")
	}
	return rec, nil
}

func (o *testOutbox) MarkProcessing(_ context.Context, id uuid.UUID) error {
	rec := o.records[id]
	rec.Status = outbox.StatusProcessing
	rec.Attempts++
	o.records[id] = rec
	return nil
}

func (o *testOutbox) MarkSucceeded(_ context.Context, id uuid.UUID) error {
	rec := o.records[id]
	rec.Status = outbox.StatusSucceeded
	o.records[id] = rec
	o.succeeded = append(o.succeeded, id)
	return nil
}

func (o *testOutbox) Retry(_ context.Context, id uuid.UUID, _ string, runAt time.Time) error {
	rec := o.records[id]
	rec.Status = outbox.StatusPending
	rec.RunAt = runAt
	o.records[id] = rec
	o.retried[id] = runAt
	return nil
}

func (o *testOutbox) MarkFailed(_ context.Context, id uuid.UUID, _ string) error {
	rec := o.records[id]
	rec.Status = outbox.StatusFailed
	o.records[id] = rec
	o.failed = append(o.failed, id)
	return nil
}

func twoAdmins() []ports.Recipient {
	return []ports.Recipient{
		{AdminID: uuid.New(), Email: "awa@sakkanal.sn", FullName: "Awa Ndiaye"},
		{AdminID: uuid.New(), Email: "moussa@sakkanal.sn", FullName: "Moussa Sow"},
	}
}

func TestLeadCreatedFansOutToEveryAdmin(t *testing.T) {
	store := &testStore{}
	admins := twoAdmins()
	m := newModule(store, nil, testDirectory{recipients: admins}, testNotificationConfig{}, logger.Discard())

	leadID := uuid.New()
	err := m.Handle(context.Background(), events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          leadID,
		CompanyName:     "Hôtel Teranga",
		ContactName:     "Fatou Diop",
		SiteType:        "hotel",
		ElectricityBill: 2500000,
		Score:           72,
	})
	require.NoError(t, err)
	require.Len(t, store.created, 2)

	for i, created := range store.created {
		assert.Equal(t, admins[i].AdminID, created.AdminUserID)
		assert.Equal(t, inapp.TypeNewLead, created.Type)
		assert.Equal(t, inapp.PriorityMedium, created.Priority)
		assert.Equal(t, "Nouveau lead : Hôtel Teranga", created.Title)
		require.NotNil(t, created.LeadID)
		assert.Equal(t, leadID, *created.LeadID)
	}
}

func TestEventTypesMapToPriorities(t *testing.T) {
	cases := []struct {
		event    events.Event
		typ      inapp.Type
		priority inapp.Priority
	}{
		{events.LeadStatusChanged{LeadID: uuid.New(), CompanyName: "SDE", OldStatus: "new", NewStatus: "contacted"}, inapp.TypeStatusChange, inapp.PriorityLow},
		{events.LeadInteractionAdded{LeadID: uuid.New(), CompanyName: "SDE", InteractionType: "call", Notes: "Rappel demain"}, inapp.TypeInteraction, inapp.PriorityLow},
		{events.HighValueLeadDetected{LeadID: uuid.New(), CompanyName: "SDE", Score: 91}, inapp.TypeHighValue, inapp.PriorityHigh},
	}

	for _, tc := range cases {
		store := &testStore{}
		m := newModule(store, &testSender{}, testDirectory{recipients: twoAdmins()[:1]}, testNotificationConfig{}, logger.Discard())

		require.NoError(t, m.Handle(context.Background(), tc.event))
		require.Len(t, store.created, 1, tc.event.EventName())
		assert.Equal(t, tc.typ, store.created[0].Type, tc.event.EventName())
		assert.Equal(t, tc.priority, store.created[0].Priority, tc.event.EventName())
	}
}

func TestFanOutContinuesAfterSingleFailure(t *testing.T) {
	admins := twoAdmins()
	store := &testStore{failFor: admins[0].AdminID}
	m := newModule(store, nil, testDirectory{recipients: admins}, testNotificationConfig{}, logger.Discard())

	err := m.Handle(context.Background(), events.LeadStatusChanged{LeadID: uuid.New(), OldStatus: "new", NewStatus: "qualified"})
	require.Error(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, admins[1].AdminID, store.created[0].AdminUserID)
}

func TestHighValueLeadEmailsAdminsInline(t *testing.T) {
	sender := &testSender{}
	cfg := testNotificationConfig{extra: []string{"direction@sakkanal.sn", "AWA@sakkanal.sn"}}
	m := newModule(&testStore{}, sender, testDirectory{recipients: twoAdmins()}, cfg, logger.Discard())

	leadID := uuid.New()
	err := m.Handle(context.Background(), events.HighValueLeadDetected{
		LeadID:              leadID,
		CompanyName:         "Sococim",
		Score:               88,
		CommercialPotential: 12000000,
	})
	require.NoError(t, err)

	require.Len(t, sender.alerts, 3)
	assert.Contains(t, sender.alerts, "direction@sakkanal.sn")
	assert.Equal(t, "Awa Ndiaye", sender.alerts["awa@sakkanal.sn"].RecipientName)
	assert.Equal(t, "https://app.sakkanal.sn/admin/leads/"+leadID.String(), sender.alerts["moussa@sakkanal.sn"].LeadURL)
}

func TestHighValueLeadQueuesThroughOutbox(t *testing.T) {
	sender := &testSender{}
	box := newTestOutbox()
	m := newModule(&testStore{}, sender, testDirectory{recipients: twoAdmins()[:1]}, testNotificationConfig{}, logger.Discard())
	m.SetOutbox(box)

	require.NoError(t, m.Handle(context.Background(), events.HighValueLeadDetected{LeadID: uuid.New(), CompanyName: "Sococim", Score: 90}))
	assert.Empty(t, sender.alerts)
	require.Len(t, box.records, 1)

	var id uuid.UUID
	for recID := range box.records {
		id = recID
	}
	require.NoError(t, m.Handle(context.Background(), events.NotificationOutboxDue{OutboxID: id}))
	assert.Equal(t, []uuid.UUID{id}, box.succeeded)
	assert.Equal(t, "Sococim", sender.alerts["awa@sakkanal.sn"].CompanyName)

	// A second delivery of the same record is ignored.
	require.NoError(t, m.Handle(context.Background(), events.NotificationOutboxDue{OutboxID: id}))
	assert.Len(t, box.succeeded, 1)
}

func TestOutboxDeliveryRetriesThenFails(t *testing.T) {
	sender := &testSender{err: errors.New("smtp down")}
	box := newTestOutbox()
	m := newModule(&testStore{}, sender, testDirectory{}, testNotificationConfig{}, logger.Discard())
	m.SetOutbox(box)
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	id, err := box.Insert(context.Background(), outbox.InsertParams{
		Kind:     outbox.KindEmail,
		Template: templateHighValueLead,
		Payload:  highValueLeadEmail{To: "awa@sakkanal.sn"},
	})
	require.NoError(t, err)

	require.NoError(t, m.Handle(context.Background(), events.NotificationOutboxDue{OutboxID: id}))
	assert.Equal(t, fixed.Add(time.Minute), box.retried[id])

	for i := 1; i < outbox.MaxAttempts; i++ {
		require.NoError(t, m.Handle(context.Background(), events.NotificationOutboxDue{OutboxID: id}))
	}
	assert.Equal(t, []uuid.UUID{id}, box.failed)
	assert.Equal(t, outbox.MaxAttempts, box.records[id].Attempts)
}

func TestDirectoryFailureIsReturned(t *testing.T) {
	m := newModule(&testStore{}, nil, testDirectory{err: errors.New("db down")}, testNotificationConfig{}, logger.Discard())

	err := m.Handle(context.Background(), events.LeadCreated{LeadID: uuid.New()})
	require.Error(t, err)
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, "éé…", truncate("ééééé", 3))
	assert.Equal(t, "court", truncate("court", 10))
}

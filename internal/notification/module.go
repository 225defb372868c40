// Package notification turns lead domain events into back-office notifications.
// Every event is fanned out to each active admin as an in-app notification,
// pushed live over SSE, and hot leads additionally trigger an alert email.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"sakkanal_backend/internal/email"
	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	notifhandler "sakkanal_backend/internal/notification/handler"
	"sakkanal_backend/internal/notification/inapp"
	"sakkanal_backend/internal/notification/outbox"
	"sakkanal_backend/internal/notification/ports"
	"sakkanal_backend/internal/notification/sse"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/format"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	templateHighValueLead = "high_value_lead"
	maxMessageRunes       = 160
)

// highValueLeadEmail is the outbox payload of a deferred hot lead alert.
type highValueLeadEmail struct {
	To    string                   `json:"to"`
	Alert email.HighValueLeadAlert `json:"alert"`
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender    email.Sender
	directory ports.AdminDirectory
	cfg       config.NotificationConfig
	log       *logger.Logger
	sse       *sse.Service
	inApp     *inapp.Service
	handler   *notifhandler.HTTPHandler
	outbox    outbox.Store
	now       func() time.Time
}

// New wires the notification module on top of the notifications table.
func New(pool *pgxpool.Pool, sender email.Sender, directory ports.AdminDirectory, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return newModule(inapp.NewRepository(pool), sender, directory, cfg, log)
}

func newModule(store inapp.Store, sender email.Sender, directory ports.AdminDirectory, cfg config.NotificationConfig, log *logger.Logger) *Module {
	if log == nil {
		log = logger.Discard()
	}
	if sender == nil {
		sender = email.NoopSender{}
	}

	stream := sse.New(log)
	inAppSvc := inapp.NewService(store, log)
	inAppSvc.SetSSE(stream)

	return &Module{
		sender:    sender,
		directory: directory,
		cfg:       cfg,
		log:       log,
		sse:       stream,
		inApp:     inAppSvc,
		handler:   notifhandler.NewHTTPHandler(inAppSvc, stream.Handler(adminFromContext)),
		now:       time.Now,
	}
}

func adminFromContext(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.GetIdentity(c)
	if identity == nil || !identity.IsAuthenticated() {
		return uuid.Nil, false
	}
	return identity.UserID(), true
}

// SetOutbox routes alert emails through the outbox so the scheduler delivers them.
// Without it emails are sent inline from the event handler.
func (m *Module) SetOutbox(store outbox.Store) {
	m.outbox = store
}

// SSE exposes the live stream hub so other modules can push lead updates.
func (m *Module) SSE() *sse.Service {
	return m.sse
}

// InApp exposes the in-app notification service.
func (m *Module) InApp() *inapp.Service {
	return m.inApp
}

func (m *Module) Name() string { return "notifications" }

// RegisterRoutes mounts the admin notification bell and its live stream.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Admin.Group("/notifications")
	m.handler.RegisterRoutes(notifications)
}

// Close ends every open SSE stream.
func (m *Module) Close() {
	m.sse.Close()
}

// RegisterHandlers subscribes the module to the lead events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.HighValueLeadDetected{}.EventName(), m)
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), m)
	bus.Subscribe(events.LeadInteractionAdded{}.EventName(), m)
	bus.Subscribe(events.NotificationOutboxDue{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.handleLeadCreated(ctx, e)
	case events.HighValueLeadDetected:
		return m.handleHighValueLead(ctx, e)
	case events.LeadStatusChanged:
		return m.handleLeadStatusChanged(ctx, e)
	case events.LeadInteractionAdded:
		return m.handleLeadInteractionAdded(ctx, e)
	case events.NotificationOutboxDue:
		return m.handleOutboxDue(ctx, e)
	default:
		m.log.Warn("unhandled event type in notification module", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	leadID := e.LeadID
	message := fmt.Sprintf("%s · %s · score %d · facture %s", displayName(e.ContactName, e.Email), e.SiteType, e.Score, format.FCFA(e.ElectricityBill))
	return m.fanOut(ctx, inapp.SendParams{
		LeadID:   &leadID,
		Type:     inapp.TypeNewLead,
		Title:    "Nouveau lead : " + displayName(e.CompanyName, e.ContactName),
		Message:  message,
		Priority: inapp.PriorityMedium,
		Metadata: map[string]any{
			"score":    e.Score,
			"priority": e.Priority,
			"source":   e.Source,
			"siteType": e.SiteType,
		},
	})
}

func (m *Module) handleHighValueLead(ctx context.Context, e events.HighValueLeadDetected) error {
	leadID := e.LeadID
	company := displayName(e.CompanyName, e.ContactName)
	err := m.fanOut(ctx, inapp.SendParams{
		LeadID:   &leadID,
		Type:     inapp.TypeHighValue,
		Title:    "🔥 Lead prioritaire : " + company,
		Message:  fmt.Sprintf("Score %d/100 · potentiel %s", e.Score, format.FCFA(e.CommercialPotential)),
		Priority: inapp.PriorityHigh,
		Metadata: map[string]any{
			"score":               e.Score,
			"commercialPotential": e.CommercialPotential,
			"electricityBill":     e.ElectricityBill,
		},
	})

	alert := email.HighValueLeadAlert{
		CompanyName:         e.CompanyName,
		ContactName:         e.ContactName,
		Email:               e.Email,
		Phone:               e.Phone,
		Score:               e.Score,
		ElectricityBill:     e.ElectricityBill,
		CommercialPotential: e.CommercialPotential,
		LeadURL:             m.leadURL(e.LeadID),
	}
	return errors.Join(err, m.alertAdmins(ctx, alert))
}

func (m *Module) handleLeadStatusChanged(ctx context.Context, e events.LeadStatusChanged) error {
	leadID := e.LeadID
	return m.fanOut(ctx, inapp.SendParams{
		LeadID:   &leadID,
		Type:     inapp.TypeStatusChange,
		Title:    "Statut mis à jour : " + displayName(e.CompanyName, e.ContactName),
		Message:  fmt.Sprintf("%s → %s", e.OldStatus, e.NewStatus),
		Priority: inapp.PriorityLow,
		Metadata: map[string]any{
			"oldStatus": e.OldStatus,
			"newStatus": e.NewStatus,
			"actorId":   e.ActorID,
		},
	})
}

func (m *Module) handleLeadInteractionAdded(ctx context.Context, e events.LeadInteractionAdded) error {
	leadID := e.LeadID
	message := e.InteractionType
	if notes := strings.TrimSpace(e.Notes); notes != "" {
		message = e.InteractionType + " : " + truncate(notes, maxMessageRunes)
	}
	return m.fanOut(ctx, inapp.SendParams{
		LeadID:   &leadID,
		Type:     inapp.TypeInteraction,
		Title:    "Nouvelle interaction : " + displayName(e.CompanyName, e.ContactName),
		Message:  message,
		Priority: inapp.PriorityLow,
		Metadata: map[string]any{
			"interactionId":   e.InteractionID,
			"interactionType": e.InteractionType,
			"actorId":         e.ActorID,
		},
	})
}

// fanOut stores one copy of the notification per admin. A failure for one
// admin does not stop delivery to the others.
func (m *Module) fanOut(ctx context.Context, p inapp.SendParams) error {
	recipients, err := m.recipients(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, r := range recipients {
		p.AdminUserID = r.AdminID
		if _, err := m.inApp.Send(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("notify admin %s: %w", r.AdminID, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Module) recipients(ctx context.Context) ([]ports.Recipient, error) {
	if m.directory == nil {
		return nil, nil
	}
	recipients, err := m.directory.ListRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notification recipients: %w", err)
	}
	return recipients, nil
}

type alertTarget struct {
	email string
	name  string
}

// alertTargets merges admin emails with the configured extra recipients, deduplicated.
func (m *Module) alertTargets(ctx context.Context) ([]alertTarget, error) {
	recipients, err := m.recipients(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var targets []alertTarget
	add := func(address, name string) {
		address = strings.TrimSpace(address)
		key := strings.ToLower(address)
		if address == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		targets = append(targets, alertTarget{email: address, name: name})
	}

	for _, r := range recipients {
		add(r.Email, r.FullName)
	}
	if m.cfg != nil {
		for _, address := range m.cfg.GetAdminAlertRecipients() {
			add(address, "")
		}
	}
	return targets, nil
}

func (m *Module) alertAdmins(ctx context.Context, alert email.HighValueLeadAlert) error {
	targets, err := m.alertTargets(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, target := range targets {
		a := alert
		a.RecipientName = target.name

		if m.outbox != nil {
			_, err := m.outbox.Insert(ctx, outbox.InsertParams{
				Kind:     outbox.KindEmail,
				Template: templateHighValueLead,
				Payload:  highValueLeadEmail{To: target.email, Alert: a},
				RunAt:    m.now().UTC(),
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("queue alert for %s: %w", target.email, err))
			}
			continue
		}

		if err := m.sender.SendHighValueLeadAlert(ctx, target.email, a); err != nil {
			m.log.Error("high value lead alert failed", "error", err, "to", target.email)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// handleOutboxDue delivers one deferred email. Failed deliveries are
// rescheduled with backoff until MaxAttempts is reached.
func (m *Module) handleOutboxDue(ctx context.Context, e events.NotificationOutboxDue) error {
	if m.outbox == nil {
		return nil
	}

	rec, err := m.outbox.GetByID(ctx, e.OutboxID)
	if err != nil {
		return err
	}
	if rec.Status == outbox.StatusSucceeded || rec.Status == outbox.StatusFailed {
		return nil
	}

	if err := m.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}
	attempts := rec.Attempts + 1

	sendErr := m.deliver(ctx, rec)
	if sendErr == nil {
		return m.outbox.MarkSucceeded(ctx, rec.ID)
	}

	m.log.Warn("outbox delivery failed", "outboxId", rec.ID, "attempts", attempts, "error", sendErr)
	if attempts >= outbox.MaxAttempts {
		return m.outbox.MarkFailed(ctx, rec.ID, sendErr.Error())
	}
	return m.outbox.Retry(ctx, rec.ID, sendErr.Error(), m.now().UTC().Add(outbox.Backoff(attempts)))
}

func (m *Module) deliver(ctx context.Context, rec outbox.Record) error {
	if rec.Kind != outbox.KindEmail {
		return fmt.Errorf("unsupported outbox kind %q", rec.Kind)
	}

	switch rec.Template {
	case templateHighValueLead:
		var payload highValueLeadEmail
		if err := rec.Decode(&payload); err != nil {
			return err
		}
		return m.sender.SendHighValueLeadAlert(ctx, payload.To, payload.Alert)
	default:
		return fmt.Errorf("unknown outbox template %q", rec.Template)
	}
}

func (m *Module) leadURL(leadID uuid.UUID) string {
	if m.cfg == nil {
		return ""
	}
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	if base == "" {
		return ""
	}
	return base + "/admin/leads/" + leadID.String()
}

func displayName(primary, fallback string) string {
	if v := strings.TrimSpace(primary); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

var _ apphttp.Module = (*Module)(nil)
var _ events.Handler = (*Module)(nil)

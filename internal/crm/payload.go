package crm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Delivery event names.
const (
	EventLeadCreated       = "lead.created"
	EventLeadStatusChanged = "lead.status_changed"
	EventLeadsSync         = "leads.sync"
)

// LeadPayload is the lead as sent to CRM endpoints.
type LeadPayload struct {
	ID                   uuid.UUID       `json:"id"`
	CompanyName          string          `json:"companyName"`
	ContactName          string          `json:"contactName"`
	Email                string          `json:"email"`
	Phone                string          `json:"phone"`
	SiteType             string          `json:"siteType"`
	ElectricityBill      float64         `json:"electricityBill"`
	InstallationPower    *float64        `json:"installationPower,omitempty"`
	MeasurementPoints    *int            `json:"measurementPoints,omitempty"`
	Budget               *float64        `json:"budget,omitempty"`
	SpecificNeeds        []string        `json:"specificNeeds"`
	ZonesToMonitor       []string        `json:"zonesToMonitor"`
	Status               string          `json:"status"`
	Source               string          `json:"source"`
	Score                int             `json:"score"`
	RecommendedScenarios json.RawMessage `json:"recommendedScenarios,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// LeadEnvelope wraps a single lead delivery.
type LeadEnvelope struct {
	Event  string      `json:"event"`
	SentAt time.Time   `json:"sentAt"`
	Lead   LeadPayload `json:"lead"`
}

// BatchEnvelope wraps a batch sync delivery.
type BatchEnvelope struct {
	Event  string        `json:"event"`
	SentAt time.Time     `json:"sentAt"`
	Since  *time.Time    `json:"since,omitempty"`
	Count  int           `json:"count"`
	Leads  []LeadPayload `json:"leads"`
}

// LeadSource reads leads for deliveries. It is implemented by an adapter over the leads module.
type LeadSource interface {
	GetLead(ctx context.Context, id uuid.UUID) (LeadPayload, error)
	ListUpdatedSince(ctx context.Context, since *time.Time, after *LeadCursor, limit int) ([]LeadPayload, error)
}

// LeadCursor is the position of the last lead of a sync page.
type LeadCursor struct {
	UpdatedAt time.Time
	ID        uuid.UUID
}

// DeliveryEnqueuer schedules a realtime delivery on the job queue.
type DeliveryEnqueuer interface {
	EnqueueCRMWebhook(ctx context.Context, integrationID, leadID uuid.UUID, event string) error
}

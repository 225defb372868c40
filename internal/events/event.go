// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"sakkanal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when the public questionnaire captures a new lead.
type LeadCreated struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	CompanyName     string    `json:"companyName"`
	ContactName     string    `json:"contactName"`
	Email           string    `json:"email"`
	SiteType        string    `json:"siteType"`
	ElectricityBill float64   `json:"electricityBill"`
	Score           int       `json:"score"`
	Priority        string    `json:"priority"`
	Source          string    `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// HighValueLeadDetected is published alongside LeadCreated when the lead scores HOT.
type HighValueLeadDetected struct {
	BaseEvent
	LeadID              uuid.UUID `json:"leadId"`
	CompanyName         string    `json:"companyName"`
	ContactName         string    `json:"contactName"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Score               int       `json:"score"`
	ElectricityBill     float64   `json:"electricityBill"`
	CommercialPotential float64   `json:"commercialPotential"`
}

func (e HighValueLeadDetected) EventName() string { return "leads.lead.high_value_detected" }

// LeadStatusChanged is published when an admin moves a lead through the pipeline.
type LeadStatusChanged struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	CompanyName string    `json:"companyName"`
	ContactName string    `json:"contactName"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
	ActorID     uuid.UUID `json:"actorId"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadInteractionAdded is published when an admin logs a call, email, meeting or note.
type LeadInteractionAdded struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	InteractionID   uuid.UUID `json:"interactionId"`
	InteractionType string    `json:"interactionType"`
	Notes           string    `json:"notes"`
	CompanyName     string    `json:"companyName"`
	ContactName     string    `json:"contactName"`
	ActorID         uuid.UUID `json:"actorId"`
}

func (e LeadInteractionAdded) EventName() string { return "leads.interaction.added" }

// =============================================================================
// Report Domain Events
// =============================================================================

// ReportGenerated is published after a prospect downloads a PDF report.
type ReportGenerated struct {
	BaseEvent
	ReportID     uuid.UUID  `json:"reportId"`
	LeadID       *uuid.UUID `json:"leadId,omitempty"`
	ScenarioID   uuid.UUID  `json:"scenarioId"`
	ScenarioName string     `json:"scenarioName"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	GeneratedAt  time.Time  `json:"generatedAt"`
}

func (e ReportGenerated) EventName() string { return "reports.report.generated" }

// =============================================================================
// Notification Domain Events
// =============================================================================

// NotificationOutboxDue is published by the scheduler worker when an outbox record is due.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
}

func (e NotificationOutboxDue) EventName() string { return "notification.outbox.due" }

package transport

import (
	"encoding/json"
	"time"

	"sakkanal_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

// CreateLeadRequest is submitted by the public funnel once the prospect asks to be contacted.
type CreateLeadRequest struct {
	CompanyName          string          `json:"companyName" validate:"max=200"`
	ContactName          string          `json:"contactName" validate:"required,min=1,max=200"`
	Email                string          `json:"email" validate:"required,email,max=254"`
	Phone                string          `json:"phone" validate:"required,min=6,max=32"`
	SiteType             string          `json:"siteType" validate:"required,max=100"`
	ElectricityBill      float64         `json:"electricityBill" validate:"gt=0"`
	InstallationPower    *float64        `json:"installationPower,omitempty" validate:"omitempty,gte=0"`
	MeasurementPoints    *int            `json:"measurementPoints,omitempty" validate:"omitempty,gte=0,max=10000"`
	Budget               *float64        `json:"budget,omitempty" validate:"omitempty,gte=0"`
	ZonesToMonitor       []string        `json:"zonesToMonitor" validate:"max=50,dive,max=200"`
	SpecificNeeds        []string        `json:"specificNeeds" validate:"max=50,dive,max=200"`
	Source               string          `json:"source" validate:"max=100"`
	ScenarioID           *uuid.UUID      `json:"scenarioId,omitempty"`
	RecommendedScenarios json.RawMessage `json:"recommendedScenarios,omitempty"`
	FormData             json.RawMessage `json:"formData,omitempty"`
}

// ListLeadsRequest holds query filters for the CRM table.
type ListLeadsRequest struct {
	Status    string `form:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	SiteType  string `form:"siteType" validate:"max=100"`
	Search    string `form:"search" validate:"max=100"`
	MinScore  *int   `form:"minScore" validate:"omitempty,min=0,max=100"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt companyName contactName electricityBill score status"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// UpdateStatusRequest moves a lead through the pipeline.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified converted lost"`
	Notes  string `json:"notes" validate:"max=4000"`
}

// AddInteractionRequest logs a contact with the prospect.
type AddInteractionRequest struct {
	Type  string `json:"type" validate:"required,oneof=call email meeting note"`
	Notes string `json:"notes" validate:"required,min=1,max=4000"`
}

// LeadResponse is a lead as returned by the API.
type LeadResponse struct {
	ID                   uuid.UUID        `json:"id"`
	CompanyName          string           `json:"companyName"`
	ContactName          string           `json:"contactName"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone"`
	SiteType             string           `json:"siteType"`
	ElectricityBill      float64          `json:"electricityBill"`
	InstallationPower    *float64         `json:"installationPower"`
	MeasurementPoints    *int             `json:"measurementPoints"`
	Budget               *float64         `json:"budget"`
	ZonesToMonitor       []string         `json:"zonesToMonitor"`
	SpecificNeeds        []string         `json:"specificNeeds"`
	Status               string           `json:"status"`
	Source               string           `json:"source"`
	ScenarioID           *uuid.UUID       `json:"scenarioId"`
	RecommendedScenarios json.RawMessage  `json:"recommendedScenarios"`
	FormData             json.RawMessage  `json:"formData"`
	Score                int              `json:"score"`
	Priority             scoring.Priority `json:"priority"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

// LeadListResponse is a page of leads.
type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// InteractionResponse is one entry of the contact history.
type InteractionResponse struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	Type        string     `json:"type"`
	Notes       string     `json:"notes"`
	AdminUserID *uuid.UUID `json:"adminUserId"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LeadDetailResponse is the lead sheet of the back office.
type LeadDetailResponse struct {
	Lead                LeadResponse          `json:"lead"`
	Interactions        []InteractionResponse `json:"interactions"`
	Score               scoring.Result        `json:"score"`
	Needs               scoring.NeedsAnalysis `json:"needs"`
	Insights            []string              `json:"insights"`
	CommercialPotential float64               `json:"commercialPotential"`
}

// CreateLeadResponse acknowledges a captured lead.
type CreateLeadResponse struct {
	ID       uuid.UUID        `json:"id"`
	Score    int              `json:"score"`
	Priority scoring.Priority `json:"priority"`
}

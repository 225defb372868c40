package crm

import (
	"encoding/json"
	"time"
)

type CreateIntegrationRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=120"`
	WebhookURL    string          `json:"webhookUrl" validate:"required,url,max=2000"`
	IsActive      *bool           `json:"isActive,omitempty"`
	SyncFrequency string          `json:"syncFrequency" validate:"omitempty,oneof=realtime hourly daily"`
	Config        json.RawMessage `json:"config,omitempty"`
}

type UpdateIntegrationRequest struct {
	Name          *string         `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	WebhookURL    *string         `json:"webhookUrl,omitempty" validate:"omitempty,url,max=2000"`
	SyncFrequency *string         `json:"syncFrequency,omitempty" validate:"omitempty,oneof=realtime hourly daily"`
	Config        json.RawMessage `json:"config,omitempty"`
}

type IntegrationResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	WebhookURL    string          `json:"webhookUrl"`
	IsActive      bool            `json:"isActive"`
	SyncFrequency string          `json:"syncFrequency"`
	LastSync      *time.Time      `json:"lastSync,omitempty"`
	Config        json.RawMessage `json:"config"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type SyncResult struct {
	IntegrationID string    `json:"integrationId"`
	LeadsSent     int       `json:"leadsSent"`
	SyncedAt      time.Time `json:"syncedAt"`
}

func toIntegrationResponse(i Integration) IntegrationResponse {
	config := i.Config
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}
	return IntegrationResponse{
		ID:            i.ID.String(),
		Name:          i.Name,
		WebhookURL:    i.WebhookURL,
		IsActive:      i.IsActive,
		SyncFrequency: i.SyncFrequency,
		LastSync:      i.LastSync,
		Config:        config,
		CreatedAt:     i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     i.UpdatedAt.Format(time.RFC3339),
	}
}

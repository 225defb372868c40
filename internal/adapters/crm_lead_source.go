package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sakkanal_backend/internal/crm"
	leadrepo "sakkanal_backend/internal/leads/repository"
)

// CRMLeadSource adapts the leads repository for CRM deliveries,
// satisfying crm.LeadSource.
type CRMLeadSource struct {
	repo leadrepo.LeadReader
}

// NewCRMLeadSource creates a new lead source adapter.
func NewCRMLeadSource(repo leadrepo.LeadReader) *CRMLeadSource {
	return &CRMLeadSource{repo: repo}
}

// GetLead loads one lead.
func (a *CRMLeadSource) GetLead(ctx context.Context, id uuid.UUID) (crm.LeadPayload, error) {
	lead, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return crm.LeadPayload{}, err
	}
	return toCRMLead(lead), nil
}

// ListUpdatedSince loads the leads changed after since, oldest first, resuming after the cursor.
func (a *CRMLeadSource) ListUpdatedSince(ctx context.Context, since *time.Time, after *crm.LeadCursor, limit int) ([]crm.LeadPayload, error) {
	var cursor *leadrepo.UpdatedCursor
	if after != nil {
		cursor = &leadrepo.UpdatedCursor{UpdatedAt: after.UpdatedAt, ID: after.ID}
	}
	leads, err := a.repo.ListUpdatedSince(ctx, since, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("crm adapter: list leads: %w", err)
	}
	out := make([]crm.LeadPayload, 0, len(leads))
	for _, l := range leads {
		out = append(out, toCRMLead(l))
	}
	return out, nil
}

func toCRMLead(l leadrepo.Lead) crm.LeadPayload {
	return crm.LeadPayload{
		ID:                   l.ID,
		CompanyName:          l.CompanyName,
		ContactName:          l.ContactName,
		Email:                l.Email,
		Phone:                l.Phone,
		SiteType:             l.SiteType,
		ElectricityBill:      l.ElectricityBill,
		InstallationPower:    l.InstallationPower,
		MeasurementPoints:    l.MeasurementPoints,
		Budget:               l.Budget,
		SpecificNeeds:        l.SpecificNeeds,
		ZonesToMonitor:       l.ZonesToMonitor,
		Status:               l.Status,
		Source:               l.Source,
		Score:                l.Score,
		RecommendedScenarios: l.RecommendedScenarios,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

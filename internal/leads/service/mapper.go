package service

import (
	"sakkanal_backend/internal/leads/repository"
	"sakkanal_backend/internal/leads/scoring"
	"sakkanal_backend/internal/leads/transport"
)

// ToLeadResponse maps a repository lead to its API shape.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:                   lead.ID,
		CompanyName:          lead.CompanyName,
		ContactName:          lead.ContactName,
		Email:                lead.Email,
		Phone:                lead.Phone,
		SiteType:             lead.SiteType,
		ElectricityBill:      lead.ElectricityBill,
		InstallationPower:    lead.InstallationPower,
		MeasurementPoints:    lead.MeasurementPoints,
		Budget:               lead.Budget,
		ZonesToMonitor:       lead.ZonesToMonitor,
		SpecificNeeds:        lead.SpecificNeeds,
		Status:               lead.Status,
		Source:               lead.Source,
		ScenarioID:           lead.ScenarioID,
		RecommendedScenarios: lead.RecommendedScenarios,
		FormData:             lead.FormData,
		Score:                lead.Score,
		Priority:             scoring.PriorityFor(lead.Score),
		CreatedAt:            lead.CreatedAt,
		UpdatedAt:            lead.UpdatedAt,
	}
}

func toInteractionResponse(item repository.Interaction) transport.InteractionResponse {
	return transport.InteractionResponse{
		ID:          item.ID,
		LeadID:      item.LeadID,
		Type:        item.InteractionType,
		Notes:       item.Notes,
		AdminUserID: item.AdminUserID,
		CreatedAt:   item.CreatedAt,
	}
}

func leadScoringInput(lead repository.Lead) scoring.Input {
	return scoringInput(lead.ElectricityBill, lead.InstallationPower, lead.Budget, lead.SpecificNeeds, lead.ZonesToMonitor)
}

func scoringInput(bill float64, power, budget *float64, needs, zones []string) scoring.Input {
	in := scoring.Input{
		ElectricityBill: bill,
		SpecificNeeds:   needs,
		ZonesToMonitor:  zones,
	}
	if power != nil {
		in.InstallationPower = *power
	}
	if budget != nil {
		in.Budget = *budget
	}
	return in
}

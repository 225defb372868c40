package service

import (
	"strings"
	"time"

	"sakkanal_backend/internal/exports/csvexport"
	"sakkanal_backend/internal/segments/repository"
	"sakkanal_backend/internal/segments/transport"
)

func toCriteria(dto transport.CriteriaDTO) repository.Criteria {
	criteria := repository.Criteria{
		MinScore:     dto.MinScore,
		MinBudget:    dto.MinBudget,
		InactiveDays: dto.InactiveDays,
	}
	for _, status := range dto.Status {
		criteria.Status = append(criteria.Status, strings.TrimSpace(status))
	}
	for _, site := range dto.SiteTypes {
		if site = strings.ToLower(strings.TrimSpace(site)); site != "" {
			criteria.SiteTypes = append(criteria.SiteTypes, site)
		}
	}
	return criteria
}

func toCriteriaDTO(c repository.Criteria) transport.CriteriaDTO {
	return transport.CriteriaDTO{
		MinScore:     c.MinScore,
		Status:       c.Status,
		MinBudget:    c.MinBudget,
		SiteTypes:    c.SiteTypes,
		InactiveDays: c.InactiveDays,
	}
}

func toSegmentResponse(s repository.Segment, count int) transport.SegmentResponse {
	return transport.SegmentResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Criteria:    toCriteriaDTO(s.Criteria),
		LeadCount:   count,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

func toMemberResponse(m repository.Member) transport.MemberResponse {
	return transport.MemberResponse{
		ID:              m.ID.String(),
		CompanyName:     m.CompanyName,
		ContactName:     m.ContactName,
		Email:           m.Email,
		SiteType:        m.SiteType,
		ElectricityBill: m.ElectricityBill,
		Budget:          m.Budget,
		Status:          m.Status,
		Score:           m.Score,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       m.UpdatedAt.Format(time.RFC3339),
	}
}

func toExportLead(m repository.Member) csvexport.Lead {
	return csvexport.Lead{
		CreatedAt:            m.CreatedAt,
		CompanyName:          m.CompanyName,
		ContactName:          m.ContactName,
		Email:                m.Email,
		Phone:                m.Phone,
		SiteType:             m.SiteType,
		ElectricityBill:      m.ElectricityBill,
		InstallationPower:    m.InstallationPower,
		MeasurementPoints:    m.MeasurementPoints,
		Budget:               m.Budget,
		Status:               m.Status,
		RecommendedScenarios: m.RecommendedScenarios,
		SpecificNeeds:        m.SpecificNeeds,
		ZonesToMonitor:       m.ZonesToMonitor,
	}
}

package service

import (
	"encoding/json"

	"sakkanal_backend/internal/catalog/repository"
	"sakkanal_backend/internal/catalog/transport"
)

func toProductResponse(p repository.Product) transport.ProductResponse {
	return transport.ProductResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Category:        p.Category,
		Description:     p.Description,
		Price:           p.Price,
		TechnicalSpecs:  rawOr(p.TechnicalSpecs, "{}"),
		PerformanceData: rawOr(p.PerformanceData, "{}"),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toProductListResponse(items []repository.Product, total, page, pageSize int) transport.ProductListResponse {
	resp := make([]transport.ProductResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toProductResponse(item))
	}
	totalPages := (total + pageSize - 1) / pageSize
	return transport.ProductListResponse{
		Items:      resp,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func toScenarioResponse(s repository.Scenario) transport.ScenarioResponse {
	return transport.ScenarioResponse{
		ID:                s.ID.String(),
		Name:              s.Name,
		Category:          s.Category,
		SiteTypes:         s.SiteTypes,
		MinBudget:         s.MinBudget,
		MaxBudget:         s.MaxBudget,
		Products:          rawOr(s.Products, "[]"),
		EstimatedSavings:  s.EstimatedSavings,
		EquipmentLifespan: s.EquipmentLifespan,
		Description:       s.Description,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func rawOr(raw json.RawMessage, fallback string) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(fallback)
	}
	return raw
}

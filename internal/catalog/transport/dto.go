package transport

import "encoding/json"

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Category        string          `json:"category" validate:"required,max=100"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price           float64         `json:"price" validate:"gte=0"`
	TechnicalSpecs  json.RawMessage `json:"technicalSpecs,omitempty"`
	PerformanceData json.RawMessage `json:"performanceData,omitempty"`
}

// UpdateProductRequest is the payload for a partial product update.
type UpdateProductRequest struct {
	Name            *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category        *string         `json:"category,omitempty" validate:"omitempty,max=100"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price           *float64        `json:"price,omitempty" validate:"omitempty,gte=0"`
	TechnicalSpecs  json.RawMessage `json:"technicalSpecs,omitempty"`
	PerformanceData json.RawMessage `json:"performanceData,omitempty"`
}

// ListProductsRequest holds query filters for products.
type ListProductsRequest struct {
	Search    string `form:"search" validate:"max=100"`
	Category  string `form:"category" validate:"max=100"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=name price category createdAt"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ProductResponse is a product as returned by the API.
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Description     *string         `json:"description,omitempty"`
	Price           float64         `json:"price"`
	TechnicalSpecs  json.RawMessage `json:"technicalSpecs"`
	PerformanceData json.RawMessage `json:"performanceData"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// ProductListResponse is a paginated product list.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// ScenarioRequest is the payload for creating or replacing a scenario.
type ScenarioRequest struct {
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Category          string          `json:"category" validate:"required,oneof=economique standard premium"`
	SiteTypes         []string        `json:"siteTypes" validate:"dive,min=1,max=100"`
	MinBudget         float64         `json:"minBudget" validate:"gte=0"`
	MaxBudget         *float64        `json:"maxBudget,omitempty" validate:"omitempty,gte=0"`
	Products          json.RawMessage `json:"products,omitempty"`
	EstimatedSavings  float64         `json:"estimatedSavings" validate:"gte=0,lte=100"`
	EquipmentLifespan int             `json:"equipmentLifespan" validate:"required,min=1,max=50"`
	Description       string          `json:"description" validate:"max=4000"`
}

// ListScenariosRequest holds query filters for scenarios.
type ListScenariosRequest struct {
	Category string `form:"category" validate:"omitempty,oneof=economique standard premium"`
}

// ScenarioResponse is a scenario as returned by the API.
type ScenarioResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	SiteTypes         []string        `json:"siteTypes"`
	MinBudget         float64         `json:"minBudget"`
	MaxBudget         *float64        `json:"maxBudget"`
	Products          json.RawMessage `json:"products"`
	EstimatedSavings  float64         `json:"estimatedSavings"`
	EquipmentLifespan int             `json:"equipmentLifespan"`
	Description       string          `json:"description"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
}

// ScenarioListResponse wraps the scenario list.
type ScenarioListResponse struct {
	Items []ScenarioResponse `json:"items"`
	Total int                `json:"total"`
}

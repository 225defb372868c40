package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Scenario categories, ordered from cheapest to most complete.
const (
	CategoryEconomique = "economique"
	CategoryStandard   = "standard"
	CategoryPremium    = "premium"
)

// Product represents a monitoring device or service sold in a scenario.
type Product struct {
	ID              uuid.UUID       `db:"id"`
	Name            string          `db:"name"`
	Category        string          `db:"category"`
	Description     *string         `db:"description"`
	Price           float64         `db:"price"`
	TechnicalSpecs  json.RawMessage `db:"technical_specs"`
	PerformanceData json.RawMessage `db:"performance_data"`
	CreatedAt       string          `db:"created_at"`
	UpdatedAt       string          `db:"updated_at"`
}

// Scenario is a packaged offer matched against questionnaire answers.
type Scenario struct {
	ID                uuid.UUID       `db:"id"`
	Name              string          `db:"name"`
	Category          string          `db:"category"`
	SiteTypes         []string        `db:"site_types"`
	MinBudget         float64         `db:"min_budget"`
	MaxBudget         *float64        `db:"max_budget"`
	Products          json.RawMessage `db:"products"`
	EstimatedSavings  float64         `db:"estimated_savings"`
	EquipmentLifespan int             `db:"equipment_lifespan"`
	Description       string          `db:"description"`
	CreatedAt         string          `db:"created_at"`
	UpdatedAt         string          `db:"updated_at"`
}

// CreateProductParams contains data for creating a product.
type CreateProductParams struct {
	Name            string
	Category        string
	Description     *string
	Price           float64
	TechnicalSpecs  json.RawMessage
	PerformanceData json.RawMessage
}

// UpdateProductParams contains data for updating a product.
type UpdateProductParams struct {
	ID              uuid.UUID
	Name            *string
	Category        *string
	Description     *string
	Price           *float64
	TechnicalSpecs  json.RawMessage
	PerformanceData json.RawMessage
}

// ListProductsParams defines filters for listing products.
type ListProductsParams struct {
	Search    string
	Category  string
	Offset    int
	Limit     int
	SortBy    string
	SortOrder string
}

// ScenarioParams carries the full set of scenario columns for insert and update.
type ScenarioParams struct {
	Name              string
	Category          string
	SiteTypes         []string
	MinBudget         float64
	MaxBudget         *float64
	Products          json.RawMessage
	EstimatedSavings  float64
	EquipmentLifespan int
	Description       string
}

// Repository defines catalog storage operations.
type Repository interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProductByID(ctx context.Context, id uuid.UUID) (Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]Product, int, error)

	CreateScenario(ctx context.Context, params ScenarioParams) (Scenario, error)
	UpdateScenario(ctx context.Context, id uuid.UUID, params ScenarioParams) (Scenario, error)
	DeleteScenario(ctx context.Context, id uuid.UUID) error
	GetScenarioByID(ctx context.Context, id uuid.UUID) (Scenario, error)
	GetScenariosByIDs(ctx context.Context, ids []uuid.UUID) ([]Scenario, error)
	ListScenarios(ctx context.Context, category string) ([]Scenario, error)
	CountScenarios(ctx context.Context) (int, error)
	IsScenarioReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}

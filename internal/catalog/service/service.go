package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"sakkanal_backend/internal/catalog/repository"
	"sakkanal_backend/internal/catalog/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/sanitize"
)

// Service provides business logic for catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetProductByID retrieves a product by ID.
func (s *Service) GetProductByID(ctx context.Context, id uuid.UUID) (transport.ProductResponse, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// ListProducts retrieves products with search and pagination.
func (s *Service) ListProducts(ctx context.Context, req transport.ListProductsRequest) (transport.ProductListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		Search:    strings.TrimSpace(req.Search),
		Category:  strings.TrimSpace(req.Category),
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return transport.ProductListResponse{}, err
	}

	return toProductListResponse(items, total, page, pageSize), nil
}

// CreateProduct creates a new product.
func (s *Service) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (transport.ProductResponse, error) {
	product, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
		Name:            sanitize.Line(req.Name),
		Category:        strings.TrimSpace(req.Category),
		Description:     sanitize.TextPtr(req.Description),
		Price:           req.Price,
		TechnicalSpecs:  req.TechnicalSpecs,
		PerformanceData: req.PerformanceData,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.log.Info("product created", "id", product.ID, "name", product.Name)
	return toProductResponse(product), nil
}

// UpdateProduct updates an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (transport.ProductResponse, error) {
	name := sanitize.LinePtr(req.Name)
	if name != nil && *name == "" {
		return transport.ProductResponse{}, apperr.Validation("le nom du produit est obligatoire")
	}

	product, err := s.repo.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:              id,
		Name:            name,
		Category:        req.Category,
		Description:     sanitize.TextPtr(req.Description),
		Price:           req.Price,
		TechnicalSpecs:  req.TechnicalSpecs,
		PerformanceData: req.PerformanceData,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.log.Info("product updated", "id", product.ID, "name", product.Name)
	return toProductResponse(product), nil
}

// DeleteProduct deletes a product.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", "id", id)
	return nil
}

// GetScenarioByID retrieves a scenario by ID.
func (s *Service) GetScenarioByID(ctx context.Context, id uuid.UUID) (transport.ScenarioResponse, error) {
	scenario, err := s.repo.GetScenarioByID(ctx, id)
	if err != nil {
		return transport.ScenarioResponse{}, err
	}
	return toScenarioResponse(scenario), nil
}

// ListScenarios returns every scenario ordered by category.
func (s *Service) ListScenarios(ctx context.Context, req transport.ListScenariosRequest) (transport.ScenarioListResponse, error) {
	items, err := s.repo.ListScenarios(ctx, req.Category)
	if err != nil {
		return transport.ScenarioListResponse{}, err
	}
	resp := make([]transport.ScenarioResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toScenarioResponse(item))
	}
	return transport.ScenarioListResponse{Items: resp, Total: len(resp)}, nil
}

// CreateScenario validates and stores a new scenario.
func (s *Service) CreateScenario(ctx context.Context, req transport.ScenarioRequest) (transport.ScenarioResponse, error) {
	params, err := scenarioParams(req)
	if err != nil {
		return transport.ScenarioResponse{}, err
	}

	scenario, err := s.repo.CreateScenario(ctx, params)
	if err != nil {
		return transport.ScenarioResponse{}, err
	}

	s.log.Info("scenario created", "id", scenario.ID, "name", scenario.Name, "category", scenario.Category)
	return toScenarioResponse(scenario), nil
}

// UpdateScenario validates and replaces an existing scenario.
func (s *Service) UpdateScenario(ctx context.Context, id uuid.UUID, req transport.ScenarioRequest) (transport.ScenarioResponse, error) {
	params, err := scenarioParams(req)
	if err != nil {
		return transport.ScenarioResponse{}, err
	}

	scenario, err := s.repo.UpdateScenario(ctx, id, params)
	if err != nil {
		return transport.ScenarioResponse{}, err
	}

	s.log.Info("scenario updated", "id", scenario.ID, "name", scenario.Name)
	return toScenarioResponse(scenario), nil
}

// DeleteScenario deletes a scenario if no lead references it.
func (s *Service) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	used, err := s.repo.IsScenarioReferenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apperr.Conflict(repository.ScenarioInUseMessage)
	}
	if err := s.repo.DeleteScenario(ctx, id); err != nil {
		return err
	}

	s.log.Info("scenario deleted", "id", id)
	return nil
}

// ValidateScenario enforces the catalog invariants on a scenario.
func ValidateScenario(p repository.ScenarioParams) error {
	switch p.Category {
	case repository.CategoryEconomique, repository.CategoryStandard, repository.CategoryPremium:
	default:
		return apperr.Validation("catégorie de scénario invalide")
	}
	if p.Name == "" {
		return apperr.Validation("le nom du scénario est obligatoire")
	}
	if p.MinBudget < 0 {
		return apperr.Validation("le budget minimum doit être positif")
	}
	if p.MaxBudget != nil && *p.MaxBudget < p.MinBudget {
		return apperr.Validation("le budget maximum doit être supérieur au budget minimum")
	}
	if p.EstimatedSavings < 0 || p.EstimatedSavings > 100 {
		return apperr.Validation("les économies estimées doivent être comprises entre 0 et 100")
	}
	if p.EquipmentLifespan < 1 {
		return apperr.Validation("la durée de vie doit être d'au moins un an")
	}
	return nil
}

func scenarioParams(req transport.ScenarioRequest) (repository.ScenarioParams, error) {
	siteTypes := make([]string, 0, len(req.SiteTypes))
	for _, st := range req.SiteTypes {
		if trimmed := strings.ToLower(strings.TrimSpace(st)); trimmed != "" {
			siteTypes = append(siteTypes, trimmed)
		}
	}

	params := repository.ScenarioParams{
		Name:              sanitize.Line(req.Name),
		Category:          req.Category,
		SiteTypes:         siteTypes,
		MinBudget:         req.MinBudget,
		MaxBudget:         req.MaxBudget,
		Products:          req.Products,
		EstimatedSavings:  req.EstimatedSavings,
		EquipmentLifespan: req.EquipmentLifespan,
		Description:       sanitize.Text(req.Description),
	}
	if err := ValidateScenario(params); err != nil {
		return repository.ScenarioParams{}, err
	}
	return params, nil
}

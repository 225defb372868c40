package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catrepo "sakkanal_backend/internal/catalog/repository"
	"sakkanal_backend/internal/recommendation/engine"
	"sakkanal_backend/internal/recommendation/ports"
)

// RecommendationScenarioReader adapts the catalog repository for the
// recommendation domain, satisfying ports.ScenarioReader.
type RecommendationScenarioReader struct {
	repo catrepo.Repository
}

// NewRecommendationScenarioReader creates a new scenario reader adapter.
func NewRecommendationScenarioReader(repo catrepo.Repository) *RecommendationScenarioReader {
	return &RecommendationScenarioReader{repo: repo}
}

// ListScenarios returns the whole catalog ordered by category.
func (a *RecommendationScenarioReader) ListScenarios(ctx context.Context) ([]engine.Scenario, error) {
	items, err := a.repo.ListScenarios(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("catalog adapter: list scenarios: %w", err)
	}
	return toEngineScenarios(items), nil
}

// GetScenariosByIDs returns the requested scenarios. Unknown IDs are silently omitted.
func (a *RecommendationScenarioReader) GetScenariosByIDs(ctx context.Context, ids []uuid.UUID) ([]engine.Scenario, error) {
	items, err := a.repo.GetScenariosByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog adapter: get scenarios: %w", err)
	}
	return toEngineScenarios(items), nil
}

func toEngineScenarios(items []catrepo.Scenario) []engine.Scenario {
	out := make([]engine.Scenario, 0, len(items))
	for _, sc := range items {
		out = append(out, ToEngineScenario(sc))
	}
	return out
}

// ToEngineScenario converts a catalog row to the engine's scenario.
func ToEngineScenario(sc catrepo.Scenario) engine.Scenario {
	return engine.Scenario{
		ID:                sc.ID,
		Name:              sc.Name,
		Category:          sc.Category,
		SiteTypes:         sc.SiteTypes,
		MinBudget:         sc.MinBudget,
		MaxBudget:         sc.MaxBudget,
		Products:          sc.Products,
		EstimatedSavings:  sc.EstimatedSavings,
		EquipmentLifespan: sc.EquipmentLifespan,
		Description:       sc.Description,
	}
}

var _ ports.ScenarioReader = (*RecommendationScenarioReader)(nil)

// Package ports defines consumer-driven interfaces for the recommendation domain.
package ports

import (
	"context"

	"sakkanal_backend/internal/recommendation/engine"

	"github.com/google/uuid"
)

// ScenarioReader provides catalog scenarios in the engine's shape.
// It is implemented by an adapter over the catalog repository.
type ScenarioReader interface {
	// ListScenarios returns every scenario in catalog order.
	ListScenarios(ctx context.Context) ([]engine.Scenario, error)
	// GetScenariosByIDs returns the scenarios for ids. Unknown ids are omitted.
	GetScenariosByIDs(ctx context.Context, ids []uuid.UUID) ([]engine.Scenario, error)
}

package repository

import (
	"context"
	"encoding/json"

	"sakkanal_backend/internal/recommendation/engine"

	"github.com/google/uuid"
)

// HistoryQuery selects comparable successful projects.
type HistoryQuery struct {
	SiteType string
	BillMin  float64
	BillMax  float64
	Limit    int
}

// CreatePredictionParams is one stored prediction.
type CreatePredictionParams struct {
	LeadID              *uuid.UUID
	InputData           json.RawMessage
	PredictedScenarioID uuid.UUID
	PredictedSavings    float64
	PredictedROIMonths  int
	ConfidenceScore     float64
}

// Repository is the persistence port of the recommendation domain.
type Repository interface {
	ListHistory(ctx context.Context, q HistoryQuery) ([]engine.TrainingSample, error)
	CreatePrediction(ctx context.Context, params CreatePredictionParams) (uuid.UUID, error)
}

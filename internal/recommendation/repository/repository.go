// Package repository stores predictions and reads historical project outcomes.
package repository

import (
	"context"
	"fmt"

	"sakkanal_backend/internal/recommendation/engine"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Repository with pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new recommendation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListHistory returns the most recent successful projects for a site type and bill range.
func (r *Repo) ListHistory(ctx context.Context, q HistoryQuery) ([]engine.TrainingSample, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = engine.HistoryLimit
	}

	query := `
		SELECT site_type, electricity_bill::float8, COALESCE(chosen_scenario_category, ''),
			actual_savings_percent::float8, implementation_success
		FROM ai_training_data
		WHERE site_type = $1
			AND electricity_bill BETWEEN $2 AND $3
			AND implementation_success = true
		ORDER BY created_at DESC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, query, q.SiteType, q.BillMin, q.BillMax, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	samples := make([]engine.TrainingSample, 0)
	for rows.Next() {
		var s engine.TrainingSample
		if err := rows.Scan(&s.SiteType, &s.ElectricityBill, &s.ChosenScenarioCategory, &s.ActualSavingsPercent, &s.ImplementationSuccess); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return samples, nil
}

// CreatePrediction stores a prediction and returns its id.
func (r *Repo) CreatePrediction(ctx context.Context, params CreatePredictionParams) (uuid.UUID, error) {
	query := `
		INSERT INTO ai_predictions (
			lead_id, input_data, predicted_scenario_id, predicted_savings,
			predicted_roi_months, confidence_score
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.LeadID, params.InputData, params.PredictedScenarioID,
		params.PredictedSavings, params.PredictedROIMonths, params.ConfidenceScore,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create prediction: %w", err)
	}
	return id, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	msgNoActiveModel = "aucun modèle actif"
	msgModelNotFound = "modèle introuvable"
	msgLeadNotFound  = "lead introuvable"
)

// Repo implements TrainingRepository with pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new training repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ TrainingRepository = (*Repo)(nil)

const sampleColumns = `id, site_type, electricity_bill::float8, installation_power::float8,
	measurement_points, budget::float8, zones_count, specific_needs, chosen_scenario_category,
	actual_savings_percent::float8, implementation_success, customer_satisfaction, roi_months, created_at`

func scanSample(row pgx.Row) (Sample, error) {
	var s Sample
	err := row.Scan(&s.ID, &s.SiteType, &s.ElectricityBill, &s.InstallationPower,
		&s.MeasurementPoints, &s.Budget, &s.ZonesCount, &s.SpecificNeeds, &s.ChosenScenarioCategory,
		&s.ActualSavingsPercent, &s.ImplementationSuccess, &s.CustomerSatisfaction, &s.ROIMonths, &s.CreatedAt)
	return s, err
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertSample(ctx context.Context, q execQuerier, s Sample) (Sample, error) {
	needs := s.SpecificNeeds
	if needs == nil {
		needs = []string{}
	}
	row := q.QueryRow(ctx, `
		INSERT INTO ai_training_data (
			site_type, electricity_bill, installation_power, measurement_points, budget,
			zones_count, specific_needs, chosen_scenario_category, actual_savings_percent,
			implementation_success, customer_satisfaction, roi_months
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+sampleColumns,
		s.SiteType, s.ElectricityBill, s.InstallationPower, s.MeasurementPoints, s.Budget,
		s.ZonesCount, needs, s.ChosenScenarioCategory, s.ActualSavingsPercent,
		s.ImplementationSuccess, s.CustomerSatisfaction, s.ROIMonths)
	return scanSample(row)
}

// InsertSample stores one training row.
func (r *Repo) InsertSample(ctx context.Context, s Sample) (Sample, error) {
	created, err := insertSample(ctx, r.pool, s)
	if err != nil {
		return Sample{}, fmt.Errorf("insert training sample: %w", err)
	}
	return created, nil
}

// ListSamples returns samples newest first. A limit of 0 returns every row.
func (r *Repo) ListSamples(ctx context.Context, limit int) ([]Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM ai_training_data ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list training samples: %w", err)
	}
	defer rows.Close()

	samples := make([]Sample, 0)
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, fmt.Errorf("scan training sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training samples: %w", err)
	}
	return samples, nil
}

func (r *Repo) CountSamples(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ai_training_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count training samples: %w", err)
	}
	return n, nil
}

func (r *Repo) CountSamplesSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ai_training_data WHERE created_at >= $1`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count recent training samples: %w", err)
	}
	return n, nil
}

const modelColumns = `id, model_version, accuracy::float8, precision_score::float8, recall_score::float8,
	f1_score::float8, mean_absolute_error::float8, training_samples, last_trained_at, is_active, created_at`

func scanModel(row pgx.Row) (Model, error) {
	var m Model
	err := row.Scan(&m.ID, &m.ModelVersion, &m.Accuracy, &m.Precision, &m.Recall,
		&m.F1, &m.MeanAbsoluteError, &m.TrainingSamples, &m.LastTrainedAt, &m.IsActive, &m.CreatedAt)
	return m, err
}

func (r *Repo) ActiveModel(ctx context.Context) (Model, error) {
	m, err := scanModel(r.pool.QueryRow(ctx, `
		SELECT `+modelColumns+`
		FROM ai_model_metrics
		WHERE is_active = true
		ORDER BY last_trained_at DESC
		LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return Model{}, apperr.NotFound(msgNoActiveModel)
	}
	if err != nil {
		return Model{}, fmt.Errorf("active model: %w", err)
	}
	return m, nil
}

func (r *Repo) RecentModels(ctx context.Context, limit int) ([]Model, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+modelColumns+`
		FROM ai_model_metrics
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent models: %w", err)
	}
	defer rows.Close()

	models := make([]Model, 0)
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate models: %w", err)
	}
	return models, nil
}

func (r *Repo) CountModels(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ai_model_metrics`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count models: %w", err)
	}
	return n, nil
}

// CreateActiveModel deactivates every model and inserts the new one as active.
func (r *Repo) CreateActiveModel(ctx context.Context, p CreateModelParams) (Model, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Model{}, fmt.Errorf("begin create model: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE ai_model_metrics SET is_active = false WHERE is_active = true`); err != nil {
		return Model{}, fmt.Errorf("deactivate models: %w", err)
	}

	m, err := scanModel(tx.QueryRow(ctx, `
		INSERT INTO ai_model_metrics (
			model_version, accuracy, precision_score, recall_score, f1_score,
			mean_absolute_error, training_samples, last_trained_at, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		RETURNING `+modelColumns,
		p.ModelVersion, p.Accuracy, p.Precision, p.Recall, p.F1,
		p.MeanAbsoluteError, p.TrainingSamples, p.TrainedAt))
	if err != nil {
		return Model{}, fmt.Errorf("insert model: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Model{}, fmt.Errorf("commit create model: %w", err)
	}
	return m, nil
}

// ActivateModel makes version the only active model.
func (r *Repo) ActivateModel(ctx context.Context, version string) (Model, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Model{}, fmt.Errorf("begin activate model: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ai_model_metrics WHERE model_version = $1)`, version).Scan(&exists); err != nil {
		return Model{}, fmt.Errorf("lookup model: %w", err)
	}
	if !exists {
		return Model{}, apperr.NotFound(msgModelNotFound)
	}

	if _, err := tx.Exec(ctx, `UPDATE ai_model_metrics SET is_active = false WHERE is_active = true`); err != nil {
		return Model{}, fmt.Errorf("deactivate models: %w", err)
	}

	m, err := scanModel(tx.QueryRow(ctx, `
		UPDATE ai_model_metrics SET is_active = true
		WHERE model_version = $1
		RETURNING `+modelColumns, version))
	if err != nil {
		return Model{}, fmt.Errorf("activate model: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Model{}, fmt.Errorf("commit activate model: %w", err)
	}
	return m, nil
}

// RecentOutcomes returns the latest predictions that have an observed saving.
func (r *Repo) RecentOutcomes(ctx context.Context, limit int) ([]PredictionOutcome, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT predicted_savings::float8, actual_savings::float8
		FROM ai_predictions
		WHERE actual_savings IS NOT NULL
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent outcomes: %w", err)
	}
	defer rows.Close()

	out := make([]PredictionOutcome, 0)
	for rows.Next() {
		var o PredictionOutcome
		if err := rows.Scan(&o.PredictedSavings, &o.ActualSavings); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}

// GetLeadSnapshot reads a lead's questionnaire and the category of its chosen scenario.
func (r *Repo) GetLeadSnapshot(ctx context.Context, leadID uuid.UUID) (LeadSnapshot, error) {
	var snap LeadSnapshot
	err := r.pool.QueryRow(ctx, `
		SELECT l.form_data, s.category
		FROM leads l
		LEFT JOIN scenarios s ON s.id = l.scenario_id
		WHERE l.id = $1`, leadID).Scan(&snap.FormData, &snap.ScenarioCategory)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeadSnapshot{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return LeadSnapshot{}, fmt.Errorf("get lead snapshot: %w", err)
	}
	return snap, nil
}

// RecordProjectOutcome updates the lead's latest prediction with the observed
// result and stores the project as a training sample, atomically.
func (r *Repo) RecordProjectOutcome(ctx context.Context, leadID uuid.UUID, outcome ProjectOutcome, sample Sample) (Sample, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("begin record outcome: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE ai_predictions
		SET actual_scenario_id = $2, actual_savings = $3, feedback_score = $4, updated_at = now()
		WHERE id = (
			SELECT id FROM ai_predictions
			WHERE lead_id = $1
			ORDER BY created_at DESC
			LIMIT 1
		)`, leadID, outcome.ActualScenarioID, outcome.SavingsPercent, outcome.Satisfaction)
	if err != nil {
		return Sample{}, fmt.Errorf("update prediction outcome: %w", err)
	}

	created, err := insertSample(ctx, tx, sample)
	if err != nil {
		return Sample{}, fmt.Errorf("insert collected sample: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Sample{}, fmt.Errorf("commit record outcome: %w", err)
	}
	return created, nil
}

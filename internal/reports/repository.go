package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is a row of generated_reports.
type Record struct {
	ID         uuid.UUID  `json:"id"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	ScenarioID *uuid.UUID `json:"scenarioId,omitempty"`
	Email      string     `json:"email"`
	FileName   string     `json:"fileName"`
	FileKey    *string    `json:"fileKey,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// InsertParams describes a generated report to record.
type InsertParams struct {
	LeadID     *uuid.UUID
	ScenarioID uuid.UUID
	Email      string
	FileName   string
	FileKey    *string
}

// Store persists generated report metadata.
type Store interface {
	Insert(ctx context.Context, p InsertParams) (Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, p InsertParams) (Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx, `
		INSERT INTO generated_reports (lead_id, scenario_id, email, file_name, file_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, scenario_id, email, file_name, file_key, created_at`,
		p.LeadID, p.ScenarioID, p.Email, p.FileName, p.FileKey,
	).Scan(&rec.ID, &rec.LeadID, &rec.ScenarioID, &rec.Email, &rec.FileName, &rec.FileKey, &rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("insert generated report: %w", err)
	}
	return rec, nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, scenario_id, email, file_name, file_key, created_at
		FROM generated_reports
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list generated reports: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var rec Record
		err := row.Scan(&rec.ID, &rec.LeadID, &rec.ScenarioID, &rec.Email, &rec.FileName, &rec.FileKey, &rec.CreatedAt)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan generated reports: %w", err)
	}
	return items, nil
}

var _ Store = (*Repository)(nil)

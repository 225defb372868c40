package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type Interaction struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	InteractionType string
	Notes           string
	AdminUserID     *uuid.UUID
	CreatedAt       time.Time
}

type CreateInteractionParams struct {
	LeadID          uuid.UUID
	InteractionType string
	Notes           string
	AdminUserID     *uuid.UUID
}

func (r *Repository) CreateInteraction(ctx context.Context, params CreateInteractionParams) (Interaction, error) {
	var item Interaction
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_interactions (lead_id, interaction_type, notes, admin_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, interaction_type, notes, admin_user_id, created_at
	`, params.LeadID, params.InteractionType, params.Notes, params.AdminUserID).Scan(
		&item.ID, &item.LeadID, &item.InteractionType, &item.Notes, &item.AdminUserID, &item.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Interaction{}, apperr.NotFound(msgLeadNotFound)
		}
		return Interaction{}, fmt.Errorf("create interaction: %w", err)
	}

	if _, err := r.pool.Exec(ctx, `UPDATE leads SET updated_at = now() WHERE id = $1`, params.LeadID); err != nil {
		return Interaction{}, fmt.Errorf("touch lead: %w", err)
	}
	return item, nil
}

// ListInteractions returns the contact history of a lead, newest first.
func (r *Repository) ListInteractions(ctx context.Context, leadID uuid.UUID) ([]Interaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, interaction_type, notes, admin_user_id, created_at
		FROM lead_interactions
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	items := make([]Interaction, 0)
	for rows.Next() {
		var item Interaction
		if err := rows.Scan(&item.ID, &item.LeadID, &item.InteractionType, &item.Notes, &item.AdminUserID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return items, nil
}

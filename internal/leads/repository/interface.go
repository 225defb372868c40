package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	ListUpdatedSince(ctx context.Context, since *time.Time, after *UpdatedCursor, limit int) ([]Lead, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InteractionStore records and lists the contact history of a lead.
type InteractionStore interface {
	CreateInteraction(ctx context.Context, params CreateInteractionParams) (Interaction, error)
	ListInteractions(ctx context.Context, leadID uuid.UUID) ([]Interaction, error)
}

// LeadsRepository combines every lead persistence concern.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	InteractionStore
}

// Compile-time check that Repository implements LeadsRepository.
var _ LeadsRepository = (*Repository)(nil)

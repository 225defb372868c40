package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Criteria is the saved lead filter of a segment. Empty fields do not filter.
type Criteria struct {
	MinScore     *int     `json:"min_score,omitempty"`
	Status       []string `json:"status,omitempty"`
	MinBudget    *float64 `json:"min_budget,omitempty"`
	SiteTypes    []string `json:"site_types,omitempty"`
	InactiveDays *int     `json:"inactive_days,omitempty"`
}

// Segment is a named, saved lead filter.
type Segment struct {
	ID          uuid.UUID
	Name        string
	Description string
	Criteria    Criteria
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Member is a lead matching a segment.
type Member struct {
	ID                   uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CompanyName          string
	ContactName          string
	Email                string
	Phone                string
	SiteType             string
	ElectricityBill      float64
	InstallationPower    *float64
	MeasurementPoints    *int
	Budget               *float64
	Status               string
	Score                int
	RecommendedScenarios json.RawMessage
	SpecificNeeds        []string
	ZonesToMonitor       []string
}

type CreateParams struct {
	Name        string
	Description string
	Criteria    Criteria
}

type UpdateParams struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Criteria    *Criteria
}

// SegmentStore persists segment definitions.
type SegmentStore interface {
	Create(ctx context.Context, params CreateParams) (Segment, error)
	GetByID(ctx context.Context, id uuid.UUID) (Segment, error)
	List(ctx context.Context) ([]Segment, error)
	Update(ctx context.Context, params UpdateParams) (Segment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemberReader evaluates criteria against the leads table.
type MemberReader interface {
	CountLeads(ctx context.Context, criteria Criteria, now time.Time) (int, error)
	ListLeads(ctx context.Context, criteria Criteria, now time.Time, offset, limit int) ([]Member, error)
}

// SegmentsRepository is the full data access surface of the module.
type SegmentsRepository interface {
	SegmentStore
	MemberReader
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusLost      = "lost"
)

// Interaction types.
const (
	InteractionCall         = "call"
	InteractionEmail        = "email"
	InteractionMeeting      = "meeting"
	InteractionNote         = "note"
	InteractionStatusChange = "status_change"
)

const msgLeadNotFound = "lead introuvable"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                   uuid.UUID
	CompanyName          string
	ContactName          string
	Email                string
	Phone                string
	SiteType             string
	ElectricityBill      float64
	InstallationPower    *float64
	MeasurementPoints    *int
	Budget               *float64
	ZonesToMonitor       []string
	SpecificNeeds        []string
	Status               string
	Source               string
	ScenarioID           *uuid.UUID
	RecommendedScenarios json.RawMessage
	FormData             json.RawMessage
	Score                int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type CreateLeadParams struct {
	CompanyName          string
	ContactName          string
	Email                string
	Phone                string
	SiteType             string
	ElectricityBill      float64
	InstallationPower    *float64
	MeasurementPoints    *int
	Budget               *float64
	ZonesToMonitor       []string
	SpecificNeeds        []string
	Source               string
	ScenarioID           *uuid.UUID
	RecommendedScenarios json.RawMessage
	FormData             json.RawMessage
	Score                int
}

// UpdateStatusParams changes the status and records the matching interaction in one transaction.
type UpdateStatusParams struct {
	ID          uuid.UUID
	Status      string
	Notes       string
	AdminUserID *uuid.UUID
}

type ListParams struct {
	Status    string
	SiteType  string
	Search    string
	MinScore  *int
	Offset    int
	Limit     int
	SortBy    string
	SortOrder string
}

const leadColumns = `
	l.id, l.company_name, l.contact_name, l.email, l.phone, l.site_type,
	l.electricity_bill::float8, l.installation_power::float8, l.measurement_points, l.budget::float8,
	l.zones_to_monitor, l.specific_needs, l.status, l.source, l.scenario_id,
	l.recommended_scenarios, l.form_data, l.score, l.created_at, l.updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.CompanyName, &lead.ContactName, &lead.Email, &lead.Phone, &lead.SiteType,
		&lead.ElectricityBill, &lead.InstallationPower, &lead.MeasurementPoints, &lead.Budget,
		&lead.ZonesToMonitor, &lead.SpecificNeeds, &lead.Status, &lead.Source, &lead.ScenarioID,
		&lead.RecommendedScenarios, &lead.FormData, &lead.Score, &lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	zones := params.ZonesToMonitor
	if zones == nil {
		zones = []string{}
	}
	needs := params.SpecificNeeds
	if needs == nil {
		needs = []string{}
	}
	formData := params.FormData
	if len(formData) == 0 {
		formData = json.RawMessage(`{}`)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads AS l (
			company_name, contact_name, email, phone, site_type,
			electricity_bill, installation_power, measurement_points, budget,
			zones_to_monitor, specific_needs, source, scenario_id,
			recommended_scenarios, form_data, score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+leadColumns,
		params.CompanyName, params.ContactName, params.Email, params.Phone, params.SiteType,
		params.ElectricityBill, params.InstallationPower, params.MeasurementPoints, params.Budget,
		zones, needs, params.Source, params.ScenarioID,
		params.RecommendedScenarios, formData, params.Score,
	)
	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads l WHERE l.id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads l WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	sortColumn := mapLeadSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads l
		WHERE %s
		ORDER BY %s %s, l.id
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// UpdatedCursor is a keyset position in the (updated_at, id) order.
type UpdatedCursor struct {
	UpdatedAt time.Time
	ID        uuid.UUID
}

// ListUpdatedSince returns leads changed after since, oldest change first.
// A nil since returns the oldest leads. A non-nil after resumes past that lead.
func (r *Repository) ListUpdatedSince(ctx context.Context, since *time.Time, after *UpdatedCursor, limit int) ([]Lead, error) {
	var afterAt *time.Time
	afterID := uuid.Nil
	if after != nil {
		afterAt = &after.UpdatedAt
		afterID = after.ID
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		WHERE ($1::timestamptz IS NULL OR l.updated_at > $1)
		  AND ($2::timestamptz IS NULL OR (l.updated_at, l.id) > ($2, $3::uuid))
		ORDER BY l.updated_at ASC, l.id ASC
		LIMIT $4`, since, afterAt, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads updated since: %w", err)
	}
	return collectLeads(rows)
}

func collectLeads(rows pgx.Rows) ([]Lead, error) {
	defer rows.Close()
	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != "" {
		addEquals("l.status", params.Status)
	}
	if params.SiteType != "" {
		addEquals("l.site_type", params.SiteType)
	}
	if params.MinScore != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.score >= $%d", argIdx))
		args = append(args, *params.MinScore)
		argIdx++
	}
	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(l.company_name ILIKE $%d OR l.contact_name ILIKE $%d OR l.email ILIKE $%d OR l.phone ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, searchPattern)
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "companyName":
		return "l.company_name"
	case "contactName":
		return "l.contact_name"
	case "electricityBill":
		return "l.electricity_bill"
	case "score":
		return "l.score"
	case "status":
		return "l.status"
	case "updatedAt":
		return "l.updated_at"
	default:
		return "l.created_at"
	}
}

func (r *Repository) UpdateStatus(ctx context.Context, params UpdateStatusParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin status update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		UPDATE leads AS l SET status = $2, updated_at = now()
		WHERE l.id = $1
		RETURNING `+leadColumns, params.ID, params.Status)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return Lead{}, fmt.Errorf("update lead status: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO lead_interactions (lead_id, interaction_type, notes, admin_user_id)
		VALUES ($1, $2, $3, $4)`,
		params.ID, InteractionStatusChange, params.Notes, params.AdminUserID,
	); err != nil {
		return Lead{}, fmt.Errorf("record status change: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit status update: %w", err)
	}
	return lead, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(msgLeadNotFound)
	}
	return nil
}

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

const msgSegmentNotFound = "segment introuvable"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ SegmentsRepository = (*Repository)(nil)

const segmentColumns = `id, name, description, criteria, created_at, updated_at`

func scanSegment(row pgx.Row) (Segment, error) {
	var s Segment
	var raw []byte
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &raw, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return Segment{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Criteria); err != nil {
			return Segment{}, fmt.Errorf("decode criteria: %w", err)
		}
	}
	return s, nil
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Segment, error) {
	criteria, err := json.Marshal(params.Criteria)
	if err != nil {
		return Segment{}, fmt.Errorf("encode criteria: %w", err)
	}

	s, err := scanSegment(r.pool.QueryRow(ctx, `
		INSERT INTO lead_segments (name, description, criteria)
		VALUES ($1, $2, $3)
		RETURNING `+segmentColumns, params.Name, params.Description, criteria))
	if err != nil {
		return Segment{}, fmt.Errorf("create segment: %w", err)
	}
	return s, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Segment, error) {
	s, err := scanSegment(r.pool.QueryRow(ctx, `SELECT `+segmentColumns+` FROM lead_segments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Segment{}, apperr.NotFound(msgSegmentNotFound)
	}
	if err != nil {
		return Segment{}, fmt.Errorf("get segment: %w", err)
	}
	return s, nil
}

func (r *Repository) List(ctx context.Context) ([]Segment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+segmentColumns+` FROM lead_segments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	items := make([]Segment, 0)
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}
	return items, nil
}

func (r *Repository) Update(ctx context.Context, params UpdateParams) (Segment, error) {
	var criteria []byte
	if params.Criteria != nil {
		encoded, err := json.Marshal(params.Criteria)
		if err != nil {
			return Segment{}, fmt.Errorf("encode criteria: %w", err)
		}
		criteria = encoded
	}

	s, err := scanSegment(r.pool.QueryRow(ctx, `
		UPDATE lead_segments SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			criteria = COALESCE($4, criteria),
			updated_at = now()
		WHERE id = $1
		RETURNING `+segmentColumns, params.ID, params.Name, params.Description, criteria))
	if errors.Is(err, pgx.ErrNoRows) {
		return Segment{}, apperr.NotFound(msgSegmentNotFound)
	}
	if err != nil {
		return Segment{}, fmt.Errorf("update segment: %w", err)
	}
	return s, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lead_segments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete segment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgSegmentNotFound)
	}
	return nil
}

func (r *Repository) CountLeads(ctx context.Context, criteria Criteria, now time.Time) (int, error) {
	where, args, _ := BuildCriteriaWhere(criteria, now)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads l WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count segment leads: %w", err)
	}
	return total, nil
}

func (r *Repository) ListLeads(ctx context.Context, criteria Criteria, now time.Time, offset, limit int) ([]Member, error) {
	where, args, argIdx := BuildCriteriaWhere(criteria, now)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT l.id, l.created_at, l.updated_at, l.company_name, l.contact_name, l.email, l.phone, l.site_type,
			l.electricity_bill::float8, l.installation_power::float8, l.measurement_points, l.budget::float8,
			l.status, l.score, l.recommended_scenarios, l.specific_needs, l.zones_to_monitor
		FROM leads l
		WHERE %s
		ORDER BY l.score DESC, l.created_at DESC
		LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list segment leads: %w", err)
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		var m Member
		if err := rows.Scan(
			&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.CompanyName, &m.ContactName, &m.Email, &m.Phone, &m.SiteType,
			&m.ElectricityBill, &m.InstallationPower, &m.MeasurementPoints, &m.Budget,
			&m.Status, &m.Score, &m.RecommendedScenarios, &m.SpecificNeeds, &m.ZonesToMonitor,
		); err != nil {
			return nil, fmt.Errorf("scan segment lead: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segment leads: %w", err)
	}
	return members, nil
}

// BuildCriteriaWhere renders criteria as a WHERE clause over the leads alias l.
// It returns the clause, its arguments and the next placeholder index.
func BuildCriteriaWhere(criteria Criteria, now time.Time) (string, []interface{}, int) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	add := func(format string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(format, argIdx))
		args = append(args, value)
		argIdx++
	}

	if criteria.MinScore != nil {
		add("l.score >= $%d", *criteria.MinScore)
	}
	if len(criteria.Status) > 0 {
		add("l.status = ANY($%d)", criteria.Status)
	}
	if criteria.MinBudget != nil {
		add("COALESCE(l.budget, 0) >= $%d", *criteria.MinBudget)
	}
	if len(criteria.SiteTypes) > 0 {
		add("l.site_type = ANY($%d)", criteria.SiteTypes)
	}
	if criteria.InactiveDays != nil {
		add("l.updated_at <= $%d", now.AddDate(0, 0, -*criteria.InactiveDays))
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

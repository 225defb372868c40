package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sync frequencies.
const (
	FrequencyRealtime = "realtime"
	FrequencyHourly   = "hourly"
	FrequencyDaily    = "daily"
)

const msgIntegrationNotFound = "intégration introuvable"

// Integration is an outbound CRM webhook.
type Integration struct {
	ID            uuid.UUID
	Name          string
	WebhookURL    string
	IsActive      bool
	SyncFrequency string
	LastSync      *time.Time
	Config        json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateParams struct {
	Name          string
	WebhookURL    string
	IsActive      bool
	SyncFrequency string
	Config        json.RawMessage
}

type UpdateParams struct {
	ID            uuid.UUID
	Name          *string
	WebhookURL    *string
	SyncFrequency *string
	Config        json.RawMessage
}

// IntegrationStore is the persistence surface used by the service.
type IntegrationStore interface {
	Create(ctx context.Context, params CreateParams) (Integration, error)
	GetByID(ctx context.Context, id uuid.UUID) (Integration, error)
	List(ctx context.Context) ([]Integration, error)
	ListActive(ctx context.Context, frequency string) ([]Integration, error)
	Update(ctx context.Context, params UpdateParams) (Integration, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (Integration, error)
	TouchLastSync(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository provides pgx access to crm_integrations.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ IntegrationStore = (*Repository)(nil)

const integrationColumns = `id, name, webhook_url, is_active, sync_frequency, last_sync, config, created_at, updated_at`

func scanIntegration(row pgx.Row) (Integration, error) {
	var i Integration
	err := row.Scan(&i.ID, &i.Name, &i.WebhookURL, &i.IsActive, &i.SyncFrequency, &i.LastSync, &i.Config, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Integration, error) {
	config := params.Config
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}

	i, err := scanIntegration(r.pool.QueryRow(ctx, `
		INSERT INTO crm_integrations (name, webhook_url, is_active, sync_frequency, config)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+integrationColumns,
		params.Name, params.WebhookURL, params.IsActive, params.SyncFrequency, config))
	if err != nil {
		return Integration{}, fmt.Errorf("create integration: %w", err)
	}
	return i, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Integration, error) {
	i, err := scanIntegration(r.pool.QueryRow(ctx, `SELECT `+integrationColumns+` FROM crm_integrations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Integration{}, apperr.NotFound(msgIntegrationNotFound)
	}
	if err != nil {
		return Integration{}, fmt.Errorf("get integration: %w", err)
	}
	return i, nil
}

func (r *Repository) List(ctx context.Context) ([]Integration, error) {
	return r.query(ctx, `SELECT `+integrationColumns+` FROM crm_integrations ORDER BY created_at DESC`)
}

// ListActive returns the active integrations with the given frequency.
func (r *Repository) ListActive(ctx context.Context, frequency string) ([]Integration, error) {
	return r.query(ctx, `
		SELECT `+integrationColumns+`
		FROM crm_integrations
		WHERE is_active = true AND sync_frequency = $1
		ORDER BY created_at`, frequency)
}

func (r *Repository) query(ctx context.Context, sql string, args ...interface{}) ([]Integration, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	defer rows.Close()

	items := make([]Integration, 0)
	for rows.Next() {
		i, err := scanIntegration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan integration: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate integrations: %w", err)
	}
	return items, nil
}

func (r *Repository) Update(ctx context.Context, params UpdateParams) (Integration, error) {
	var config []byte
	if len(params.Config) > 0 {
		config = params.Config
	}

	i, err := scanIntegration(r.pool.QueryRow(ctx, `
		UPDATE crm_integrations SET
			name = COALESCE($2, name),
			webhook_url = COALESCE($3, webhook_url),
			sync_frequency = COALESCE($4, sync_frequency),
			config = COALESCE($5, config),
			updated_at = now()
		WHERE id = $1
		RETURNING `+integrationColumns,
		params.ID, params.Name, params.WebhookURL, params.SyncFrequency, config))
	if errors.Is(err, pgx.ErrNoRows) {
		return Integration{}, apperr.NotFound(msgIntegrationNotFound)
	}
	if err != nil {
		return Integration{}, fmt.Errorf("update integration: %w", err)
	}
	return i, nil
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (Integration, error) {
	i, err := scanIntegration(r.pool.QueryRow(ctx, `
		UPDATE crm_integrations SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+integrationColumns, id, active))
	if errors.Is(err, pgx.ErrNoRows) {
		return Integration{}, apperr.NotFound(msgIntegrationNotFound)
	}
	if err != nil {
		return Integration{}, fmt.Errorf("toggle integration: %w", err)
	}
	return i, nil
}

func (r *Repository) TouchLastSync(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := r.pool.Exec(ctx, `UPDATE crm_integrations SET last_sync = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("touch last sync: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM crm_integrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete integration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgIntegrationNotFound)
	}
	return nil
}
